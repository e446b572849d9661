package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the derived payment state of an invoice.
type PaymentStatus int

const (
	Unpaid PaymentStatus = iota
	PartiallyPaid
	Paid
	Overdue
)

var paymentStatusNames = [...]string{"Unpaid", "PartiallyPaid", "Paid", "Overdue"}

func (s PaymentStatus) String() string {
	if s < 0 || int(s) >= len(paymentStatusNames) {
		return fmt.Sprintf("PaymentStatus(%d)", int(s))
	}
	return paymentStatusNames[s]
}

// MarshalText persists the status by name so documents stay readable.
func (s PaymentStatus) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(paymentStatusNames) {
		return nil, fmt.Errorf("unknown payment status %d", int(s))
	}
	return []byte(paymentStatusNames[s]), nil
}

// UnmarshalText accepts the status name.
func (s *PaymentStatus) UnmarshalText(text []byte) error {
	for i, name := range paymentStatusNames {
		if name == string(text) {
			*s = PaymentStatus(i)
			return nil
		}
	}
	return fmt.Errorf("unknown payment status %q", string(text))
}

// Invoice represents an issued sales invoice with its items and payments.
type Invoice struct {
	// Core identifiers
	ID            string `json:"id"`
	InvoiceNumber string `json:"invoice_number"` // PREFIX/NNN/MM/YYYY or PREFIX/NNN/YYYY

	// Dates
	InvoiceDate time.Time `json:"invoice_date"`
	SellingDate time.Time `json:"selling_date"`
	DueDate     time.Time `json:"due_date"`

	// ClientID is the owning relation; Client is a denormalised snapshot only.
	ClientID string  `json:"client_id"`
	Client   *Client `json:"client,omitempty"`

	Items    []InvoiceItem `json:"items"`
	Payments []Payment     `json:"payments"`

	// Persisted totals, recomputed on every item mutation
	TotalNet   decimal.Decimal `json:"total_net"`
	TotalVat   decimal.Decimal `json:"total_vat"`
	TotalGross decimal.Decimal `json:"total_gross"`

	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentMethod string        `json:"payment_method"`
	Currency      string        `json:"currency,omitempty"`
	BankAccount   string        `json:"bank_account,omitempty"`
	Notes         string        `json:"notes,omitempty"`
}

// InvoiceItem is a single line of an invoice.
type InvoiceItem struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	NetPrice    decimal.Decimal `json:"net_price"`
	VatRate     string          `json:"vat_rate"` // e.g. "23%"
	TotalNet    decimal.Decimal `json:"total_net"`
	TotalVat    decimal.Decimal `json:"total_vat"`
	TotalGross  decimal.Decimal `json:"total_gross"`
}

// Payment records money received against an invoice.
type Payment struct {
	ID     string          `json:"id"`
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
	Notes  string          `json:"notes,omitempty"`
}

func (i *Invoice) GetID() string   { return i.ID }
func (i *Invoice) SetID(id string) { i.ID = id }

// Clone returns a deep copy. Decimals are immutable and shared safely.
func (i *Invoice) Clone() *Invoice {
	if i == nil {
		return nil
	}
	c := *i
	if i.Client != nil {
		c.Client = i.Client.Clone()
	}
	if i.Items != nil {
		c.Items = append([]InvoiceItem(nil), i.Items...)
	}
	if i.Payments != nil {
		c.Payments = append([]Payment(nil), i.Payments...)
	}
	return &c
}

// PaidAmount is the sum of all recorded payments.
func (i *Invoice) PaidAmount() decimal.Decimal {
	paid := decimal.Zero
	for _, p := range i.Payments {
		paid = paid.Add(p.Amount)
	}
	return paid
}

// RemainingAmount is TotalGross minus PaidAmount.
func (i *Invoice) RemainingAmount() decimal.Decimal {
	return i.TotalGross.Sub(i.PaidAmount())
}

// IsPaid reports whether the invoice is fully paid.
func (i *Invoice) IsPaid() bool {
	return i.PaymentStatus == Paid
}

// PaymentDate returns the date of the latest payment of a fully paid invoice.
func (i *Invoice) PaymentDate() *time.Time {
	if i.PaymentStatus != Paid || len(i.Payments) == 0 {
		return nil
	}
	latest := i.Payments[0].Date
	for _, p := range i.Payments[1:] {
		if p.Date.After(latest) {
			latest = p.Date
		}
	}
	return &latest
}
