package invoice

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"invoicing/pkg/models"
)

// AddItem appends an item and recomputes the totals. Missing fields get their
// defaults: a new id, quantity 1 and the configured default VAT rate.
func (s *Service) AddItem(ctx context.Context, inv *models.Invoice, item models.InvoiceItem) (*models.InvoiceItem, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Quantity.IsZero() {
		item.Quantity = decimal.NewFromInt(1)
	}
	if item.VatRate == "" {
		settings, err := s.settings.Get(ctx)
		if err != nil {
			return nil, &InvoiceError{Op: "AddItem", InvoiceID: inv.ID, Err: err}
		}
		item.VatRate = settings.DefaultVatRate
	}

	inv.Items = append(inv.Items, item)
	s.recalculate(inv)
	return &inv.Items[len(inv.Items)-1], nil
}

// UpdateItem replaces the item with the same id and recomputes the totals.
func (s *Service) UpdateItem(inv *models.Invoice, item models.InvoiceItem) error {
	for i := range inv.Items {
		if inv.Items[i].ID == item.ID {
			inv.Items[i] = item
			s.recalculate(inv)
			return nil
		}
	}
	return &InvoiceError{Op: "UpdateItem", InvoiceID: inv.ID, Err: ErrItemNotFound}
}

// RemoveItem deletes the item and recomputes the totals.
func (s *Service) RemoveItem(inv *models.Invoice, itemID string) error {
	for i := range inv.Items {
		if inv.Items[i].ID == itemID {
			inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
			s.recalculate(inv)
			return nil
		}
	}
	return &InvoiceError{Op: "RemoveItem", InvoiceID: inv.ID, Err: ErrItemNotFound}
}

// AddPayment records a payment and recomputes the payment status. The payment
// date defaults to now and the method to the invoice's payment method.
func (s *Service) AddPayment(inv *models.Invoice, payment models.Payment) (*models.Payment, error) {
	if !payment.Amount.IsPositive() {
		return nil, &InvoiceError{
			Op:        "AddPayment",
			InvoiceID: inv.ID,
			Err:       NewValidationError("amount", payment.Amount.String(), "payment amount must be positive"),
		}
	}
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.Date.IsZero() {
		payment.Date = s.now()
	}
	if payment.Method == "" {
		payment.Method = inv.PaymentMethod
	}

	inv.Payments = append(inv.Payments, payment)
	s.refreshStatus(inv)

	s.log.Debug().
		Str("invoice_id", inv.ID).
		Str("amount", payment.Amount.String()).
		Str("status", inv.PaymentStatus.String()).
		Msg("Payment recorded")
	return &inv.Payments[len(inv.Payments)-1], nil
}

// RemovePayment deletes a payment and recomputes the payment status.
func (s *Service) RemovePayment(inv *models.Invoice, paymentID string) error {
	for i := range inv.Payments {
		if inv.Payments[i].ID == paymentID {
			inv.Payments = append(inv.Payments[:i], inv.Payments[i+1:]...)
			s.refreshStatus(inv)
			return nil
		}
	}
	return &InvoiceError{Op: "RemovePayment", InvoiceID: inv.ID, Err: ErrPaymentNotFound}
}

// recalculate runs the totals engine and the status derivation after an item change.
func (s *Service) recalculate(inv *models.Invoice) {
	if err := RecalculateTotals(inv); err != nil {
		s.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("Invalid VAT rate, item computed without VAT")
	}
	s.refreshStatus(inv)
}
