package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ReportSummary aggregates invoices over a date range. It is never persisted.
type ReportSummary struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	ClientID  string    `json:"client_id,omitempty"`

	TotalInvoices   int             `json:"total_invoices"`
	TotalAmount     decimal.Decimal `json:"total_amount"` // gross
	TotalNetAmount  decimal.Decimal `json:"total_net_amount"`
	TotalTaxAmount  decimal.Decimal `json:"total_tax_amount"`
	PaidInvoices    int             `json:"paid_invoices"`
	UnpaidInvoices  int             `json:"unpaid_invoices"`
	OverdueInvoices int             `json:"overdue_invoices"`

	ClientBreakdown []ClientReportSummary `json:"client_breakdown"`
}

// ClientReportSummary holds the same metrics for a single client.
type ClientReportSummary struct {
	ClientID        string          `json:"client_id"`
	ClientName      string          `json:"client_name"`
	TotalInvoices   int             `json:"total_invoices"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	TotalNetAmount  decimal.Decimal `json:"total_net_amount"`
	TotalTaxAmount  decimal.Decimal `json:"total_tax_amount"`
	PaidInvoices    int             `json:"paid_invoices"`
	UnpaidInvoices  int             `json:"unpaid_invoices"`
	OverdueInvoices int             `json:"overdue_invoices"`
}

// PaidRatio renders "paid/total".
func (c ClientReportSummary) PaidRatio() string {
	return fmt.Sprintf("%d/%d", c.PaidInvoices, c.TotalInvoices)
}

// PaymentPercentage renders the paid share with one decimal, e.g. "66.7%".
func (c ClientReportSummary) PaymentPercentage() string {
	if c.TotalInvoices == 0 {
		return "0%"
	}
	pct := decimal.NewFromInt(int64(c.PaidInvoices)).
		Div(decimal.NewFromInt(int64(c.TotalInvoices))).
		Mul(decimal.NewFromInt(100))
	return pct.StringFixed(1) + "%"
}
