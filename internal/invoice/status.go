package invoice

import (
	"time"

	"github.com/shopspring/decimal"
	"invoicing/pkg/models"
)

// DeriveStatus computes the payment status from scratch. It keeps no history:
// Overdue appears purely because now has passed dueDate.
func DeriveStatus(payments []models.Payment, totalGross decimal.Decimal, dueDate, now time.Time) models.PaymentStatus {
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}

	switch {
	case paid.GreaterThanOrEqual(totalGross):
		return models.Paid
	case paid.IsPositive():
		return models.PartiallyPaid
	case now.After(dueDate):
		return models.Overdue
	default:
		return models.Unpaid
	}
}

func (s *Service) refreshStatus(inv *models.Invoice) {
	inv.PaymentStatus = DeriveStatus(inv.Payments, inv.TotalGross, inv.DueDate, s.now())
}
