package invoice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"invoicing/pkg/models"
)

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	pay := func(amounts ...string) []models.Payment {
		var out []models.Payment
		for _, a := range amounts {
			out = append(out, models.Payment{Amount: dec(a)})
		}
		return out
	}

	tests := []struct {
		name     string
		payments []models.Payment
		gross    string
		due      time.Time
		want     models.PaymentStatus
	}{
		{name: "unpaid before due", gross: "100", due: tomorrow, want: models.Unpaid},
		{name: "unpaid at due instant", gross: "100", due: now, want: models.Unpaid},
		{name: "unpaid after due", gross: "100", due: yesterday, want: models.Overdue},
		{name: "partial before due", payments: pay("40"), gross: "100", due: tomorrow, want: models.PartiallyPaid},
		{name: "partial after due", payments: pay("40"), gross: "100", due: yesterday, want: models.PartiallyPaid},
		{name: "paid in instalments", payments: pay("40", "60"), gross: "100", due: yesterday, want: models.Paid},
		{name: "overpaid", payments: pay("150"), gross: "100", due: tomorrow, want: models.Paid},
		{name: "zero gross", gross: "0", due: yesterday, want: models.Paid},
		{name: "paid to the cent", payments: pay("247.23"), gross: "247.2300", due: tomorrow, want: models.Paid},
		{name: "one cent short", payments: pay("247.22"), gross: "247.23", due: tomorrow, want: models.PartiallyPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(tt.payments, dec(tt.gross), tt.due, now)
			assert.Equal(t, tt.want, got)
		})
	}
}
