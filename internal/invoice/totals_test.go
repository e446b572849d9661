package invoice

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"invoicing/pkg/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func TestParseVatRate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "23%", want: "23"},
		{in: "8", want: "8"},
		{in: " 5 % ", want: "5"},
		{in: "0%", want: "0"},
		{in: "7.5%", want: "7.5"},
		{in: "", wantErr: true},
		{in: "%", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "zw", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVatRate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assertDecimal(t, tt.want, got)
		})
	}
}

func TestCalculateItem(t *testing.T) {
	item := models.InvoiceItem{Quantity: dec("2"), NetPrice: dec("100.50"), VatRate: "23%"}
	require.NoError(t, CalculateItem(&item))

	assertDecimal(t, "201.00", item.TotalNet)
	assertDecimal(t, "46.23", item.TotalVat)
	assertDecimal(t, "247.23", item.TotalGross)
}

func TestCalculateItem_KeepsFullPrecision(t *testing.T) {
	item := models.InvoiceItem{Quantity: dec("3"), NetPrice: dec("0.33"), VatRate: "23%"}
	require.NoError(t, CalculateItem(&item))

	assertDecimal(t, "0.99", item.TotalNet)
	assertDecimal(t, "0.2277", item.TotalVat)
	assertDecimal(t, "1.2177", item.TotalGross)
}

func TestCalculateItem_MalformedRateComputesWithoutVat(t *testing.T) {
	item := models.InvoiceItem{Quantity: dec("1"), NetPrice: dec("100"), VatRate: "abc"}
	err := CalculateItem(&item)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "vat_rate", verr.Field)

	assertDecimal(t, "100", item.TotalNet)
	assertDecimal(t, "0", item.TotalVat)
	assertDecimal(t, "100", item.TotalGross)
}

func TestRecalculateTotals_SumsItems(t *testing.T) {
	inv := &models.Invoice{
		Items: []models.InvoiceItem{
			{Quantity: dec("2"), NetPrice: dec("100.50"), VatRate: "23%"},
			{Quantity: dec("1"), NetPrice: dec("49.99"), VatRate: "5%"},
			{Quantity: dec("10"), NetPrice: dec("0.10"), VatRate: "0%"},
		},
	}
	require.NoError(t, RecalculateTotals(inv))

	net, vat := decimal.Zero, decimal.Zero
	for _, item := range inv.Items {
		assert.True(t, item.TotalGross.Equal(item.TotalNet.Add(item.TotalVat)))
		net = net.Add(item.TotalNet)
		vat = vat.Add(item.TotalVat)
	}

	assert.True(t, inv.TotalNet.Equal(net))
	assert.True(t, inv.TotalVat.Equal(vat))
	assert.True(t, inv.TotalGross.Equal(inv.TotalNet.Add(inv.TotalVat)))
	assertDecimal(t, "251.99", inv.TotalNet)
	assertDecimal(t, "48.7295", inv.TotalVat)
}

func TestRecalculateTotals_EmptyInvoice(t *testing.T) {
	inv := &models.Invoice{TotalNet: dec("99"), TotalGross: dec("99")}
	require.NoError(t, RecalculateTotals(inv))

	assert.True(t, inv.TotalNet.IsZero())
	assert.True(t, inv.TotalVat.IsZero())
	assert.True(t, inv.TotalGross.IsZero())
}

func TestRecalculateTotals_ReportsEveryBadRate(t *testing.T) {
	inv := &models.Invoice{
		Items: []models.InvoiceItem{
			{Quantity: dec("1"), NetPrice: dec("10"), VatRate: "abc"},
			{Quantity: dec("1"), NetPrice: dec("10"), VatRate: "23%"},
			{Quantity: dec("1"), NetPrice: dec("10"), VatRate: ""},
		},
	}
	err := RecalculateTotals(inv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "abc")

	assertDecimal(t, "30", inv.TotalNet)
	assertDecimal(t, "2.3", inv.TotalVat)
	assertDecimal(t, "32.3", inv.TotalGross)
}
