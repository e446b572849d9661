package invoice

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"invoicing/pkg/models"
)

// ParseVatRate parses a percentage string such as "23%" or "8" into its
// numeric percentage.
func ParseVatRate(rate string) (decimal.Decimal, error) {
	s := strings.TrimSpace(rate)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty VAT rate")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid VAT rate %q: %w", rate, err)
	}
	return d, nil
}

// CalculateItem fills the item's net, VAT and gross totals. An unparseable VAT
// rate is computed as 0% and returned as a *ValidationError.
func CalculateItem(item *models.InvoiceItem) error {
	var rateErr error
	rate, err := ParseVatRate(item.VatRate)
	if err != nil {
		rate = decimal.Zero
		rateErr = NewValidationError("vat_rate", item.VatRate, err.Error())
	}

	item.TotalNet = item.Quantity.Mul(item.NetPrice)
	item.TotalVat = item.TotalNet.Mul(rate.Shift(-2))
	item.TotalGross = item.TotalNet.Add(item.TotalVat)
	return rateErr
}

// RecalculateTotals recomputes every item and sets the invoice totals to the
// exact sums of the item totals. Totals are always written; the returned error
// joins the VAT rate problems found along the way.
func RecalculateTotals(inv *models.Invoice) error {
	net, vat := decimal.Zero, decimal.Zero

	var errs []error
	for i := range inv.Items {
		if err := CalculateItem(&inv.Items[i]); err != nil {
			errs = append(errs, err)
		}
		net = net.Add(inv.Items[i].TotalNet)
		vat = vat.Add(inv.Items[i].TotalVat)
	}

	inv.TotalNet = net
	inv.TotalVat = vat
	inv.TotalGross = net.Add(vat)
	return errors.Join(errs...)
}
