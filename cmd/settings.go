package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"invoicing/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change application settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings as JSON",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change settings; only the given flags are updated",
	Example: `  # Yearly numbering with a custom prefix
  invoicing settings set --prefix INV --yearly=true

  # Purge invoices older than 360 days
  invoicing settings set --retention-days 360`,
	Args: cobra.NoArgs,
	RunE: runSettingsSet,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd)

	f := settingsSetCmd.Flags()
	f.String("company-name", "", "Company name")
	f.String("company-address", "", "Company address")
	f.String("company-tax-id", "", "Company tax id")
	f.String("company-email", "", "Company e-mail")
	f.String("company-phone", "", "Company phone")
	f.String("company-bank-account", "", "Bank account printed on invoices")
	f.String("company-contact", "", "Contact person")
	f.String("company-logo", "", "Path to the company logo")
	f.String("prefix", "", "Invoice number prefix")
	f.Bool("yearly", false, "Reset numbering every year instead of every month")
	f.StringSlice("vat-rates", nil, "Available VAT rates, e.g. 23%,8%,5%,0%")
	f.String("vat-rate", "", "Default VAT rate")
	f.StringSlice("payment-methods", nil, "Available payment methods")
	f.String("payment-method", "", "Default payment method")
	f.Int("payment-days", 0, "Default days until an invoice is due")
	f.StringSlice("currencies", nil, "Available currencies")
	f.String("currency", "", "Default currency")
	f.Int("retention-days", 0, fmt.Sprintf("Delete invoices older than this many days, 0 keeps them (offered: %s)", retentionOptions()))
}

func retentionOptions() string {
	opts := make([]string, len(settings.RetentionOptions))
	for i, d := range settings.RetentionOptions {
		opts[i] = fmt.Sprint(d)
	}
	return strings.Join(opts, ", ")
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(appConfig)
	if err != nil {
		return err
	}

	s, err := a.settings.Get(cmd.Context())
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), s)
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	a, err := newApp(appConfig)
	if err != nil {
		return err
	}

	s, err := a.settings.Get(cmd.Context())
	if err != nil {
		return err
	}

	f := cmd.Flags()
	strFlags := map[string]*string{
		"company-name":         &s.CompanyName,
		"company-address":      &s.CompanyAddress,
		"company-tax-id":       &s.CompanyTaxID,
		"company-email":        &s.CompanyEmail,
		"company-phone":        &s.CompanyPhone,
		"company-bank-account": &s.CompanyBankAccount,
		"company-contact":      &s.CompanyContactPerson,
		"company-logo":         &s.CompanyLogoPath,
		"prefix":               &s.InvoicePrefix,
		"vat-rate":             &s.DefaultVatRate,
		"payment-method":       &s.DefaultPaymentMethod,
		"currency":             &s.Currency,
	}
	for name, dst := range strFlags {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}

	sliceFlags := map[string]*[]string{
		"vat-rates":       &s.VatRates,
		"payment-methods": &s.PaymentMethods,
		"currencies":      &s.Currencies,
	}
	for name, dst := range sliceFlags {
		if f.Changed(name) {
			*dst, _ = f.GetStringSlice(name)
		}
	}

	if f.Changed("yearly") {
		s.ResetNumberingYearly, _ = f.GetBool("yearly")
	}
	if f.Changed("payment-days") {
		s.DefaultPaymentDays, _ = f.GetInt("payment-days")
	}
	if f.Changed("retention-days") {
		s.InvoiceRetentionDays, _ = f.GetInt("retention-days")
	}

	if err := a.settings.Save(cmd.Context(), s); err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), s)
}
