package models

// SettingsID is the fixed identifier of the settings document.
const SettingsID = "settings"

// AppSettings holds the seller details and invoicing defaults.
type AppSettings struct {
	ID string `json:"id"`

	// Company profile
	CompanyName          string `json:"company_name"`
	CompanyAddress       string `json:"company_address"`
	CompanyTaxID         string `json:"company_tax_id"`
	CompanyEmail         string `json:"company_email,omitempty"`
	CompanyPhone         string `json:"company_phone,omitempty"`
	CompanyLogoPath      string `json:"company_logo_path,omitempty"`
	CompanyBankAccount   string `json:"company_bank_account,omitempty"`
	CompanyContactPerson string `json:"company_contact_person,omitempty"`

	// Invoice defaults
	VatRates             []string `json:"vat_rates"`
	DefaultVatRate       string   `json:"default_vat_rate"`
	PaymentMethods       []string `json:"payment_methods"`
	DefaultPaymentMethod string   `json:"default_payment_method"`
	DefaultPaymentDays   int      `json:"default_payment_days"`
	Currencies           []string `json:"currencies"`
	Currency             string   `json:"currency"`

	// Numbering
	InvoicePrefix        string `json:"invoice_prefix"`
	ResetNumberingYearly bool   `json:"reset_numbering_yearly"`

	// InvoiceRetentionDays of 0 keeps invoices forever.
	InvoiceRetentionDays int `json:"invoice_retention_days"`
}

// DefaultSettings returns the settings written on first start.
func DefaultSettings() *AppSettings {
	return &AppSettings{
		ID:                   SettingsID,
		CompanyName:          "Moja Firma",
		CompanyAddress:       "ul. Przykładowa 1, 00-000 Warszawa",
		CompanyTaxID:         "0000000000",
		VatRates:             []string{"23%", "8%", "5%", "0%"},
		DefaultVatRate:       "23%",
		PaymentMethods:       []string{"Przelew", "Gotówka"},
		DefaultPaymentMethod: "Przelew",
		DefaultPaymentDays:   14,
		Currencies:           []string{"PLN", "EUR"},
		Currency:             "PLN",
		InvoicePrefix:        "FV",
	}
}

func (s *AppSettings) GetID() string   { return s.ID }
func (s *AppSettings) SetID(id string) { s.ID = id }

func (s *AppSettings) Clone() *AppSettings {
	if s == nil {
		return nil
	}
	c := *s
	c.VatRates = append([]string(nil), s.VatRates...)
	c.PaymentMethods = append([]string(nil), s.PaymentMethods...)
	c.Currencies = append([]string(nil), s.Currencies...)
	return &c
}
