// Package invoice implements the invoice domain on top of the document store:
// number generation, line-item totals, payment status, and the retention sweep.
//
// Totals and payment status are persisted but never trusted: Save recomputes
// both, and every read recomputes the status because Overdue depends on the
// current time.
package invoice

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"invoicing/internal/logger"
	"invoicing/pkg/models"
)

// Store is the persistence the service needs for invoices.
type Store interface {
	Get(ctx context.Context, id string) (*models.Invoice, bool, error)
	GetAll(ctx context.Context) ([]*models.Invoice, error)
	Query(ctx context.Context, predicate func(*models.Invoice) bool) ([]*models.Invoice, error)
	Save(ctx context.Context, inv *models.Invoice) error
	Delete(ctx context.Context, id string) error
}

// ClientLookup resolves client snapshots for invoices.
type ClientLookup interface {
	Get(ctx context.Context, id string) (*models.Client, bool, error)
}

// SettingsProvider supplies the application settings.
type SettingsProvider interface {
	Get(ctx context.Context) (*models.AppSettings, error)
}

// Renderer turns a fully populated invoice into a document (e.g. a PDF) and
// returns its location.
type Renderer interface {
	RenderInvoice(ctx context.Context, inv *models.Invoice, settings *models.AppSettings) (string, error)
}

// Service implements the invoice operations.
type Service struct {
	invoices Store
	clients  ClientLookup
	settings SettingsProvider
	now      func() time.Time
	strict   bool
	log      zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithStrictVatRates makes Save reject items whose VAT rate cannot be parsed
// instead of computing them at 0%.
func WithStrictVatRates(strict bool) Option {
	return func(s *Service) {
		s.strict = strict
	}
}

// NewService creates an invoice service.
func NewService(invoices Store, clients ClientLookup, settings SettingsProvider, opts ...Option) *Service {
	s := &Service{
		invoices: invoices,
		clients:  clients,
		settings: settings,
		now:      time.Now,
		log:      logger.WithComponent("invoice"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInvoice returns an unsaved invoice populated with the configured defaults
// and the next invoice number.
func (s *Service) NewInvoice(ctx context.Context, clientID string) (*models.Invoice, error) {
	const op = "NewInvoice"

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, &InvoiceError{Op: op, Err: err}
	}

	number, err := s.NextNumber(ctx)
	if err != nil {
		return nil, &InvoiceError{Op: op, Err: err}
	}

	now := s.now()
	inv := &models.Invoice{
		ID:            uuid.NewString(),
		InvoiceNumber: number,
		InvoiceDate:   now,
		SellingDate:   now,
		DueDate:       now.AddDate(0, 0, settings.DefaultPaymentDays),
		ClientID:      clientID,
		Items:         []models.InvoiceItem{},
		Payments:      []models.Payment{},
		PaymentMethod: settings.DefaultPaymentMethod,
		Currency:      settings.Currency,
		BankAccount:   settings.CompanyBankAccount,
		PaymentStatus: models.Unpaid,
	}
	s.refreshStatus(inv)
	return inv, nil
}

// NextNumber generates the next invoice number for the current period.
func (s *Service) NextNumber(ctx context.Context) (string, error) {
	const op = "NextNumber"

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return "", &InvoiceError{Op: op, Err: err}
	}

	all, err := s.invoices.GetAll(ctx)
	if err != nil {
		return "", &InvoiceError{Op: op, Err: err}
	}

	number, parseErr := GenerateNumber(all, settings.InvoicePrefix, settings.ResetNumberingYearly, s.now())
	if parseErr != nil {
		s.log.Warn().
			Err(parseErr).
			Str("number", number).
			Msg("Could not parse previous invoice number, restarting sequence")
	}

	s.log.Debug().Str("number", number).Msg("Generated invoice number")
	return number, nil
}

// Get returns the invoice with a freshly derived payment status.
func (s *Service) Get(ctx context.Context, id string) (*models.Invoice, bool, error) {
	inv, ok, err := s.invoices.Get(ctx, id)
	if err != nil || !ok {
		return nil, ok, err
	}
	s.refreshStatus(inv)
	return inv, true, nil
}

// GetWithClient returns the invoice with its client snapshot resolved.
func (s *Service) GetWithClient(ctx context.Context, id string) (*models.Invoice, bool, error) {
	inv, ok, err := s.Get(ctx, id)
	if err != nil || !ok {
		return nil, ok, err
	}

	if inv.ClientID != "" {
		client, found, err := s.clients.Get(ctx, inv.ClientID)
		if err != nil {
			return nil, false, err
		}
		if found {
			inv.Client = client
		}
	}
	return inv, true, nil
}

// List returns every invoice, newest first.
func (s *Service) List(ctx context.Context) ([]*models.Invoice, error) {
	all, err := s.invoices.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.prepare(all), nil
}

// ListWithClients returns every invoice with client snapshots resolved. Each
// distinct client is looked up once, concurrently.
func (s *Service) ListWithClients(ctx context.Context) ([]*models.Invoice, error) {
	invoices, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, inv := range invoices {
		if inv.ClientID == "" {
			continue
		}
		if _, ok := seen[inv.ClientID]; ok {
			continue
		}
		seen[inv.ClientID] = struct{}{}
		ids = append(ids, inv.ClientID)
	}

	clients := make([]*models.Client, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			client, found, err := s.clients.Get(gctx, id)
			if err != nil {
				return err
			}
			if found {
				clients[i] = client
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Client, len(ids))
	for _, c := range clients {
		if c != nil {
			byID[c.ID] = c
		}
	}
	for _, inv := range invoices {
		if c, ok := byID[inv.ClientID]; ok {
			inv.Client = c
		}
	}
	return invoices, nil
}

// ListByClient returns the invoices issued to clientID.
func (s *Service) ListByClient(ctx context.Context, clientID string) ([]*models.Invoice, error) {
	matched, err := s.invoices.Query(ctx, func(inv *models.Invoice) bool {
		return inv.ClientID == clientID
	})
	if err != nil {
		return nil, err
	}
	return s.prepare(matched), nil
}

// ListByDateRange returns invoices dated on any calendar day from start to end,
// both inclusive.
func (s *Service) ListByDateRange(ctx context.Context, start, end time.Time) ([]*models.Invoice, error) {
	from := startOfDay(start)
	until := startOfDay(end).AddDate(0, 0, 1)

	matched, err := s.invoices.Query(ctx, func(inv *models.Invoice) bool {
		return !inv.InvoiceDate.Before(from) && inv.InvoiceDate.Before(until)
	})
	if err != nil {
		return nil, err
	}
	return s.prepare(matched), nil
}

// ListUnpaid returns every invoice that is not fully paid.
func (s *Service) ListUnpaid(ctx context.Context) ([]*models.Invoice, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	unpaid := make([]*models.Invoice, 0, len(all))
	for _, inv := range all {
		if !inv.IsPaid() {
			unpaid = append(unpaid, inv)
		}
	}
	return unpaid, nil
}

// Save recomputes totals and payment status and persists the invoice.
// Unparseable VAT rates are computed at 0% and logged, or rejected in strict mode.
func (s *Service) Save(ctx context.Context, inv *models.Invoice) error {
	const op = "Save"

	if err := RecalculateTotals(inv); err != nil {
		if s.strict {
			return &InvoiceError{Op: op, InvoiceID: inv.ID, Err: err}
		}
		s.log.Warn().
			Err(err).
			Str("invoice_id", inv.ID).
			Str("number", inv.InvoiceNumber).
			Msg("Invalid VAT rate, item computed without VAT")
	}
	s.refreshStatus(inv)

	if err := s.invoices.Save(ctx, inv); err != nil {
		return &InvoiceError{Op: op, InvoiceID: inv.ID, Err: err}
	}

	s.log.Info().
		Str("invoice_id", inv.ID).
		Str("number", inv.InvoiceNumber).
		Str("gross", inv.TotalGross.String()).
		Str("status", inv.PaymentStatus.String()).
		Msg("Invoice saved")
	return nil
}

// Delete removes the invoice. Unknown ids are ignored.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.invoices.Delete(ctx, id); err != nil {
		return &InvoiceError{Op: "Delete", InvoiceID: id, Err: err}
	}
	s.log.Info().Str("invoice_id", id).Msg("Invoice deleted")
	return nil
}

// Render hands the invoice, with its client resolved, to a renderer.
func (s *Service) Render(ctx context.Context, id string, r Renderer) (string, error) {
	const op = "Render"

	inv, ok, err := s.GetWithClient(ctx, id)
	if err != nil {
		return "", &InvoiceError{Op: op, InvoiceID: id, Err: err}
	}
	if !ok {
		return "", &InvoiceError{Op: op, InvoiceID: id, Err: ErrInvoiceNotFound}
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return "", &InvoiceError{Op: op, InvoiceID: id, Err: err}
	}

	return r.RenderInvoice(ctx, inv, settings)
}

// prepare refreshes statuses and orders invoices newest first.
func (s *Service) prepare(invoices []*models.Invoice) []*models.Invoice {
	for _, inv := range invoices {
		s.refreshStatus(inv)
	}
	sort.SliceStable(invoices, func(i, j int) bool {
		if !invoices[i].InvoiceDate.Equal(invoices[j].InvoiceDate) {
			return invoices[i].InvoiceDate.After(invoices[j].InvoiceDate)
		}
		return invoices[i].InvoiceNumber > invoices[j].InvoiceNumber
	})
	return invoices
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
