// Package report aggregates invoices into summaries over a date range.
package report

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"invoicing/internal/logger"
	"invoicing/pkg/models"
)

// MaxTime is the upper bound used when a filter has no end date. It is the
// largest instant that still encodes as an RFC 3339 year.
var MaxTime = time.Date(9999, time.December, 31, 23, 59, 59, 999999999, time.UTC)

// InvoiceSource lists invoices with an up to date payment status.
type InvoiceSource interface {
	List(ctx context.Context) ([]*models.Invoice, error)
}

// ClientLookup resolves clients for the per-client breakdown.
type ClientLookup interface {
	Get(ctx context.Context, id string) (*models.Client, bool, error)
}

// Renderer turns a summary into a document and returns its location.
type Renderer interface {
	RenderReport(ctx context.Context, summary *models.ReportSummary) (string, error)
}

// Filter selects the invoices a report covers. Nil bounds are open.
type Filter struct {
	Start    *time.Time
	End      *time.Time
	ClientID string
}

func (f Filter) bounds() (time.Time, time.Time) {
	start, end := time.Time{}, MaxTime
	if f.Start != nil {
		start = *f.Start
	}
	if f.End != nil {
		end = *f.End
	}
	return start, end
}

// Service aggregates invoices into report summaries.
type Service struct {
	invoices InvoiceSource
	clients  ClientLookup
	log      zerolog.Logger
}

// NewService creates a report service reading invoices and resolving clients.
func NewService(invoices InvoiceSource, clients ClientLookup) *Service {
	return &Service{
		invoices: invoices,
		clients:  clients,
		log:      logger.WithComponent("report"),
	}
}

// Generate builds a summary of the invoices dated within the filter's bounds,
// both inclusive. Totals cover every matching invoice; the per-client breakdown
// leaves out invoices whose client cannot be resolved.
func (s *Service) Generate(ctx context.Context, f Filter) (*models.ReportSummary, error) {
	start, end := f.bounds()

	all, err := s.invoices.List(ctx)
	if err != nil {
		return nil, err
	}

	summary := &models.ReportSummary{
		StartDate:       start,
		EndDate:         end,
		ClientID:        f.ClientID,
		TotalAmount:     decimal.Zero,
		TotalNetAmount:  decimal.Zero,
		TotalTaxAmount:  decimal.Zero,
		ClientBreakdown: []models.ClientReportSummary{},
	}

	groups := make(map[string][]*models.Invoice)
	var clientIDs []string
	for _, inv := range all {
		if inv.InvoiceDate.Before(start) || inv.InvoiceDate.After(end) {
			continue
		}
		if f.ClientID != "" && inv.ClientID != f.ClientID {
			continue
		}

		summary.TotalInvoices++
		summary.TotalAmount = summary.TotalAmount.Add(inv.TotalGross)
		summary.TotalNetAmount = summary.TotalNetAmount.Add(inv.TotalNet)
		summary.TotalTaxAmount = summary.TotalTaxAmount.Add(inv.TotalVat)
		countStatus(inv.PaymentStatus, &summary.PaidInvoices, &summary.UnpaidInvoices, &summary.OverdueInvoices)

		if inv.ClientID == "" {
			continue
		}
		if _, ok := groups[inv.ClientID]; !ok {
			clientIDs = append(clientIDs, inv.ClientID)
		}
		groups[inv.ClientID] = append(groups[inv.ClientID], inv)
	}

	clients, err := s.resolveClients(ctx, clientIDs)
	if err != nil {
		return nil, err
	}

	for i, id := range clientIDs {
		c := clients[i]
		if c == nil {
			s.log.Debug().Str("client_id", id).Msg("Client not found, left out of breakdown")
			continue
		}
		summary.ClientBreakdown = append(summary.ClientBreakdown, clientSummary(c, groups[id]))
	}

	sort.SliceStable(summary.ClientBreakdown, func(i, j int) bool {
		a, b := summary.ClientBreakdown[i], summary.ClientBreakdown[j]
		if a.ClientName != b.ClientName {
			return a.ClientName < b.ClientName
		}
		return a.ClientID < b.ClientID
	})

	s.log.Debug().
		Int("invoices", summary.TotalInvoices).
		Int("clients", len(summary.ClientBreakdown)).
		Msg("Report generated")
	return summary, nil
}

// resolveClients looks up each id once, concurrently. Unknown ids yield nil.
func (s *Service) resolveClients(ctx context.Context, ids []string) ([]*models.Client, error) {
	clients := make([]*models.Client, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			c, found, err := s.clients.Get(gctx, id)
			if err != nil {
				return err
			}
			if found {
				clients[i] = c
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return clients, nil
}

func clientSummary(c *models.Client, invoices []*models.Invoice) models.ClientReportSummary {
	row := models.ClientReportSummary{
		ClientID:       c.ID,
		ClientName:     c.Name,
		TotalInvoices:  len(invoices),
		TotalAmount:    decimal.Zero,
		TotalNetAmount: decimal.Zero,
		TotalTaxAmount: decimal.Zero,
	}
	for _, inv := range invoices {
		row.TotalAmount = row.TotalAmount.Add(inv.TotalGross)
		row.TotalNetAmount = row.TotalNetAmount.Add(inv.TotalNet)
		row.TotalTaxAmount = row.TotalTaxAmount.Add(inv.TotalVat)
		countStatus(inv.PaymentStatus, &row.PaidInvoices, &row.UnpaidInvoices, &row.OverdueInvoices)
	}
	return row
}

// countStatus counts Paid against everything else; Overdue is also counted on its own.
func countStatus(status models.PaymentStatus, paid, unpaid, overdue *int) {
	if status == models.Paid {
		*paid++
		return
	}
	*unpaid++
	if status == models.Overdue {
		*overdue++
	}
}
