package invoice

import (
	"context"
	"time"

	"invoicing/pkg/models"
)

// PurgeExpired deletes every invoice dated before now minus the configured
// retention period. A retention of 0 days keeps everything. The sweep stops at
// the first failed delete and reports how many invoices were removed.
func (s *Service) PurgeExpired(ctx context.Context) (int, error) {
	const op = "PurgeExpired"

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return 0, &InvoiceError{Op: op, Err: err}
	}

	if settings.InvoiceRetentionDays <= 0 {
		s.log.Debug().Msg("Invoice retention disabled, nothing to purge")
		return 0, nil
	}

	cutoff := s.now().AddDate(0, 0, -settings.InvoiceRetentionDays)
	expired, err := s.invoices.Query(ctx, func(inv *models.Invoice) bool {
		return inv.InvoiceDate.Before(cutoff)
	})
	if err != nil {
		return 0, &InvoiceError{Op: op, Err: err}
	}

	deleted := 0
	for _, inv := range expired {
		if err := s.invoices.Delete(ctx, inv.ID); err != nil {
			return deleted, &InvoiceError{Op: op, InvoiceID: inv.ID, Err: err}
		}
		deleted++
	}

	s.log.Info().
		Int("retention_days", settings.InvoiceRetentionDays).
		Str("cutoff", cutoff.Format(time.RFC3339)).
		Int("deleted", deleted).
		Msg("Expired invoices purged")
	return deleted, nil
}
