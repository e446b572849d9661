// Package settings manages the singleton application settings document.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"invoicing/internal/logger"
	"invoicing/pkg/models"
)

// ErrInvalidSettings is returned by Save for settings that fail validation.
var ErrInvalidSettings = errors.New("invalid settings")

// RetentionOptions are the retention periods, in days, offered to the operator.
// 0 keeps invoices forever.
var RetentionOptions = []int{0, 90, 180, 270, 360}

// Store is the persistence the service needs.
type Store interface {
	Get(ctx context.Context, id string) (*models.AppSettings, bool, error)
	Save(ctx context.Context, s *models.AppSettings) error
}

// Service reads and writes the settings document, keeping the last value in memory.
type Service struct {
	store  Store
	mu     sync.Mutex
	cached *models.AppSettings
	log    zerolog.Logger
}

// NewService creates a settings service.
func NewService(store Store) *Service {
	return &Service{
		store: store,
		log:   logger.WithComponent("settings"),
	}
}

// Get returns the settings. On first use a missing document is replaced by the
// defaults, which are saved.
func (s *Service) Get(ctx context.Context) (*models.AppSettings, error) {
	const op = "Get"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return s.cached.Clone(), nil
	}

	settings, found, err := s.store.Get(ctx, models.SettingsID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read settings: %w", op, err)
	}

	if !found {
		s.log.Info().Msg("No settings found, writing defaults")
		settings = models.DefaultSettings()
		if err := s.store.Save(ctx, settings); err != nil {
			return nil, fmt.Errorf("%s: failed to save default settings: %w", op, err)
		}
	}

	s.cached = settings.Clone()
	return settings, nil
}

// Save validates and writes the settings wholesale.
func (s *Service) Save(ctx context.Context, settings *models.AppSettings) error {
	const op = "Save"

	if err := Validate(settings); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	settings.ID = models.SettingsID

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(ctx, settings); err != nil {
		return fmt.Errorf("%s: failed to save settings: %w", op, err)
	}
	s.cached = settings.Clone()

	s.log.Info().
		Str("prefix", settings.InvoicePrefix).
		Int("retention_days", settings.InvoiceRetentionDays).
		Msg("Settings saved")
	return nil
}

// VatRates returns the configured VAT rates.
func (s *Service) VatRates(ctx context.Context) ([]string, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return settings.VatRates, nil
}

// PaymentMethods returns the configured payment methods.
func (s *Service) PaymentMethods(ctx context.Context) ([]string, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return settings.PaymentMethods, nil
}

// Validate checks the fields the domain services depend on.
func Validate(settings *models.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings are nil", ErrInvalidSettings)
	}

	prefix := strings.TrimSpace(settings.InvoicePrefix)
	if prefix == "" {
		return fmt.Errorf("%w: invoice prefix is required", ErrInvalidSettings)
	}
	if strings.Contains(prefix, "/") {
		return fmt.Errorf("%w: invoice prefix %q must not contain '/'", ErrInvalidSettings, prefix)
	}
	if settings.InvoiceRetentionDays < 0 {
		return fmt.Errorf("%w: retention days must not be negative", ErrInvalidSettings)
	}
	if settings.DefaultPaymentDays < 0 {
		return fmt.Errorf("%w: payment days must not be negative", ErrInvalidSettings)
	}
	if settings.DefaultVatRate != "" {
		rate := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(settings.DefaultVatRate), "%"))
		if _, err := decimal.NewFromString(rate); err != nil {
			return fmt.Errorf("%w: default VAT rate %q: %v", ErrInvalidSettings, settings.DefaultVatRate, err)
		}
	}
	return nil
}
