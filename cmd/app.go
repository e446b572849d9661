package cmd

import (
	"fmt"

	"invoicing/internal/client"
	"invoicing/internal/config"
	"invoicing/internal/invoice"
	"invoicing/internal/report"
	"invoicing/internal/settings"
	"invoicing/internal/storage"
	"invoicing/pkg/models"
)

// app wires the stores and services for one command invocation. Each store
// owns its own cache.
type app struct {
	cfg      *config.Config
	settings *settings.Service
	clients  *client.Service
	invoices *invoice.Service
	reports  *report.Service
}

func newApp(cfg *config.Config) (*app, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}

	readLimit := storage.WithMaxConcurrentReads(cfg.MaxConcurrentReads)

	invoiceStore, err := storage.NewStore(cfg.InvoicesDir(), storage.NewCache[*models.Invoice](), readLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to open invoice store: %w", err)
	}
	clientStore, err := storage.NewStore(cfg.ClientsDir(), storage.NewCache[*models.Client](), readLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to open client store: %w", err)
	}
	settingsStore, err := storage.NewStore(cfg.SettingsDir(), storage.NewCache[*models.AppSettings]())
	if err != nil {
		return nil, fmt.Errorf("failed to open settings store: %w", err)
	}

	settingsService := settings.NewService(settingsStore)
	invoiceService := invoice.NewService(
		invoiceStore,
		clientStore,
		settingsService,
		invoice.WithStrictVatRates(cfg.StrictVatRates),
	)
	clientService := client.NewService(clientStore, invoiceService)

	return &app{
		cfg:      cfg,
		settings: settingsService,
		clients:  clientService,
		invoices: invoiceService,
		reports:  report.NewService(invoiceService, clientStore),
	}, nil
}
