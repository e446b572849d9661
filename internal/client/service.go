// Package client manages the clients invoices are issued to.
package client

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"invoicing/internal/logger"
	"invoicing/pkg/models"
)

var (
	ErrClientNotFound = errors.New("client not found")
	ErrInvalidClient  = errors.New("invalid client")
)

// Store is the persistence the service needs for clients.
type Store interface {
	Get(ctx context.Context, id string) (*models.Client, bool, error)
	GetAll(ctx context.Context) ([]*models.Client, error)
	Query(ctx context.Context, predicate func(*models.Client) bool) ([]*models.Client, error)
	Save(ctx context.Context, c *models.Client) error
	Delete(ctx context.Context, id string) error
}

// InvoiceLister lists the invoices of a client.
type InvoiceLister interface {
	ListByClient(ctx context.Context, clientID string) ([]*models.Invoice, error)
}

// Service manages clients and their invoice views.
type Service struct {
	clients  Store
	invoices InvoiceLister
	log      zerolog.Logger
}

// NewService creates a client service. invoices may be nil when invoice views
// are not needed.
func NewService(clients Store, invoices InvoiceLister) *Service {
	return &Service{
		clients:  clients,
		invoices: invoices,
		log:      logger.WithComponent("client"),
	}
}

// List returns every client ordered by name.
func (s *Service) List(ctx context.Context) ([]*models.Client, error) {
	all, err := s.clients.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return sortByName(all), nil
}

// ListActive returns the active clients ordered by name.
func (s *Service) ListActive(ctx context.Context) ([]*models.Client, error) {
	active, err := s.clients.Query(ctx, func(c *models.Client) bool {
		return c.IsActive
	})
	if err != nil {
		return nil, err
	}
	return sortByName(active), nil
}

// Get returns the client with the given id. Unknown ids are reported through
// the boolean, not as an error.
func (s *Service) Get(ctx context.Context, id string) (*models.Client, bool, error) {
	return s.clients.Get(ctx, id)
}

// GetWithInvoices returns the client with its invoices attached.
func (s *Service) GetWithInvoices(ctx context.Context, id string) (*models.Client, error) {
	c, ok, err := s.clients.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClientNotFound, id)
	}
	if s.invoices == nil {
		return c, nil
	}

	invoices, err := s.invoices.ListByClient(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices for client %s: %w", id, err)
	}
	c.Invoices = invoices
	return c, nil
}

// Save persists the client. A name is required.
func (s *Service) Save(ctx context.Context, c *models.Client) error {
	if c == nil || strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidClient)
	}
	if err := s.clients.Save(ctx, c); err != nil {
		return err
	}
	s.log.Info().Str("client_id", c.ID).Str("name", c.Name).Msg("Client saved")
	return nil
}

// Delete removes the client. Invoices referencing it are kept and will no
// longer resolve a client.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.clients.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("client_id", id).Msg("Client deleted")
	return nil
}

// Search matches term case-insensitively against name and tax id. An empty
// term returns every client.
func (s *Service) Search(ctx context.Context, term string) ([]*models.Client, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return s.List(ctx)
	}

	matched, err := s.clients.Query(ctx, func(c *models.Client) bool {
		return strings.Contains(strings.ToLower(c.Name), term) ||
			strings.Contains(strings.ToLower(c.TaxID), term)
	})
	if err != nil {
		return nil, err
	}
	return sortByName(matched), nil
}

func sortByName(clients []*models.Client) []*models.Client {
	sort.SliceStable(clients, func(i, j int) bool {
		a, b := strings.ToLower(clients[i].Name), strings.ToLower(clients[j].Name)
		if a != b {
			return a < b
		}
		return clients[i].ID < clients[j].ID
	})
	return clients
}
