package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"invoicing/internal/storage"
	"invoicing/pkg/models"
)

type invoicesByClient map[string][]*models.Invoice

func (m invoicesByClient) ListByClient(_ context.Context, clientID string) ([]*models.Invoice, error) {
	return m[clientID], nil
}

func newService(t *testing.T, invoices InvoiceLister) *Service {
	t.Helper()
	store, err := storage.NewStore(t.TempDir(), storage.NewCache[*models.Client]())
	require.NoError(t, err)
	return NewService(store, invoices)
}

func seed(t *testing.T, svc *Service, clients ...*models.Client) {
	t.Helper()
	for _, c := range clients {
		require.NoError(t, svc.Save(context.Background(), c))
	}
}

func names(clients []*models.Client) []string {
	out := make([]string, len(clients))
	for i, c := range clients {
		out[i] = c.Name
	}
	return out
}

func TestSave_RequiresName(t *testing.T) {
	svc := newService(t, nil)

	err := svc.Save(context.Background(), &models.Client{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalidClient)

	err = svc.Save(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidClient)
}

func TestListOrderedByName(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)

	inactive := models.NewClient("Initech")
	inactive.IsActive = false
	seed(t, svc, models.NewClient("globex"), models.NewClient("ACME"), inactive)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ACME", "globex", "Initech"}, names(all))

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ACME", "globex"}, names(active))
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)

	acme := models.NewClient("ACME Sp. z o.o.")
	acme.TaxID = "5250001234"
	globex := models.NewClient("Globex")
	globex.TaxID = "PL9990001111"
	seed(t, svc, acme, globex)

	tests := []struct {
		term string
		want []string
	}{
		{term: "acme", want: []string{"ACME Sp. z o.o."}},
		{term: "GLOB", want: []string{"Globex"}},
		{term: "pl999", want: []string{"Globex"}},
		{term: "0001", want: []string{"ACME Sp. z o.o.", "Globex"}},
		{term: "nobody", want: []string{}},
		{term: "", want: []string{"ACME Sp. z o.o.", "Globex"}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got, err := svc.Search(ctx, tt.term)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestGetWithInvoices(t *testing.T) {
	ctx := context.Background()
	acme := models.NewClient("ACME")
	acme.ID = "c1"

	invoices := invoicesByClient{
		"c1": {{ID: "i1", ClientID: "c1"}, {ID: "i2", ClientID: "c1"}},
	}
	svc := newService(t, invoices)
	seed(t, svc, acme)

	got, err := svc.GetWithInvoices(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "ACME", got.Name)
	assert.Len(t, got.Invoices, 2)

	_, err = svc.GetWithInvoices(ctx, "missing")
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestGetAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, nil)

	c := models.NewClient("ACME")
	seed(t, svc, c)
	require.NotEmpty(t, c.ID)

	got, found, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, got.IsActive)

	require.NoError(t, svc.Delete(ctx, c.ID))
	_, found, err = svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, svc.Delete(ctx, c.ID))
}
