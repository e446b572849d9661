package settings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"invoicing/internal/storage"
	"invoicing/pkg/models"
)

func newStore(t *testing.T, dir string) *storage.Store[*models.AppSettings] {
	t.Helper()
	s, err := storage.NewStore(dir, storage.NewCache[*models.AppSettings]())
	require.NoError(t, err)
	return s
}

func TestGet_WritesDefaultsOnFirstUse(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	svc := NewService(newStore(t, dir))

	s, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), s)
	assert.FileExists(t, filepath.Join(dir, models.SettingsID+".json"))
}

func TestGet_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newStore(t, t.TempDir()))

	s, err := svc.Get(ctx)
	require.NoError(t, err)
	s.InvoicePrefix = "CHANGED"
	s.VatRates[0] = "99%"

	again, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "FV", again.InvoicePrefix)
	assert.Equal(t, "23%", again.VatRates[0])
}

func TestSave_PersistsAcrossServices(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	svc := NewService(newStore(t, dir))

	s, err := svc.Get(ctx)
	require.NoError(t, err)
	s.InvoicePrefix = "INV"
	s.ResetNumberingYearly = true
	s.InvoiceRetentionDays = 180
	s.ID = "ignored"
	require.NoError(t, svc.Save(ctx, s))
	assert.Equal(t, models.SettingsID, s.ID)

	fresh := NewService(newStore(t, dir))
	got, err := fresh.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "INV", got.InvoicePrefix)
	assert.True(t, got.ResetNumberingYearly)
	assert.Equal(t, 180, got.InvoiceRetentionDays)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSave_RejectsInvalidSettings(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*models.AppSettings)
	}{
		{name: "empty prefix", mutate: func(s *models.AppSettings) { s.InvoicePrefix = " " }},
		{name: "prefix with slash", mutate: func(s *models.AppSettings) { s.InvoicePrefix = "FV/A" }},
		{name: "negative retention", mutate: func(s *models.AppSettings) { s.InvoiceRetentionDays = -1 }},
		{name: "negative payment days", mutate: func(s *models.AppSettings) { s.DefaultPaymentDays = -7 }},
		{name: "bad default VAT rate", mutate: func(s *models.AppSettings) { s.DefaultVatRate = "abc" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newStore(t, t.TempDir()))
			s := models.DefaultSettings()
			tt.mutate(s)

			err := svc.Save(ctx, s)
			assert.ErrorIs(t, err, ErrInvalidSettings)

			current, err := svc.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, "FV", current.InvoicePrefix)
		})
	}
}

func TestValidate_AcceptsDefaults(t *testing.T) {
	assert.NoError(t, Validate(models.DefaultSettings()))

	s := models.DefaultSettings()
	s.DefaultVatRate = ""
	assert.NoError(t, Validate(s))

	assert.ErrorIs(t, Validate(nil), ErrInvalidSettings)
}

type failingStore struct {
	getErr  error
	saveErr error
	saves   int
}

func (f *failingStore) Get(context.Context, string) (*models.AppSettings, bool, error) {
	return nil, false, f.getErr
}

func (f *failingStore) Save(context.Context, *models.AppSettings) error {
	f.saves++
	return f.saveErr
}

func TestGet_PropagatesStoreErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk failure")

	_, err := NewService(&failingStore{getErr: boom}).Get(ctx)
	assert.ErrorIs(t, err, boom)

	store := &failingStore{saveErr: boom}
	_, err = NewService(store).Get(ctx)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, store.saves)
}

func TestAccessors(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newStore(t, t.TempDir()))

	rates, err := svc.VatRates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"23%", "8%", "5%", "0%"}, rates)

	methods, err := svc.PaymentMethods(ctx)
	require.NoError(t, err)
	assert.Contains(t, methods, "Przelew")

	assert.Equal(t, []int{0, 90, 180, 270, 360}, RetentionOptions)
}
