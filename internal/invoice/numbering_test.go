package invoice

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"invoicing/pkg/models"
)

var march14 = time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)

func numbered(number string, date time.Time) *models.Invoice {
	return &models.Invoice{InvoiceNumber: number, InvoiceDate: date}
}

func TestGenerateNumber_FirstOfPeriod(t *testing.T) {
	got, err := GenerateNumber(nil, "FV", false, march14)
	require.NoError(t, err)
	assert.Equal(t, "FV/001/03/2025", got)

	got, err = GenerateNumber(nil, "FV", true, march14)
	require.NoError(t, err)
	assert.Equal(t, "FV/001/2025", got)
}

func TestGenerateNumber_Monotonic(t *testing.T) {
	var existing []*models.Invoice
	for i := 1; i <= 12; i++ {
		now := march14.Add(time.Duration(i) * time.Minute)
		got, err := GenerateNumber(existing, "FV", false, now)
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("FV/%03d/03/2025", i), got)
		existing = append(existing, numbered(got, now))
	}
}

func TestGenerateNumber_SameTimestampUsesHigherSequence(t *testing.T) {
	existing := []*models.Invoice{
		numbered("FV/005/03/2025", march14),
		numbered("FV/003/03/2025", march14),
	}
	got, err := GenerateNumber(existing, "FV", false, march14)
	require.NoError(t, err)
	assert.Equal(t, "FV/006/03/2025", got)
}

func TestGenerateNumber_HighestSequenceWinsOverDate(t *testing.T) {
	existing := []*models.Invoice{
		numbered("FV/010/03/2025", march14.AddDate(0, 0, -10)),
		numbered("FV/002/03/2025", march14.AddDate(0, 0, -1)),
	}
	got, err := GenerateNumber(existing, "FV", false, march14)
	require.NoError(t, err)
	assert.Equal(t, "FV/011/03/2025", got)
}

func TestGenerateNumber_BackdatedInvoiceDoesNotRepeatNumber(t *testing.T) {
	existing := []*models.Invoice{
		numbered("FV/001/03/2025", march14),
		numbered("FV/002/03/2025", march14),
		numbered("FV/003/03/2025", march14.AddDate(0, 0, -4)),
	}
	got, err := GenerateNumber(existing, "FV", false, march14.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "FV/004/03/2025", got)
}

func TestGenerateNumber_RestartsInNewPeriod(t *testing.T) {
	existing := []*models.Invoice{
		numbered("FV/017/02/2025", march14.AddDate(0, -1, 0)),
		numbered("FV/003/03/2024", march14.AddDate(-1, 0, 0)),
	}
	got, err := GenerateNumber(existing, "FV", false, march14)
	require.NoError(t, err)
	assert.Equal(t, "FV/001/03/2025", got)
}

func TestGenerateNumber_UnparseableLatestRestarts(t *testing.T) {
	existing := []*models.Invoice{
		numbered("FV/004/03/2025", march14.AddDate(0, 0, -2)),
		numbered("FV/X/03/2025", march14.AddDate(0, 0, -1)),
	}
	got, err := GenerateNumber(existing, "FV", false, march14)
	assert.Error(t, err)
	assert.Equal(t, "FV/001/03/2025", got)
}

func TestGenerateNumber_Yearly(t *testing.T) {
	existing := []*models.Invoice{
		numbered("FV/002/2025", march14.AddDate(0, -2, 0)),
		numbered("FV/009/03/2025", march14.AddDate(0, 0, -1)),
		numbered("FV/040/2024", march14.AddDate(-1, 0, 0)),
	}
	got, err := GenerateNumber(existing, "FV", true, march14)
	require.NoError(t, err)
	assert.Equal(t, "FV/003/2025", got)
}

func TestGenerateNumber_UsesConfiguredPrefix(t *testing.T) {
	existing := []*models.Invoice{numbered("FV/007/03/2025", march14.AddDate(0, 0, -1))}
	got, err := GenerateNumber(existing, "INV", false, march14)
	require.NoError(t, err)
	assert.Equal(t, "INV/008/03/2025", got)
}

func TestGenerateNumber_WidensPastThreeDigits(t *testing.T) {
	existing := []*models.Invoice{numbered("FV/999/03/2025", march14)}
	got, err := GenerateNumber(existing, "FV", false, march14)
	require.NoError(t, err)
	assert.Equal(t, "FV/1000/03/2025", got)
}
