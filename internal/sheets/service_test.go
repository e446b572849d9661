package sheets

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"invoicing/pkg/models"
)

func TestExtractSpreadsheetID(t *testing.T) {
	id, err := extractSpreadsheetID("https://docs.google.com/spreadsheets/d/1AbC-d_EfG123/edit#gid=0")
	require.NoError(t, err)
	assert.Equal(t, "1AbC-d_EfG123", id)

	_, err = extractSpreadsheetID("https://example.com/not-a-sheet")
	assert.Error(t, err)
}

func TestReportRows(t *testing.T) {
	exported := time.Date(2025, time.April, 1, 8, 30, 0, 0, time.UTC)
	summary := &models.ReportSummary{
		StartDate:       time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC),
		TotalInvoices:   3,
		TotalNetAmount:  decimal.RequireFromString("350"),
		TotalTaxAmount:  decimal.RequireFromString("73.5"),
		TotalAmount:     decimal.RequireFromString("423.5"),
		PaidInvoices:    1,
		UnpaidInvoices:  2,
		OverdueInvoices: 1,
		ClientBreakdown: []models.ClientReportSummary{
			{
				ClientName:      "ACME",
				TotalInvoices:   2,
				PaidInvoices:    1,
				UnpaidInvoices:  1,
				OverdueInvoices: 1,
				TotalNetAmount:  decimal.RequireFromString("300"),
				TotalTaxAmount:  decimal.RequireFromString("69"),
				TotalAmount:     decimal.RequireFromString("369"),
			},
		},
	}

	rows := reportRows(summary, exported)
	require.Len(t, rows, 2)

	assert.Equal(t, []interface{}{
		"ACME", 2, 1, 1, 1, "300.00", "69.00", "369.00", "50.0%",
		"2025-01-01", "2025-03-31", "2025-04-01 08:30:00",
	}, rows[0])

	assert.Equal(t, []interface{}{
		"TOTAL", 3, 1, 2, 1, "350.00", "73.50", "423.50", "33.3%",
		"2025-01-01", "2025-03-31", "2025-04-01 08:30:00",
	}, rows[1])

	for _, row := range rows {
		assert.Len(t, row, columnCount)
	}
	assert.Len(t, reportHeaders, columnCount)
}

func TestReportRows_OpenBoundsAreBlank(t *testing.T) {
	summary := &models.ReportSummary{
		EndDate: time.Date(9999, time.December, 31, 23, 59, 59, 999999999, time.UTC),
	}

	rows := reportRows(summary, time.Now())
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0][9])
	assert.Equal(t, "", rows[0][10])
	assert.Equal(t, "0%", rows[0][8])
	assert.Equal(t, "0.00", rows[0][7])
}

func TestSheetRangeQuotesWorksheetName(t *testing.T) {
	assert.Equal(t, "'Reports'!A:L", sheetRange("Reports", "A:L"))
	assert.Equal(t, "'Q1 Reports'!A1:L1", sheetRange("Q1 Reports", "A1:L1"))
	assert.Equal(t, "'Bob''s sheet'!A:L", sheetRange("Bob's sheet", "A:L"))
}
