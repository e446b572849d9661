package sheets

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
	"invoicing/internal/logger"
	"invoicing/pkg/models"
)

const (
	dateLayout = "2006-01-02"

	// columnCount is the width of a report row, A to L.
	columnCount = 12
)

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

var reportHeaders = []interface{}{
	"Client", "Invoices", "Paid", "Unpaid", "Overdue", "Net",
	"VAT", "Gross", "Paid %", "From", "To", "Exported",
}

// Service handles Google Sheets operations
type Service struct {
	sheetsService *sheets.Service
	spreadsheetID string
	now           func() time.Time
	log           zerolog.Logger
}

// NewSheetsService creates a new Google Sheets service
func NewSheetsService(ctx context.Context, sheetURL string) (*Service, error) {
	const op = "NewSheetsService"

	log := logger.WithComponent("sheets")

	// Extract spreadsheet ID from URL
	spreadsheetID, err := extractSpreadsheetID(sheetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to extract spreadsheet ID: %w", op, err)
	}

	log.Debug().Str("spreadsheet_id", spreadsheetID).Msg("Extracted spreadsheet ID")

	// Get Google credentials
	var creds []byte
	if credsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credsFile != "" {
		creds, err = os.ReadFile(credsFile)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read credentials file: %w", op, err)
		}
	} else if credsJSON := os.Getenv("GOOGLE_CREDENTIALS"); credsJSON != "" {
		creds = []byte(credsJSON)
	} else {
		return nil, fmt.Errorf("%s: neither GOOGLE_APPLICATION_CREDENTIALS nor GOOGLE_CREDENTIALS is set", op)
	}

	config, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse credentials: %w", op, err)
	}

	sheetsService, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create sheets service: %w", op, err)
	}

	return &Service{
		sheetsService: sheetsService,
		spreadsheetID: spreadsheetID,
		now:           time.Now,
		log:           log,
	}, nil
}

// extractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL
func extractSpreadsheetID(url string) (string, error) {
	matches := spreadsheetIDPattern.FindStringSubmatch(url)
	if len(matches) < 2 {
		return "", fmt.Errorf("invalid Google Sheets URL format")
	}
	return matches[1], nil
}

// ExportReport appends one row per client of the summary plus a totals row to
// the named worksheet, creating the worksheet and its header row when missing.
func (s *Service) ExportReport(ctx context.Context, summary *models.ReportSummary, sheetName string) error {
	const op = "ExportReport"

	values := reportRows(summary, s.now())

	s.log.Info().
		Str("sheet", sheetName).
		Int("rows", len(values)).
		Msg("Exporting report to Google Sheet")

	if err := s.ensureSheetWithHeaders(ctx, sheetName); err != nil {
		return fmt.Errorf("%s: failed to ensure sheet exists: %w", op, err)
	}

	_, err := s.sheetsService.Spreadsheets.Values.Append(
		s.spreadsheetID,
		sheetRange(sheetName, "A:L"),
		&sheets.ValueRange{Values: values},
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to append values to sheet: %w", op, err)
	}

	s.log.Info().
		Int("rows_written", len(values)).
		Msg("Successfully exported report to Google Sheet")
	return nil
}

// reportRows converts a summary to sheet rows: the client breakdown followed by
// a totals row. Amounts are written with two decimals.
func reportRows(summary *models.ReportSummary, exportedAt time.Time) [][]interface{} {
	from := formatBound(summary.StartDate)
	to := formatBound(summary.EndDate)
	exported := exportedAt.Format("2006-01-02 15:04:05")

	rows := make([][]interface{}, 0, len(summary.ClientBreakdown)+1)
	for _, c := range summary.ClientBreakdown {
		rows = append(rows, []interface{}{
			c.ClientName,
			c.TotalInvoices,
			c.PaidInvoices,
			c.UnpaidInvoices,
			c.OverdueInvoices,
			c.TotalNetAmount.StringFixed(2),
			c.TotalTaxAmount.StringFixed(2),
			c.TotalAmount.StringFixed(2),
			c.PaymentPercentage(),
			from,
			to,
			exported,
		})
	}

	total := models.ClientReportSummary{
		TotalInvoices: summary.TotalInvoices,
		PaidInvoices:  summary.PaidInvoices,
	}
	rows = append(rows, []interface{}{
		"TOTAL",
		summary.TotalInvoices,
		summary.PaidInvoices,
		summary.UnpaidInvoices,
		summary.OverdueInvoices,
		summary.TotalNetAmount.StringFixed(2),
		summary.TotalTaxAmount.StringFixed(2),
		summary.TotalAmount.StringFixed(2),
		total.PaymentPercentage(),
		from,
		to,
		exported,
	})
	return rows
}

// formatBound renders a report bound, leaving open bounds empty.
func formatBound(t time.Time) string {
	if t.IsZero() || t.Year() >= 9999 {
		return ""
	}
	return t.Format(dateLayout)
}

// sheetRange builds an A1 range on the named worksheet. The name is quoted so
// titles with spaces or punctuation stay valid.
func sheetRange(sheetName, cells string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(sheetName, "'", "''"), cells)
}

// ensureSheetWithHeaders ensures the sheet exists and has proper headers
func (s *Service) ensureSheetWithHeaders(ctx context.Context, sheetName string) error {
	const op = "ensureSheetWithHeaders"

	spreadsheet, err := s.sheetsService.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to get spreadsheet: %w", op, err)
	}

	var sheetExists bool
	var sheetID int64
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == sheetName {
			sheetExists = true
			sheetID = sheet.Properties.SheetId
			break
		}
	}

	if !sheetExists {
		s.log.Info().Str("sheet", sheetName).Msg("Creating new sheet")

		batchUpdateReq := &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{
				{AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: sheetName},
				}},
			},
		}

		resp, err := s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID, batchUpdateReq).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("%s: failed to create sheet: %w", op, err)
		}
		sheetID = resp.Replies[0].AddSheet.Properties.SheetId
	}

	headerRange := sheetRange(sheetName, "A1:L1")
	resp, err := s.sheetsService.Spreadsheets.Values.Get(s.spreadsheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to get headers: %w", op, err)
	}

	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		s.log.Info().Str("sheet", sheetName).Msg("Adding headers to sheet")

		_, err = s.sheetsService.Spreadsheets.Values.Update(
			s.spreadsheetID,
			headerRange,
			&sheets.ValueRange{Values: [][]interface{}{reportHeaders}},
		).ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("%s: failed to add headers: %w", op, err)
		}

		if err := s.formatHeaders(ctx, sheetID); err != nil {
			s.log.Warn().Err(err).Msg("Failed to format headers, continuing anyway")
		}
	}

	return nil
}

// formatHeaders makes the header row bold and applies basic formatting
func (s *Service) formatHeaders(ctx context.Context, sheetID int64) error {
	const op = "formatHeaders"

	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   columnCount,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true},
						BackgroundColor: &sheets.Color{
							Red:   0.9,
							Green: 0.9,
							Blue:  0.9,
						},
					},
				},
				Fields: "userEnteredFormat(textFormat,backgroundColor)",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   columnCount,
				},
			},
		},
	}

	batchUpdateReq := &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}
	if _, err := s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID, batchUpdateReq).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%s: failed to format headers: %w", op, err)
	}
	return nil
}
