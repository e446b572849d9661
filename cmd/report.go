package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"invoicing/internal/logger"
	"invoicing/internal/report"
	"invoicing/internal/sheets"
	"invoicing/pkg/models"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarise invoices over a date range",
	Long: `Summarise invoices dated within a range, both ends inclusive: invoice count,
net, VAT and gross totals, paid/unpaid/overdue counts, and a per-client
breakdown ordered by client name.

Optionally appends the summary to a Google Sheet.

Environment variables for --export-sheet:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string
  GOOGLE_SHEET_URL - Google Sheets URL to export to
  GOOGLE_SHEET_WORKSHEET - Worksheet name (default: Reports)`,
	Example: `  # Everything ever issued
  invoicing report

  # One quarter of one client, as JSON
  invoicing report --from 2025-01-01 --to 2025-03-31 --client 3f6c... --json

  # Append to the configured Google Sheet
  invoicing report --from 2025-01-01 --to 2025-12-31 --export-sheet`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("from", "", "Start date, inclusive (format: YYYY-MM-DD)")
	reportCmd.Flags().String("to", "", "End date, inclusive (format: YYYY-MM-DD)")
	reportCmd.Flags().String("client", "", "Only invoices of this client id")
	reportCmd.Flags().Bool("json", false, "Print the summary as JSON")
	reportCmd.Flags().Bool("export-sheet", false, "Append the summary to GOOGLE_SHEET_URL")
	reportCmd.Flags().String("worksheet", "", "Worksheet to export to (default: GOOGLE_SHEET_WORKSHEET)")
}

func runReport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("report")
	ctx := cmd.Context()

	a, err := newApp(appConfig)
	if err != nil {
		return err
	}

	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	clientID, _ := cmd.Flags().GetString("client")
	asJSON, _ := cmd.Flags().GetBool("json")
	exportSheet, _ := cmd.Flags().GetBool("export-sheet")
	worksheet, _ := cmd.Flags().GetString("worksheet")

	from, err := parseDate(fromStr)
	if err != nil {
		return err
	}
	to, err := parseEndDate(toStr)
	if err != nil {
		return err
	}

	summary, err := a.reports.Generate(ctx, report.Filter{Start: from, End: to, ClientID: clientID})
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if asJSON {
		if err := writeJSON(cmd.OutOrStdout(), summary); err != nil {
			return err
		}
	} else if err := printSummary(cmd, summary); err != nil {
		return err
	}

	if !exportSheet {
		return nil
	}

	if a.cfg.GoogleSheetURL == "" {
		return fmt.Errorf("GOOGLE_SHEET_URL environment variable is required for --export-sheet")
	}
	if worksheet == "" {
		worksheet = a.cfg.GoogleSheetWorksheet
	}

	sheetsService, err := sheets.NewSheetsService(ctx, a.cfg.GoogleSheetURL)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create Google Sheets service")
		return fmt.Errorf("failed to create sheets service: %w", err)
	}
	if err := sheetsService.ExportReport(ctx, summary, worksheet); err != nil {
		log.Error().Err(err).Str("sheet", worksheet).Msg("Failed to export report")
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Report exported to worksheet %q\n", worksheet)
	return nil
}

func printSummary(cmd *cobra.Command, s *models.ReportSummary) error {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Invoices: %d (paid %d, unpaid %d, overdue %d)\n",
		s.TotalInvoices, s.PaidInvoices, s.UnpaidInvoices, s.OverdueInvoices)
	fmt.Fprintf(out, "Net:      %s\n", s.TotalNetAmount.StringFixed(2))
	fmt.Fprintf(out, "VAT:      %s\n", s.TotalTaxAmount.StringFixed(2))
	fmt.Fprintf(out, "Gross:    %s\n", s.TotalAmount.StringFixed(2))

	if len(s.ClientBreakdown) == 0 {
		return nil
	}

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CLIENT\tINVOICES\tPAID\tOVERDUE\tNET\tVAT\tGROSS\tPAID %")
	for _, c := range s.ClientBreakdown {
		fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%s\t%s\t%s\t%s\n",
			c.ClientName,
			c.TotalInvoices,
			c.PaidRatio(),
			c.OverdueInvoices,
			c.TotalNetAmount.StringFixed(2),
			c.TotalTaxAmount.StringFixed(2),
			c.TotalAmount.StringFixed(2),
			c.PaymentPercentage(),
		)
	}
	return w.Flush()
}
