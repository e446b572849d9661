package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"invoicing/internal/logger"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete invoices older than the retention period",
	Long: `Delete every invoice dated before today minus the configured retention
period (settings: invoice_retention_days). A retention of 0 keeps all invoices.

The sweep stops at the first failed delete.`,
	Example: `  invoicing settings set --retention-days 360
  invoicing purge`,
	Args: cobra.NoArgs,
	RunE: runPurge,
}

func init() {
	rootCmd.AddCommand(purgeCmd)
}

func runPurge(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("purge")

	a, err := newApp(appConfig)
	if err != nil {
		return err
	}

	deleted, err := a.invoices.PurgeExpired(cmd.Context())
	if err != nil {
		log.Error().Err(err).Int("deleted", deleted).Msg("Purge stopped")
		return fmt.Errorf("purge stopped after %d invoices: %w", deleted, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d expired invoices\n", deleted)
	return nil
}
