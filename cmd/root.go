package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"invoicing/internal/config"
	"invoicing/internal/logger"
)

var version = "1.0.0"

// appConfig is set by Execute before any command runs.
var appConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "invoicing",
	Short: "Invoicing - issue invoices, track payments and report on receivables",
	Long: `Invoicing keeps clients, invoices and settings as JSON documents in a local
data directory and provides the operations around them: sequential invoice
numbering, exact VAT totals, payment tracking, reporting and retention.

Data is stored under INVOICING_DATA_DIR (default: ~/.invoicing).`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Debug().
			Str("version", version).
			Msg("Invoicing CLI executed")

		_ = cmd.Help()
	},
}

// Execute runs the root command with cfg. Interrupts cancel the command's context.
func Execute(cfg *config.Config) {
	log := logger.WithComponent("cmd")
	appConfig = cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		stop()
		os.Exit(1)
	}
}
