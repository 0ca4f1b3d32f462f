package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"invoicebridge/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "invoicebridge",
	Short: "Invoice Bridge - books vendor invoices into the accounting ledger",
	Long: `Invoice Bridge ingests a vendor invoice (image or PDF), extracts
structured billing data with an AI model, reconciles it against the
accounting ledger's vendor/tax/account registries, and books an expense
record with the original document attached.

Run "invoicebridge serve" to start the HTTP service.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("Invoice Bridge executed")

		fmt.Println("Use \"invoicebridge serve\" to start the service, or --help for options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
