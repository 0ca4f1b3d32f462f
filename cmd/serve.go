package cmd

import (
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"invoicebridge/internal/config"
	"invoicebridge/internal/extract"
	"invoicebridge/internal/ledger"
	"invoicebridge/internal/logger"
	"invoicebridge/internal/recon"
	"invoicebridge/internal/server"
	"invoicebridge/internal/submit"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the invoice ingestion HTTP service",
	Long: `Starts the HTTP service exposing the upload, confirm, lookup and
vendor search endpoints used by the browser review form.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	const op = "runServe"

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if servePort != "" {
		cfg.Port = servePort
	}

	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		return fmt.Errorf("%s: failed to configure logging: %w", op, err)
	}
	log := logger.WithComponent("serve")

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return fmt.Errorf("%s: failed to create upload dir: %w", op, err)
	}

	extractor := extract.NewOpenAIExtractor(openai.NewClient(cfg.OpenAIAPIKey), cfg.OpenAIModel)

	tokens := ledger.NewTokenSource(ledger.TokenConfig{
		ClientID:     cfg.ZohoClientID,
		ClientSecret: cfg.ZohoClientSecret,
		RefreshToken: cfg.ZohoRefreshToken,
		TokenURL:     cfg.ZohoTokenURL,
	})
	client := ledger.NewClient(cfg.ZohoAPIBase, cfg.ZohoOrgID, tokens)

	resolver := recon.NewVendorResolver(client)
	orchestrator := submit.NewOrchestrator(client, resolver, cfg.PaidThroughAccountName)

	handler := server.NewHandler(extractor, client, orchestrator, cfg.UploadDir)
	router := server.NewRouter(handler, cfg.StaticDir)

	log.Info().
		Str("port", cfg.Port).
		Str("upload_dir", cfg.UploadDir).
		Msg("Invoice Bridge listening")

	if err := router.Run(":" + cfg.Port); err != nil {
		return fmt.Errorf("%s: server stopped: %w", op, err)
	}

	return nil
}
