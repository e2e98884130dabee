package cli

import (
	"context"
	"fmt"
	"time"

	"resumeinsight/internal/clarity"
	"resumeinsight/internal/config"
	"resumeinsight/internal/extract"
	"resumeinsight/internal/observability"
	"resumeinsight/internal/scoring"
	"resumeinsight/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP analysis server",
	Long: `Start an HTTP server that exposes resume analysis as a REST API.

Available endpoints:
- POST /upload: Analyze an uploaded PDF or DOCX resume (multipart field "resume")
- POST /analyze: Analyze resume text
- POST /score: Score a resume against a job description
- POST /structure: Check resume section structure
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	serveCmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")
	serveCmd.Flags().String("ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")
}

// applyServeFlags copies explicitly set flags over the loaded config
func applyServeFlags(cmd *cobra.Command, cfg *config.ServerConfig) {
	overrides := []struct {
		flag   string
		target *string
	}{
		{"port", &cfg.Port},
		{"host", &cfg.Host},
		{"tls-mode", &cfg.TLS.Mode},
		{"cert-file", &cfg.TLS.CertFile},
		{"key-file", &cfg.TLS.KeyFile},
		{"ca-file", &cfg.TLS.CAFile},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			*o.target, _ = cmd.Flags().GetString(o.flag)
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())
	ctx := cmd.Context()

	applyServeFlags(cmd, &cfg.Server)
	if err := cfg.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	obs, err := observability.NewManager(ctx, cfg.Observability, Version)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			logger.LogError(err, "Failed to shutdown observability")
		}
	}()

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}
	clarityScorer, err := clarity.New(ctx, cfg.Analysis.Clarity, logger, obs.Metrics().RecordClarityFallback)
	if err != nil {
		return fmt.Errorf("failed to create clarity scorer: %w", err)
	}

	deps := server.Deps{
		Engine:        engine,
		Clarity:       clarityScorer,
		Scorer:        scoring.NewScorer(clarityScorer),
		Extractor:     extract.NewRegistry(),
		Observability: obs,
	}
	if cfg.Vault.Enabled && cfg.Vault.Secrets.TLSCerts != "" {
		vault, err := config.NewVaultClient(cfg.Vault, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to vault: %w", err)
		}
		deps.Secrets = vault
	}

	srv, err := server.New(cfg, deps, Version, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start(ctx)
}
