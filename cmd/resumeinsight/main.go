package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"resumeinsight/internal/cli"
	"resumeinsight/internal/config"
	"resumeinsight/internal/errors"
)

func main() {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load .env file: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := errors.New(cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Vault secrets override file and environment values, so validate again afterwards
	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		logger.LogError(err, "Failed to load secrets from Vault")
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.LogError(err, "Invalid configuration after loading Vault secrets")
		os.Exit(1)
	}

	logger.Debug("Starting resumeinsight",
		"version", cli.Version,
		"log_level", cfg.App.LogLevel,
		"clarity_provider", cfg.Analysis.Clarity.Provider)

	if err := cli.Execute(ctx, cfg, logger); err != nil {
		logger.LogError(err, "Application execution failed")
		os.Exit(1)
	}
}
