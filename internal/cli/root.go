package cli

import (
	"context"

	"resumeinsight/internal/analysis"
	"resumeinsight/internal/common"
	"resumeinsight/internal/config"
	"resumeinsight/internal/errors"
	"resumeinsight/internal/extract"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

// outputConfig holds the global -o/--format flags
var outputConfig common.CommandConfig

var rootCmd = &cobra.Command{
	Use:   "resumeinsight",
	Short: "Analyze resumes and score them against job descriptions",
	Long: `resumeinsight extracts a structured candidate profile from PDF, DOCX and
plain text resumes: contact details, total experience, job history and skills
matched against a curated taxonomy. It can also score a resume against a job
description and check that the standard resume sections are present.

Run "resumeinsight serve" to expose the same analysis over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		format, err := common.ResolveOutputFormat(outputConfig.OutputFormat, cfg.App.DefaultFormat, cfg.App.SupportedFormats)
		if err != nil {
			return err
		}
		outputConfig.OutputFormat = format
		return nil
	},
}

func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	// Attach the config and logger to the context, making them available to all subcommands
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context") // Should not happen if properly initialized
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context") // Should not happen if properly initialized
}

// newEngine builds the analysis engine from the configured taxonomy
func newEngine(cfg *config.Config) (*analysis.Engine, error) {
	taxonomy, err := cfg.BuildTaxonomy()
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "Invalid skill taxonomy", err)
	}
	return analysis.NewEngine(taxonomy, analysis.WithKeywordLimit(cfg.Analysis.KeywordLimit)), nil
}

// newRunner builds the file runner shared by the file-based commands
func newRunner(cfg *config.Config, logger *errors.Logger) *common.Runner {
	files := common.NewFileProcessor(extract.NewRegistry(), cfg.App.MaxFileSize, logger)
	return common.NewRunner(files, logger)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.PersistentFlags().StringVar(&outputConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(structureCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}
