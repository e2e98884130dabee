package cli

import (
	"fmt"
	"time"

	"resumeinsight/internal/analysis"

	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch [resume-files...]",
	Short: "Analyze many resumes concurrently",
	Long: `Analyze several resumes in one run. Files are processed concurrently and
reported in the order given. A file that cannot be read or extracted is reported
with its error and does not stop the rest of the batch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

var batchConcurrency int

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "Maximum files analyzed at once (default from config)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}
	runner := newRunner(cfg, logger)

	concurrency := batchConcurrency
	if concurrency <= 0 {
		concurrency = cfg.App.BatchConcurrency
	}

	items := make([]analysis.BatchItem, len(args))
	for i, file := range args {
		items[i] = analysis.BatchItem{Name: file, Load: runner.Files.Loader(file)}
	}

	logger.Info("Starting batch analysis", "files", len(items), "concurrency", concurrency)
	start := time.Now()

	results, err := engine.AnalyzeBatch(cmd.Context(), items, concurrency)
	if err != nil {
		return fmt.Errorf("batch analysis interrupted: %w", err)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			logger.Warn("Resume could not be analyzed", "file", r.Name, "error", r.Error)
		}
	}
	logger.Info("Batch analysis completed",
		"files", len(results),
		"failed", failed,
		"duration", time.Since(start))

	if err := runner.Output.HandleOutput(results, outputConfig); err != nil {
		return err
	}
	if failed == len(results) {
		return fmt.Errorf("none of the %d files could be analyzed", failed)
	}
	return nil
}
