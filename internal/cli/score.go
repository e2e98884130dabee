package cli

import (
	"context"
	"fmt"

	"resumeinsight/internal/analysis"
	"resumeinsight/internal/clarity"
	"resumeinsight/internal/common"
	"resumeinsight/internal/scoring"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [resume-file]",
	Short: "Score a resume against a job description",
	Long: `Score a resume against a job description. The total is a weighted blend of
three components, each out of 100:

- clarity (40%): how clearly the resume is written
- keyword density (30%): share of resume words that are one of --keywords
- job match (30%): word overlap between the resume and the job description`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

var scoreConfig struct {
	JobFile  string
	Keywords []string
}

func init() {
	scoreCmd.Flags().StringVar(&scoreConfig.JobFile, "job", "", "Job description file")
	scoreCmd.Flags().StringSliceVar(&scoreConfig.Keywords, "keywords", nil, "Comma-separated keywords to measure density for")
	_ = scoreCmd.MarkFlagRequired("job")
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	clarityScorer, err := clarity.New(cmd.Context(), cfg.Analysis.Clarity, logger, nil)
	if err != nil {
		return fmt.Errorf("failed to create clarity scorer: %w", err)
	}
	scorer := scoring.NewScorer(clarityScorer)

	scoreOperation := func(ctx context.Context, docs []analysis.RawDocument) (scoring.ScoreBreakdown, error) {
		return scorer.Score(ctx, docs[0].Text, docs[1].Text, scoreConfig.Keywords)
	}
	logDetails := func(docs []analysis.RawDocument, cfg common.CommandConfig) {
		logger.Info("Starting resume scoring",
			"resume_chars", len(docs[0].Text),
			"job_chars", len(docs[1].Text),
			"keywords", len(scoreConfig.Keywords),
			"clarity_provider", clarity.Status(clarityScorer)["provider"],
			"output_format", cfg.OutputFormat)
	}

	files := []string{args[0], scoreConfig.JobFile}
	if err := common.RunCommand(cmd.Context(), newRunner(cfg, logger), outputConfig, files, scoreOperation, logDetails); err != nil {
		return fmt.Errorf("failed to score resume: %w", err)
	}
	logger.Info("Resume scoring completed successfully")
	return nil
}
