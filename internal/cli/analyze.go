package cli

import (
	"context"
	"fmt"

	"resumeinsight/internal/analysis"
	"resumeinsight/internal/common"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume-file]",
	Short: "Extract a structured profile from a resume",
	Long: `Analyze a resume and print its profile: contact details, summary, total
years of experience, job entries and the taxonomy skills it mentions, followed by
recommendations for the skills it is missing.

Supported inputs: .pdf, .docx, .txt and .md files.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var structureCmd = &cobra.Command{
	Use:   "structure [resume-file]",
	Short: "Check which standard sections a resume contains",
	Long: `Score a resume out of 10 by the share of standard sections it mentions
(Summary, Skills, Experience, Education) and list its most frequent keywords.`,
	Args: cobra.ExactArgs(1),
	RunE: runStructure,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	analyzeOperation := func(_ context.Context, docs []analysis.RawDocument) (analysis.Result, error) {
		return engine.Analyze(docs[0]), nil
	}
	logDetails := func(docs []analysis.RawDocument, cfg common.CommandConfig) {
		logger.Info("Starting resume analysis",
			"file", args[0],
			"resume_chars", len(docs[0].Text),
			"output_format", cfg.OutputFormat)
	}

	if err := common.RunCommand(cmd.Context(), newRunner(cfg, logger), outputConfig, args, analyzeOperation, logDetails); err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}
	logger.Info("Resume analysis completed successfully")
	return nil
}

func runStructure(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}
	structureOperation := func(_ context.Context, docs []analysis.RawDocument) (analysis.StructureReport, error) {
		return engine.Structure(docs[0].Text), nil
	}

	if err := common.RunCommand(cmd.Context(), newRunner(cfg, logger), outputConfig, args, structureOperation, nil); err != nil {
		return fmt.Errorf("failed to check resume structure: %w", err)
	}
	return nil
}
