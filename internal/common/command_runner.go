package common

import (
	"context"
	"time"

	"resumeinsight/internal/analysis"
	"resumeinsight/internal/errors"
)

// OperationFunc turns the extracted input documents into a command result
type OperationFunc[Output any] func(context.Context, []analysis.RawDocument) (Output, error)

// LogDetailsFunc logs the start of an operation
type LogDetailsFunc func(docs []analysis.RawDocument, cfg CommandConfig)

// Runner wires file reading, the operation and output handling for file-based commands
type Runner struct {
	Files  *FileProcessor
	Output *OutputHandler
	Logger *errors.Logger
}

// NewRunner creates a runner that reads files through files
func NewRunner(files *FileProcessor, logger *errors.Logger) *Runner {
	return &Runner{
		Files:  files,
		Output: NewOutputHandler(files, logger),
		Logger: logger,
	}
}

// RunCommand reads args as documents, runs operation on them and writes the formatted result
func RunCommand[Output any](
	ctx context.Context,
	runner *Runner,
	cmdConfig CommandConfig,
	args []string,
	operation OperationFunc[Output],
	logDetails LogDetailsFunc,
) error {
	docs, err := runner.Files.ReadDocuments(ctx, args...)
	if err != nil {
		return err
	}

	if logDetails != nil {
		logDetails(docs, cmdConfig)
	}

	start := time.Now()
	result, err := operation(ctx, docs)
	if err != nil {
		return err
	}
	runner.Logger.Debug("Operation finished", "duration", time.Since(start))

	return runner.Output.HandleOutput(result, cmdConfig)
}
