package common

import (
	"fmt"
	"io"
	"os"

	"resumeinsight/internal/errors"
	"resumeinsight/internal/formatters"
)

// CommandConfig holds common configuration for commands
type CommandConfig struct {
	OutputFile   string
	OutputFormat string
}

// OutputHandler handles formatting and writing output
type OutputHandler struct {
	fileProcessor *FileProcessor
	registry      *formatters.FormatterRegistry
	stdout        io.Writer
	logger        *errors.Logger
}

// NewOutputHandler creates an output handler that prints to stdout
func NewOutputHandler(fileProcessor *FileProcessor, logger *errors.Logger) *OutputHandler {
	return &OutputHandler{
		fileProcessor: fileProcessor,
		registry:      formatters.GlobalRegistry,
		stdout:        os.Stdout,
		logger:        logger,
	}
}

// SetStdout redirects output that has no file destination
func (oh *OutputHandler) SetStdout(w io.Writer) {
	oh.stdout = w
}

// HandleOutput formats data and writes it to the specified output
func (oh *OutputHandler) HandleOutput(data any, config CommandConfig) error {
	if err := oh.fileProcessor.ValidateOutputFile(config.OutputFile); err != nil {
		return err
	}

	output, err := oh.registry.Format(data, config.OutputFormat)
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Failed to format output as %s", config.OutputFormat), err)
	}

	if config.OutputFile == "" {
		_, err := io.WriteString(oh.stdout, output)
		return err
	}

	if err := oh.fileProcessor.WriteFile(config.OutputFile, output); err != nil {
		return err
	}
	oh.logger.Info("Output written successfully",
		"file", config.OutputFile, "format", config.OutputFormat)
	return nil
}

// GetSupportedFormats returns all supported output formats
func (oh *OutputHandler) GetSupportedFormats() []string {
	return oh.registry.GetSupportedFormats()
}
