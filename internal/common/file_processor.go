package common

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"resumeinsight/internal/analysis"
	"resumeinsight/internal/errors"
	"resumeinsight/internal/extract"
)

// FileProcessor reads resume documents from disk and writes command output
type FileProcessor struct {
	extractor   *extract.Registry
	maxFileSize int64
	logger      *errors.Logger
}

// NewFileProcessor creates a file processor. maxFileSize <= 0 disables the size check.
func NewFileProcessor(extractor *extract.Registry, maxFileSize int64, logger *errors.Logger) *FileProcessor {
	if extractor == nil {
		extractor = extract.NewRegistry()
	}
	return &FileProcessor{extractor: extractor, maxFileSize: maxFileSize, logger: logger}
}

// ReadDocument extracts the text of one PDF, DOCX or plain text file
func (fp *FileProcessor) ReadDocument(ctx context.Context, filename string) (analysis.RawDocument, error) {
	if !fp.extractor.Supports(filename) {
		return analysis.RawDocument{}, errors.NewValidationError(errors.ErrCodeUnsupportedFileType,
			fmt.Sprintf("Unsupported file type: %s", filename), nil)
	}

	text, size, err := fp.extractor.ExtractFile(ctx, filename, fp.maxFileSize)
	if err != nil {
		return analysis.RawDocument{}, err
	}
	if fp.logger != nil {
		fp.logger.Debug("Document extracted",
			"filename", filename,
			"kind", extract.Kind(filename),
			"size", extract.FormatFileSize(int64(size)),
			"chars", len(text))
	}
	return analysis.NewDocument(text, size), nil
}

// ReadDocuments extracts every file in order and stops at the first failure
func (fp *FileProcessor) ReadDocuments(ctx context.Context, filenames ...string) ([]analysis.RawDocument, error) {
	docs := make([]analysis.RawDocument, len(filenames))
	for i, filename := range filenames {
		doc, err := fp.ReadDocument(ctx, filename)
		if err != nil {
			return nil, err
		}
		docs[i] = doc
	}
	return docs, nil
}

// Loader returns a batch loader for filename
func (fp *FileProcessor) Loader(filename string) analysis.Loader {
	return func(ctx context.Context) (analysis.RawDocument, error) {
		return fp.ReadDocument(ctx, filename)
	}
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}
	return nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout
	}

	if err := extract.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}
	return nil
}
