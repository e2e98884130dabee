package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"resumeinsight/internal/errors"
)

// Media types recognized for uploads
const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeText = "text/plain"
)

// Extractor turns the raw bytes of one document into plain text
type Extractor interface {
	Extract(ctx context.Context, name string, data []byte) (string, error)
}

// ExtractorFunc adapts a function to the Extractor interface
type ExtractorFunc func(ctx context.Context, name string, data []byte) (string, error)

// Extract implements Extractor
func (f ExtractorFunc) Extract(ctx context.Context, name string, data []byte) (string, error) {
	return f(ctx, name, data)
}

// Registry dispatches extraction on the file extension
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry returns a registry that handles .pdf, .docx and plain text files
func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]Extractor)}
	r.Register(".pdf", ExtractorFunc(extractPDF))
	r.Register(".docx", ExtractorFunc(extractDOCX))
	for _, ext := range textExtensions {
		r.Register(ext, ExtractorFunc(extractText))
	}
	return r
}

// Register sets the extractor for a file extension, replacing any existing one
func (r *Registry) Register(ext string, e Extractor) {
	r.byExt[strings.ToLower(ext)] = e
}

// Supports reports whether name has a registered extension
func (r *Registry) Supports(name string) bool {
	_, ok := r.byExt[FileExtension(name)]
	return ok
}

// Extract implements Extractor. Documents that yield no text are rejected.
func (r *Registry) Extract(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := FileExtension(name)
	e, ok := r.byExt[ext]
	if !ok {
		return "", errors.NewValidationError(errors.ErrCodeUnsupportedFileType,
			fmt.Sprintf("Unsupported file type: %s", ext), nil).WithContext("file", name)
	}

	text, err := e.Extract(ctx, name, data)
	if err != nil {
		if _, isApp := errors.AsAppError(err); isApp {
			return "", err
		}
		return "", errors.NewExtractionError(errors.ErrCodeExtractionFailed,
			"Failed to extract text", err).WithContext("file", name)
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.NewExtractionError(errors.ErrCodeEmptyDocument,
			"Document contains no extractable text", nil).WithContext("file", name)
	}
	return text, nil
}

// ExtractFile reads path and extracts its text. Files larger than maxSize are rejected;
// maxSize <= 0 disables the check.
func (r *Registry) ExtractFile(ctx context.Context, path string, maxSize int64) (string, int, error) {
	info, err := ValidateInputFile(path)
	if err != nil {
		return "", 0, errors.NewIOError(errors.ErrCodeFileNotFound, "Invalid input file", err)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return "", 0, errors.NewValidationError(errors.ErrCodeFileTooLarge,
			fmt.Sprintf("File %s is %s, larger than the %s limit", path, FormatFileSize(info.Size()), FormatFileSize(maxSize)), nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0, errors.NewIOError(errors.ErrCodeFileNotReadable, "Failed to read input file", err)
	}

	text, err := r.Extract(ctx, path, data)
	return text, len(data), err
}
