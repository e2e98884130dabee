package extract

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Document kinds, used as metric and log labels
const (
	KindPDF     = "pdf"
	KindDOCX    = "docx"
	KindText    = "text"
	KindUnknown = "unknown"
)

// ValidateInputFile checks that filename names a readable regular file and returns its info
func ValidateInputFile(filename string) (fs.FileInfo, error) {
	if filename == "" {
		return nil, fmt.Errorf("filename cannot be empty")
	}

	info, err := os.Stat(filename)
	switch {
	case os.IsNotExist(err):
		return nil, fmt.Errorf("file does not exist: %s", filename)
	case err != nil:
		return nil, fmt.Errorf("cannot access file %s: %w", filename, err)
	case !info.Mode().IsRegular():
		return nil, fmt.Errorf("not a regular file: %s", filename)
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot read file %s: %w", filename, err)
	}
	return info, f.Close()
}

// ValidateOutputFile makes sure the directory of filename exists. An empty name means stdout.
func ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("cannot create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExtension returns the lower-cased extension of filename, dot included
func FileExtension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// Kind classifies filename by extension
func Kind(filename string) string {
	switch ext := FileExtension(filename); {
	case ext == ".pdf":
		return KindPDF
	case ext == ".docx":
		return KindDOCX
	case slices.Contains(textExtensions, ext):
		return KindText
	default:
		return KindUnknown
	}
}

// FormatFileSize returns a human-readable size
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
