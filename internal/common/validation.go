package common

import (
	"fmt"
	"slices"
)

// ValidateOutputFormat validates format against configured supported formats
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil // no restrictions configured
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// ResolveOutputFormat applies the default format when none was requested and validates the result
func ResolveOutputFormat(requested, defaultFormat string, supportedFormats []string) (string, error) {
	format := requested
	if format == "" {
		format = defaultFormat
	}
	if err := ValidateOutputFormat(format, supportedFormats); err != nil {
		return "", err
	}
	return format, nil
}
