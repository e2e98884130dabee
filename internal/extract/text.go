package extract

import (
	"context"
	"fmt"
	"unicode/utf8"
)

var textExtensions = []string{".txt", ".md", ".markdown", ".text"}

func extractText(_ context.Context, _ string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("text file is not valid UTF-8")
	}
	return string(data), nil
}
