package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

func extractPDF(ctx context.Context, _ string, data []byte) (string, error) {
	if !mimetype.Detect(data).Is(MediaTypePDF) {
		return "", fmt.Errorf("content is not a PDF document")
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var text strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", i, err)
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}
	return text.String(), nil
}
