package extract

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/nguyenthenguyen/docx"
)

var (
	paragraphEndPattern = regexp.MustCompile(`</w:p>|<w:br\s*/>|<w:cr\s*/>`)
	tabPattern          = regexp.MustCompile(`<w:tab\s*/>`)
	xmlTagPattern       = regexp.MustCompile(`<[^>]*>`)
)

func extractDOCX(_ context.Context, _ string, data []byte) (string, error) {
	sniffed := mimetype.Detect(data)
	if !sniffed.Is(MediaTypeDOCX) && !sniffed.Is("application/zip") {
		return "", fmt.Errorf("content is not a DOCX document (detected %s)", sniffed.String())
	}

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return documentXMLText(doc.Editable().GetContent()), nil
}

// documentXMLText flattens WordprocessingML into plain text with one line per paragraph
func documentXMLText(content string) string {
	content = paragraphEndPattern.ReplaceAllString(content, "\n")
	content = tabPattern.ReplaceAllString(content, "\t")
	content = xmlTagPattern.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
