package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resumeinsight/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalPDF builds a single page PDF that shows text in Helvetica
func minimalPDF(t *testing.T, text string) []byte {
	t.Helper()

	stream := fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

// minimalDOCX builds a WordprocessingML package with one paragraph per line
func minimalDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		fmt.Fprintf(&body, "<w:p><w:r><w:t>%s</w:t></w:r></w:p>", p)
	}

	files := []struct{ name, content string }{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`},
		{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`},
		{"word/document.xml", `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body.String() + `</w:body></w:document>`},
		{"word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestRegistryExtractPDF(t *testing.T) {
	text, err := NewRegistry().Extract(context.Background(), "resume.pdf", minimalPDF(t, "Senior Go Developer"))
	require.NoError(t, err)
	assert.Contains(t, text, "Senior Go Developer")
}

func TestRegistryExtractDOCX(t *testing.T) {
	data := minimalDOCX(t, "Name: Jane Doe", "Experience: 2019 - 2023", "Skills: Go &amp; Docker")

	text, err := NewRegistry().Extract(context.Background(), "resume.DOCX", data)
	require.NoError(t, err)
	assert.Equal(t, "Name: Jane Doe\nExperience: 2019 - 2023\nSkills: Go & Docker", text)
}

func TestRegistryExtractText(t *testing.T) {
	text, err := NewRegistry().Extract(context.Background(), "resume.md", []byte("# Jane\nGo developer"))
	require.NoError(t, err)
	assert.Equal(t, "# Jane\nGo developer", text)
}

func TestRegistryExtractFailures(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		errType  errors.ErrorType
		code     string
	}{
		{"unknown extension", "resume.odt", []byte("x"), errors.ErrorTypeValidation, errors.ErrCodeUnsupportedFileType},
		{"pdf extension with text content", "resume.pdf", []byte("just text"), errors.ErrorTypeExtraction, errors.ErrCodeExtractionFailed},
		{"docx extension with pdf content", "resume.docx", []byte("%PDF-1.4\n"), errors.ErrorTypeExtraction, errors.ErrCodeExtractionFailed},
		{"blank text file", "resume.txt", []byte("  \n\t"), errors.ErrorTypeExtraction, errors.ErrCodeEmptyDocument},
		{"invalid utf8", "resume.txt", []byte{0xff, 0xfe, 0xfd}, errors.ErrorTypeExtraction, errors.ErrCodeExtractionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry().Extract(context.Background(), tt.filename, tt.data)
			require.Error(t, err)

			appErr, ok := errors.AsAppError(err)
			require.True(t, ok, "expected AppError, got %T", err)
			assert.Equal(t, tt.errType, appErr.Type)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}
}

func TestRegistryExtractCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRegistry().Extract(ctx, "resume.txt", []byte("text"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Supports("notes.rtf"))

	r.Register(".RTF", ExtractorFunc(func(_ context.Context, _ string, data []byte) (string, error) {
		return strings.ToUpper(string(data)), nil
	}))
	assert.True(t, r.Supports("notes.rtf"))

	text, err := r.Extract(context.Background(), "notes.rtf", []byte("go"))
	require.NoError(t, err)
	assert.Equal(t, "GO", text)
}

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("Skills: Go, Docker"), 0600))

	r := NewRegistry()

	text, size, err := r.ExtractFile(context.Background(), path, 0)
	require.NoError(t, err)
	assert.Equal(t, "Skills: Go, Docker", text)
	assert.Equal(t, 18, size)

	_, _, err = r.ExtractFile(context.Background(), path, 4)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeFileTooLarge, appErr.Code)

	_, _, err = r.ExtractFile(context.Background(), filepath.Join(dir, "missing.txt"), 0)
	appErr, ok = errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTypeIO, appErr.Type)
}

func TestDocumentXMLText(t *testing.T) {
	xml := `<w:p><w:r><w:t>A</w:t><w:tab/><w:t>B</w:t></w:r></w:p><w:p><w:r><w:t>C</w:t><w:br/><w:t>D &lt;x&gt;</w:t></w:r></w:p>`
	assert.Equal(t, "A\tB\nC\nD <x>", documentXMLText(xml))
}
