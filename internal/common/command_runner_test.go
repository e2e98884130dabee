package common

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"resumeinsight/internal/analysis"
	"resumeinsight/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()

	logger := errors.NewLoggerWithWriter(io.Discard, slog.LevelError)
	runner := NewRunner(NewFileProcessor(nil, 1<<20, logger), logger)
	var out bytes.Buffer
	runner.Output.SetStdout(&out)
	return runner, &out
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRunCommandToStdout(t *testing.T) {
	runner, out := testRunner(t)
	resume := writeTemp(t, "resume.txt", "Name: Grace Hopper\nSkills: Python\n")

	var logged int
	err := RunCommand(context.Background(), runner, CommandConfig{OutputFormat: "json"}, []string{resume},
		func(_ context.Context, docs []analysis.RawDocument) (analysis.StructureReport, error) {
			return analysis.AnalyzeStructure(docs[0].Text), nil
		},
		func(docs []analysis.RawDocument, _ CommandConfig) { logged = len(docs) },
	)
	require.NoError(t, err)
	assert.Equal(t, 1, logged)
	assert.Contains(t, out.String(), `"structureScore": 2.5`)
}

func TestRunCommandToFile(t *testing.T) {
	runner, out := testRunner(t)
	resume := writeTemp(t, "resume.md", "Summary: builder\n")
	target := filepath.Join(t.TempDir(), "nested", "report.txt")

	err := RunCommand(context.Background(), runner, CommandConfig{OutputFile: target, OutputFormat: "text"}, []string{resume},
		func(_ context.Context, docs []analysis.RawDocument) (analysis.StructureReport, error) {
			return analysis.AnalyzeStructure(docs[0].Text), nil
		}, nil)
	require.NoError(t, err)
	assert.Empty(t, out.String())

	written, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(written), "=== STRUCTURE ===")
}

func TestRunCommandErrors(t *testing.T) {
	runner, _ := testRunner(t)
	op := func(context.Context, []analysis.RawDocument) (analysis.StructureReport, error) {
		return analysis.StructureReport{}, nil
	}

	err := RunCommand(context.Background(), runner, CommandConfig{OutputFormat: "json"},
		[]string{filepath.Join(t.TempDir(), "missing.txt")}, op, nil)
	assert.Equal(t, errors.ErrCodeFileNotFound, codeOf(err))

	err = RunCommand(context.Background(), runner, CommandConfig{OutputFormat: "json"},
		[]string{writeTemp(t, "resume.rtf", "x")}, op, nil)
	assert.Equal(t, errors.ErrCodeUnsupportedFileType, codeOf(err))

	err = RunCommand(context.Background(), runner, CommandConfig{OutputFormat: "xml"},
		[]string{writeTemp(t, "resume.txt", "Skills: Go")}, op, nil)
	assert.Equal(t, errors.ErrCodeInvalidFormat, codeOf(err))
}

func TestFileProcessorSizeLimit(t *testing.T) {
	logger := errors.NewLoggerWithWriter(io.Discard, slog.LevelError)
	fp := NewFileProcessor(nil, 4, logger)

	_, err := fp.ReadDocument(context.Background(), writeTemp(t, "resume.txt", "Skills: Go"))
	assert.Equal(t, errors.ErrCodeFileTooLarge, codeOf(err))
}

func TestFileProcessorLoader(t *testing.T) {
	logger := errors.NewLoggerWithWriter(io.Discard, slog.LevelError)
	fp := NewFileProcessor(nil, 0, logger)

	doc, err := fp.Loader(writeTemp(t, "resume.txt", "Skills: Go"))(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Skills: Go", doc.Text)
	assert.Equal(t, 10, doc.ByteLength)
}

func codeOf(err error) string {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return ""
	}
	return appErr.Code
}
