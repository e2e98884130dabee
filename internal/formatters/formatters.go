package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumeinsight/internal/analysis"
	"resumeinsight/internal/scoring"
)

// Data type names used as registry keys
const (
	TypeAny       = "any"
	TypeResult    = "Result"
	TypeScore     = "ScoreBreakdown"
	TypeStructure = "StructureReport"
	TypeBatch     = "BatchResults"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", TypeAny, &JSONFormatter{})
	registry.RegisterFormatter("text", TypeResult, &ResultTextFormatter{})
	registry.RegisterFormatter("markdown", TypeResult, &ResultMarkdownFormatter{})
	registry.RegisterFormatter("text", TypeScore, &ScoreTextFormatter{})
	registry.RegisterFormatter("markdown", TypeScore, &ScoreMarkdownFormatter{})
	registry.RegisterFormatter("text", TypeStructure, &StructureTextFormatter{})
	registry.RegisterFormatter("markdown", TypeStructure, &StructureMarkdownFormatter{})
	registry.RegisterFormatter("text", TypeBatch, &BatchFormatter{markdown: false})
	registry.RegisterFormatter("markdown", TypeBatch, &BatchFormatter{markdown: true})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters[TypeAny]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case analysis.Result:
		return TypeResult
	case scoring.ScoreBreakdown:
		return TypeScore
	case analysis.StructureReport:
		return TypeStructure
	case []analysis.BatchResult:
		return TypeBatch
	default:
		return TypeAny
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return TypeAny
}

// ResultTextFormatter renders a profile and its recommendations as plain text
type ResultTextFormatter struct{}

func (f *ResultTextFormatter) Format(data any) (string, error) {
	result, ok := data.(analysis.Result)
	if !ok {
		return "", fmt.Errorf("expected Result, got %T", data)
	}
	var output strings.Builder
	writeResultText(&output, result)
	return output.String(), nil
}

func (f *ResultTextFormatter) SupportedType() string {
	return TypeResult
}

func writeResultText(output *strings.Builder, result analysis.Result) {
	p := result.Profile

	output.WriteString("=== RESUME SUMMARY ===\n")
	fmt.Fprintf(output, "Name:       %s\n", p.Name)
	fmt.Fprintf(output, "Email:      %s\n", p.Email)
	fmt.Fprintf(output, "Phone:      %s\n", p.Phone)
	fmt.Fprintf(output, "Location:   %s\n", p.Location)
	fmt.Fprintf(output, "LinkedIn:   %s\n", p.LinkedIn)
	fmt.Fprintf(output, "GitHub:     %s\n", p.GitHub)
	fmt.Fprintf(output, "Summary:    %s\n", p.Summary)
	fmt.Fprintf(output, "Experience: %.1f years\n", p.TotalExperienceYears)
	fmt.Fprintf(output, "Words:      %d\n", p.WordCount)
	output.WriteString("\n")

	if len(p.Experience) > 0 {
		output.WriteString("=== EXPERIENCE ===\n")
		for _, entry := range p.Experience {
			fmt.Fprintf(output, "%s | %s | %s\n", entry.Title, entry.Company, entry.Duration)
			if len(entry.Technologies) > 0 {
				fmt.Fprintf(output, "  Technologies: %s\n", strings.Join(entry.Technologies, ", "))
			}
			for _, r := range entry.Responsibilities {
				fmt.Fprintf(output, "  - %s\n", r)
			}
		}
		output.WriteString("\n")
	}

	output.WriteString("=== SKILLS ===\n")
	fmt.Fprintf(output, "Primary:   %s\n", joinOrNone(p.Skills.PrimarySkills))
	fmt.Fprintf(output, "Secondary: %s\n", joinOrNone(p.Skills.SecondarySkills))
	fmt.Fprintf(output, "Missing:   %s\n", joinOrNone(p.Skills.MissingSkills))
	output.WriteString("\n")

	output.WriteString("=== RECOMMENDATIONS ===\n")
	fmt.Fprintf(output, "Improve ATS: %t\n", result.Recommendations.ImproveATS)
	fmt.Fprintf(output, "Add keywords: %s\n", joinOrNone(result.Recommendations.AddMoreKeywords))
}

// ResultMarkdownFormatter renders a profile and its recommendations as markdown
type ResultMarkdownFormatter struct{}

func (f *ResultMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(analysis.Result)
	if !ok {
		return "", fmt.Errorf("expected Result, got %T", data)
	}
	var output strings.Builder
	writeResultMarkdown(&output, result, "#")
	return output.String(), nil
}

func (f *ResultMarkdownFormatter) SupportedType() string {
	return TypeResult
}

// writeResultMarkdown writes the result with level as its top heading marker
func writeResultMarkdown(output *strings.Builder, result analysis.Result, level string) {
	p := result.Profile
	sub := level + "#"

	fmt.Fprintf(output, "%s Resume Summary\n\n", level)
	output.WriteString("| Field | Value |\n|---|---|\n")
	for _, row := range [][2]string{
		{"Name", p.Name},
		{"Email", p.Email},
		{"Phone", p.Phone},
		{"Location", p.Location},
		{"LinkedIn", p.LinkedIn},
		{"GitHub", p.GitHub},
		{"Summary", p.Summary},
		{"Experience", fmt.Sprintf("%.1f years", p.TotalExperienceYears)},
		{"Word count", fmt.Sprintf("%d", p.WordCount)},
	} {
		fmt.Fprintf(output, "| %s | %s |\n", row[0], escapeCell(row[1]))
	}
	output.WriteString("\n")

	if len(p.Experience) > 0 {
		fmt.Fprintf(output, "%s Experience\n\n", sub)
		for _, entry := range p.Experience {
			fmt.Fprintf(output, "**%s** at %s (%s)\n\n", entry.Title, entry.Company, entry.Duration)
			for _, r := range entry.Responsibilities {
				fmt.Fprintf(output, "- %s\n", r)
			}
			if len(entry.Technologies) > 0 {
				fmt.Fprintf(output, "\n*Technologies:* %s\n", strings.Join(entry.Technologies, ", "))
			}
			output.WriteString("\n")
		}
	}

	fmt.Fprintf(output, "%s Skills\n\n", sub)
	fmt.Fprintf(output, "- **Primary:** %s\n", joinOrNone(p.Skills.PrimarySkills))
	fmt.Fprintf(output, "- **Secondary:** %s\n", joinOrNone(p.Skills.SecondarySkills))
	fmt.Fprintf(output, "- **Missing:** %s\n\n", joinOrNone(p.Skills.MissingSkills))

	fmt.Fprintf(output, "%s Recommendations\n\n", sub)
	if !result.Recommendations.ImproveATS {
		output.WriteString("No changes needed.\n")
		return
	}
	output.WriteString("Add these keywords to improve ATS matching:\n\n")
	for _, kw := range result.Recommendations.AddMoreKeywords {
		fmt.Fprintf(output, "- %s\n", kw)
	}
}

// ScoreTextFormatter renders a score breakdown as plain text
type ScoreTextFormatter struct{}

func (f *ScoreTextFormatter) Format(data any) (string, error) {
	score, ok := data.(scoring.ScoreBreakdown)
	if !ok {
		return "", fmt.Errorf("expected ScoreBreakdown, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== RESUME SCORE ===\n")
	fmt.Fprintf(&output, "Clarity:         %3d/100\n", score.ClarityScore)
	fmt.Fprintf(&output, "Keyword density: %3d/100\n", score.KeywordDensityScore)
	fmt.Fprintf(&output, "Job match:       %3d/100\n", score.JobMatchScore)
	fmt.Fprintf(&output, "Total:           %3d/100\n", score.TotalScore)
	return output.String(), nil
}

func (f *ScoreTextFormatter) SupportedType() string {
	return TypeScore
}

// ScoreMarkdownFormatter renders a score breakdown as a markdown table
type ScoreMarkdownFormatter struct{}

func (f *ScoreMarkdownFormatter) Format(data any) (string, error) {
	score, ok := data.(scoring.ScoreBreakdown)
	if !ok {
		return "", fmt.Errorf("expected ScoreBreakdown, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Resume Score\n\n")
	output.WriteString("| Component | Score | Weight |\n|---|---|---|\n")
	fmt.Fprintf(&output, "| Clarity | %d | %.0f%% |\n", score.ClarityScore, scoring.ClarityWeight*100)
	fmt.Fprintf(&output, "| Keyword density | %d | %.0f%% |\n", score.KeywordDensityScore, scoring.DensityWeight*100)
	fmt.Fprintf(&output, "| Job match | %d | %.0f%% |\n", score.JobMatchScore, scoring.MatchWeight*100)
	fmt.Fprintf(&output, "\n**Total:** %d/100\n", score.TotalScore)
	return output.String(), nil
}

func (f *ScoreMarkdownFormatter) SupportedType() string {
	return TypeScore
}

// StructureTextFormatter renders a structure report as plain text
type StructureTextFormatter struct{}

func (f *StructureTextFormatter) Format(data any) (string, error) {
	report, ok := data.(analysis.StructureReport)
	if !ok {
		return "", fmt.Errorf("expected StructureReport, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== STRUCTURE ===\n")
	fmt.Fprintf(&output, "Score: %.1f/10\n", report.StructureScore)
	fmt.Fprintf(&output, "Missing sections: %s\n", joinOrNone(report.MissingSections))
	fmt.Fprintf(&output, "Top keywords: %s\n", joinOrNone(report.Keywords))
	return output.String(), nil
}

func (f *StructureTextFormatter) SupportedType() string {
	return TypeStructure
}

// StructureMarkdownFormatter renders a structure report as markdown
type StructureMarkdownFormatter struct{}

func (f *StructureMarkdownFormatter) Format(data any) (string, error) {
	report, ok := data.(analysis.StructureReport)
	if !ok {
		return "", fmt.Errorf("expected StructureReport, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Resume Structure\n\n")
	fmt.Fprintf(&output, "**Score:** %.1f/10\n\n", report.StructureScore)
	if len(report.MissingSections) > 0 {
		output.WriteString("## Missing Sections\n\n")
		for _, s := range report.MissingSections {
			fmt.Fprintf(&output, "- %s\n", s)
		}
		output.WriteString("\n")
	}
	if len(report.Keywords) > 0 {
		output.WriteString("## Top Keywords\n\n")
		for i, kw := range report.Keywords {
			fmt.Fprintf(&output, "%d. %s\n", i+1, kw)
		}
	}
	return output.String(), nil
}

func (f *StructureMarkdownFormatter) SupportedType() string {
	return TypeStructure
}

// BatchFormatter renders batch results one file after another
type BatchFormatter struct {
	markdown bool
}

func (f *BatchFormatter) Format(data any) (string, error) {
	results, ok := data.([]analysis.BatchResult)
	if !ok {
		return "", fmt.Errorf("expected []BatchResult, got %T", data)
	}

	var output strings.Builder
	failed := 0
	for i, r := range results {
		if i > 0 {
			output.WriteString("\n")
		}
		if f.markdown {
			fmt.Fprintf(&output, "# %s\n\n", r.Name)
		} else {
			fmt.Fprintf(&output, "##### %s #####\n", r.Name)
		}

		if r.Result == nil {
			failed++
			fmt.Fprintf(&output, "Error: %s\n", r.Error)
			continue
		}
		if f.markdown {
			writeResultMarkdown(&output, *r.Result, "##")
		} else {
			writeResultText(&output, *r.Result)
		}
	}

	fmt.Fprintf(&output, "\n%d of %d files analyzed successfully\n", len(results)-failed, len(results))
	return output.String(), nil
}

func (f *BatchFormatter) SupportedType() string {
	return TypeBatch
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
