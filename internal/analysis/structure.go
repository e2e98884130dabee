package analysis

import "strings"

// Sections checked by the structure analyzer, in report order
var StandardSections = []string{"Summary", "Skills", "Experience", "Education"}

// StructureReport describes how complete a resume's section layout is
type StructureReport struct {
	StructureScore  float64  `json:"structureScore"`
	MissingSections []string `json:"missingSections"`
	Keywords        []string `json:"keywords"`
}

// AnalyzeStructure scores text out of 10 by the share of standard sections it mentions
// and lists the sections it lacks together with its top keywords.
func AnalyzeStructure(text string) StructureReport {
	return analyzeStructure(text, DefaultKeywordLimit)
}

func analyzeStructure(text string, keywordLimit int) StructureReport {
	lower := strings.ToLower(text)
	missing := []string{}
	for _, section := range StandardSections {
		if !strings.Contains(lower, strings.ToLower(section)) {
			missing = append(missing, section)
		}
	}

	found := len(StandardSections) - len(missing)
	return StructureReport{
		StructureScore:  float64(found) / float64(len(StandardSections)) * 10,
		MissingSections: missing,
		Keywords:        TopKeywords(text, keywordLimit),
	}
}
