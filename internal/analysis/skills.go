package analysis

import "strings"

// SkillMatcher classifies taxonomy skills against text using case-insensitive
// substring containment. A skill embedded in a longer word still counts.
type SkillMatcher struct {
	taxonomy *Taxonomy
}

// NewSkillMatcher creates a matcher over the given taxonomy
func NewSkillMatcher(taxonomy *Taxonomy) *SkillMatcher {
	return &SkillMatcher{taxonomy: taxonomy}
}

// Classify returns the primary and secondary skills found in text and the primary
// skills that are missing. Secondary skills are never reported as missing.
func (m *SkillMatcher) Classify(text string) SkillSet {
	lower := strings.ToLower(text)
	set := SkillSet{
		PrimarySkills:   []string{},
		SecondarySkills: []string{},
		MissingSkills:   []string{},
	}

	for _, skill := range m.taxonomy.primary {
		if containsFold(lower, skill) {
			set.PrimarySkills = append(set.PrimarySkills, skill)
		} else {
			set.MissingSkills = append(set.MissingSkills, skill)
		}
	}
	for _, skill := range m.taxonomy.secondary {
		if containsFold(lower, skill) {
			set.SecondarySkills = append(set.SecondarySkills, skill)
		}
	}
	return set
}

// Match returns every taxonomy skill found in text, primary tier first
func (m *SkillMatcher) Match(text string) []string {
	set := m.Classify(text)
	return append(set.PrimarySkills, set.SecondarySkills...)
}

func containsFold(lowerText, skill string) bool {
	return strings.Contains(lowerText, strings.ToLower(skill))
}
