package analysis

import (
	"regexp"
	"strings"
)

var (
	sectionHeaderPattern   = regexp.MustCompile(`(?i)(?:experience|work history|employment)[:\s]*`)
	nextHeaderPattern      = regexp.MustCompile(`\n\w+:`)
	yearOrPresentPattern   = regexp.MustCompile(`(?i)\d{4}|present`)
	degreePattern          = regexp.MustCompile(`(?i)bachelor|master|phd`)
	entryPattern           = regexp.MustCompile(`(?i)^(.*?)(?:at|,| - )\s*([^(]+)\s*\((\d{4}\s*-\s*(?:present|\d{4}))\)`)
	bulletPattern          = regexp.MustCompile(`^[•-]\s+`)
	educationBulletPattern = regexp.MustCompile(`(?i)bachelor|master|phd|university|college|gpa`)
	closedRangePattern     = regexp.MustCompile(`\d{4}\s*-\s*\d{4}`)
)

var developerResponsibilities = []string{
	"Developed and maintained software applications",
	"Collaborated with team members on projects",
	"Implemented new features and functionality",
}

// EntryParser turns experience sections into structured job entries
type EntryParser struct {
	skills *SkillMatcher
}

// NewEntryParser creates a parser that tags entries with skills from the matcher
func NewEntryParser(skills *SkillMatcher) *EntryParser {
	return &EntryParser{skills: skills}
}

// ExperienceSections returns the body of every experience section in text, in order.
// A section starts after an experience header and ends at the next "\n<word>:" header.
func ExperienceSections(text string) []string {
	var sections []string
	offset := 0
	for offset < len(text) {
		loc := sectionHeaderPattern.FindStringIndex(text[offset:])
		if loc == nil {
			break
		}
		start := offset + loc[1]
		end := len(text)
		if next := nextHeaderPattern.FindStringIndex(text[start:]); next != nil {
			end = start + next[0]
		}
		sections = append(sections, text[start:end])
		offset = end
	}
	return sections
}

// Parse extracts the job entries from every experience section of text
func (p *EntryParser) Parse(text string) []ExperienceEntry {
	entries := []ExperienceEntry{}
	for _, section := range ExperienceSections(text) {
		entries = append(entries, p.parseSection(section)...)
	}
	return entries
}

func (p *EntryParser) parseSection(section string) []ExperienceEntry {
	bullets := sectionBullets(section)

	var entries []ExperienceEntry
	for _, line := range strings.Split(section, "\n") {
		if !isEntryCandidate(line) {
			continue
		}
		m := entryPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		entry := ExperienceEntry{
			Title:        strings.TrimSpace(m[1]),
			Company:      strings.TrimSpace(m[2]),
			Duration:     strings.TrimSpace(m[3]),
			Technologies: p.skills.Match(line),
		}
		entry.Responsibilities = responsibilitiesFor(entry.Title, bullets)
		entries = append(entries, entry)
	}
	return entries
}

func isEntryCandidate(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	if !yearOrPresentPattern.MatchString(line) {
		return false
	}
	if strings.Contains(strings.ToLower(line), "education") {
		return false
	}
	return !degreePattern.MatchString(line)
}

// sectionBullets collects the bullet lines of a section with their markers removed.
// Bullets that look like education details or carry a closed year range are skipped.
func sectionBullets(section string) []string {
	var bullets []string
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if !bulletPattern.MatchString(line) {
			continue
		}
		if educationBulletPattern.MatchString(line) || closedRangePattern.MatchString(line) {
			continue
		}
		if item := strings.TrimSpace(bulletPattern.ReplaceAllString(line, "")); item != "" {
			bullets = append(bullets, item)
		}
	}
	return bullets
}

func responsibilitiesFor(title string, bullets []string) []string {
	switch {
	case len(bullets) > 0:
		return append([]string(nil), bullets...)
	case strings.Contains(strings.ToLower(title), "developer"):
		return append([]string(nil), developerResponsibilities...)
	default:
		return []string{}
	}
}
