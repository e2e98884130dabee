package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEntryParser() *EntryParser {
	return NewEntryParser(NewSkillMatcher(DefaultTaxonomy()))
}

func TestExperienceSections(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "section ends at next header",
			text:     "Experience:\nA\nSkills: Go",
			expected: []string{"A"},
		},
		{
			name:     "section runs to end of text",
			text:     "Work History\nA\nB",
			expected: []string{"A\nB"},
		},
		{
			name:     "multiple sections in order",
			text:     "Experience:\nA\nSkills: Go\nEmployment:\nB",
			expected: []string{"A", "B"},
		},
		{
			name:     "no header",
			text:     "Skills: Go",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExperienceSections(tt.text))
		})
	}
}

func TestEntryParserWithBullets(t *testing.T) {
	text := "Name: Jane Doe\n" +
		"Experience:\n" +
		"Senior Developer at Acme Corp (2018 - present) Python, Docker\n" +
		"- Built payment APIs\n" +
		"- Led migration to the cloud\n" +
		"Backend Engineer, Globex (2015 - 2018)\n" +
		"Education:\n" +
		"Bachelor of Science, State University (2011 - 2015)\n"

	entries := newTestEntryParser().Parse(text)
	require.Len(t, entries, 2)

	bullets := []string{"Built payment APIs", "Led migration to the cloud"}

	assert.Equal(t, "Senior Developer", entries[0].Title)
	assert.Equal(t, "Acme Corp", entries[0].Company)
	assert.Equal(t, "2018 - present", entries[0].Duration)
	assert.Equal(t, bullets, entries[0].Responsibilities)
	assert.Equal(t, []string{"Python", "Docker"}, entries[0].Technologies)

	assert.Equal(t, "Backend Engineer", entries[1].Title)
	assert.Equal(t, "Globex", entries[1].Company)
	assert.Equal(t, "2015 - 2018", entries[1].Duration)
	assert.Equal(t, bullets, entries[1].Responsibilities)
	assert.Empty(t, entries[1].Technologies)
}

func TestEntryParserFallback(t *testing.T) {
	text := "Work History:\n" +
		"Java Developer at Initech (2010 - 2012)\n" +
		"Analyst at Umbrella (2008 - 2010)\n" +
		"Master of Science at Tech Institute (2006 - 2008)\n"

	entries := newTestEntryParser().Parse(text)
	require.Len(t, entries, 2)

	assert.Equal(t, "Java Developer", entries[0].Title)
	assert.Equal(t, developerResponsibilities, entries[0].Responsibilities)
	assert.Equal(t, []string{"Java"}, entries[0].Technologies)

	assert.Equal(t, "Analyst", entries[1].Title)
	assert.NotNil(t, entries[1].Responsibilities)
	assert.Empty(t, entries[1].Responsibilities)
}

func TestSectionBullets(t *testing.T) {
	section := "  - Shipped the billing service\n" +
		"• Mentored two engineers\n" +
		"- GPA 3.9\n" +
		"- Consulting 2012-2014\n" +
		"-not a bullet\n"

	assert.Equal(t, []string{"Shipped the billing service", "Mentored two engineers"}, sectionBullets(section))
}

func TestEntryParserNoSection(t *testing.T) {
	entries := newTestEntryParser().Parse("Developer at Acme (2018 - 2020)")
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
