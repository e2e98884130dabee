package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock(year int) func() time.Time {
	return func() time.Time {
		return time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC)
	}
}

func TestReconcilerTotalYears(t *testing.T) {
	r := NewReconciler(fixedClock(2024))

	tests := []struct {
		name     string
		text     string
		expected float64
	}{
		{
			name:     "explicit years phrase short-circuits",
			text:     "5+ years experience building APIs. Acme 2010 - 2020",
			expected: 5,
		},
		{
			name:     "explicit phrase without plus",
			text:     "Over 3 years experience in Go",
			expected: 3,
		},
		{
			name:     "open ended range uses current year",
			text:     "Engineer at Acme (2018 - Present)",
			expected: 6,
		},
		{
			name:     "overlapping ranges are merged",
			text:     "Acme 2018 - 2020\nGlobex 2019 - present",
			expected: 6,
		},
		{
			name:     "disjoint ranges add up",
			text:     "Acme 2010 - 2012\nGlobex 2015 - 2018",
			expected: 5,
		},
		{
			name:     "range contained in another adds nothing",
			text:     "Acme 2010 - 2020\nGlobex 2012 - 2014",
			expected: 10,
		},
		{
			name:     "months are added on top of ranges",
			text:     "Acme 2018 - 2020\nInternship 6 months",
			expected: 2.5,
		},
		{
			name:     "months without ranges are ignored",
			text:     "Internship 18 months",
			expected: 0,
		},
		{
			name:     "same year range is floored to one",
			text:     "Contract 2021 - 2021",
			expected: 1,
		},
		{
			name:     "no evidence yields zero",
			text:     "Name: Jane Doe\nSkills: Go, SQL",
			expected: 0,
		},
		{
			name:     "empty text",
			text:     "",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, r.TotalYears(tt.text), 1e-9)
		})
	}
}

func TestMergedYearsOrderIndependent(t *testing.T) {
	intervals := []DateInterval{
		{Start: 2019, End: 2024},
		{Start: 2010, End: 2012},
		{Start: 2018, End: 2020},
		{Start: 2011, End: 2013},
	}
	want := MergedYears(intervals)

	reversed := []DateInterval{intervals[3], intervals[2], intervals[1], intervals[0]}
	assert.Equal(t, want, MergedYears(reversed))
	assert.Equal(t, 9, want)

	// input is not reordered
	assert.Equal(t, 2019, intervals[0].Start)
}

func TestReconcilerFloor(t *testing.T) {
	r := NewReconciler(fixedClock(2024))
	for _, text := range []string{"2020 - 2020", "2024 - present", "1999-1999 and 2001-2001"} {
		assert.GreaterOrEqual(t, r.TotalYears(text), 1.0, text)
	}
}

func TestRoundTenth(t *testing.T) {
	assert.Equal(t, 2.1, roundTenth(2.0833))
	assert.Equal(t, 2.3, roundTenth(2.25))
	assert.Equal(t, 3.0, roundTenth(2.96))
}

func BenchmarkTotalYears(b *testing.B) {
	r := NewReconciler(fixedClock(2024))
	text := "Senior Developer at Acme (2018 - present)\nDeveloper at Globex (2012 - 2019)\n6 months contract"
	for b.Loop() {
		r.TotalYears(text)
	}
}
