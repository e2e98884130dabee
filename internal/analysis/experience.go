package analysis

import (
	"cmp"
	"math"
	"regexp"
	"slices"
	"strconv"
	"time"
)

var (
	explicitYearsPattern = regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s*experience`)
	yearRangePattern     = regexp.MustCompile(`(?i)(\d{4})\s*-\s*(?:present|(\d{4}))`)
	monthsPattern        = regexp.MustCompile(`(?i)(\d+)\s*(?:months?|mos?)`)
)

// DateInterval is a parsed employment range in whole years
type DateInterval struct {
	Start int
	End   int
}

// Reconciler computes a single total-experience figure from the year ranges,
// month counts and explicit "N years experience" phrases found in a document.
type Reconciler struct {
	now func() time.Time
}

// NewReconciler creates a reconciler. now supplies the current year for open-ended
// ("present") ranges; nil means time.Now.
func NewReconciler(now func() time.Time) *Reconciler {
	if now == nil {
		now = time.Now
	}
	return &Reconciler{now: now}
}

// TotalYears returns the deduplicated years of experience described by text.
// An explicit "N years experience" phrase wins outright. Otherwise overlapping ranges
// are merged, month mentions are added on top, and the result is rounded to one
// decimal with a floor of one year. Without any evidence the result is 0.
func (r *Reconciler) TotalYears(text string) float64 {
	if m := explicitYearsPattern.FindStringSubmatch(text); m != nil {
		if years, err := strconv.ParseFloat(m[1], 64); err == nil {
			return years
		}
	}

	intervals := r.Intervals(text)
	if len(intervals) == 0 {
		return 0
	}

	total := float64(MergedYears(intervals))
	total += float64(sumMonths(text)) / 12

	return math.Max(1, roundTenth(total))
}

// Intervals returns every year range in text, in document order
func (r *Reconciler) Intervals(text string) []DateInterval {
	matches := yearRangePattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	currentYear := r.now().Year()
	intervals := make([]DateInterval, 0, len(matches))
	for _, m := range matches {
		start, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		end := currentYear
		if m[2] != "" {
			if end, err = strconv.Atoi(m[2]); err != nil {
				continue
			}
		}
		intervals = append(intervals, DateInterval{Start: start, End: end})
	}
	return intervals
}

// MergedYears returns the number of years covered by the union of intervals.
// The input slice is not modified.
func MergedYears(intervals []DateInterval) int {
	sorted := slices.Clone(intervals)
	slices.SortStableFunc(sorted, func(a, b DateInterval) int {
		return cmp.Compare(a.Start, b.Start)
	})

	total, lastEnd := 0, 0
	for _, iv := range sorted {
		if iv.Start > lastEnd {
			total += iv.End - iv.Start
		} else if iv.End > lastEnd {
			total += iv.End - lastEnd
		}
		lastEnd = max(lastEnd, iv.End)
	}
	return total
}

func sumMonths(text string) int {
	months := 0
	for _, m := range monthsPattern.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			months += n
		}
	}
	return months
}

// roundTenth rounds half up to one decimal place
func roundTenth(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
