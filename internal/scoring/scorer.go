package scoring

import (
	"context"
	"math"
	"strings"

	"resumeinsight/internal/clarity"
)

// Score weights for the total score
const (
	ClarityWeight = 0.4
	DensityWeight = 0.3
	MatchWeight   = 0.3
)

// ScoreBreakdown is the quality score of a resume against a job description.
// Every score is an integer between 0 and 100.
type ScoreBreakdown struct {
	ClarityScore        int `json:"clarityScore"`
	KeywordDensityScore int `json:"keywordDensityScore"`
	JobMatchScore       int `json:"jobMatchScore"`
	TotalScore          int `json:"totalScore"`
}

// Scorer computes ScoreBreakdowns. It is safe for concurrent use when its clarity
// scorer is.
type Scorer struct {
	clarity clarity.Scorer
}

// NewScorer creates a scorer. A nil clarity scorer selects the static default.
func NewScorer(c clarity.Scorer) *Scorer {
	if c == nil {
		c = clarity.Static{Value: clarity.DefaultScore}
	}
	return &Scorer{clarity: c}
}

// Score rates resumeText against jobDescription and keywords. The total is computed
// from the unrounded component ratios. An error is returned only when the clarity
// scorer fails.
func (s *Scorer) Score(ctx context.Context, resumeText, jobDescription string, keywords []string) (ScoreBreakdown, error) {
	clarityScore, err := s.clarity.Score(ctx, resumeText)
	if err != nil {
		return ScoreBreakdown{}, err
	}

	density := KeywordDensity(resumeText, keywords)
	match := JobMatch(resumeText, jobDescription)
	total := ClarityWeight*float64(clarityScore) + DensityWeight*density + MatchWeight*match

	return ScoreBreakdown{
		ClarityScore:        clampScore(float64(clarityScore)),
		KeywordDensityScore: clampScore(density),
		JobMatchScore:       clampScore(match),
		TotalScore:          clampScore(total),
	}, nil
}

// KeywordDensity returns the percentage of tokens in text that equal one of keywords,
// compared case-insensitively. Repeated occurrences all count; a keyword listed twice
// counts its occurrences twice. Text without tokens scores 0.
func KeywordDensity(text string, keywords []string) float64 {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}

	matched := 0
	for _, kw := range keywords {
		matched += counts[strings.ToLower(kw)]
	}
	return float64(matched) / float64(len(tokens)) * 100
}

// JobMatch returns the Jaccard similarity of the token sets of a and b as a percentage.
// It is symmetric and scores 0 when both texts are empty.
func JobMatch(a, b string) float64 {
	setA, setB := tokenSet(a), tokenSet(b)

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union) * 100
}

// clampScore rounds half up and clamps to [0, 100]
func clampScore(v float64) int {
	return int(math.Min(100, math.Max(0, math.Floor(v+0.5))))
}
