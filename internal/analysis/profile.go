package analysis

import (
	"strings"
	"time"
)

// Engine assembles profiles from document text. It holds no mutable state and is safe
// for concurrent use.
type Engine struct {
	taxonomy   *Taxonomy
	skills     *SkillMatcher
	entries    *EntryParser
	reconciler *Reconciler

	keywordLimit int
}

// Option configures an Engine
type Option func(*Engine)

// WithClock sets the clock used for open-ended ("present") date ranges
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.reconciler = NewReconciler(now)
	}
}

// WithKeywordLimit sets how many keywords Structure reports
func WithKeywordLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.keywordLimit = n
		}
	}
}

// NewEngine creates an engine over taxonomy. A nil taxonomy selects DefaultTaxonomy.
func NewEngine(taxonomy *Taxonomy, opts ...Option) *Engine {
	if taxonomy == nil {
		taxonomy = DefaultTaxonomy()
	}
	skills := NewSkillMatcher(taxonomy)
	e := &Engine{
		taxonomy:   taxonomy,
		skills:     skills,
		entries:    NewEntryParser(skills),
		reconciler: NewReconciler(nil),

		keywordLimit: DefaultKeywordLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Taxonomy returns the taxonomy the engine matches against
func (e *Engine) Taxonomy() *Taxonomy {
	return e.taxonomy
}

// Analyze builds the profile and recommendations for one document. It never fails:
// fields without evidence carry the NotFound sentinel or an empty value.
func (e *Engine) Analyze(doc RawDocument) Result {
	profile := e.Profile(doc.Text)
	return Result{
		Profile:         profile,
		Recommendations: Recommend(profile.Skills),
	}
}

// Structure checks the section layout of text, reporting up to the engine's keyword limit
func (e *Engine) Structure(text string) StructureReport {
	return analyzeStructure(text, e.keywordLimit)
}

// Profile assembles the structured profile for text
func (e *Engine) Profile(text string) Profile {
	fields := ExtractFields(text)
	return Profile{
		Name:                 fields[FieldName],
		Email:                fields[FieldEmail],
		Phone:                fields[FieldPhone],
		Location:             fields[FieldLocation],
		LinkedIn:             fields[FieldLinkedIn],
		GitHub:               fields[FieldGitHub],
		Summary:              fields[FieldSummary],
		TotalExperienceYears: e.reconciler.TotalYears(text),
		Education:            []string{},
		Experience:           e.entries.Parse(text),
		Skills:               e.skills.Classify(text),
		Certifications:       []string{},
		Projects:             []string{},
		WordCount:            len(strings.Fields(text)),
		Language:             DefaultLanguage,
		IsATSCompatible:      true,
	}
}
