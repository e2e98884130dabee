package analysis

import (
	"fmt"
	"slices"
	"strings"
)

var (
	defaultPrimarySkills   = []string{"JavaScript", "React", "Node.js", "Python", "Java", "C++"}
	defaultSecondarySkills = []string{"Docker", "AWS", "CI/CD", "Git", "SQL", "MongoDB"}
)

// Taxonomy is the curated list of recognized skills, split into two tiers.
// A Taxonomy is immutable once built and is safe to share between goroutines.
type Taxonomy struct {
	primary   []string
	secondary []string
}

// NewTaxonomy builds a taxonomy from the given tiers. Names are trimmed; blank names and
// case-insensitive duplicates across both tiers are rejected.
func NewTaxonomy(primary, secondary []string) (*Taxonomy, error) {
	if len(primary) == 0 {
		return nil, fmt.Errorf("taxonomy requires at least one primary skill")
	}

	seen := make(map[string]bool, len(primary)+len(secondary))
	clean := func(tier string, names []string) ([]string, error) {
		out := make([]string, 0, len(names))
		for _, name := range names {
			name = strings.TrimSpace(name)
			if name == "" {
				return nil, fmt.Errorf("%s skill names cannot be blank", tier)
			}
			key := strings.ToLower(name)
			if seen[key] {
				return nil, fmt.Errorf("duplicate skill in taxonomy: %s", name)
			}
			seen[key] = true
			out = append(out, name)
		}
		return out, nil
	}

	p, err := clean("primary", primary)
	if err != nil {
		return nil, err
	}
	s, err := clean("secondary", secondary)
	if err != nil {
		return nil, err
	}

	return &Taxonomy{primary: p, secondary: s}, nil
}

// DefaultTaxonomy returns the built-in skill lists
func DefaultTaxonomy() *Taxonomy {
	return &Taxonomy{
		primary:   slices.Clone(defaultPrimarySkills),
		secondary: slices.Clone(defaultSecondarySkills),
	}
}

// Primary returns a copy of the primary tier
func (t *Taxonomy) Primary() []string {
	return slices.Clone(t.primary)
}

// Secondary returns a copy of the secondary tier
func (t *Taxonomy) Secondary() []string {
	return slices.Clone(t.secondary)
}

// Len reports the number of skills across both tiers
func (t *Taxonomy) Len() int {
	return len(t.primary) + len(t.secondary)
}
