package analysis

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
)

// DefaultKeywordLimit is the number of keywords reported in a structure report
const DefaultKeywordLimit = 10

var keywordStopWords = map[string]bool{
	"a": true, "about": true, "above": true, "after": true, "again": true, "all": true,
	"also": true, "am": true, "an": true, "and": true, "any": true, "are": true, "as": true,
	"at": true, "be": true, "because": true, "been": true, "before": true, "being": true,
	"below": true, "between": true, "both": true, "but": true, "by": true, "can": true,
	"could": true, "did": true, "do": true, "does": true, "doing": true, "down": true,
	"during": true, "each": true, "few": true, "for": true, "from": true, "further": true,
	"had": true, "has": true, "have": true, "having": true, "he": true, "her": true,
	"here": true, "hers": true, "him": true, "his": true, "how": true, "i": true, "if": true,
	"in": true, "into": true, "is": true, "it": true, "its": true, "itself": true,
	"just": true, "me": true, "more": true, "most": true, "my": true, "no": true, "nor": true,
	"not": true, "now": true, "of": true, "off": true, "on": true, "once": true, "only": true,
	"or": true, "other": true, "our": true, "ours": true, "out": true, "over": true,
	"own": true, "same": true, "she": true, "should": true, "so": true, "some": true,
	"such": true, "than": true, "that": true, "the": true, "their": true, "them": true,
	"then": true, "there": true, "these": true, "they": true, "this": true, "those": true,
	"through": true, "to": true, "too": true, "under": true, "until": true, "up": true,
	"very": true, "was": true, "we": true, "were": true, "what": true, "when": true,
	"where": true, "which": true, "while": true, "who": true, "whom": true, "why": true,
	"will": true, "with": true, "would": true, "you": true, "your": true, "yours": true,
}

// TopKeywords ranks the alphabetic, non-stop-word terms of text by frequency and returns
// at most limit of them. Ties are broken alphabetically.
func TopKeywords(text string, limit int) []string {
	counts := make(map[string]int)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, w := range words {
		if len([]rune(w)) < 2 || keywordStopWords[w] {
			continue
		}
		counts[w]++
	}

	ranked := make([]string, 0, len(counts))
	for w := range counts {
		ranked = append(ranked, w)
	}
	slices.SortFunc(ranked, func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
