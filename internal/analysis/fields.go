package analysis

import (
	"regexp"
	"strings"
)

// Field names produced by the extraction rules
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldLocation = "location"
	FieldLinkedIn = "linkedin"
	FieldGitHub   = "github"
	FieldSummary  = "summary"
)

// FieldRule extracts one single-value field from document text.
// Group selects the capture group used as the value; 0 means the whole match.
type FieldRule struct {
	Field     string
	Pattern   *regexp.Regexp
	Group     int
	Normalize func(string) string
}

// Extract applies the rule to text. It reports false when the pattern has no match
// or the captured value is blank.
func (r FieldRule) Extract(text string) (string, bool) {
	m := r.Pattern.FindStringSubmatch(text)
	if m == nil || r.Group >= len(m) {
		return "", false
	}

	value := strings.TrimSpace(m[r.Group])
	if r.Normalize != nil {
		value = r.Normalize(value)
	}
	if value == "" {
		return "", false
	}
	return value, true
}

var fieldRules = []FieldRule{
	{
		Field:   FieldName,
		Pattern: regexp.MustCompile(`(?i)(?:name|full name)[:\s]*([^\n]+)`),
		Group:   1,
	},
	{
		Field:   FieldEmail,
		Pattern: regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
	},
	{
		Field:   FieldPhone,
		Pattern: regexp.MustCompile(`(\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
	},
	{
		Field:   FieldLocation,
		Pattern: regexp.MustCompile(`(?i)(?:location|address|based in|city)[:\s]*([^\n,;]+)`),
		Group:   1,
	},
	{
		Field:     FieldLinkedIn,
		Pattern:   regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/in/[a-zA-Z0-9-]+|linkedin:\s*[^\n]+`),
		Normalize: profileURL("linkedin.com", "https://linkedin.com/in/"),
	},
	{
		Field:     FieldGitHub,
		Pattern:   regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?github\.com/[a-zA-Z0-9-]+|github:\s*[^\n]+`),
		Normalize: profileURL("github.com", "https://github.com/"),
	},
	{
		Field:   FieldSummary,
		Pattern: regexp.MustCompile(`(?i)(?:summary|about|profile)[:\s]*([^\n]+)`),
		Group:   1,
	},
}

// FieldRules returns a copy of the extraction rule table
func FieldRules() []FieldRule {
	rules := make([]FieldRule, len(fieldRules))
	copy(rules, fieldRules)
	return rules
}

// ExtractFields runs every field rule against text. Fields without a match are set to NotFound.
func ExtractFields(text string) map[string]string {
	fields := make(map[string]string, len(fieldRules))
	for _, rule := range fieldRules {
		if value, ok := rule.Extract(text); ok {
			fields[rule.Field] = value
		} else {
			fields[rule.Field] = NotFound
		}
	}
	return fields
}

// profileURL turns a profile mention into a full URL. Mentions that already carry a
// scheme are returned unchanged; "label: handle" mentions keep what follows the first colon.
func profileURL(host, base string) func(string) string {
	return func(mention string) string {
		if hasScheme(mention) {
			return mention
		}

		handle := mention
		if _, after, ok := strings.Cut(mention, ":"); ok {
			handle = strings.TrimSpace(after)
		}

		switch {
		case handle == "":
			return ""
		case hasScheme(handle):
			return handle
		case strings.Contains(strings.ToLower(handle), host):
			return "https://" + handle
		default:
			return base + handle
		}
	}
}

func hasScheme(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), "http")
}
