package analysis

// NotFound is the value reported for a single-value field that has no match in the document.
const NotFound = "Not found"

// DefaultLanguage is reported for every document; only English-formatted resumes are supported.
const DefaultLanguage = "English"

// RawDocument is the extracted text of one uploaded resume
type RawDocument struct {
	Text       string
	ByteLength int
}

// NewDocument wraps extracted text together with the size of the original file
func NewDocument(text string, byteLength int) RawDocument {
	return RawDocument{Text: text, ByteLength: byteLength}
}

// ExperienceEntry represents a single job parsed out of the experience section
type ExperienceEntry struct {
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Duration         string   `json:"duration"`
	Responsibilities []string `json:"responsibilities"`
	Technologies     []string `json:"technologies"`
}

// SkillSet holds the taxonomy skills found in (or missing from) a document
type SkillSet struct {
	PrimarySkills   []string `json:"primarySkills"`
	SecondarySkills []string `json:"secondarySkills"`
	MissingSkills   []string `json:"missingSkills"`
}

// Recommendation is the actionable feedback derived from a profile
type Recommendation struct {
	ImproveATS      bool     `json:"improveATS"`
	AddMoreKeywords []string `json:"addMoreKeywords"`
}

// Profile is the structured candidate profile extracted from a resume
type Profile struct {
	Name                 string            `json:"name"`
	Email                string            `json:"email"`
	Phone                string            `json:"phone"`
	Location             string            `json:"location"`
	LinkedIn             string            `json:"linkedin"`
	GitHub               string            `json:"github"`
	Summary              string            `json:"summary"`
	TotalExperienceYears float64           `json:"totalExperienceYears"`
	Education            []string          `json:"education"`
	Experience           []ExperienceEntry `json:"experience"`
	Skills               SkillSet          `json:"skills"`
	Certifications       []string          `json:"certifications"`
	Projects             []string          `json:"projects"`
	WordCount            int               `json:"wordCount"`
	Language             string            `json:"language"`
	IsATSCompatible      bool              `json:"isATSCompatible"`
}

// Result bundles a profile with the recommendations generated from it
type Result struct {
	Profile         Profile        `json:"resumeSummary"`
	Recommendations Recommendation `json:"recommendations"`
}
