package analysis

// Recommend derives the recommendation block from a skill classification.
// The keyword list is a copy; callers may modify it freely.
func Recommend(skills SkillSet) Recommendation {
	keywords := make([]string, len(skills.MissingSkills))
	copy(keywords, skills.MissingSkills)
	return Recommendation{
		ImproveATS:      len(skills.MissingSkills) > 0,
		AddMoreKeywords: keywords,
	}
}
