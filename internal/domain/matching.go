package domain

// MatchType classifies how a condition was satisfied.
type MatchType string

// Match type values.
const (
	MatchSemantic MatchType = "semantic"
	MatchKeyword  MatchType = "keyword"
	MatchNone     MatchType = "none"
)

// ConditionEvidence is the structured per-condition detail produced by the
// Semantic Scorer; it is the tagged replacement for the source's duck-typed
// matching_evidence entries.
type ConditionEvidence struct {
	Condition       string
	Matched         bool
	SimilarityScore float64
	MatchedSentence string
	MatchedSection  ResumeSection
	MatchType       MatchType
	ThresholdUsed   float64
}

// SectionEvidence groups the per-condition evidence for one job section
// (required, preferred, or the experience narrative).
type SectionEvidence struct {
	Section    JobSection
	Conditions []ConditionEvidence
	Matched    []string
	Missing    []string
	MatchRate  string // "len(matched)/len(total)"
}

// ExperienceEvidence is the human-auditable detail backing the Experience
// Scorer's combined score.
type ExperienceEvidence struct {
	RequiredYears   float64
	MaxYears        *float64
	CandidateYears  float64
	LevelMatch      bool
	YearScore       float64
	LevelScore      float64
	Summary         string // e.g. "2년 경력 (요구: 3년 이상)"
}

// MatchingEvidence is the full structured evidence payload attached to a
// MatchingResult; it is the wire-serializable shape from §6.
type MatchingEvidence struct {
	Required   SectionEvidence
	Preferred  SectionEvidence
	Experience ExperienceEvidence
}

// CategoryScore is one entry of a MatchingResult's category_scores map.
type CategoryScore struct {
	Score  float64
	Weight float64
}

// PenaltyKind enumerates the penalty engine's fixed vocabulary.
type PenaltyKind string

// Penalty kinds.
const (
	PenaltyExperienceLevelMismatch       PenaltyKind = "experience_level_mismatch"
	PenaltyExperienceSignificantlyLacking PenaltyKind = "experience_significantly_lacking"
	PenaltyRequiredSkillCriticalMissing  PenaltyKind = "required_skill_critical_missing"
	PenaltyRequiredSkillMissing          PenaltyKind = "required_skill_missing"
)

// Grade is the bucketed label over the final score.
type Grade string

// Grade values, most to least favorable.
const (
	GradeExcellent Grade = "excellent"
	GradeGood      Grade = "good"
	GradeFair      Grade = "fair"
	GradeCaution   Grade = "caution"
	GradePoor      Grade = "poor"
)

// MatchingResult is the value (never persisted) produced by scoring one
// résumé against one job posting.
type MatchingResult struct {
	ResumeID  string
	JobID     string
	Token     string

	OverallScore     float64
	Grade            Grade
	CategoryScores   map[string]CategoryScore
	Evidence         MatchingEvidence
	Penalties        map[PenaltyKind]float64
	AlgorithmVersion string
	CalculationTimeMS int64

	// AIFeedback is only populated when want_feedback was requested; it
	// never participates in scoring.
	AIFeedback string
}

// SearchMatch is one row of a search_jobs_for_resume response.
type SearchMatch struct {
	MatchingID       string
	JobID            string
	JobTitle         string
	CompanyName      string
	Location         string
	ExperienceLevel  ExperienceBucket
	OverallScore     float64 // 0..100
	Grade            Grade
	CategoryScores   map[string]CategoryScore
	MatchingEvidence MatchingEvidence
	Penalties        map[PenaltyKind]float64
}
