package scoring

import (
	"github.com/fairyhunter13/resume-job-matcher/internal/domain"
	"github.com/fairyhunter13/resume-job-matcher/internal/embedding"
)

// auxiliaryPlaceholderScore is the neutral score reported for education,
// certification, and language until those modules are implemented.
const auxiliaryPlaceholderScore = 0.5

// requiredGateFloor is the hard-gate threshold: a required-section score
// below this halves the weighted sum before penalties are applied.
const requiredGateFloor = 0.5

// AggregateConfig bundles the category weights, grade thresholds, and
// penalty magnitudes the Aggregator draws from (config.Config's
// env-loaded values, passed in by the caller).
type AggregateConfig struct {
	Weights           map[string]float64
	GradeExcellentMin float64
	GradeGoodMin      float64
	GradeFairMin      float64
	GradeCautionMin   float64
	Penalty           PenaltyConfig
}

// Aggregate runs the Semantic Scorer, Experience Scorer, Skill Scorer, and
// Penalty Engine over one résumé×job pair and combines their outputs into
// a MatchingResult's scoring fields. The caller is responsible for
// stamping ResumeID, JobID, Token, AlgorithmVersion, and
// CalculationTimeMS afterward.
func Aggregate(cfg AggregateConfig, job domain.JobPosting, resume domain.Resume, requiredConditions, preferredConditions []ConditionInput) domain.MatchingResult {
	requiredScore, requiredEvidence := ScoreSection(domain.JobSectionRequired, requiredConditions, resume.Sentences)
	preferredScore, preferredEvidence := ScoreSection(domain.JobSectionPreferred, preferredConditions, resume.Sentences)
	experienceScore, experienceEvidence := ScoreExperience(job.MinExperience, job.MaxExperience, resume.ExperienceYears, job.ExperienceBucket)
	overallSim := overallSimilarity(resume.FullTextEmbedding, job.FullTextEmbedding)

	requiredTexts := conditionTexts(requiredConditions)
	preferredTexts := conditionTexts(preferredConditions)
	skill := ScoreSkills(append(append([]string{}, requiredTexts...), preferredTexts...), resume.Skills, job.ParsedSkills)
	skillScore := clamp01(skill.Score * (1 + skill.DifficultyFactor*0.1))

	scores := map[string]float64{
		"required_match":     requiredScore,
		"experience_match":   experienceScore,
		"overall_similarity": overallSim,
		"preferred_match":    preferredScore,
		"education":          auxiliaryPlaceholderScore,
		"certification":      auxiliaryPlaceholderScore,
		"language":           auxiliaryPlaceholderScore,
	}

	weightedSum := 0.0
	categoryScores := make(map[string]domain.CategoryScore, len(scores)+1)
	for name, score := range scores {
		weight := cfg.Weights[name]
		weightedSum += weight * score
		categoryScores[name] = domain.CategoryScore{Score: score, Weight: weight}
	}
	categoryScores["skill"] = domain.CategoryScore{Score: skillScore, Weight: 0}

	if requiredScore < requiredGateFloor {
		weightedSum *= 0.5
	}

	penalties := ComputePenalties(cfg.Penalty, job, resume.ExperienceYears, requiredTexts, resume.Skills)
	penaltySum := 0.0
	for _, v := range penalties {
		penaltySum += v
	}

	final := weightedSum - penaltySum
	if final < 0 {
		final = 0
	}

	return domain.MatchingResult{
		OverallScore:   final,
		Grade:          assignGrade(final, cfg),
		CategoryScores: categoryScores,
		Evidence: domain.MatchingEvidence{
			Required:   requiredEvidence,
			Preferred:  preferredEvidence,
			Experience: experienceEvidence,
		},
		Penalties: penalties,
	}
}

// overallSimilarity is the cosine similarity of the two full-text
// embeddings, or the neutral 0.5 if either is absent.
func overallSimilarity(resumeEmbedding, jobEmbedding []float32) float64 {
	if len(resumeEmbedding) == 0 || len(jobEmbedding) == 0 {
		return 0.5
	}
	return embedding.CosineSimilarity(resumeEmbedding, jobEmbedding)
}

func conditionTexts(conditions []ConditionInput) []string {
	out := make([]string, len(conditions))
	for i, c := range conditions {
		out[i] = c.Text
	}
	return out
}

// assignGrade buckets score against the grade threshold table,
// highest-first.
func assignGrade(score float64, cfg AggregateConfig) domain.Grade {
	switch {
	case score >= cfg.GradeExcellentMin:
		return domain.GradeExcellent
	case score >= cfg.GradeGoodMin:
		return domain.GradeGood
	case score >= cfg.GradeFairMin:
		return domain.GradeFair
	case score >= cfg.GradeCautionMin:
		return domain.GradeCaution
	default:
		return domain.GradePoor
	}
}
