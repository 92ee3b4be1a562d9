package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-job-matcher/internal/domain"
)

func testAggregateConfig() AggregateConfig {
	return AggregateConfig{
		Weights: map[string]float64{
			"required_match":     0.40,
			"experience_match":   0.30,
			"overall_similarity": 0.20,
			"preferred_match":    0.08,
			"education":          0.015,
			"certification":      0.005,
			"language":           0.0,
		},
		GradeExcellentMin: 0.85,
		GradeGoodMin:      0.70,
		GradeFairMin:      0.55,
		GradeCautionMin:   0.40,
		Penalty: PenaltyConfig{
			ExperienceLevelMismatch:        0.25,
			ExperienceSignificantlyLacking: 0.20,
			RequiredSkillCriticalMissing:   0.25,
			ExperiencePenaltyCap:           0.15,
		},
	}
}

func TestAggregate_CleanRequiredMatchGradesGood(t *testing.T) {
	job := domain.JobPosting{
		MinExperience:    3,
		ExperienceBucket: domain.BucketMid,
		ParsedSkills:     []string{"python"},
	}
	resume := domain.Resume{
		ExperienceYears: 4,
		Skills:          []string{"python"},
		Sentences: []domain.ResumeSentence{
			{Section: domain.SectionExperience, Text: "Python으로 백엔드 서비스를 개발했습니다", Embedding: unit(4, 0)},
		},
	}
	required := []ConditionInput{{Text: "Python 3년 이상 경험이 있는 분", Embedding: unit(4, 0)}}

	result := Aggregate(testAggregateConfig(), job, resume, required, nil)

	require.Contains(t, result.CategoryScores, "required_match")
	assert.Equal(t, 1.0, result.CategoryScores["required_match"].Score)
	assert.True(t, result.OverallScore > 0.7, "expected a good score, got %v", result.OverallScore)
	assert.Contains(t, []domain.Grade{domain.GradeGood, domain.GradeExcellent}, result.Grade)
	assert.Empty(t, result.Penalties)
}

func TestAggregate_HardGateHalvesWeightedSumWhenRequiredBelowFloor(t *testing.T) {
	job := domain.JobPosting{ExperienceBucket: domain.BucketNone}
	resume := domain.Resume{}
	required := []ConditionInput{{Text: "Kubernetes 오케스트레이션", Embedding: unit(4, 0)}}

	result := Aggregate(testAggregateConfig(), job, resume, required, nil)

	assert.Less(t, result.CategoryScores["required_match"].Score, 0.5)
	assert.Equal(t, domain.GradePoor, result.Grade)

	// Without the missing-skill penalty the halving is visible: the
	// weighted sum 0.408 becomes 0.204.
	gated := Aggregate(testAggregateConfig(), job, domain.Resume{Skills: []string{"kubernetes"}}, required, nil)
	assert.InDelta(t, 0.204, gated.OverallScore, 0.0001)
}

func TestAggregate_PenaltiesReduceFinalScore(t *testing.T) {
	job := domain.JobPosting{MinExperience: 10, ExperienceBucket: domain.BucketSenior}
	resume := domain.Resume{ExperienceYears: 1}

	withoutCandidateSkills := Aggregate(testAggregateConfig(), job, resume, nil, nil)
	assert.NotEmpty(t, withoutCandidateSkills.Penalties)
	assert.Less(t, withoutCandidateSkills.OverallScore, 0.5+0.3+0.1)
}

func TestAssignGrade_Boundaries(t *testing.T) {
	cfg := testAggregateConfig()
	assert.Equal(t, domain.GradeExcellent, assignGrade(0.85, cfg))
	assert.Equal(t, domain.GradeGood, assignGrade(0.70, cfg))
	assert.Equal(t, domain.GradeFair, assignGrade(0.55, cfg))
	assert.Equal(t, domain.GradeCaution, assignGrade(0.40, cfg))
	assert.Equal(t, domain.GradePoor, assignGrade(0.39, cfg))
}

func TestOverallSimilarity_MissingEmbeddingDefaultsToNeutral(t *testing.T) {
	assert.Equal(t, 0.5, overallSimilarity(nil, unit(4, 0)))
	assert.Equal(t, 0.5, overallSimilarity(unit(4, 0), nil))
}
