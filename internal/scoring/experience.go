package scoring

import (
	"fmt"

	"github.com/fairyhunter13/resume-job-matcher/internal/domain"
)

// ScoreExperience combines a year-score and a level-score into the
// Experience Scorer's combined score plus its evidence.
func ScoreExperience(requiredMin float64, requiredMax *float64, candidateYears float64, bucket domain.ExperienceBucket) (float64, domain.ExperienceEvidence) {
	yearScore := experienceYearScore(requiredMin, requiredMax, candidateYears)
	levelScore, levelMatch := experienceLevelScore(candidateYears, bucket)
	combined := clamp01(0.7*yearScore + 0.3*levelScore)

	evidence := domain.ExperienceEvidence{
		RequiredYears:  requiredMin,
		MaxYears:       requiredMax,
		CandidateYears: candidateYears,
		LevelMatch:     levelMatch,
		YearScore:      yearScore,
		LevelScore:     levelScore,
		Summary:        fmt.Sprintf("%v년 경력 (요구: %v년 이상)", candidateYears, requiredMin),
	}
	return combined, evidence
}

// experienceYearScore implements §4.6's piecewise year-score rule.
func experienceYearScore(requiredMin float64, requiredMax *float64, candidateYears float64) float64 {
	if requiredMin == 0 {
		return 0.8
	}
	withinMax := requiredMax == nil || candidateYears <= *requiredMax
	switch {
	case candidateYears >= requiredMin && withinMax:
		return 1.0
	case requiredMax != nil && candidateYears > *requiredMax:
		return 0.7
	case candidateYears >= 0.7*requiredMin:
		return 0.6
	case candidateYears >= 0.5*requiredMin:
		return 0.4
	default:
		return 0.2
	}
}

// experienceLevelScore reports 1.0 when candidateYears falls inside
// bucket's range, else 0.5.
func experienceLevelScore(candidateYears float64, bucket domain.ExperienceBucket) (float64, bool) {
	min, max := bucket.Range()
	if candidateYears >= min && candidateYears < max {
		return 1.0, true
	}
	return 0.5, false
}
