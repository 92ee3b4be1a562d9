package scoring

import (
	"strings"

	"github.com/fairyhunter13/resume-job-matcher/internal/domain"
)

// PenaltyConfig carries the tunable magnitudes the engine draws from.
type PenaltyConfig struct {
	ExperienceLevelMismatch        float64
	ExperienceSignificantlyLacking float64
	RequiredSkillCriticalMissing   float64
	ExperiencePenaltyCap           float64
}

// ComputePenalties runs the three penalty checks and rescales the two
// experience-family penalties to respect cfg.ExperiencePenaltyCap.
func ComputePenalties(cfg PenaltyConfig, job domain.JobPosting, candidateYears float64, requiredConditions []string, resumeSkills []string) map[domain.PenaltyKind]float64 {
	penalties := make(map[domain.PenaltyKind]float64)

	if experienceLevelMismatch(job.ExperienceBucket, candidateYears) {
		penalties[domain.PenaltyExperienceLevelMismatch] = cfg.ExperienceLevelMismatch
	}

	if experienceSignificantlyLacking(job.MinExperience, candidateYears) {
		penalties[domain.PenaltyExperienceSignificantlyLacking] = cfg.ExperienceSignificantlyLacking
	}

	ratio := requiredSkillMissingRatio(requiredConditions, resumeSkills)
	if ratio > 0.5 {
		penalties[domain.PenaltyRequiredSkillCriticalMissing] = cfg.RequiredSkillCriticalMissing * ratio
	}

	rescaleExperiencePenalties(penalties, cfg.ExperiencePenaltyCap)
	return penalties
}

// experienceLevelMismatch flags candidates far outside a job's requested
// seniority bucket: under half the bucket's minimum, or over 1.5x its
// maximum.
func experienceLevelMismatch(bucket domain.ExperienceBucket, candidateYears float64) bool {
	if bucket == domain.BucketNone {
		return false
	}
	min, max := bucket.Range()
	if candidateYears < min*0.5 {
		return true
	}
	if !isInf(max) && candidateYears > max*1.5 {
		return true
	}
	return false
}

func isInf(f float64) bool {
	return f > 1e18
}

// experienceSignificantlyLacking flags a candidate under 70% of a job's
// stated minimum experience.
func experienceSignificantlyLacking(requiredMin, candidateYears float64) bool {
	if requiredMin == 0 {
		return false
	}
	return candidateYears < 0.7*requiredMin
}

// requiredSkillMissingRatio is a standalone, keyword-substring check over
// the raw required condition phrases; it intentionally does not reuse
// ScoreSkills' token-universe logic, matching the source penalty
// calculator's independent, simpler substring match.
func requiredSkillMissingRatio(requiredConditions []string, resumeSkills []string) float64 {
	if len(requiredConditions) == 0 {
		return 0.0
	}
	lowerSkills := make([]string, len(resumeSkills))
	for i, s := range resumeSkills {
		lowerSkills[i] = strings.ToLower(s)
	}

	missing := 0
	for _, cond := range requiredConditions {
		lower := strings.ToLower(cond)
		found := false
		for _, skill := range lowerSkills {
			if skill == "" {
				continue
			}
			if strings.Contains(lower, skill) || strings.Contains(skill, lower) {
				found = true
				break
			}
		}
		if !found {
			missing++
		}
	}
	return float64(missing) / float64(len(requiredConditions))
}

// rescaleExperiencePenalties proportionally scales down the two
// experience-family penalties in place so their sum never exceeds cap.
func rescaleExperiencePenalties(penalties map[domain.PenaltyKind]float64, cap float64) {
	keys := []domain.PenaltyKind{domain.PenaltyExperienceLevelMismatch, domain.PenaltyExperienceSignificantlyLacking}
	sum := 0.0
	for _, k := range keys {
		sum += penalties[k]
	}
	if sum <= cap || sum == 0 {
		return
	}
	scale := cap / sum
	for _, k := range keys {
		if v, ok := penalties[k]; ok {
			penalties[k] = v * scale
		}
	}
}
