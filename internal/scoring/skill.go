// Package scoring implements the Skill, Semantic, and Experience scorers,
// the penalty engine, and the aggregator that combines their outputs into
// a MatchingResult.
package scoring

import (
	"strings"

	"github.com/fairyhunter13/resume-job-matcher/internal/lexicon"
)

// SkillResult is the Skill Scorer's output for one condition bucket
// (required or preferred).
type SkillResult struct {
	Score             float64
	Matched           []string
	Missing           []string
	DifficultyFactor  float64
}

// ScoreSkills keyword-matches conditions against the candidate's
// extracted_skills set. A condition counts as matched when any lexicon
// token appears in both the lowercase condition and resumeSkills.
// parsedJobSkills extends the token universe with job.parsed_skills.
func ScoreSkills(conditions []string, resumeSkills []string, parsedJobSkills []string) SkillResult {
	skillSet := make(map[string]bool, len(resumeSkills))
	for _, s := range resumeSkills {
		skillSet[lexicon.CanonicalizeToken(s)] = true
	}

	universe := make(map[string]bool)
	for _, c := range conditions {
		for _, tok := range lexicon.TokensIn(c) {
			universe[tok] = true
		}
	}
	for _, s := range parsedJobSkills {
		universe[lexicon.CanonicalizeToken(s)] = true
	}

	var matched, missing []string
	for _, c := range conditions {
		lower := strings.ToLower(c)
		hit := false
		for _, tok := range lexicon.TokensIn(lower) {
			if skillSet[tok] {
				hit = true
				break
			}
		}
		if hit {
			matched = append(matched, c)
		} else {
			missing = append(missing, c)
		}
	}

	matchedTokens := 0
	for tok := range universe {
		if skillSet[tok] {
			matchedTokens++
		}
	}
	score := 1.0
	if len(universe) > 0 {
		score = float64(matchedTokens) / float64(len(universe))
	}

	return SkillResult{
		Score:            score,
		Matched:          matched,
		Missing:          missing,
		DifficultyFactor: difficultyFactor(len(conditions)),
	}
}

// difficultyFactor is the piecewise bonus curve keyed by total condition
// count: 1-3 → 0.0, 4-6 → 0.3, 7-10 → 0.6, 11+ → 0.6+0.05*(n-10) capped
// at 1.0.
func difficultyFactor(n int) float64 {
	switch {
	case n <= 3:
		return 0.0
	case n <= 6:
		return 0.3
	case n <= 10:
		return 0.6
	default:
		f := 0.6 + 0.05*float64(n-10)
		if f > 1.0 {
			f = 1.0
		}
		return f
	}
}
