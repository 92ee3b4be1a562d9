package scoring

import (
	"strconv"

	"github.com/fairyhunter13/resume-job-matcher/internal/domain"
	"github.com/fairyhunter13/resume-job-matcher/internal/embedding"
	"github.com/fairyhunter13/resume-job-matcher/internal/lexicon"
)

// ConditionInput is one condition phrase paired with its pre-computed
// embedding, as prepared by the orchestrator before a section is scored.
type ConditionInput struct {
	Text      string
	Embedding []float32
}

// requiredCreditThreshold and preferredCreditFloor implement the two
// section-specific unmatched-condition credit formulas from the semantic
// scorer: required conditions get min(1, sim/0.60)*0.5; preferred and
// experience conditions get max(0, (sim-0.55)/0.10)*0.5.
const (
	requiredCreditThreshold = 0.60
	preferredCreditFloor    = 0.55
	preferredCreditSpan     = 0.10
)

// ScoreSection judges every condition in conditions against resumeSentences
// by best-match cosine similarity, using the dynamic per-condition
// threshold table, and returns the section's arithmetic-mean score plus
// its structured evidence.
func ScoreSection(section domain.JobSection, conditions []ConditionInput, resumeSentences []domain.ResumeSentence) (float64, domain.SectionEvidence) {
	evidence := domain.SectionEvidence{Section: section}
	if len(conditions) == 0 {
		return 0.5, evidence
	}

	var total float64
	for _, cond := range conditions {
		threshold := lexicon.DynamicThreshold(cond.Text)
		sim, sentence, sentenceSection := bestSentenceMatch(cond.Embedding, resumeSentences)
		matched := sim >= threshold

		var condScore float64
		matchType := domain.MatchNone
		switch {
		case matched:
			condScore = 1.0
			matchType = domain.MatchSemantic
		case section == domain.JobSectionRequired:
			condScore = clamp01(min1(sim/requiredCreditThreshold) * 0.5)
		default:
			condScore = clamp01(max0((sim-preferredCreditFloor)/preferredCreditSpan) * 0.5)
		}
		total += condScore

		ce := domain.ConditionEvidence{
			Condition:       cond.Text,
			Matched:         matched,
			SimilarityScore: sim,
			MatchedSentence: sentence,
			MatchedSection:  sentenceSection,
			MatchType:       matchType,
			ThresholdUsed:   threshold,
		}
		evidence.Conditions = append(evidence.Conditions, ce)
		if matched {
			evidence.Matched = append(evidence.Matched, cond.Text)
		} else {
			evidence.Missing = append(evidence.Missing, cond.Text)
		}
	}

	evidence.MatchRate = matchRateString(len(evidence.Matched), len(conditions))
	return total / float64(len(conditions)), evidence
}

// bestSentenceMatch returns the highest cosine similarity between
// conditionEmbedding and any of sentences, plus the text and section of
// the winning sentence. An empty sentence set yields a zero match.
func bestSentenceMatch(conditionEmbedding []float32, sentences []domain.ResumeSentence) (float64, string, domain.ResumeSection) {
	var bestSim float64
	var bestText string
	var bestSection domain.ResumeSection
	for _, s := range sentences {
		sim := embedding.CosineSimilarity(conditionEmbedding, s.Embedding)
		if sim > bestSim {
			bestSim = sim
			bestText = s.Text
			bestSection = s.Section
		}
	}
	return bestSim, bestText, bestSection
}

func matchRateString(matched, total int) string {
	return strconv.Itoa(matched) + "/" + strconv.Itoa(total)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
