// Package sentencestore implements the Sentence Store contract: reading
// persisted per-résumé and per-job sentence embeddings, and, when none
// exist, walking the parsed résumé structure to produce a fallback
// sentence set.
package sentencestore

import (
	"strings"

	"github.com/fairyhunter13/resume-job-matcher/internal/domain"
	"github.com/fairyhunter13/resume-job-matcher/pkg/textx"
)

// maxFallbackSentences caps the number of sentences produced by the
// fallback walker, regardless of how much raw text is available.
const maxFallbackSentences = 200

// BuildResumeSentences walks résumé's parsed structure (summary, skills,
// work history, projects) plus filtered raw-text lines when the Sentence
// Store holds no rows for this résumé. It returns ResumeSentence values
// without embeddings — the caller embeds each Text — tagged with the
// section each sentence was drawn from, deduplicated preserving first
// occurrence and capped at maxFallbackSentences.
func BuildResumeSentences(resume domain.ParsedResume, skills []string, rawText string) []domain.ResumeSentence {
	type tagged struct {
		section domain.ResumeSection
		text    string
	}
	var all []tagged

	if s := strings.TrimSpace(resume.Summary); s != "" {
		all = append(all, tagged{domain.SectionSummary, s})
	}
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			all = append(all, tagged{domain.SectionSkills, s})
		}
	}
	if s := strings.TrimSpace(resume.SkillsNarrative); s != "" {
		all = append(all, tagged{domain.SectionSkills, s})
	}
	for _, w := range resume.WorkHistory {
		for _, v := range []string{w.Company, w.Title, w.Description} {
			if v = strings.TrimSpace(v); v != "" {
				all = append(all, tagged{domain.SectionExperience, v})
			}
		}
		for _, r := range w.Responsibilities {
			if r = strings.TrimSpace(r); r != "" {
				all = append(all, tagged{domain.SectionExperience, r})
			}
		}
	}
	for _, p := range resume.Projects {
		for _, v := range []string{p.Name, p.Role, p.Description} {
			if v = strings.TrimSpace(v); v != "" {
				all = append(all, tagged{domain.SectionProjects, v})
			}
		}
		for _, r := range p.Responsibilities {
			if r = strings.TrimSpace(r); r != "" {
				all = append(all, tagged{domain.SectionProjects, r})
			}
		}
	}
	for _, line := range strings.Split(rawText, "\n") {
		if textx.IsCandidateSentence(line) {
			all = append(all, tagged{domain.SectionRaw, strings.TrimSpace(line)})
		}
	}

	seen := make(map[string]bool, len(all))
	out := make([]domain.ResumeSentence, 0, len(all))
	idx := 0
	for _, t := range all {
		if seen[t.text] {
			continue
		}
		seen[t.text] = true
		out = append(out, domain.ResumeSentence{Section: t.section, Idx: idx, Text: t.text})
		idx++
		if len(out) >= maxFallbackSentences {
			break
		}
	}
	return out
}
