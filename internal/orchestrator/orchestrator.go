package orchestrator

import (
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/resume-job-matcher/internal/adapter/observability"
	"github.com/fairyhunter13/resume-job-matcher/internal/domain"
	obsctx "github.com/fairyhunter13/resume-job-matcher/internal/observability"
	"github.com/fairyhunter13/resume-job-matcher/internal/scoring"
	"github.com/fairyhunter13/resume-job-matcher/internal/sentencestore"
)

// Orchestrator wires the repositories, embedding client, sentence cache,
// and token codec into the two public operations a caller needs:
// SearchJobsForResume and Score.
type Orchestrator struct {
	Resumes   domain.ResumeRepository
	Jobs      domain.JobRepository
	Sentences *SentenceCache
	Embedding domain.EmbeddingClient
	Feedback  domain.FeedbackClient
	Tokens    domain.TokenCodec

	AggregateConfig  scoring.AggregateConfig
	AlgorithmVersion string

	// WorkerPoolSize bounds concurrent job-pair evaluations in
	// SearchJobsForResume. 0 means runtime.GOMAXPROCS(0).
	WorkerPoolSize int
}

func (o *Orchestrator) poolSize() int {
	if o.WorkerPoolSize > 0 {
		return o.WorkerPoolSize
	}
	return runtime.GOMAXPROCS(0)
}

// loadResumeWithSentences loads resume's scalar facts and attaches its
// sentences from the shared cache. If the store holds no rows, it falls
// back to walking resume's parsed structure and raw text, embedding
// whatever candidate sentences that turns up. It still fails with
// domain.ErrNoSentences if the résumé has no content to build sentences
// from either way (the precondition for search mode).
func (o *Orchestrator) loadResumeWithSentences(ctx domain.Context, resumeID string) (domain.Resume, error) {
	resume, err := o.Resumes.Get(ctx, resumeID)
	if err != nil {
		return domain.Resume{}, fmt.Errorf("op=orchestrator.loadResume: %w", err)
	}
	sentences, err := o.Sentences.Get(ctx, resumeID)
	if err != nil {
		return domain.Resume{}, fmt.Errorf("op=orchestrator.loadResume: %w", err)
	}
	resume.Sentences = sentences
	if !resume.HasSentences() {
		fallback, err := o.buildFallbackSentences(ctx, resume)
		if err != nil {
			return domain.Resume{}, fmt.Errorf("op=orchestrator.loadResume: %w", err)
		}
		resume.Sentences = fallback
	}
	if !resume.HasSentences() {
		return domain.Resume{}, fmt.Errorf("op=orchestrator.loadResume resume=%s: %w", resumeID, domain.ErrNoSentences)
	}
	return resume, nil
}

// buildFallbackSentences walks resume's parsed structure and raw text for
// candidate sentences when the Sentence Store holds no rows, embedding
// the result in one batch call. It returns nil, nil when the walk finds
// nothing to embed, so callers can fall through to their own
// no-sentences handling without paying for an empty EmbedBatch call.
func (o *Orchestrator) buildFallbackSentences(ctx domain.Context, resume domain.Resume) ([]domain.ResumeSentence, error) {
	built := sentencestore.BuildResumeSentences(resume.Parsed, resume.Skills, resume.RawText)
	if len(built) == 0 {
		return nil, nil
	}
	texts := make([]string, len(built))
	for i, s := range built {
		texts[i] = s.Text
	}
	vectors, err := o.Embedding.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("op=orchestrator.buildFallbackSentences: %w", err)
	}
	for i := range built {
		if i < len(vectors) {
			built[i].Embedding = vectors[i]
		}
	}
	return built, nil
}

// SearchJobsForResume scores resumeID against every active job matching
// filters, sorts by score descending (ties broken by job id ascending),
// and truncates to limit. Per-job failures are logged as warnings and
// skipped; the call as a whole still returns the matches it could
// compute.
func (o *Orchestrator) SearchJobsForResume(ctx domain.Context, resumeID string, filters domain.SearchFilters, limit int) ([]domain.SearchMatch, error) {
	resume, err := o.loadResumeWithSentences(ctx, resumeID)
	if err != nil {
		return nil, err
	}

	jobs, err := o.Jobs.ListActive(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("op=orchestrator.SearchJobsForResume: %w", err)
	}

	results := make([]*domain.MatchingResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.poolSize())
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			result, err := runPair(gctx, o.Embedding, o.AggregateConfig, job, resume)
			if err != nil {
				obsctx.LoggerFromContext(gctx).Warn("job pair scoring failed; skipping job", "job_id", job.ID, "error", err)
				return nil
			}
			result.AlgorithmVersion = o.AlgorithmVersion
			token, err := o.Tokens.Encode(resumeID, job.ID)
			if err != nil {
				obsctx.LoggerFromContext(gctx).Warn("token encoding failed; skipping job", "job_id", job.ID, "error", err)
				return nil
			}
			result.Token = token
			observeResult(result)
			results[i] = &result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("op=orchestrator.SearchJobsForResume: %w", err)
	}

	matches := make([]domain.SearchMatch, 0, len(results))
	for i, r := range results {
		if r == nil {
			continue
		}
		matches = append(matches, toSearchMatch(jobs[i], *r))
	}

	sort.Slice(matches, func(a, b int) bool {
		if matches[a].OverallScore != matches[b].OverallScore {
			return matches[a].OverallScore > matches[b].OverallScore
		}
		return matches[a].JobID < matches[b].JobID
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Score runs the full pipeline for one résumé×job pair. If wantFeedback
// is set, it also invokes the Feedback collaborator and attaches its
// narrative to the result; feedback never participates in scoring.
func (o *Orchestrator) Score(ctx domain.Context, resumeID, jobID string, wantFeedback bool) (domain.MatchingResult, error) {
	resume, err := o.Resumes.Get(ctx, resumeID)
	if err != nil {
		return domain.MatchingResult{}, fmt.Errorf("op=orchestrator.Score: %w", err)
	}
	sentences, err := o.Sentences.Get(ctx, resumeID)
	if err != nil {
		return domain.MatchingResult{}, fmt.Errorf("op=orchestrator.Score: %w", err)
	}
	resume.Sentences = sentences
	if !resume.HasSentences() {
		// Score has no hard sentence precondition, unlike search mode: a
		// failed fallback build still lets category scoring proceed on
		// whatever scalar facts the résumé carries.
		if fallback, err := o.buildFallbackSentences(ctx, resume); err == nil {
			resume.Sentences = fallback
		}
	}

	job, err := o.Jobs.Get(ctx, jobID)
	if err != nil {
		return domain.MatchingResult{}, fmt.Errorf("op=orchestrator.Score: %w", err)
	}

	result, err := runPair(ctx, o.Embedding, o.AggregateConfig, job, resume)
	if err != nil {
		return domain.MatchingResult{}, fmt.Errorf("op=orchestrator.Score: %w", err)
	}
	result.AlgorithmVersion = o.AlgorithmVersion

	token, err := o.Tokens.Encode(resumeID, jobID)
	if err != nil {
		return domain.MatchingResult{}, fmt.Errorf("op=orchestrator.Score: %w", err)
	}
	result.Token = token

	if wantFeedback && o.Feedback != nil {
		feedback, err := o.Feedback.GenerateFeedback(ctx, resume, job, result)
		if err == nil {
			result.AIFeedback = feedback
		}
	}
	observeResult(result)
	return result, nil
}

// observeResult records the Prometheus metrics for a computed result. It
// is the single call site shared by Score and SearchJobsForResume so
// every pipeline entry point reports consistent scoring metrics.
func observeResult(result domain.MatchingResult) {
	penalties := make(map[string]float64, len(result.Penalties))
	for kind, magnitude := range result.Penalties {
		penalties[string(kind)] = magnitude
	}
	observability.ObserveMatchingResult(result.OverallScore, string(result.Grade), float64(result.CalculationTimeMS)/1000, penalties)
}

// DecodeToken recovers the (resumeID, jobID) pair a token was built from.
func (o *Orchestrator) DecodeToken(token string) (resumeID, jobID string, err error) {
	return o.Tokens.Decode(token)
}

func toSearchMatch(job domain.JobPosting, result domain.MatchingResult) domain.SearchMatch {
	return domain.SearchMatch{
		MatchingID:       result.Token,
		JobID:            job.ID,
		JobTitle:         job.Title,
		CompanyName:      job.CompanyName,
		Location:         job.Location,
		ExperienceLevel:  job.ExperienceBucket,
		OverallScore:     result.OverallScore * 100,
		Grade:            result.Grade,
		CategoryScores:   result.CategoryScores,
		MatchingEvidence: result.Evidence,
		Penalties:        result.Penalties,
	}
}
