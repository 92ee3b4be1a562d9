package orchestrator

import (
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/resume-job-matcher/internal/domain"
	"github.com/fairyhunter13/resume-job-matcher/internal/lexicon"
	"github.com/fairyhunter13/resume-job-matcher/internal/scoring"
)

// buildConditions normalizes every raw requirement phrase (atomic split,
// synonym expansion, rule augments) and embeds each resulting condition
// text, returning them paired for the semantic scorer.
func buildConditions(ctx domain.Context, emb domain.EmbeddingClient, raw []string) ([]scoring.ConditionInput, error) {
	var texts []string
	for _, phrase := range raw {
		texts = append(texts, lexicon.NormalizeCondition(phrase)...)
	}
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([]scoring.ConditionInput, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			vec, err := emb.Embed(gctx, text)
			if err != nil {
				// EmbeddingUnavailable degrades to a zero vector rather
				// than failing the whole pair: the condition simply
				// scores as unmatched.
				vec = make([]float32, domain.EmbeddingDim)
			}
			out[i] = scoring.ConditionInput{Text: text, Embedding: vec}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// runPair executes the full scoring pipeline for one résumé×job pair:
// condition embedding, aggregation, and evidence assembly. It never
// returns an error for embedding failures (those degrade gracefully per
// §7); the error return is reserved for context cancellation.
func runPair(ctx domain.Context, emb domain.EmbeddingClient, cfg scoring.AggregateConfig, job domain.JobPosting, resume domain.Resume) (domain.MatchingResult, error) {
	start := time.Now()

	required, err := buildConditions(ctx, emb, job.Requirements.Required)
	if err != nil {
		return domain.MatchingResult{}, err
	}
	preferred, err := buildConditions(ctx, emb, job.Requirements.Preferred)
	if err != nil {
		return domain.MatchingResult{}, err
	}

	result := scoring.Aggregate(cfg, job, resume, required, preferred)
	result.ResumeID = resume.ID
	result.JobID = job.ID
	result.CalculationTimeMS = time.Since(start).Milliseconds()
	return result, nil
}
