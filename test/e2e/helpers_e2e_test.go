package e2e_test

import (
	"context"
	"net/http/httptest"

	"github.com/fairyhunter13/resume-job-matcher/internal/adapter/httpserver"
	"github.com/fairyhunter13/resume-job-matcher/internal/app"
	"github.com/fairyhunter13/resume-job-matcher/internal/config"
	"github.com/fairyhunter13/resume-job-matcher/internal/domain"
	"github.com/fairyhunter13/resume-job-matcher/internal/orchestrator"
	"github.com/fairyhunter13/resume-job-matcher/internal/scoring"
	"github.com/fairyhunter13/resume-job-matcher/internal/token"
)

// fakeResumeRepo, fakeJobRepo, fakeSentenceStore, and fakeEmbeddingClient
// mirror internal/orchestrator's test fakes: small hand-written
// implementations of the domain ports rather than mockery-generated
// doubles, since the generated internal/domain/mocks package is not part
// of this retrieval pack.
type fakeResumeRepo struct {
	resumes map[string]domain.Resume
}

func (f *fakeResumeRepo) Get(_ domain.Context, id string) (domain.Resume, error) {
	r, ok := f.resumes[id]
	if !ok {
		return domain.Resume{}, domain.ErrNotFound
	}
	return r, nil
}

type fakeJobRepo struct {
	jobs map[string]domain.JobPosting
}

func (f *fakeJobRepo) Get(_ domain.Context, id string) (domain.JobPosting, error) {
	j, ok := f.jobs[id]
	if !ok {
		return domain.JobPosting{}, domain.ErrNotFound
	}
	return j, nil
}

func (f *fakeJobRepo) ListActive(_ domain.Context, _ domain.SearchFilters) ([]domain.JobPosting, error) {
	out := make([]domain.JobPosting, 0, len(f.jobs))
	for _, j := range f.jobs {
		if j.Active {
			out = append(out, j)
		}
	}
	return out, nil
}

type fakeSentenceStore struct {
	resumeSentences map[string][]domain.ResumeSentence
}

func (f *fakeSentenceStore) GetResumeSentences(_ domain.Context, resumeID string) ([]domain.ResumeSentence, error) {
	return f.resumeSentences[resumeID], nil
}

func (f *fakeSentenceStore) GetJobSentences(_ domain.Context, _ string, _ ...domain.JobSection) ([]domain.JobSentence, error) {
	return nil, nil
}

type fakeEmbeddingClient struct{}

func unitVector(dims, hot int) []float32 {
	v := make([]float32, dims)
	v[hot] = 1
	return v
}

func (f *fakeEmbeddingClient) Embed(_ domain.Context, text string) ([]float32, error) {
	if text == "" {
		return make([]float32, domain.EmbeddingDim), nil
	}
	return unitVector(domain.EmbeddingDim, 0), nil
}

func (f *fakeEmbeddingClient) EmbedBatch(ctx domain.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i], _ = f.Embed(ctx, t)
	}
	return out, nil
}

type fakeFeedbackClient struct{}

func (fakeFeedbackClient) GenerateFeedback(_ domain.Context, _ domain.Resume, _ domain.JobPosting, _ domain.MatchingResult) (string, error) {
	return "Strong match on required skills and experience level.", nil
}

func testAggregateConfig() scoring.AggregateConfig {
	return scoring.AggregateConfig{
		Weights: map[string]float64{
			"required_match": 0.40, "experience_match": 0.30, "overall_similarity": 0.20,
			"preferred_match": 0.08, "education": 0.015, "certification": 0.005, "language": 0.0,
		},
		GradeExcellentMin: 0.85, GradeGoodMin: 0.70, GradeFairMin: 0.55, GradeCautionMin: 0.40,
		Penalty: scoring.PenaltyConfig{
			ExperienceLevelMismatch: 0.25, ExperienceSignificantlyLacking: 0.20,
			RequiredSkillCriticalMissing: 0.25, ExperiencePenaltyCap: 0.15,
		},
	}
}

// testWorld bundles everything a test needs to hit a running, fully
// wired router: the httptest server and the fixture ids it was seeded
// with.
type testWorld struct {
	server   *httptest.Server
	resumeID string
	jobID    string
	// inactiveJobID never appears in search results (Active: false) but
	// is reachable directly via /matching/compare.
	inactiveJobID string
}

// newTestWorld wires an in-memory Orchestrator and Server, identical in
// shape to cmd/server/main.go's production wiring but backed by fakes
// instead of Postgres/the embedding service/Redis/OpenRouter, and starts
// it behind httptest.NewServer so tests exercise the full HTTP stack
// (routing, middleware, validation, error envelope) exactly as a real
// deployment would.
func newTestWorld() *testWorld {
	resumeID, jobID, inactiveJobID := "resume-1", "job-1", "job-2"

	resumes := map[string]domain.Resume{
		resumeID: {
			ID:              resumeID,
			Skills:          []string{"python", "go", "kubernetes"},
			ExperienceYears: 6,
		},
	}
	sentences := map[string][]domain.ResumeSentence{
		resumeID: {
			{Section: domain.SectionExperience, Idx: 0, Text: "Built backend services in Python and Go.", Embedding: unitVector(domain.EmbeddingDim, 0)},
			{Section: domain.SectionSkills, Idx: 1, Text: "Operated Kubernetes clusters in production.", Embedding: unitVector(domain.EmbeddingDim, 0)},
		},
	}
	jobs := map[string]domain.JobPosting{
		jobID: {
			ID: jobID, Title: "Backend Engineer", CompanyName: "Acme", Active: true,
			Requirements:     domain.Requirements{Required: []string{"Python experience"}, Preferred: []string{"Kubernetes"}},
			ExperienceBucket: domain.ExperienceBucket("mid"),
			MinExperience:    3,
		},
		inactiveJobID: {
			ID: inactiveJobID, Title: "Retired Posting", CompanyName: "Acme", Active: false,
		},
	}

	orc := &orchestrator.Orchestrator{
		Resumes:          &fakeResumeRepo{resumes: resumes},
		Jobs:             &fakeJobRepo{jobs: jobs},
		Sentences:        orchestrator.NewSentenceCache(&fakeSentenceStore{resumeSentences: sentences}, nil),
		Embedding:        &fakeEmbeddingClient{},
		Feedback:         fakeFeedbackClient{},
		Tokens:           token.NewCodec("e2e-test-secret"),
		AggregateConfig:  testAggregateConfig(),
		AlgorithmVersion: "e2e-test-v1",
	}

	noopCheck := func(context.Context) error { return nil }
	srv := httpserver.NewServer(
		config.Config{CORSAllowOrigins: "*", RateLimitPerMin: 1000},
		orc,
		&fakeResumeRepo{resumes: resumes},
		&fakeJobRepo{jobs: jobs},
		&fakeSentenceStore{resumeSentences: sentences},
		noopCheck, noopCheck, noopCheck,
	)

	handler := app.BuildRouter(config.Config{CORSAllowOrigins: "*", RateLimitPerMin: 1000}, srv)
	return &testWorld{
		server:        httptest.NewServer(handler),
		resumeID:      resumeID,
		jobID:         jobID,
		inactiveJobID: inactiveJobID,
	}
}

func (w *testWorld) close() { w.server.Close() }
