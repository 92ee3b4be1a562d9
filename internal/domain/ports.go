package domain

//go:generate mockery --name=ResumeRepository --with-expecter --filename=resume_repository_mock.go
//go:generate mockery --name=JobRepository --with-expecter --filename=job_repository_mock.go
//go:generate mockery --name=SentenceStore --with-expecter --filename=sentence_store_mock.go
//go:generate mockery --name=EmbeddingClient --with-expecter --filename=embedding_client_mock.go
//go:generate mockery --name=FeedbackClient --with-expecter --filename=feedback_client_mock.go

// ResumeRepository loads résumé entities (parsed structure + extracted
// facts) by id. Ingestion and parsing are external collaborators; this
// port only reads.
type ResumeRepository interface {
	Get(ctx Context, id string) (Resume, error)
}

// JobRepository loads job postings and enumerates active postings for
// search mode.
type JobRepository interface {
	Get(ctx Context, id string) (JobPosting, error)
	ListActive(ctx Context, filters SearchFilters) ([]JobPosting, error)
}

// SentenceStore persists and retrieves per-résumé and per-job-section
// sentences with their embeddings. Sentences are produced by an upstream
// backfill job and are immutable for scoring.
type SentenceStore interface {
	GetResumeSentences(ctx Context, resumeID string) ([]ResumeSentence, error)
	GetJobSentences(ctx Context, jobID string, sections ...JobSection) ([]JobSentence, error)
}

// EmbeddingClient produces unit-norm embedding vectors for arbitrary text
// via an external embedding service.
type EmbeddingClient interface {
	// Embed returns a single EmbeddingDim-dimensional unit vector for text.
	// Empty text returns a zero vector, never an error.
	Embed(ctx Context, text string) ([]float32, error)
	// EmbedBatch returns aligned vectors for texts; a per-item failure is
	// substituted with a zero vector rather than failing the whole call.
	EmbedBatch(ctx Context, texts []string) ([][]float32, error)
}

// FeedbackClient generates narrative AI feedback for a computed
// MatchingResult. It never participates in scoring; it is only invoked
// when want_feedback is requested.
type FeedbackClient interface {
	GenerateFeedback(ctx Context, resume Resume, job JobPosting, result MatchingResult) (string, error)
}

// TokenCodec encodes and decodes the stateless {resume_id, job_id}
// identifier used for result recall.
type TokenCodec interface {
	Encode(resumeID, jobID string) (string, error)
	Decode(token string) (resumeID, jobID string, err error)
}
