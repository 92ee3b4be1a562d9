package postgres

import (
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/resume-job-matcher/internal/domain"
)

// SentenceStore implements domain.SentenceStore against the
// resume_sentences and job_sentences tables populated by the upstream
// sentence-backfill job.
type SentenceStore struct{ Pool PgxPool }

// NewSentenceStore constructs a SentenceStore with the given pool.
func NewSentenceStore(p PgxPool) *SentenceStore { return &SentenceStore{Pool: p} }

var _ domain.SentenceStore = (*SentenceStore)(nil)

// GetResumeSentences returns every sentence stored for resumeID, ordered
// by section then idx.
func (s *SentenceStore) GetResumeSentences(ctx domain.Context, resumeID string) ([]domain.ResumeSentence, error) {
	tracer := otel.Tracer("repo.sentences")
	ctx, span := tracer.Start(ctx, "sentences.GetResumeSentences")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "resume_sentences"),
	)

	q := `SELECT section, idx, text, embedding FROM resume_sentences WHERE resume_id=$1 ORDER BY section, idx`
	rows, err := s.Pool.Query(ctx, q, resumeID)
	if err != nil {
		return nil, fmt.Errorf("op=sentences.get_resume: %w", err)
	}
	defer rows.Close()

	var out []domain.ResumeSentence
	for rows.Next() {
		var sent domain.ResumeSentence
		var section string
		var embBytes []byte
		if err := rows.Scan(&section, &sent.Idx, &sent.Text, &embBytes); err != nil {
			return nil, fmt.Errorf("op=sentences.get_resume_scan: %w", err)
		}
		sent.Section = domain.ResumeSection(section)
		sent.Embedding = normalize(decodeVector(embBytes))
		out = append(out, sent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=sentences.get_resume_rows: %w", err)
	}
	return out, nil
}

// GetJobSentences returns every sentence stored for jobID, optionally
// restricted to the given sections, ordered by section then idx.
func (s *SentenceStore) GetJobSentences(ctx domain.Context, jobID string, sections ...domain.JobSection) ([]domain.JobSentence, error) {
	tracer := otel.Tracer("repo.sentences")
	ctx, span := tracer.Start(ctx, "sentences.GetJobSentences")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "job_sentences"),
	)

	var rows pgx.Rows
	var err error
	if len(sections) == 0 {
		q := `SELECT section, idx, text, embedding FROM job_sentences WHERE job_id=$1 ORDER BY section, idx`
		rows, err = s.Pool.Query(ctx, q, jobID)
	} else {
		strs := make([]string, len(sections))
		for i, sec := range sections {
			strs[i] = string(sec)
		}
		q := `SELECT section, idx, text, embedding FROM job_sentences WHERE job_id=$1 AND section = ANY($2) ORDER BY section, idx`
		rows, err = s.Pool.Query(ctx, q, jobID, strs)
	}
	if err != nil {
		return nil, fmt.Errorf("op=sentences.get_job: %w", err)
	}
	defer rows.Close()

	var out []domain.JobSentence
	for rows.Next() {
		var sent domain.JobSentence
		var section string
		var embBytes []byte
		if err := rows.Scan(&section, &sent.Idx, &sent.Text, &embBytes); err != nil {
			return nil, fmt.Errorf("op=sentences.get_job_scan: %w", err)
		}
		sent.Section = domain.JobSection(section)
		sent.Embedding = normalize(decodeVector(embBytes))
		out = append(out, sent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=sentences.get_job_rows: %w", err)
	}
	return out, nil
}
