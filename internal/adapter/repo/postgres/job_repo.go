package postgres

import (
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/resume-job-matcher/internal/domain"
)

// JobRepo loads job postings from PostgreSQL using a minimal pgx pool.
type JobRepo struct{ Pool PgxPool }

// NewJobRepo constructs a JobRepo with the given pool.
func NewJobRepo(p PgxPool) *JobRepo { return &JobRepo{Pool: p} }

var _ domain.JobRepository = (*JobRepo)(nil)

const jobSelectColumns = `id, title, company_name, description, required_conditions,
	       preferred_conditions, qualifications, responsibilities, benefits,
	       experience_bucket, min_experience, max_experience, location,
	       employment_type, active, posted_at, full_text_embedding, parsed_skills`

// Get loads a single job posting by id.
func (r *JobRepo) Get(ctx domain.Context, id string) (domain.JobPosting, error) {
	tracer := otel.Tracer("repo.jobs")
	ctx, span := tracer.Start(ctx, "jobs.Get")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "jobs"),
	)
	q := `SELECT ` + jobSelectColumns + ` FROM jobs WHERE id=$1`
	row := r.Pool.QueryRow(ctx, q, id)
	j, err := scanJobPosting(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.JobPosting{}, fmt.Errorf("op=job.get: %w", domain.ErrNotFound)
		}
		return domain.JobPosting{}, fmt.Errorf("op=job.get: %w", err)
	}
	return j, nil
}

// ListActive enumerates active job postings matching filters, used by
// search_jobs_for_resume before per-job scoring.
func (r *JobRepo) ListActive(ctx domain.Context, filters domain.SearchFilters) ([]domain.JobPosting, error) {
	tracer := otel.Tracer("repo.jobs")
	ctx, span := tracer.Start(ctx, "jobs.ListActive")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "jobs"),
	)

	where := " WHERE active = true"
	args := []interface{}{}
	argIdx := 1

	if filters.Location != "" {
		where += fmt.Sprintf(" AND location ILIKE $%d", argIdx)
		args = append(args, "%"+filters.Location+"%")
		argIdx++
	}
	if filters.EmploymentType != "" {
		where += fmt.Sprintf(" AND employment_type = $%d", argIdx)
		args = append(args, filters.EmploymentType)
		argIdx++
	}
	if filters.ExperienceLevel != domain.BucketNone {
		where += fmt.Sprintf(" AND experience_bucket = $%d", argIdx)
		args = append(args, string(filters.ExperienceLevel))
		argIdx++
	}
	if filters.MinExperienceYears != nil {
		where += fmt.Sprintf(" AND min_experience <= $%d", argIdx)
		args = append(args, *filters.MinExperienceYears)
		argIdx++
	}
	if len(filters.RequiredSkills) > 0 {
		where += fmt.Sprintf(" AND parsed_skills && $%d", argIdx)
		args = append(args, filters.RequiredSkills)
		argIdx++
	}

	q := `SELECT ` + jobSelectColumns + ` FROM jobs` + where + ` ORDER BY posted_at DESC`
	rows, err := r.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("op=job.list_active: %w", err)
	}
	defer rows.Close()

	var out []domain.JobPosting
	for rows.Next() {
		j, err := scanJobPosting(rows)
		if err != nil {
			return nil, fmt.Errorf("op=job.list_active_scan: %w", err)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=job.list_active_rows: %w", err)
	}
	return out, nil
}

// rowScanner abstracts pgx.Row and pgx.Rows, both of which implement Scan.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJobPosting(row rowScanner) (domain.JobPosting, error) {
	var j domain.JobPosting
	var bucket string
	var maxExp *float64
	var embBytes []byte
	err := row.Scan(
		&j.ID, &j.Title, &j.CompanyName, &j.Description,
		&j.Requirements.Required, &j.Requirements.Preferred,
		&j.Qualifications, &j.Responsibilities, &j.Benefits,
		&bucket, &j.MinExperience, &maxExp, &j.Location,
		&j.EmploymentType, &j.Active, &j.PostedAt, &embBytes, &j.ParsedSkills,
	)
	if err != nil {
		return domain.JobPosting{}, err
	}
	j.ExperienceBucket = domain.ExperienceBucket(bucket)
	j.MaxExperience = maxExp
	j.FullTextEmbedding = normalize(decodeVector(embBytes))
	return j, nil
}
