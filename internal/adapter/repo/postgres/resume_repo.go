package postgres

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/resume-job-matcher/internal/domain"
)

// ResumeRepo loads résumé entities from PostgreSQL using a minimal pgx pool.
type ResumeRepo struct{ Pool PgxPool }

// NewResumeRepo constructs a ResumeRepo with the given pool.
func NewResumeRepo(p PgxPool) *ResumeRepo { return &ResumeRepo{Pool: p} }

var _ domain.ResumeRepository = (*ResumeRepo)(nil)

// Get loads a résumé's scalar facts, parsed structure, work history,
// projects and full-text embedding by id. Sentence rows are loaded
// separately through SentenceStore.
func (r *ResumeRepo) Get(ctx domain.Context, id string) (domain.Resume, error) {
	tracer := otel.Tracer("repo.resumes")
	ctx, span := tracer.Start(ctx, "resumes.Get")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "resumes"),
	)

	q := `SELECT id, raw_text, personal_name, summary, skills_narrative,
	             projects_narrative, skills, experience_years, education,
	             domains, full_text_embedding
	      FROM resumes WHERE id=$1`
	row := r.Pool.QueryRow(ctx, q, id)

	var res domain.Resume
	var personalName, summary, skillsNarrative, projectsNarrative string
	var education string
	var skills, domains []string
	var embBytes []byte
	if err := row.Scan(&res.ID, &res.RawText, &personalName, &summary,
		&skillsNarrative, &projectsNarrative, &skills, &res.ExperienceYears,
		&education, &domains, &embBytes); err != nil {
		if err == pgx.ErrNoRows {
			return domain.Resume{}, fmt.Errorf("op=resume.get: %w", domain.ErrNotFound)
		}
		return domain.Resume{}, fmt.Errorf("op=resume.get: %w", err)
	}

	res.Parsed.PersonalName = personalName
	res.Parsed.Summary = summary
	res.Parsed.SkillsNarrative = skillsNarrative
	res.Parsed.ProjectsNarrative = projectsNarrative
	res.Skills = skills
	res.Education = domain.EducationLevel(education)
	res.Domains = domains
	res.FullTextEmbedding = normalize(decodeVector(embBytes))

	workHistory, err := r.getWorkHistory(ctx, id)
	if err != nil {
		return domain.Resume{}, err
	}
	res.Parsed.WorkHistory = workHistory

	projects, err := r.getProjects(ctx, id)
	if err != nil {
		return domain.Resume{}, err
	}
	res.Parsed.Projects = projects

	return res, nil
}

func (r *ResumeRepo) getWorkHistory(ctx domain.Context, resumeID string) ([]domain.WorkHistoryEntry, error) {
	tracer := otel.Tracer("repo.resumes")
	ctx, span := tracer.Start(ctx, "resumes.getWorkHistory")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "resume_work_history"),
	)

	q := `SELECT company, title, start_date, end_date, description, responsibilities
	      FROM resume_work_history WHERE resume_id=$1 ORDER BY idx`
	rows, err := r.Pool.Query(ctx, q, resumeID)
	if err != nil {
		return nil, fmt.Errorf("op=resume.work_history: %w", err)
	}
	defer rows.Close()

	var out []domain.WorkHistoryEntry
	for rows.Next() {
		var w domain.WorkHistoryEntry
		var start, end *time.Time
		var respStr string
		if err := rows.Scan(&w.Company, &w.Title, &start, &end, &w.Description, &respStr); err != nil {
			return nil, fmt.Errorf("op=resume.work_history_scan: %w", err)
		}
		if start != nil {
			w.Start = *start
		}
		if end != nil {
			w.End = *end
		}
		w.Responsibilities = splitLines(respStr)
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=resume.work_history_rows: %w", err)
	}
	return out, nil
}

func (r *ResumeRepo) getProjects(ctx domain.Context, resumeID string) ([]domain.ProjectEntry, error) {
	tracer := otel.Tracer("repo.resumes")
	ctx, span := tracer.Start(ctx, "resumes.getProjects")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "resume_projects"),
	)

	q := `SELECT name, role, description, responsibilities
	      FROM resume_projects WHERE resume_id=$1 ORDER BY idx`
	rows, err := r.Pool.Query(ctx, q, resumeID)
	if err != nil {
		return nil, fmt.Errorf("op=resume.projects: %w", err)
	}
	defer rows.Close()

	var out []domain.ProjectEntry
	for rows.Next() {
		var p domain.ProjectEntry
		var respStr string
		if err := rows.Scan(&p.Name, &p.Role, &p.Description, &respStr); err != nil {
			return nil, fmt.Errorf("op=resume.projects_scan: %w", err)
		}
		p.Responsibilities = splitLines(respStr)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=resume.projects_rows: %w", err)
	}
	return out, nil
}

// splitLines splits a newline-joined responsibilities column back into a
// slice, dropping blank lines. Responsibilities are stored newline-joined
// rather than as a separate child table since they carry no independent
// metadata.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
