// Package httpserver contains HTTP handlers and middleware.
//
// It provides REST API endpoints for résumé×job matching: search, detail,
// feedback, sentence-level evidence, and single-pair comparison. The
// package follows clean architecture principles and provides a clear
// separation between HTTP concerns and business logic.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/resume-job-matcher/internal/config"
	"github.com/fairyhunter13/resume-job-matcher/internal/domain"
	"github.com/fairyhunter13/resume-job-matcher/internal/lexicon"
	"github.com/fairyhunter13/resume-job-matcher/internal/orchestrator"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg          config.Config
	Orchestrator *orchestrator.Orchestrator
	Resumes      domain.ResumeRepository
	Jobs         domain.JobRepository
	Sentences    domain.SentenceStore

	DBCheck        func(ctx context.Context) error
	EmbeddingCheck func(ctx context.Context) error
	CacheCheck     func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers and checks wired.
func NewServer(cfg config.Config, orc *orchestrator.Orchestrator, resumes domain.ResumeRepository, jobs domain.JobRepository, sentences domain.SentenceStore, dbCheck, embeddingCheck, cacheCheck func(context.Context) error) *Server {
	return &Server{
		Cfg:            cfg,
		Orchestrator:   orc,
		Resumes:        resumes,
		Jobs:           jobs,
		Sentences:      sentences,
		DBCheck:        dbCheck,
		EmbeddingCheck: embeddingCheck,
		CacheCheck:     cacheCheck,
	}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

type searchFiltersRequest struct {
	Location           string   `json:"location"`
	EmploymentType     string   `json:"employment_type"`
	ExperienceLevel    string   `json:"experience_level"`
	MinSalary          *int64   `json:"min_salary"`
	MinExperienceYears *float64 `json:"min_experience_years"`
	RequiredSkills     []string `json:"required_skills"`
}

type searchJobsRequest struct {
	ResumeID string                `json:"resume_id" validate:"required"`
	Filters  *searchFiltersRequest `json:"filters"`
	Limit    int                   `json:"limit"`
}

func (f *searchFiltersRequest) toDomain() domain.SearchFilters {
	if f == nil {
		return domain.SearchFilters{}
	}
	return domain.SearchFilters{
		Location:           f.Location,
		EmploymentType:     f.EmploymentType,
		ExperienceLevel:    domain.ExperienceBucket(f.ExperienceLevel),
		MinSalary:          f.MinSalary,
		MinExperienceYears: f.MinExperienceYears,
		RequiredSkills:     f.RequiredSkills,
	}
}

// SearchJobsHandler handles POST /matching/search-jobs.
func (s *Server) SearchJobsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		var req searchJobsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), validationDetails(err))
			return
		}
		limit := req.Limit
		if limit <= 0 {
			limit = 50
		}

		start := time.Now()
		matches, err := s.Orchestrator.SearchJobsForResume(r.Context(), req.ResumeID, req.Filters.toDomain(), limit)
		if err != nil {
			writeError(w, r, fmt.Errorf("op=httpserver.SearchJobs: %w", err), nil)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"resume_id":          req.ResumeID,
			"matches":            matches,
			"total_count":        len(matches),
			"processing_time_ms": time.Since(start).Milliseconds(),
		})
	}
}

func validationDetails(err error) map[string]string {
	details := map[string]string{}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			details[strings.ToLower(fe.Field())] = fe.Tag()
		}
	}
	return details
}

func (s *Server) resolveToken(r *http.Request, paramName string) (resumeID, jobID string, err error) {
	token := chi.URLParam(r, paramName)
	if token == "" {
		return "", "", fmt.Errorf("%w: %s missing", domain.ErrInvalidArgument, paramName)
	}
	return s.Orchestrator.DecodeToken(token)
}

// MatchDetailHandler handles GET /matching/{matching_id}.
func (s *Server) MatchDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resumeID, jobID, err := s.resolveToken(r, "matching_id")
		if err != nil {
			writeError(w, r, fmt.Errorf("op=httpserver.MatchDetail: %w", domain.ErrInvalidToken), nil)
			return
		}
		result, err := s.Orchestrator.Score(r.Context(), resumeID, jobID, false)
		if err != nil {
			writeError(w, r, fmt.Errorf("op=httpserver.MatchDetail: %w", err), nil)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// MatchFeedbackHandler handles GET /matching/{matching_id}/feedback.
func (s *Server) MatchFeedbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resumeID, jobID, err := s.resolveToken(r, "matching_id")
		if err != nil {
			writeError(w, r, fmt.Errorf("op=httpserver.MatchFeedback: %w", domain.ErrInvalidToken), nil)
			return
		}
		result, err := s.Orchestrator.Score(r.Context(), resumeID, jobID, true)
		if err != nil {
			writeError(w, r, fmt.Errorf("op=httpserver.MatchFeedback: %w", err), nil)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// SentenceMatchesHandler handles GET /matching/sentence-matches/{matching_id}.
func (s *Server) SentenceMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resumeID, jobID, err := s.resolveToken(r, "matching_id")
		if err != nil {
			writeError(w, r, fmt.Errorf("op=httpserver.SentenceMatches: %w", domain.ErrInvalidToken), nil)
			return
		}
		result, err := s.Orchestrator.Score(r.Context(), resumeID, jobID, false)
		if err != nil {
			writeError(w, r, fmt.Errorf("op=httpserver.SentenceMatches: %w", err), nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"matching_id": chi.URLParam(r, "matching_id"),
			"required":    result.Evidence.Required,
			"preferred":   result.Evidence.Preferred,
			"experience":  result.Evidence.Experience,
		})
	}
}

// CompareHandler handles GET /matching/compare/{job_id}?resume_id=….
func (s *Server) CompareHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "job_id")
		resumeID := r.URL.Query().Get("resume_id")
		if jobID == "" || resumeID == "" {
			writeError(w, r, fmt.Errorf("%w: job_id and resume_id required", domain.ErrInvalidArgument), nil)
			return
		}
		result, err := s.Orchestrator.Score(r.Context(), resumeID, jobID, false)
		if err != nil {
			writeError(w, r, fmt.Errorf("op=httpserver.Compare: %w", err), nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"resume_id":       resumeID,
			"job_id":          jobID,
			"overall_score":   result.OverallScore,
			"grade":           result.Grade,
			"category_scores": result.CategoryScores,
			"evidence":        result.Evidence,
			"penalties":       result.Penalties,
		})
	}
}

// DebugConditionsHandler handles GET /matching/debug/conditions?job_id=….
// It surfaces the normalized condition phrases an operator would see the
// semantic scorer evaluate for a job, without running the full pipeline.
func (s *Server) DebugConditionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := r.URL.Query().Get("job_id")
		if jobID == "" {
			writeError(w, r, fmt.Errorf("%w: job_id required", domain.ErrInvalidArgument), nil)
			return
		}
		job, err := s.Jobs.Get(r.Context(), jobID)
		if err != nil {
			writeError(w, r, fmt.Errorf("op=httpserver.DebugConditions: %w", err), nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"job_id":    jobID,
			"required":  normalizedPhrases(job.Requirements.Required),
			"preferred": normalizedPhrases(job.Requirements.Preferred),
		})
	}
}

// DebugSentencesHandler handles GET /matching/debug/sentences?resume_id=….
func (s *Server) DebugSentencesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resumeID := r.URL.Query().Get("resume_id")
		if resumeID == "" {
			writeError(w, r, fmt.Errorf("%w: resume_id required", domain.ErrInvalidArgument), nil)
			return
		}
		sentences, err := s.Sentences.GetResumeSentences(r.Context(), resumeID)
		if err != nil {
			writeError(w, r, fmt.Errorf("op=httpserver.DebugSentences: %w", err), nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"resume_id": resumeID,
			"sentences": sentences,
			"count":     len(sentences),
		})
	}
}

// ReadyzHandler returns a readiness handler that probes the database,
// embedding service, and cache backend.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, 3)
		run := func(name string, fn func(context.Context) error) {
			if fn == nil {
				return
			}
			if err := fn(ctx); err != nil {
				checks = append(checks, check{Name: name, OK: false, Details: err.Error()})
			} else {
				checks = append(checks, check{Name: name, OK: true})
			}
		}
		run("db", s.DBCheck)
		run("embedding", s.EmbeddingCheck)
		run("cache", s.CacheCheck)

		ok := true
		for _, c := range checks {
			if !c.OK {
				ok = false
				break
			}
		}
		st := http.StatusOK
		if !ok {
			st = http.StatusServiceUnavailable
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}

// MountAdmin mounts the admin interface using the AdminServer.
func (s *Server) MountAdmin(r chi.Router) {
	adminServer, err := NewAdminServer(s.Cfg, s)
	if err != nil {
		return
	}
	r.Post("/admin/token", adminServer.AdminTokenHandler())
	r.Get("/admin/api/status", adminServer.AdminStatusHandler())
	r.Get("/admin/api/stats", adminServer.AdminStatsHandler())
	r.Get("/admin/api/jobs", adminServer.AdminJobsHandler())
	r.Get("/admin/api/jobs/{id}", adminServer.AdminJobDetailsHandler())
}

func normalizedPhrases(raw []string) []string {
	var out []string
	for _, phrase := range raw {
		out = append(out, lexicon.NormalizeCondition(phrase)...)
	}
	return out
}

// pageAndLimit parses pagination query parameters with the same defaults
// the admin dashboard has always used.
func pageAndLimit(page, limit string) (int, int) {
	pageNum, limitNum := 1, 10
	if p, err := strconv.Atoi(page); err == nil && p > 0 {
		pageNum = p
	}
	if l, err := strconv.Atoi(limit); err == nil && l > 0 && l <= 100 {
		limitNum = l
	}
	return pageNum, limitNum
}
