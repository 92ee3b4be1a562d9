// Package httpserver contains the Admin API server and HTTP adapters.
package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/resume-job-matcher/internal/config"
	"github.com/fairyhunter13/resume-job-matcher/internal/domain"
)

// AdminServer handles admin API routes: operator read access to job
// postings and aggregate stats, guarded the same way as the teacher's
// admin dashboard (SSO header or Bearer JWT).
type AdminServer struct {
	cfg            config.Config
	sessionManager *SessionManager
	server         *Server
}

// NewAdminServer creates a new admin server.
func NewAdminServer(cfg config.Config, server *Server) (*AdminServer, error) {
	return &AdminServer{
		cfg:            cfg,
		sessionManager: NewSessionManager(cfg),
		server:         server,
	}, nil
}

// AdminTokenHandler issues a JWT for admin APIs.
func (a *AdminServer) AdminTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracer := otel.Tracer("http.admin")
		_, span := tracer.Start(r.Context(), "AdminServer.AdminTokenHandler")
		defer span.End()

		lg := LoggerFrom(r)
		var username, password string
		ct := r.Header.Get("Content-Type")
		if strings.HasPrefix(strings.ToLower(ct), "application/json") {
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			username = strings.TrimSpace(body["username"])
			password = strings.TrimSpace(body["password"])
		} else {
			username = strings.TrimSpace(r.FormValue("username"))
			password = strings.TrimSpace(r.FormValue("password"))
		}

		if username != a.cfg.AdminUsername || password != a.cfg.AdminPassword {
			span.SetAttributes(attribute.Bool("auth.success", false))
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			lg.Error("invalid credentials", slog.Any("username", username))
			return
		}

		token, err := a.sessionManager.GenerateJWT(username, 24*time.Hour)
		if err != nil {
			http.Error(w, "Failed to issue token", http.StatusInternalServerError)
			lg.Error("failed to issue token", slog.Any("error", err))
			return
		}
		span.SetAttributes(
			attribute.Bool("auth.success", true),
			attribute.String("admin.username", username),
		)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":    token,
			"username": username,
			"expires":  time.Now().Add(24 * time.Hour).Unix(),
		})
		lg.Info("issued token", slog.Any("username", username))
	}
}

func (a *AdminServer) authorize(r *http.Request) (string, bool) {
	if user := getSSOUsernameFromHeaders(r); user != "" {
		return user, true
	}
	authz := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(authz[len("Bearer "):])
	sub, err := a.sessionManager.ValidateJWT(token)
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}

// AdminStatusHandler confirms the caller is authenticated.
func (a *AdminServer) AdminStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracer := otel.Tracer("http.admin")
		_, span := tracer.Start(r.Context(), "AdminServer.AdminStatusHandler")
		defer span.End()

		username, ok := a.authorize(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status": "authenticated", "username": "` + username + `"}`))
	}
}

// AdminStatsHandler returns counts of active job postings — the only
// aggregate the repository ports can answer without a dedicated
// reporting query.
func (a *AdminServer) AdminStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracer := otel.Tracer("http.admin")
		ctx, span := tracer.Start(r.Context(), "AdminServer.AdminStatsHandler")
		defer span.End()

		if _, ok := a.authorize(r); !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		jobs, err := a.server.Jobs.ListActive(ctx, domain.SearchFilters{})
		stats := map[string]any{"active_jobs": len(jobs)}
		if err != nil {
			stats["error"] = map[string]any{"code": "JOBS_LIST_ERROR", "message": err.Error()}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(stats)
	}
}

// AdminJobsHandler returns a paginated, in-memory-filtered list of active
// job postings.
func (a *AdminServer) AdminJobsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracer := otel.Tracer("http.admin")
		ctx, span := tracer.Start(r.Context(), "AdminServer.AdminJobsHandler")
		defer span.End()

		if _, ok := a.authorize(r); !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		page := SanitizeString(r.URL.Query().Get("page"))
		limit := SanitizeString(r.URL.Query().Get("limit"))
		search := SanitizeString(r.URL.Query().Get("search"))

		if validation := ValidatePagination(page, limit); !validation.Valid {
			writeAdminValidationError(w, "Invalid pagination parameters", validation.Errors)
			return
		}
		if validation := ValidateSearchQuery(search); !validation.Valid {
			writeAdminValidationError(w, "Invalid search query", validation.Errors)
			return
		}

		pageNum, limitNum := pageAndLimit(page, limit)
		jobs, err := a.server.Jobs.ListActive(ctx, domain.SearchFilters{})
		if err != nil {
			writeAdminValidationError(w, "Failed to list job postings", nil)
			return
		}

		filtered := make([]domain.JobPosting, 0, len(jobs))
		for _, j := range jobs {
			if search != "" && !strings.Contains(strings.ToLower(j.Title), strings.ToLower(search)) &&
				!strings.Contains(strings.ToLower(j.CompanyName), strings.ToLower(search)) {
				continue
			}
			filtered = append(filtered, j)
		}

		start := (pageNum - 1) * limitNum
		end := start + limitNum
		if start > len(filtered) {
			start = len(filtered)
		}
		if end > len(filtered) {
			end = len(filtered)
		}
		pageSlice := filtered[start:end]

		jobList := make([]map[string]any, len(pageSlice))
		for i, job := range pageSlice {
			jobList[i] = map[string]any{
				"id":           job.ID,
				"title":        job.Title,
				"company_name": job.CompanyName,
				"location":     job.Location,
				"posted_at":    job.PostedAt.Format(time.RFC3339),
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jobs": jobList,
			"pagination": map[string]any{
				"page":  pageNum,
				"limit": limitNum,
				"total": len(filtered),
			},
		})
	}
}

// AdminJobDetailsHandler returns the full job posting for an operator to
// inspect alongside debug/conditions output.
func (a *AdminServer) AdminJobDetailsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracer := otel.Tracer("http.admin")
		ctx, span := tracer.Start(r.Context(), "AdminServer.AdminJobDetailsHandler")
		defer span.End()

		if _, ok := a.authorize(r); !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		jobID := SanitizeJobID(chi.URLParam(r, "id"))
		span.SetAttributes(attribute.String("job.id", jobID))
		if validation := ValidateJobID(jobID); !validation.Valid {
			writeAdminValidationError(w, "Invalid job ID", validation.Errors)
			return
		}

		job, err := a.server.Jobs.Get(ctx, jobID)
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"code": "JOB_NOT_FOUND", "message": "Job not found", "details": map[string]any{"job_id": jobID}},
			})
			return
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(job)
	}
}

func writeAdminValidationError(w http.ResponseWriter, message string, errs []ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": "VALIDATION_ERROR", "message": message, "details": errs},
	})
}
