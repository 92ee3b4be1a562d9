// Package app wires application components and startup helpers.
//
// It provides dependency injection and application initialization.
// The package coordinates between different layers and provides
// a clean application bootstrap process.
package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpserver "github.com/fairyhunter13/resume-job-matcher/internal/adapter/httpserver"
	"github.com/fairyhunter13/resume-job-matcher/internal/adapter/observability"
	"github.com/fairyhunter13/resume-job-matcher/internal/config"
)

// ParseOrigins splits a comma-separated origin list into a slice, trimming spaces.
// If the input is empty, returns ["*"].
func ParseOrigins(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{"*"}
	}
	if s == "*" {
		return []string{"*"}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// BuildRouter constructs the HTTP handler with all middlewares and routes.
func BuildRouter(cfg config.Config, srv *httpserver.Server) http.Handler {
	r := chi.NewRouter()
	// Security & instrumentation middleware
	r.Use(httpserver.Recoverer())
	r.Use(httpserver.RequestID())
	r.Use(httpserver.TimeoutMiddleware(30 * time.Second))
	r.Use(httpserver.TraceMiddleware)
	r.Use(httpserver.AccessLog())
	r.Use(observability.HTTPMetricsMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ParseOrigins(cfg.CORSAllowOrigins),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Group(func(wr chi.Router) {
		wr.Use(httprate.LimitByIP(cfg.RateLimitPerMin, 1*time.Minute))
		wr.Post("/matching/search-jobs", srv.SearchJobsHandler())
	})

	r.Get("/matching/{matching_id}", srv.MatchDetailHandler())
	r.Get("/matching/{matching_id}/feedback", srv.MatchFeedbackHandler())
	r.Get("/matching/sentence-matches/{matching_id}", srv.SentenceMatchesHandler())
	r.Get("/matching/compare/{job_id}", srv.CompareHandler())
	r.Get("/matching/debug/conditions", srv.DebugConditionsHandler())
	r.Get("/matching/debug/sentences", srv.DebugSentencesHandler())

	r.Get("/readyz", srv.ReadyzHandler())
	r.Get("/healthz", srv.ReadyzHandler())

	if cfg.AdminEnabled() {
		admin, err := httpserver.NewAdminServer(cfg, srv)
		if err == nil {
			r.Post("/admin/token", admin.AdminTokenHandler())
			r.Get("/admin/api/status", admin.AdminStatusHandler())
			r.Get("/admin/api/stats", admin.AdminStatsHandler())
			r.Get("/admin/api/jobs", admin.AdminJobsHandler())
			r.Get("/admin/api/jobs/{id}", admin.AdminJobDetailsHandler())
			r.Get("/admin/prometheus", admin.AdminBearerRequired(func(w http.ResponseWriter, r *http.Request) { promhttp.Handler().ServeHTTP(w, r) }))
		}
	}

	return httpserver.SecurityHeaders(r)
}
