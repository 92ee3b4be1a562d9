package app_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	httpserver "github.com/fairyhunter13/resume-job-matcher/internal/adapter/httpserver"
	"github.com/fairyhunter13/resume-job-matcher/internal/app"
	"github.com/fairyhunter13/resume-job-matcher/internal/config"
)

func TestBuildRouter_ReadyzServed(t *testing.T) {
	cfg := config.Config{Port: 8080}
	srv := httpserver.NewServer(cfg, nil, nil, nil, nil, nil, nil, nil)
	h := app.BuildRouter(cfg, srv)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Result().StatusCode != http.StatusOK {
		t.Fatalf("/readyz: want 200, got %d", rec.Result().StatusCode)
	}
}

func TestBuildRouter_AdminDisabledByDefault(t *testing.T) {
	cfg := config.Config{Port: 8080}
	srv := httpserver.NewServer(cfg, nil, nil, nil, nil, nil, nil, nil)
	h := app.BuildRouter(cfg, srv)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/token", nil))
	if rec.Result().StatusCode != http.StatusNotFound {
		t.Fatalf("/admin/token with no admin credentials: want 404, got %d", rec.Result().StatusCode)
	}
}

func TestBuildRouter_AdminEnabledWhenCredentialsConfigured(t *testing.T) {
	cfg := config.Config{Port: 8080, AdminUsername: "admin", AdminPassword: "secret", AdminSessionSecret: "abcd"}
	srv := httpserver.NewServer(cfg, nil, nil, nil, nil, nil, nil, nil)
	h := app.BuildRouter(cfg, srv)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/token", nil)
	req.Form = map[string][]string{"username": {"admin"}, "password": {"secret"}}
	h.ServeHTTP(rec, req)
	if rec.Result().StatusCode != http.StatusOK {
		t.Fatalf("/admin/token: want 200, got %d", rec.Result().StatusCode)
	}
}

func TestBuildRouter_SecurityHeadersApplied(t *testing.T) {
	cfg := config.Config{Port: 8080}
	srv := httpserver.NewServer(cfg, nil, nil, nil, nil, nil, nil, nil)
	h := app.BuildRouter(cfg, srv)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Result().Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing security header")
	}
}
