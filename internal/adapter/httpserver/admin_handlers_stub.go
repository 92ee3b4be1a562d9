//go:build never

// Package httpserver provides HTTP server adapters. This file contains a stub
// admin server; the 'never' build constraint above excludes it from every build.
package httpserver

import (
	"github.com/go-chi/chi/v5"
	"github.com/fairyhunter13/resume-job-matcher/internal/config"
)

// AdminServer is a no-op stub of the admin server.
type AdminServer struct{}

// NewAdminServer returns a no-op admin server.
func NewAdminServer(_ config.Config, _ *Server) (*AdminServer, error) { return &AdminServer{}, nil }

// MountRoutes mounts no routes in the stub implementation.
func (a *AdminServer) MountRoutes(_ chi.Router) {}
