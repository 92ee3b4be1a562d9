// Package app wires application components and startup helpers.
//
// It provides dependency injection and application initialization.
// The package coordinates between different layers and provides
// a clean application bootstrap process.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fairyhunter13/resume-job-matcher/internal/config"
)

// Pinger is the minimal interface for a database pool capable of Ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CachePinger is the minimal interface a cache backend exposes for a
// readiness probe (e.g. a Redis client's Ping).
type CachePinger interface {
	Ping(ctx context.Context) error
}

// BuildReadinessChecks returns three readiness checks: db, embedding
// service, and cache backend. A nil CachePinger (no Redis configured)
// always reports ready, matching the orchestrator's fallback to an
// in-process-only sentence cache.
func BuildReadinessChecks(cfg config.Config, pool Pinger, cache CachePinger) (
	func(ctx context.Context) error,
	func(ctx context.Context) error,
	func(ctx context.Context) error,
) {
	dbCheck := func(ctx context.Context) error {
		if pool == nil {
			return fmt.Errorf("db not configured")
		}
		return pool.Ping(ctx)
	}
	embeddingCheck := func(ctx context.Context) error {
		if cfg.EmbeddingServiceURL == "" {
			return fmt.Errorf("embedding service url not configured")
		}
		client := &http.Client{Timeout: 2 * time.Second}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.EmbeddingServiceURL+"/health", nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		return fmt.Errorf("embedding service status %d", resp.StatusCode)
	}
	cacheCheck := func(ctx context.Context) error {
		if cache == nil {
			return nil
		}
		return cache.Ping(ctx)
	}
	return dbCheck, embeddingCheck, cacheCheck
}
