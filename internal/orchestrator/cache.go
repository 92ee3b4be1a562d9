// Package orchestrator implements the pair pipeline and the two public
// operations (search_jobs_for_resume, score) that drive it, plus the
// worker-pool and sentence-cache machinery described in §5 of the
// specification.
package orchestrator

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/fairyhunter13/resume-job-matcher/internal/domain"
)

// CacheBackend is the optional cross-process de-dup layer (Redis-backed)
// sitting in front of the process-local single-flight cache. A nil
// CacheBackend means single-process deployments run with no backing
// store: the worst case is redundant sentence-store reads across
// replicas, never incorrect results.
type CacheBackend interface {
	// Lock attempts to acquire a short-lived population lock for key,
	// returning release and true on success. false means another process
	// already holds the lock; the caller falls back to its own
	// sentence-store read rather than wait.
	Lock(ctx domain.Context, key string) (release func(), ok bool, err error)
}

// SentenceCache is a process-local, read-through cache of a résumé's
// sentences, keyed by résumé id. It uses a single-flight group rather
// than a plain mutex-guarded map because reads dominate and concurrent
// callers for the same résumé id should collapse into one sentence-store
// round trip.
type SentenceCache struct {
	store   domain.SentenceStore
	group   singleflight.Group
	backend CacheBackend

	mu    sync.Mutex
	cache map[string][]domain.ResumeSentence
}

// NewSentenceCache builds a cache reading through to store. backend may
// be nil.
func NewSentenceCache(store domain.SentenceStore, backend CacheBackend) *SentenceCache {
	return &SentenceCache{
		store:   store,
		backend: backend,
		cache:   make(map[string][]domain.ResumeSentence),
	}
}

// Get returns resumeID's sentences, populating the cache on first use.
// Concurrent callers for the same résumé id share a single sentence-store
// read.
func (c *SentenceCache) Get(ctx domain.Context, resumeID string) ([]domain.ResumeSentence, error) {
	c.mu.Lock()
	if sentences, ok := c.cache[resumeID]; ok {
		c.mu.Unlock()
		return sentences, nil
	}
	c.mu.Unlock()

	if c.backend != nil {
		if release, ok, err := c.backend.Lock(ctx, resumeID); err == nil && ok {
			defer release()
		}
	}

	v, err, _ := c.group.Do(resumeID, func() (interface{}, error) {
		sentences, err := c.store.GetResumeSentences(ctx, resumeID)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.cache[resumeID] = sentences
		c.mu.Unlock()
		return sentences, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.ResumeSentence), nil
}
