// Package embedding implements the Embedding Client port against an
// external embedding HTTP service: chunk-then-mean-pool for long text,
// a batch endpoint with a per-item sequential fallback, and cosine
// similarity clamped to [0,1].
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fairyhunter13/resume-job-matcher/internal/domain"
	"github.com/fairyhunter13/resume-job-matcher/internal/observability"
)

// Client is an HTTP client for the external embedding service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	obs        *observability.IntegratedObservableClient

	maxChars  int
	maxChunks int

	backoffMaxElapsed  time.Duration
	backoffInitial     time.Duration
	backoffMaxInterval time.Duration
	backoffMultiplier  float64

	// sem bounds in-flight HTTP requests to the embedding service, shared
	// across every pair evaluation in the orchestrator's worker pool.
	sem chan struct{}
}

var _ domain.EmbeddingClient = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithChunking overrides the default max-characters-per-chunk and
// max-chunks-per-text limits.
func WithChunking(maxChars, maxChunks int) Option {
	return func(c *Client) {
		c.maxChars = maxChars
		c.maxChunks = maxChunks
	}
}

// WithBackoff overrides the retry schedule applied to each per-text call of
// the sequential fallback.
func WithBackoff(maxElapsed, initial, maxInterval time.Duration, multiplier float64) Option {
	return func(c *Client) {
		c.backoffMaxElapsed = maxElapsed
		c.backoffInitial = initial
		c.backoffMaxInterval = maxInterval
		c.backoffMultiplier = multiplier
	}
}

// WithConcurrency bounds the number of in-flight HTTP requests to the
// embedding service with a buffered-channel semaphore. limit <= 0 leaves
// the client unbounded.
func WithConcurrency(limit int) Option {
	return func(c *Client) {
		if limit > 0 {
			c.sem = make(chan struct{}, limit)
		} else {
			c.sem = nil
		}
	}
}

func (c *Client) acquire(ctx context.Context) error {
	if c.sem == nil {
		return nil
	}
	select {
	case c.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) release() {
	if c.sem != nil {
		<-c.sem
	}
}

// New constructs an embedding Client for baseURL with the given request
// timeout.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	transport := otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return fmt.Sprintf("Embedding %s %s", r.Method, r.URL.Path)
		}),
	)
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		obs: observability.NewIntegratedObservableClient(
			observability.ConnectionTypeEmbedding,
			observability.OperationTypeEmbed,
			baseURL,
			"embedding",
			timeout,
			2*time.Second,
			timeout,
		),
		maxChars:           4000,
		maxChunks:          8,
		backoffMaxElapsed:  20 * time.Second,
		backoffInitial:     500 * time.Millisecond,
		backoffMaxInterval: 5 * time.Second,
		backoffMultiplier:  1.5,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Embed returns a single EmbeddingDim-dimensional unit vector for text.
// Text longer than maxChars is split into chunks, embedded as a batch,
// mean-pooled and re-normalized.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return make([]float32, domain.EmbeddingDim), nil
	}
	if len(text) <= c.maxChars {
		return c.embedSingle(ctx, text)
	}
	chunks := SplitIntoChunks(text, c.maxChars, c.maxChunks)
	vecs, err := c.EmbedBatch(ctx, chunks)
	if err != nil {
		return nil, err
	}
	return normalize(meanPool(vecs)), nil
}

func (c *Client) embedSingle(ctx context.Context, text string) ([]float32, error) {
	if err := c.acquire(ctx); err != nil {
		return nil, err
	}
	defer c.release()

	var vec []float32
	err := c.obs.ExecuteWithMetrics(ctx, "embed", func(callCtx context.Context) error {
		body, _ := json.Marshal(map[string]string{"text": text})
		req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL+"/embed", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("embedding API error: status %d", resp.StatusCode)
		}
		var out struct {
			Embedding []float32 `json:"embedding"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return err
		}
		vec = out.Embedding
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vec, nil
}

// EmbedBatch returns aligned vectors for texts. It first tries the
// service's batch endpoint; on any error it falls back to sequential
// single-text calls, substituting a zero vector for any item that fails
// rather than failing the whole call.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	clipped := make([]string, len(texts))
	for i, t := range texts {
		if len(t) > c.maxChars {
			clipped[i] = t[:c.maxChars]
		} else {
			clipped[i] = t
		}
	}

	if vecs, err := c.embedBatchEndpoint(ctx, clipped); err == nil {
		return vecs, nil
	}

	out := make([][]float32, len(clipped))
	for i, t := range clipped {
		vec, err := c.embedWithRetry(ctx, t)
		if err != nil {
			out[i] = make([]float32, domain.EmbeddingDim)
			continue
		}
		out[i] = vec
	}
	return out, nil
}

func (c *Client) embedBatchEndpoint(ctx context.Context, texts []string) ([][]float32, error) {
	if err := c.acquire(ctx); err != nil {
		return nil, err
	}
	defer c.release()

	var vecs [][]float32
	err := c.obs.ExecuteWithMetrics(ctx, "embed_batch", func(callCtx context.Context) error {
		body, _ := json.Marshal(map[string][]string{"texts": texts})
		req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL+"/embed/batch", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("embedding batch API error: status %d", resp.StatusCode)
		}
		var out struct {
			Embeddings [][]float32 `json:"embeddings"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return err
		}
		if len(out.Embeddings) != len(texts) {
			return fmt.Errorf("embedding batch API returned %d vectors for %d texts", len(out.Embeddings), len(texts))
		}
		vecs = out.Embeddings
		return nil
	})
	return vecs, err
}

func (c *Client) embedWithRetry(ctx context.Context, text string) ([]float32, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.backoffInitial
	bo.MaxInterval = c.backoffMaxInterval
	bo.Multiplier = c.backoffMultiplier
	bo.MaxElapsedTime = c.backoffMaxElapsed

	var vec []float32
	op := func() error {
		v, err := c.embedSingle(ctx, text)
		if err != nil {
			return err
		}
		vec = v
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return vec, nil
}

// CosineSimilarity computes the cosine similarity of two vectors of equal
// length, clamped to [0,1]. Vectors are assumed already unit-normalized by
// the caller (a dot product then equals the cosine similarity).
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	if dot < 0 {
		return 0
	}
	if dot > 1 {
		return 1
	}
	return dot
}
