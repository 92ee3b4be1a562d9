package embedding_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-job-matcher/internal/embedding"
)

func fakeVector(seed float32) []float32 {
	v := make([]float32, 768)
	v[0] = seed
	return v
}

func TestClient_Embed_ShortText(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embed", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body["text"])
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"embedding": fakeVector(1)}))
	}))
	defer srv.Close()

	c := embedding.New(srv.URL, 5*time.Second)
	vec, err := c.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, float32(1), vec[0])
}

func TestClient_Embed_EmptyTextReturnsZeroVectorNoCall(t *testing.T) {
	t.Parallel()
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := embedding.New(srv.URL, 5*time.Second)
	vec, err := c.Embed(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, called)
	for _, f := range vec {
		assert.Equal(t, float32(0), f)
	}
}

func TestClient_Embed_LongTextUsesBatchAndMeanPools(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/embed/batch", r.URL.Path)
		var body struct {
			Texts []string `json:"texts"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		embs := make([][]float32, len(body.Texts))
		for i := range embs {
			embs[i] = fakeVector(1)
		}
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"embeddings": embs}))
	}))
	defer srv.Close()

	c := embedding.New(srv.URL, 5*time.Second, embedding.WithChunking(50, 8))
	longText := strings.Repeat("word ", 40)
	vec, err := c.Embed(context.Background(), longText)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, vec[0], 0.01)
}

func TestClient_EmbedBatch_FallsBackToSequentialOnBatchFailure(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/embed/batch":
			w.WriteHeader(http.StatusInternalServerError)
		case "/embed":
			require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"embedding": fakeVector(2)}))
		}
	}))
	defer srv.Close()

	c := embedding.New(srv.URL, 5*time.Second)
	vecs, err := c.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, float32(2), vecs[0][0])
	assert.Equal(t, float32(2), vecs[1][0])
}

func TestClient_EmbedBatch_FailingItemBecomesZeroVector(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/embed/batch":
			w.WriteHeader(http.StatusInternalServerError)
		case "/embed":
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := embedding.New(srv.URL, 2*time.Second, embedding.WithBackoff(50*time.Millisecond, 5*time.Millisecond, 10*time.Millisecond, 1.2))
	vecs, err := c.EmbedBatch(context.Background(), []string{"a"})
	require.NoError(t, err)
	require.Len(t, vecs, 1)
	for _, f := range vecs[0] {
		assert.Equal(t, float32(0), f)
	}
}

func TestClient_WithConcurrency_BoundsInFlightRequests(t *testing.T) {
	t.Parallel()
	var inFlight, maxInFlight int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			cur := atomic.LoadInt32(&maxInFlight)
			if n <= cur || atomic.CompareAndSwapInt32(&maxInFlight, cur, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"embedding": fakeVector(1)}))
	}))
	defer srv.Close()

	c := embedding.New(srv.URL, 5*time.Second, embedding.WithConcurrency(2))
	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Embed(context.Background(), "hello")
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&maxInFlight), int32(2))
}

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical unit vectors", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal vectors", []float32{1, 0}, []float32{0, 1}, 0},
		{"negative dot clamps to zero", []float32{1, 0}, []float32{-1, 0}, 0},
		{"mismatched length returns zero", []float32{1, 0, 0}, []float32{1, 0}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := embedding.CosineSimilarity(tc.a, tc.b)
			assert.InDelta(t, tc.want, got, 0.0001)
		})
	}
}
