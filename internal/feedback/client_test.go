package feedback_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-job-matcher/internal/domain"
	"github.com/fairyhunter13/resume-job-matcher/internal/feedback"
)

func sampleResult() domain.MatchingResult {
	return domain.MatchingResult{
		ResumeID:     "resume-1",
		JobID:        "job-1",
		OverallScore: 0.82,
		Grade:        domain.GradeExcellent,
		CategoryScores: map[string]domain.CategoryScore{
			"required_match": {Score: 0.9, Weight: 0.4},
		},
		Evidence: domain.MatchingEvidence{
			Required: domain.SectionEvidence{Matched: []string{"Go"}, Missing: []string{"Kubernetes"}},
		},
	}
}

func TestClient_GenerateFeedback_NoAPIKeyReturnsCannedMessage(t *testing.T) {
	t.Parallel()
	c := feedback.New("", "https://openrouter.ai/api/v1", "some-model", 5*time.Second, 200)
	text, err := c.GenerateFeedback(context.Background(), domain.Resume{}, domain.JobPosting{}, sampleResult())
	require.NoError(t, err)
	assert.Contains(t, text, "unavailable")
}

func TestClient_GenerateFeedback_CallsChatCompletionsEndpoint(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body["model"])

		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "Strong backend match."}},
			},
		}))
	}))
	defer srv.Close()

	c := feedback.New("test-key", srv.URL, "test-model", 5*time.Second, 200)
	text, err := c.GenerateFeedback(context.Background(), domain.Resume{Skills: []string{"go"}}, domain.JobPosting{Title: "Backend Engineer"}, sampleResult())
	require.NoError(t, err)
	assert.Equal(t, "Strong backend match.", text)
}

func TestClient_GenerateFeedback_NonOKStatusIsError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := feedback.New("test-key", srv.URL, "test-model", 5*time.Second, 200)
	_, err := c.GenerateFeedback(context.Background(), domain.Resume{}, domain.JobPosting{}, sampleResult())
	require.Error(t, err)
}

func TestClient_GenerateFeedback_EmptyChoicesIsError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"choices": []map[string]any{}}))
	}))
	defer srv.Close()

	c := feedback.New("test-key", srv.URL, "test-model", 5*time.Second, 200)
	_, err := c.GenerateFeedback(context.Background(), domain.Resume{}, domain.JobPosting{}, sampleResult())
	require.Error(t, err)
}
