// Package feedback implements the Feedback Client port against the
// OpenRouter chat completions API: one request per scored pair,
// prompted with the computed category scores and evidence, returning a
// short narrative summary.
package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fairyhunter13/resume-job-matcher/internal/domain"
	"github.com/fairyhunter13/resume-job-matcher/internal/observability"
)

// Client calls OpenRouter's OpenAI-compatible chat completions endpoint
// to generate narrative feedback for a MatchingResult.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
	obs        *observability.IntegratedObservableClient
}

var _ domain.FeedbackClient = (*Client)(nil)

// New constructs a feedback Client. An empty apiKey is valid: every
// GenerateFeedback call then short-circuits to a canned message instead
// of making a network request, so operators can run without an
// OpenRouter account and still exercise the rest of the pipeline.
func New(apiKey, baseURL, model string, timeout time.Duration, maxTokens int) *Client {
	transport := otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return fmt.Sprintf("Feedback %s %s", r.Method, r.URL.Path)
		}),
	)
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		maxTokens:  maxTokens,
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		obs: observability.NewIntegratedObservableClient(
			observability.ConnectionTypeEmbedding,
			observability.OperationTypeEmbed,
			baseURL,
			"feedback",
			timeout,
			2*time.Second,
			timeout,
		),
	}
}

const noAPIKeyFeedback = "AI feedback is unavailable: no OPENROUTER_API_KEY configured."

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// GenerateFeedback asks the configured chat model for a short narrative
// summary of why resume and job scored the way they did.
func (c *Client) GenerateFeedback(ctx domain.Context, resume domain.Resume, job domain.JobPosting, result domain.MatchingResult) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return noAPIKeyFeedback, nil
	}

	systemPrompt := "You are a recruiting assistant. Summarize in three sentences or fewer why a candidate did or did not match a job posting, using only the scores and evidence given. Be specific and factual; never invent skills or experience not listed."
	userPrompt := buildUserPrompt(resume, job, result)

	var content string
	err := c.obs.ExecuteWithMetrics(ctx, "generate_feedback", func(callCtx context.Context) error {
		reqBody, _ := json.Marshal(chatRequest{
			Model: c.model,
			Messages: []chatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: userPrompt},
			},
			MaxTokens: c.maxTokens,
		})
		req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(reqBody))
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("op=feedback.GenerateFeedback: openrouter status %d", resp.StatusCode)
		}
		var out chatResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return err
		}
		if len(out.Choices) == 0 {
			return fmt.Errorf("op=feedback.GenerateFeedback: empty choices")
		}
		content = strings.TrimSpace(out.Choices[0].Message.Content)
		return nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

func buildUserPrompt(resume domain.Resume, job domain.JobPosting, result domain.MatchingResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Job: %s at %s\n", job.Title, job.CompanyName)
	fmt.Fprintf(&b, "Required skills: %s\n", strings.Join(job.Requirements.Required, ", "))
	fmt.Fprintf(&b, "Preferred skills: %s\n", strings.Join(job.Requirements.Preferred, ", "))
	fmt.Fprintf(&b, "Candidate skills: %s (%.1f years experience)\n", strings.Join(resume.Skills, ", "), resume.ExperienceYears)
	fmt.Fprintf(&b, "Overall score: %.2f (%s)\n", result.OverallScore, result.Grade)

	names := make([]string, 0, len(result.CategoryScores))
	for name := range result.CategoryScores {
		names = append(names, name)
	}
	sort.Strings(names)
	b.WriteString("Category scores:\n")
	for _, name := range names {
		cs := result.CategoryScores[name]
		fmt.Fprintf(&b, "- %s: score=%.2f weight=%.2f\n", name, cs.Score, cs.Weight)
	}

	if len(result.Penalties) > 0 {
		b.WriteString("Penalties applied:\n")
		kinds := make([]string, 0, len(result.Penalties))
		for k := range result.Penalties {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintf(&b, "- %s: -%.2f\n", k, result.Penalties[domain.PenaltyKind(k)])
		}
	}

	if len(result.Evidence.Required.Matched) > 0 {
		fmt.Fprintf(&b, "Required conditions matched: %s\n", strings.Join(result.Evidence.Required.Matched, ", "))
	}
	if len(result.Evidence.Required.Missing) > 0 {
		fmt.Fprintf(&b, "Required conditions missing: %s\n", strings.Join(result.Evidence.Required.Missing, ", "))
	}
	return b.String()
}
