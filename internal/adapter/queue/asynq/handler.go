package asynq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/fairyhunter13/resume-job-matcher/internal/orchestrator"
)

// Handler processes queue tasks against an Orchestrator.
type Handler struct {
	Orchestrator *orchestrator.Orchestrator
}

// ProcessSearchJobsForResumeTask unmarshals a TypeSearchJobsForResume
// task and runs it through the orchestrator. Results are not returned to
// a caller (there is no synchronous request waiting); the task exists to
// let an operator fan search traffic out to a worker pool instead of the
// HTTP request goroutine.
func (h *Handler) ProcessSearchJobsForResumeTask(ctx context.Context, t *asynq.Task) error {
	var payload SearchJobsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("op=asynq.ProcessSearchJobsForResumeTask: %w: %w", asynq.SkipRetry, err)
	}

	matches, err := h.Orchestrator.SearchJobsForResume(ctx, payload.ResumeID, payload.Filters, payload.Limit)
	if err != nil {
		return fmt.Errorf("op=asynq.ProcessSearchJobsForResumeTask resume=%s: %w", payload.ResumeID, err)
	}

	slog.Info("search_jobs_for_resume task completed",
		slog.String("resume_id", payload.ResumeID),
		slog.Int("matches", len(matches)))
	return nil
}

// NewServeMux builds the asynq handler mux mapping task types to h's
// processing methods.
func NewServeMux(h *Handler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSearchJobsForResume, h.ProcessSearchJobsForResumeTask)
	return mux
}
