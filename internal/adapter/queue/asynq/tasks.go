// Package asynq provides an optional async front-end to the orchestrator:
// a search_jobs_for_resume task type that cmd/worker consumes so a caller
// can fan a search out to a worker pool instead of waiting on the HTTP
// request. The orchestrator itself stays synchronous; this package only
// schedules and unmarshals calls to it.
package asynq

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/fairyhunter13/resume-job-matcher/internal/domain"
)

// TypeSearchJobsForResume is the asynq task type name for a
// search_jobs_for_resume fan-out request.
const TypeSearchJobsForResume = "matching:search_jobs_for_resume"

// SearchJobsPayload is the JSON body carried by a TypeSearchJobsForResume
// task.
type SearchJobsPayload struct {
	ResumeID string               `json:"resume_id"`
	Filters  domain.SearchFilters `json:"filters"`
	Limit    int                  `json:"limit"`
}

// NewSearchJobsForResumeTask builds the asynq.Task for payload.
func NewSearchJobsForResumeTask(payload SearchJobsPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("op=asynq.NewSearchJobsForResumeTask: %w", err)
	}
	return asynq.NewTask(TypeSearchJobsForResume, b), nil
}
