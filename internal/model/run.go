package model

import "time"

// RunStatus tracks the orchestrator's position in the pipeline state
// machine. There is no hard-failure terminal state: a run always reaches
// done, possibly with a non-empty failure log.
type RunStatus string

const (
	RunStatusBuildQueries RunStatus = "build_queries"
	RunStatusSearch       RunStatus = "search"
	RunStatusFetch        RunStatus = "fetch_candidates"
	RunStatusExtract      RunStatus = "extract"
	RunStatusValidate     RunStatus = "validate"
	RunStatusEnrich       RunStatus = "enrich"
	RunStatusDedupScore   RunStatus = "dedup_score"
	RunStatusPersist      RunStatus = "persist"
	RunStatusDone         RunStatus = "done"
)

// Run is one persisted discovery run.
type Run struct {
	ID         string     `json:"id"`
	Categories []Category `json:"categories"`
	Location   string     `json:"location"`
	Status     RunStatus  `json:"status"`
	Result     *RunResult `json:"result,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// RunResult summarizes a completed run.
type RunResult struct {
	Prospects         int              `json:"prospects"`
	PerCategoryCounts map[Category]int `json:"per_category_counts"`
	Failures          []Failure        `json:"failures,omitempty"`
	// Diagnostics counts candidates silently dropped by validation.
	ValidationRejected int   `json:"validation_rejected,omitempty"`
	DurationMs         int64 `json:"duration_ms"`
}
