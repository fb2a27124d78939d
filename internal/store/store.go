// Package store persists prospects and discovery runs behind a Store
// interface with postgres and sqlite backends.
package store

import (
	"context"

	"github.com/sells-group/prospect-cli/internal/model"
)

// ProspectFilter specifies criteria for listing prospects.
type ProspectFilter struct {
	Category model.Category `json:"category,omitempty"`
	MinScore int            `json:"min_score,omitempty"`
	Limit    int            `json:"limit,omitempty"`
	Offset   int            `json:"offset,omitempty"`
}

// Store defines the persistence interface for the prospect pipeline.
// UpsertProspect is idempotent on the prospect's identity key: a re-run
// that finds the same person updates the stored row, richer fields
// winning, rather than inserting a duplicate.
type Store interface {
	UpsertProspect(ctx context.Context, p model.Prospect) (string, error)
	ListProspects(ctx context.Context, filter ProspectFilter) ([]model.Prospect, error)
	CountByCategory(ctx context.Context) (map[model.Category]int, error)

	CreateRun(ctx context.Context, categories []model.Category, location string) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	CompleteRun(ctx context.Context, runID string, result *model.RunResult) error

	Migrate(ctx context.Context) error
	Close() error
}
