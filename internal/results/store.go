package results

import (
	"context"

	"argus/internal/model"
)

// Store defines persistence operations for sanity-check runs.
type Store interface {
	Init(ctx context.Context) error
	SaveRunSummary(ctx context.Context, summary model.RunSummary) error
	GetRunSummary(ctx context.Context, id string) (model.RunSummary, bool, error)
	ListRuns(ctx context.Context) ([]model.RunSummary, error)
	SaveRecords(ctx context.Context, runID string, records []model.SimilarityRecord) error
	GetRecords(ctx context.Context, runID string) ([]model.SimilarityRecord, bool, error)
}
