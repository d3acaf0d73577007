// Package runs persists workflow checkpoints in Azure Table Storage and
// exposes read endpoints for inspecting run progress. The store doubles as
// the workflow journal, so every phase transition lands here before the
// next step executes.
package runs

import (
	"context"
	"time"

	"github.com/JaimeStill/examiner/internal/workflow"
	"github.com/JaimeStill/examiner/pkg/lifecycle"
)

// Entry is the list projection of a run: enough to see where each run
// stands without decoding its full checkpoint.
type Entry struct {
	RunID      string    `json:"runId"`
	Path       string    `json:"path"`
	ETag       string    `json:"etag,omitempty"`
	Phase      string    `json:"phase"`
	FailedStep string    `json:"failedStep,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// System defines the public contract for run journaling and inspection.
// It satisfies workflow.Journal so the orchestrator checkpoints directly
// into table storage.
type System interface {
	workflow.Journal

	Handler(maxLimit int) *Handler

	// Start registers a startup hook that initializes the run table.
	Start(lc *lifecycle.Coordinator) error

	// List returns up to limit runs, most recently updated first.
	List(ctx context.Context, limit int) ([]Entry, error)
}
