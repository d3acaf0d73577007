package reports

import (
	"context"

	"github.com/JaimeStill/examiner/pkg/lifecycle"
)

// System defines the public contract for report persistence and retrieval.
type System interface {
	Handler(maxLimit int) *Handler

	// Start registers a startup hook that initializes the report table.
	Start(lc *lifecycle.Coordinator) error

	// Put upserts a report keyed by its ID. Writing the same report twice
	// yields one stored record. Faults are downgraded into the result.
	Put(ctx context.Context, report *Report) PutResult

	// Get returns a stored report by ID. Returns ErrNotFound when no report
	// matches and ErrMalformed when the stored entity cannot be decoded.
	Get(ctx context.Context, id string) (*Report, error)

	// List returns up to limit stored reports, newest first.
	List(ctx context.Context, limit int) ([]Entry, error)
}
