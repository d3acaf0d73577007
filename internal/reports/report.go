// Package reports builds, persists, and serves the combined analysis report
// produced at the end of a document run.
package reports

import (
	"time"

	"github.com/JaimeStill/examiner/internal/analysis"
)

// Summary is the compact digest stored alongside every report and returned
// by listing endpoints.
type Summary struct {
	Format  string `json:"format"`
	HasText bool   `json:"hasText"`
}

// Report is the combined output of one document run.
type Report struct {
	ID         string           `json:"id"`
	FileName   string           `json:"fileName"`
	BlobPath   string           `json:"blobPath"`
	AnalyzedAt time.Time        `json:"analyzedAt"`
	Analyses   analysis.Results `json:"analyses"`
	Summary    Summary          `json:"summary"`
}

// Entry is the listing projection of a stored report.
type Entry struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	AnalyzedAt time.Time `json:"analyzedAt"`
	Summary    Summary   `json:"summary"`
}

// Persistence outcome statuses.
const (
	StatusStored = "stored"
	StatusError  = "error"
)

// PutResult is the in-band outcome of a persistence attempt. Failed writes
// carry status "error" and the fault message instead of an error return.
type PutResult struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName,omitempty"`
	Status     string    `json:"status"`
	AnalyzedAt time.Time `json:"analyzedAt,omitzero"`
	Summary    *Summary  `json:"summary,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Failed reports whether the persistence attempt did not complete.
func (r PutResult) Failed() bool {
	return r.Status == StatusError
}
