package workflow

import (
	"time"

	"github.com/JaimeStill/examiner/internal/analysis"
	"github.com/JaimeStill/examiner/internal/reports"
)

// Phase is a run's position in the fixed progression
// started -> fanned_out -> fanned_in -> reduced -> persisted,
// with failed as the off-path terminal.
type Phase string

const (
	PhaseStarted   Phase = "started"
	PhaseFannedOut Phase = "fanned_out"
	PhaseFannedIn  Phase = "fanned_in"
	PhaseReduced   Phase = "reduced"
	PhasePersisted Phase = "persisted"
	PhaseFailed    Phase = "failed"
)

var phaseOrder = map[Phase]int{
	PhaseStarted:   0,
	PhaseFannedOut: 1,
	PhaseFannedIn:  2,
	PhaseReduced:   3,
	PhasePersisted: 4,
}

// Before reports whether p precedes other in the forward progression.
// Failed is ordered before nothing.
func (p Phase) Before(other Phase) bool {
	po, ok := phaseOrder[p]
	oo, otherOk := phaseOrder[other]
	return ok && otherOk && po < oo
}

// Terminal reports whether no further transitions can occur.
func (p Phase) Terminal() bool {
	return p == PhasePersisted || p == PhaseFailed
}

// Document identifies a blob to analyze. Data is transient: checkpoints
// persist only the identifying fields, and content is re-fetched when a
// run resumes before its results are durable.
type Document struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
	ETag string `json:"etag,omitempty"`
	Data []byte `json:"-"`
}

// Checkpoint is the durable record of a run's progress. Each phase's inputs
// are saved before that phase's work begins, so a replay continues with the
// same values instead of regenerating them. ReportID and AnalyzedAt are
// fixed once the reduced checkpoint exists.
type Checkpoint struct {
	RunID      string             `json:"runId"`
	Path       string             `json:"path"`
	Size       int64              `json:"size"`
	ETag       string             `json:"etag,omitempty"`
	Phase      Phase              `json:"phase"`
	Results    *analysis.Results  `json:"results,omitempty"`
	ReportID   string             `json:"reportId,omitempty"`
	AnalyzedAt time.Time          `json:"analyzedAt,omitzero"`
	Report     *reports.Report    `json:"report,omitempty"`
	Outcome    *reports.PutResult `json:"outcome,omitempty"`
	FailedStep string             `json:"failedStep,omitempty"`
	Error      string             `json:"error,omitempty"`
	StartedAt  time.Time          `json:"startedAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}
