// Package workflow drives document analysis runs through a checkpointed
// fan-out/fan-in pipeline. Every transition is journaled before the next
// step executes, so an interrupted run resumes from its last checkpoint
// without repeating completed work or regenerating captured values.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/examiner/internal/analysis"
	"github.com/JaimeStill/examiner/internal/reports"
	"github.com/JaimeStill/examiner/pkg/lifecycle"
)

// maxResumeConcurrency bounds how many unfinished runs a startup sweep
// drives at once.
const maxResumeConcurrency = 4

// ReportWriter persists reduced reports. Faults are reported in-band
// through the returned result.
type ReportWriter interface {
	Put(ctx context.Context, report *reports.Report) reports.PutResult
}

// Source fetches document content for runs resumed before their results
// were durable.
type Source interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// Runtime bundles the dependencies an Orchestrator drives. NewID and Now
// default to uuid generation and wall-clock time.
type Runtime struct {
	Tasks   []analysis.Task
	Journal Journal
	Reports ReportWriter
	Source  Source
	Logger  *slog.Logger
	NewID   func() string
	Now     func() time.Time
}

func (rt *Runtime) validate() error {
	if len(rt.Tasks) == 0 {
		return fmt.Errorf("workflow runtime requires analysis tasks")
	}
	if rt.Journal == nil {
		return fmt.Errorf("workflow runtime requires a journal")
	}
	if rt.Reports == nil {
		return fmt.Errorf("workflow runtime requires a report writer")
	}
	if rt.Source == nil {
		return fmt.Errorf("workflow runtime requires a document source")
	}
	if rt.Logger == nil {
		return fmt.Errorf("workflow runtime requires a logger")
	}
	return nil
}

// Orchestrator coordinates analysis runs.
type Orchestrator struct {
	tasks   []analysis.Task
	journal Journal
	reports ReportWriter
	source  Source
	logger  *slog.Logger
	newID   func() string
	now     func() time.Time
}

// New creates an Orchestrator from the runtime bundle.
func New(rt Runtime) (*Orchestrator, error) {
	if err := rt.validate(); err != nil {
		return nil, err
	}

	if rt.NewID == nil {
		rt.NewID = uuid.NewString
	}
	if rt.Now == nil {
		rt.Now = time.Now
	}

	return &Orchestrator{
		tasks:   rt.Tasks,
		journal: rt.Journal,
		reports: rt.Reports,
		source:  rt.Source,
		logger:  rt.Logger.With("system", "workflow"),
		newID:   rt.NewID,
		now:     rt.Now,
	}, nil
}

// Start begins a run for doc and drives it to completion in the background.
// The initial checkpoint is durable before Start returns, so the returned
// run ID can immediately be queried. The run itself outlives ctx.
func (o *Orchestrator) Start(ctx context.Context, doc Document) (string, error) {
	if doc.Path == "" {
		return "", ErrEmptyPath
	}

	now := o.now().UTC()
	cp := &Checkpoint{
		RunID:     o.newID(),
		Path:      doc.Path,
		Size:      doc.Size,
		ETag:      doc.ETag,
		Phase:     PhaseStarted,
		StartedAt: now,
		UpdatedAt: now,
	}

	if err := o.journal.Save(ctx, cp); err != nil {
		return "", fmt.Errorf("record run start: %w", err)
	}

	o.logger.Info("run started", "run", cp.RunID, "path", doc.Path, "size", doc.Size)

	go func() {
		if err := o.Execute(context.WithoutCancel(ctx), cp, doc.Data); err != nil {
			o.logger.Error("run failed", "run", cp.RunID, "error", err)
		}
	}()

	return cp.RunID, nil
}

// Execute drives a run synchronously from its checkpointed phase to a
// terminal phase. Runs already terminal are left untouched. data may be nil,
// in which case content is fetched while the run still needs it.
func (o *Orchestrator) Execute(ctx context.Context, cp *Checkpoint, data []byte) error {
	if cp.Phase.Terminal() {
		return nil
	}

	if data == nil && cp.Phase.Before(PhaseFannedIn) {
		fetched, err := o.source.Fetch(ctx, cp.Path)
		if err != nil {
			return o.fail(ctx, cp, "fetch", err)
		}
		data = fetched
	}

	if cp.Phase == PhaseStarted {
		if err := o.advance(ctx, cp, PhaseFannedOut); err != nil {
			return err
		}
	}

	if cp.Phase == PhaseFannedOut {
		raw := o.fanOut(ctx, analysis.Input{Path: cp.Path, Data: data, Size: cp.Size})

		for _, r := range raw {
			if msg := r.Err(); msg != "" {
				o.logger.Warn("analysis task failed", "run", cp.RunID, "task", r.Kind, "error", msg)
			}
		}

		results := analysis.Collect(raw)
		cp.Results = &results

		if err := o.advance(ctx, cp, PhaseFannedIn); err != nil {
			return err
		}
	}

	if cp.Phase == PhaseFannedIn {
		if cp.Results == nil {
			return o.fail(ctx, cp, "reduce", ErrMissingResults)
		}

		cp.ReportID = o.newID()
		cp.AnalyzedAt = o.now().UTC()
		cp.Report = reports.Reduce(reports.ReduceInput{
			ID:         cp.ReportID,
			Path:       cp.Path,
			AnalyzedAt: cp.AnalyzedAt,
			Results:    *cp.Results,
		})

		if err := o.advance(ctx, cp, PhaseReduced); err != nil {
			return err
		}
	}

	if cp.Phase == PhaseReduced {
		outcome := o.reports.Put(ctx, cp.Report)
		cp.Outcome = &outcome

		if outcome.Failed() {
			o.logger.Error("persist report failed", "run", cp.RunID, "report", cp.ReportID, "error", outcome.Error)
		}

		if err := o.advance(ctx, cp, PhasePersisted); err != nil {
			return err
		}
	}

	o.logger.Info("run complete", "run", cp.RunID, "report", cp.ReportID)
	return nil
}

// fanOut runs every analysis task concurrently against the same input and
// returns their results indexed by launch order.
func (o *Orchestrator) fanOut(ctx context.Context, in analysis.Input) []analysis.Result {
	results := make([]analysis.Result, len(o.tasks))

	var wg sync.WaitGroup
	for i, task := range o.tasks {
		wg.Go(func() {
			results[i] = task.Run(ctx, in)
		})
	}
	wg.Wait()

	return results
}

// advance checkpoints the transition into next. A journal fault downgrades
// the run to failed.
func (o *Orchestrator) advance(ctx context.Context, cp *Checkpoint, next Phase) error {
	prev := cp.Phase
	cp.Phase = next
	cp.UpdatedAt = o.now().UTC()

	if err := o.journal.Save(ctx, cp); err != nil {
		cp.Phase = prev
		return o.fail(ctx, cp, string(next), fmt.Errorf("checkpoint %s: %w", next, err))
	}

	o.logger.Debug("run advanced", "run", cp.RunID, "phase", next)
	return nil
}

// fail records a terminal failure checkpoint. Recording is best effort; the
// failure is returned either way.
func (o *Orchestrator) fail(ctx context.Context, cp *Checkpoint, step string, cause error) error {
	cp.Phase = PhaseFailed
	cp.FailedStep = step
	cp.Error = cause.Error()
	cp.UpdatedAt = o.now().UTC()

	if err := o.journal.Save(ctx, cp); err != nil {
		o.logger.Error("record run failure failed", "run", cp.RunID, "step", step, "error", err)
	}

	return fmt.Errorf("run %s failed at %s: %w", cp.RunID, step, cause)
}

// Resume registers a startup hook that re-drives unfinished runs.
func (o *Orchestrator) Resume(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() {
		if err := o.ResumeOpen(lc.Context()); err != nil {
			o.logger.Error("resume sweep failed", "error", err)
		}
	})

	return nil
}

// ResumeOpen drives every non-terminal journaled run to completion. Failures
// are contained per run; the sweep itself only fails when the journal cannot
// be read.
func (o *Orchestrator) ResumeOpen(ctx context.Context) error {
	open, err := o.journal.ListOpen(ctx)
	if err != nil {
		return fmt.Errorf("list open runs: %w", err)
	}

	if len(open) == 0 {
		return nil
	}

	o.logger.Info("resuming unfinished runs", "count", len(open))

	g := new(errgroup.Group)
	g.SetLimit(maxResumeConcurrency)

	for _, cp := range open {
		g.Go(func() error {
			if err := o.Execute(ctx, cp, nil); err != nil {
				o.logger.Error("resume run failed", "run", cp.RunID, "error", err)
			}
			return nil
		})
	}

	return g.Wait()
}
