package api

import (
	"fmt"

	"github.com/JaimeStill/examiner/internal/analysis"
	"github.com/JaimeStill/examiner/internal/document"
	"github.com/JaimeStill/examiner/internal/reports"
	"github.com/JaimeStill/examiner/internal/runs"
	"github.com/JaimeStill/examiner/internal/trigger"
	"github.com/JaimeStill/examiner/internal/workflow"
	"github.com/JaimeStill/examiner/pkg/lifecycle"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Reports  reports.System
	Runs     runs.System
	Workflow *workflow.Orchestrator
	Trigger  trigger.System
}

// NewDomain creates all domain systems from the API runtime. The run journal
// doubles as the workflow's checkpoint store, and the trigger seeds its
// deduplication state from it.
func NewDomain(runtime *Runtime) (*Domain, error) {
	cfg := runtime.Config

	reportsSystem, err := reports.New(
		runtime.Tables,
		cfg.Results.Table,
		cfg.Results.CacheSize,
		runtime.Logger,
	)
	if err != nil {
		return nil, fmt.Errorf("reports init failed: %w", err)
	}

	runsSystem := runs.New(runtime.Tables, cfg.Runs.Table, runtime.Logger)

	orchestrator, err := workflow.New(workflow.Runtime{
		Tasks:   analysis.Tasks(document.NewPDFParser()),
		Journal: runsSystem,
		Reports: reportsSystem,
		Source:  newBlobSource(runtime.Storage),
		Logger:  runtime.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("workflow init failed: %w", err)
	}

	watcher := trigger.New(
		trigger.Settings{
			Mode:            cfg.Watcher.Mode,
			PollInterval:    cfg.Watcher.PollIntervalDuration(),
			Prefix:          cfg.Watcher.Prefix,
			MaxConcurrent:   cfg.Watcher.MaxConcurrent,
			MaxDocumentSize: cfg.Watcher.MaxDocumentSizeBytes(),
		},
		runtime.Storage,
		orchestrator,
		runsSystem,
		runtime.Logger,
	)

	return &Domain{
		Reports:  reportsSystem,
		Runs:     runsSystem,
		Workflow: orchestrator,
		Trigger:  watcher,
	}, nil
}

// Start registers all domain systems with the lifecycle coordinator.
// Unfinished runs resume before the trigger begins admitting new documents.
func (d *Domain) Start(lc *lifecycle.Coordinator) error {
	if err := d.Reports.Start(lc); err != nil {
		return fmt.Errorf("reports start failed: %w", err)
	}
	if err := d.Runs.Start(lc); err != nil {
		return fmt.Errorf("runs start failed: %w", err)
	}
	if err := d.Workflow.Resume(lc); err != nil {
		return fmt.Errorf("workflow resume failed: %w", err)
	}
	if err := d.Trigger.Start(lc); err != nil {
		return fmt.Errorf("trigger start failed: %w", err)
	}
	return nil
}
