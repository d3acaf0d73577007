package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Journal persists run checkpoints. Save must be durable before it returns;
// the orchestrator treats a successful Save as permission to take the next
// step.
type Journal interface {
	// Save records the checkpoint, replacing any prior record for the run.
	Save(ctx context.Context, cp *Checkpoint) error
	// Load returns a run's checkpoint. Returns ErrRunNotFound when absent.
	Load(ctx context.Context, runID string) (*Checkpoint, error)
	// ListOpen returns checkpoints of runs that have not reached a terminal
	// phase.
	ListOpen(ctx context.Context) ([]*Checkpoint, error)
}

// MemoryJournal is an in-process Journal for single-node development. Records
// are stored as encoded snapshots, so later mutation of a saved checkpoint
// does not alter the journal.
type MemoryJournal struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryJournal creates an empty in-process journal.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{
		records: make(map[string][]byte),
	}
}

func (j *MemoryJournal) Save(ctx context.Context, cp *Checkpoint) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("encode checkpoint %s: %w", cp.RunID, err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.records[cp.RunID] = data

	return nil
}

func (j *MemoryJournal) Load(ctx context.Context, runID string) (*Checkpoint, error) {
	j.mu.RLock()
	data, ok := j.records[runID]
	j.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("decode checkpoint %s: %w", runID, err)
	}

	return &cp, nil
}

func (j *MemoryJournal) ListOpen(ctx context.Context) ([]*Checkpoint, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var open []*Checkpoint
	for runID, data := range j.records {
		var cp Checkpoint
		if err := json.Unmarshal(data, &cp); err != nil {
			return nil, fmt.Errorf("decode checkpoint %s: %w", runID, err)
		}
		if !cp.Phase.Terminal() {
			open = append(open, &cp)
		}
	}

	return open, nil
}
