package runs

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"

	"github.com/JaimeStill/examiner/internal/workflow"
	"github.com/JaimeStill/examiner/pkg/lifecycle"
	"github.com/JaimeStill/examiner/pkg/tables"
)

type store struct {
	svc    tables.System
	table  tables.Client
	name   string
	logger *slog.Logger
}

// New creates a run store implementing the System interface. Saves replace
// the whole entity, so re-journaling a checkpoint is an upsert.
func New(svc tables.System, table string, logger *slog.Logger) System {
	return &store{
		svc:    svc,
		table:  svc.Table(table),
		name:   table,
		logger: logger.With("system", "runs"),
	}
}

func (s *store) Handler(maxLimit int) *Handler {
	return NewHandler(s, s.logger, maxLimit)
}

func (s *store) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting runs system")

	lc.OnStartup(func() {
		if err := s.svc.Ensure(lc.Context(), s.name); err != nil {
			s.logger.Error("run table initialization failed", "error", err)
			return
		}

		s.logger.Info("run table ready", "table", s.name)
	})

	return nil
}

func (s *store) Save(ctx context.Context, cp *workflow.Checkpoint) error {
	entity, err := marshalRun(cp)
	if err != nil {
		return err
	}

	_, err = s.table.UpsertEntity(ctx, entity, &aztables.UpsertEntityOptions{
		UpdateMode: aztables.UpdateModeReplace,
	})
	if err != nil {
		return fmt.Errorf("save run %s: %w", cp.RunID, err)
	}

	return nil
}

func (s *store) Load(ctx context.Context, runID string) (*workflow.Checkpoint, error) {
	resp, err := s.table.GetEntity(ctx, partitionTag, runID, nil)
	if err != nil {
		if tables.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", workflow.ErrRunNotFound, runID)
		}
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}

	return unmarshalRun(resp.Value)
}

func (s *store) ListOpen(ctx context.Context) ([]*workflow.Checkpoint, error) {
	filter := fmt.Sprintf("PartitionKey eq '%s' and Terminal eq false", partitionTag)
	pager := s.table.NewListEntitiesPager(&aztables.ListEntitiesOptions{
		Filter: &filter,
	})

	var open []*workflow.Checkpoint
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list open runs: %w", err)
		}

		for _, raw := range page.Entities {
			cp, err := unmarshalRun(raw)
			if err != nil {
				return nil, err
			}
			open = append(open, cp)
		}
	}

	return open, nil
}

func (s *store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	filter := fmt.Sprintf("PartitionKey eq '%s'", partitionTag)
	pager := s.table.NewListEntitiesPager(&aztables.ListEntitiesOptions{
		Filter: &filter,
	})

	entries := []Entry{}
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}

		for _, raw := range page.Entities {
			entry, err := unmarshalEntry(raw)
			if err != nil {
				return nil, err
			}
			entries = append(entries, *entry)
		}
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}

	return entries, nil
}
