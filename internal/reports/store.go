package reports

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/JaimeStill/examiner/pkg/lifecycle"
	"github.com/JaimeStill/examiner/pkg/tables"
)

type store struct {
	svc    tables.System
	table  tables.Client
	name   string
	cache  *lru.Cache[string, *Report]
	logger *slog.Logger
}

// New creates a report store implementing the System interface. Reports are
// immutable once stored, so reads go through a fixed-size LRU cache.
func New(
	svc tables.System,
	table string,
	cacheSize int,
	logger *slog.Logger,
) (System, error) {
	cache, err := lru.New[string, *Report](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create report cache: %w", err)
	}

	return &store{
		svc:    svc,
		table:  svc.Table(table),
		name:   table,
		cache:  cache,
		logger: logger.With("system", "reports"),
	}, nil
}

func (s *store) Handler(maxLimit int) *Handler {
	return NewHandler(s, s.logger, maxLimit)
}

func (s *store) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting reports system")

	lc.OnStartup(func() {
		if err := s.svc.Ensure(lc.Context(), s.name); err != nil {
			s.logger.Error("report table initialization failed", "error", err)
			return
		}

		s.logger.Info("report table ready", "table", s.name)
	})

	return nil
}

func (s *store) Put(ctx context.Context, report *Report) PutResult {
	entity, err := marshalEntity(report)
	if err != nil {
		s.logger.Error("encode report failed", "id", report.ID, "error", err)
		return putFailure(report, err)
	}

	_, err = s.table.UpsertEntity(ctx, entity, &aztables.UpsertEntityOptions{
		UpdateMode: aztables.UpdateModeReplace,
	})
	if err != nil {
		s.logger.Error("store report failed", "id", report.ID, "error", err)
		return putFailure(report, err)
	}

	s.cache.Add(report.ID, report)
	s.logger.Info("report stored", "id", report.ID, "file", report.FileName)

	return PutResult{
		ID:         report.ID,
		FileName:   report.FileName,
		Status:     StatusStored,
		AnalyzedAt: report.AnalyzedAt,
		Summary:    &report.Summary,
	}
}

func putFailure(report *Report, err error) PutResult {
	return PutResult{
		ID:     report.ID,
		Status: StatusError,
		Error:  err.Error(),
	}
}

func (s *store) Get(ctx context.Context, id string) (*Report, error) {
	if report, ok := s.cache.Get(id); ok {
		return report, nil
	}

	resp, err := s.table.GetEntity(ctx, partitionTag, id, nil)
	if err != nil {
		if tables.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get report %s: %w", id, err)
	}

	report, err := unmarshalEntity(resp.Value)
	if err != nil {
		return nil, err
	}

	s.cache.Add(id, report)
	return report, nil
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
			return nil, fmt.Errorf("list reports: %w", err)
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
		return b.AnalyzedAt.Compare(a.AnalyzedAt)
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}

	return entries, nil
}
