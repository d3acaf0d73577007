// Package trigger starts analysis runs when documents appear in blob
// storage. It either polls the container on an interval or receives blob
// created events over HTTP, and remembers what it has handled so a
// document is analyzed once per upload.
package trigger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/examiner/internal/runs"
	"github.com/JaimeStill/examiner/internal/workflow"
	"github.com/JaimeStill/examiner/pkg/formatting"
	"github.com/JaimeStill/examiner/pkg/lifecycle"
	"github.com/JaimeStill/examiner/pkg/storage"
)

// Trigger modes.
const (
	ModePoll    = "poll"
	ModeWebhook = "webhook"
	ModeOff     = "off"
)

// seedLimit caps how many journaled runs seed the dedupe state on startup.
const seedLimit = 500

// Settings configures how documents are discovered.
type Settings struct {
	Mode            string
	PollInterval    time.Duration
	Prefix          string
	MaxConcurrent   int
	MaxDocumentSize int64
}

// Starter begins an analysis run for a discovered document.
type Starter interface {
	Start(ctx context.Context, doc workflow.Document) (string, error)
}

// RunLister reports journaled runs, used to seed deduplication across
// restarts so previously analyzed documents do not trigger again.
type RunLister interface {
	List(ctx context.Context, limit int) ([]runs.Entry, error)
}

// System discovers documents and admits them into the workflow.
type System interface {
	// Start wires the configured discovery mode into the lifecycle.
	Start(lc *lifecycle.Coordinator) error

	// Handler returns the HTTP endpoint receiving blob created events.
	Handler() *Handler

	// Sweep lists the container once and starts a run for every document
	// not yet handled. Failures are contained per document.
	Sweep(ctx context.Context) error

	// Accept evaluates one discovered document and starts a run unless it
	// was already handled or exceeds the size limit. started reports
	// whether a run began.
	Accept(ctx context.Context, item storage.Metadata) (runID string, started bool, err error)
}

type listener struct {
	settings Settings
	store    storage.System
	starter  Starter
	lister   RunLister
	logger   *slog.Logger

	mu   sync.Mutex
	seen map[string]string
}

// New creates a trigger system. The lister seeds the dedupe state from
// previously journaled runs when the system starts.
func New(settings Settings, store storage.System, starter Starter, lister RunLister, logger *slog.Logger) System {
	return &listener{
		settings: settings,
		store:    store,
		starter:  starter,
		lister:   lister,
		logger:   logger.With("system", "trigger"),
		seen:     make(map[string]string),
	}
}

func (l *listener) Handler() *Handler {
	return NewHandler(l, l.settings.Prefix, l.settings.Mode == ModeWebhook, l.logger)
}

func (l *listener) Start(lc *lifecycle.Coordinator) error {
	switch l.settings.Mode {
	case ModeOff:
		l.logger.Info("document trigger disabled")
		return nil

	case ModeWebhook:
		l.logger.Info("document trigger in webhook mode", "prefix", l.settings.Prefix)
		lc.OnStartup(func() {
			l.seed(lc.Context())
		})
		return nil

	case ModePoll:
		if l.settings.PollInterval <= 0 {
			return fmt.Errorf("poll mode requires a positive poll interval")
		}
		l.logger.Info("document trigger polling",
			"interval", l.settings.PollInterval,
			"prefix", l.settings.Prefix,
		)
		lc.Go(l.poll)
		return nil

	default:
		return fmt.Errorf("unknown trigger mode: %q", l.settings.Mode)
	}
}

func (l *listener) poll(ctx context.Context) {
	l.seed(ctx)

	if err := l.Sweep(ctx); err != nil {
		l.logger.Error("document sweep failed", "error", err)
	}

	ticker := time.NewTicker(l.settings.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := l.Sweep(ctx); err != nil {
				l.logger.Error("document sweep failed", "error", err)
			}
		}
	}
}

// seed marks documents of journaled runs as handled. Best effort: without
// it the journal still prevents duplicate reports, just not duplicate runs.
func (l *listener) seed(ctx context.Context) {
	entries, err := l.lister.List(ctx, seedLimit)
	if err != nil {
		l.logger.Warn("seed trigger state failed", "error", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, entry := range entries {
		l.seen[entry.Path] = entry.ETag
	}

	l.logger.Info("trigger state seeded", "count", len(entries))
}

func (l *listener) Sweep(ctx context.Context) error {
	g := new(errgroup.Group)
	g.SetLimit(max(l.settings.MaxConcurrent, 1))

	marker := ""
	for {
		page, err := l.store.List(ctx, storage.ListOptions{
			Prefix: l.settings.Prefix,
			Marker: marker,
		})
		if err != nil {
			return fmt.Errorf("list documents: %w", err)
		}

		for _, item := range page.Items {
			g.Go(func() error {
				if _, _, err := l.Accept(ctx, item); err != nil {
					l.logger.Error("start run failed", "document", item.Key, "error", err)
				}
				return nil
			})
		}

		if page.NextMarker == "" {
			break
		}
		marker = page.NextMarker
	}

	return g.Wait()
}

func (l *listener) Accept(ctx context.Context, item storage.Metadata) (string, bool, error) {
	if l.handled(item) {
		return "", false, nil
	}

	if limit := l.settings.MaxDocumentSize; limit > 0 && item.Size > limit {
		l.logger.Warn("document exceeds size limit, skipping",
			"document", item.Key,
			"size", item.Size,
			"limit", limit,
		)
		l.mark(item)
		return "", false, nil
	}

	runID, err := l.starter.Start(ctx, workflow.Document{
		Path: item.Key,
		Size: item.Size,
		ETag: item.ETag,
	})
	if err != nil {
		return "", false, fmt.Errorf("start run for %s: %w", item.Key, err)
	}

	l.mark(item)
	l.logger.Info("document accepted",
		"document", item.Key,
		"size_kb", formatting.Kilobytes(item.Size),
		"run", runID,
	)
	return runID, true, nil
}

// handled reports whether the document was already admitted. A known path
// with a changed ETag counts as a new upload; unknown ETags on either side
// fall back to path identity.
func (l *listener) handled(item storage.Metadata) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	etag, ok := l.seen[item.Key]
	if !ok {
		return false
	}
	return etag == "" || item.ETag == "" || etag == item.ETag
}

func (l *listener) mark(item storage.Metadata) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen[item.Key] = item.ETag
}
