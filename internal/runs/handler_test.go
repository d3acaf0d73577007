package runs_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JaimeStill/examiner/internal/runs"
	"github.com/JaimeStill/examiner/internal/workflow"
	"github.com/JaimeStill/examiner/pkg/lifecycle"
	"github.com/JaimeStill/examiner/pkg/routes"
)

type mockSystem struct {
	load func(ctx context.Context, runID string) (*workflow.Checkpoint, error)
	list func(ctx context.Context, limit int) ([]runs.Entry, error)
}

func (m *mockSystem) Handler(maxLimit int) *runs.Handler {
	return runs.NewHandler(m, testLogger(), maxLimit)
}

func (m *mockSystem) Start(lc *lifecycle.Coordinator) error { return nil }

func (m *mockSystem) Save(ctx context.Context, cp *workflow.Checkpoint) error { return nil }

func (m *mockSystem) Load(ctx context.Context, runID string) (*workflow.Checkpoint, error) {
	return m.load(ctx, runID)
}

func (m *mockSystem) ListOpen(ctx context.Context) ([]*workflow.Checkpoint, error) {
	return nil, nil
}

func (m *mockSystem) List(ctx context.Context, limit int) ([]runs.Entry, error) {
	return m.list(ctx, limit)
}

func serve(sys *mockSystem, maxLimit int, method, target string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler(maxLimit).Routes())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHandlerListDefaultLimit(t *testing.T) {
	var gotLimit int
	sys := &mockSystem{
		list: func(ctx context.Context, limit int) ([]runs.Entry, error) {
			gotLimit = limit
			return []runs.Entry{
				{RunID: "run-2", Path: "incoming/b.pdf", Phase: "persisted", UpdatedAt: time.Now()},
				{RunID: "run-1", Path: "incoming/a.pdf", Phase: "failed", UpdatedAt: time.Now().Add(-time.Hour)},
			}, nil
		},
	}

	rec := serve(sys, 50, "GET", "/runs")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if gotLimit != 10 {
		t.Errorf("limit: got %d, want default 10", gotLimit)
	}

	var resp runs.ListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 || len(resp.Runs) != 2 {
		t.Errorf("response: got %+v", resp)
	}
	if resp.Runs[0].RunID != "run-2" {
		t.Errorf("first run: got %s", resp.Runs[0].RunID)
	}
}

func TestHandlerListLimitClamped(t *testing.T) {
	var gotLimit int
	sys := &mockSystem{
		list: func(ctx context.Context, limit int) ([]runs.Entry, error) {
			gotLimit = limit
			return []runs.Entry{}, nil
		},
	}

	serve(sys, 50, "GET", "/runs?limit=900")

	if gotLimit != 50 {
		t.Errorf("limit: got %d, want clamp 50", gotLimit)
	}
}

func TestHandlerListInvalidLimit(t *testing.T) {
	sys := &mockSystem{
		list: func(ctx context.Context, limit int) ([]runs.Entry, error) {
			t.Error("list should not be called for invalid limits")
			return nil, nil
		},
	}

	for _, raw := range []string{"abc", "0", "-2"} {
		rec := serve(sys, 50, "GET", "/runs?limit="+raw)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit %q: got %d, want 400", raw, rec.Code)
		}
	}
}

func TestHandlerFind(t *testing.T) {
	cp := checkpoint("run-1", workflow.PhaseFannedIn, time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))
	sys := &mockSystem{
		load: func(ctx context.Context, runID string) (*workflow.Checkpoint, error) {
			if runID != "run-1" {
				t.Errorf("runID: got %s, want run-1", runID)
			}
			return cp, nil
		},
	}

	rec := serve(sys, 50, "GET", "/runs/run-1")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var got workflow.Checkpoint
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.RunID != "run-1" || got.Phase != workflow.PhaseFannedIn {
		t.Errorf("checkpoint: got %+v", got)
	}
}

func TestHandlerFindNotFound(t *testing.T) {
	sys := &mockSystem{
		load: func(ctx context.Context, runID string) (*workflow.Checkpoint, error) {
			return nil, fmt.Errorf("%w: %s", workflow.ErrRunNotFound, runID)
		},
	}

	rec := serve(sys, 50, "GET", "/runs/missing")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "run not found: missing" {
		t.Errorf("error body: got %q", body["error"])
	}
}

func TestHandlerFindFailure(t *testing.T) {
	sys := &mockSystem{
		load: func(ctx context.Context, runID string) (*workflow.Checkpoint, error) {
			return nil, errors.New("table service unavailable")
		},
	}

	rec := serve(sys, 50, "GET", "/runs/run-1")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rec.Code)
	}
}
