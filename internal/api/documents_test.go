package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/examiner/pkg/lifecycle"
	"github.com/JaimeStill/examiner/pkg/routes"
	"github.com/JaimeStill/examiner/pkg/storage"
)

type fakeStore struct {
	list     func(ctx context.Context, opts storage.ListOptions) (*storage.ListResult, error)
	find     func(ctx context.Context, key string) (*storage.Metadata, error)
	download func(ctx context.Context, key string) (*storage.DownloadResult, error)
}

func (f *fakeStore) Start(lc *lifecycle.Coordinator) error { return nil }

func (f *fakeStore) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	return nil
}

func (f *fakeStore) Download(ctx context.Context, key string) (*storage.DownloadResult, error) {
	return f.download(ctx, key)
}

func (f *fakeStore) Find(ctx context.Context, key string) (*storage.Metadata, error) {
	return f.find(ctx, key)
}

func (f *fakeStore) List(ctx context.Context, opts storage.ListOptions) (*storage.ListResult, error) {
	return f.list(ctx, opts)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serveDocuments(store storage.System, method, target string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	routes.Register(mux, newDocumentsHandler(store, testLogger(), 50).routes())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestDocumentsList(t *testing.T) {
	var gotOpts storage.ListOptions
	store := &fakeStore{
		list: func(ctx context.Context, opts storage.ListOptions) (*storage.ListResult, error) {
			gotOpts = opts
			return &storage.ListResult{
				Items: []storage.Metadata{
					{Key: "incoming/a.pdf", Size: 1024, ContentType: "application/pdf"},
				},
			}, nil
		},
	}

	rec := serveDocuments(store, "GET", "/documents?prefix=incoming/&marker=abc")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if gotOpts.Prefix != "incoming/" || gotOpts.Marker != "abc" {
		t.Errorf("options: got %+v", gotOpts)
	}
	if gotOpts.MaxResults != 0 {
		t.Errorf("max results without parameter: got %d, want 0", gotOpts.MaxResults)
	}

	var result storage.ListResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].Key != "incoming/a.pdf" {
		t.Errorf("items: got %+v", result.Items)
	}
}

func TestDocumentsListMaxResults(t *testing.T) {
	tests := []struct {
		name  string
		param string
		want  int32
	}{
		{"explicit", "10", 10},
		{"clamped", "500", 50},
		{"clamped beyond int32", "2147483648", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotOpts storage.ListOptions
			store := &fakeStore{
				list: func(ctx context.Context, opts storage.ListOptions) (*storage.ListResult, error) {
					gotOpts = opts
					return &storage.ListResult{}, nil
				},
			}

			serveDocuments(store, "GET", "/documents?max_results="+tt.param)

			if gotOpts.MaxResults != tt.want {
				t.Errorf("max results: got %d, want %d", gotOpts.MaxResults, tt.want)
			}
		})
	}
}

func TestDocumentsListInvalidMaxResults(t *testing.T) {
	store := &fakeStore{
		list: func(ctx context.Context, opts storage.ListOptions) (*storage.ListResult, error) {
			t.Error("list should not be called for invalid max_results")
			return nil, nil
		},
	}

	for _, raw := range []string{"abc", "0", "-1"} {
		rec := serveDocuments(store, "GET", "/documents?max_results="+raw)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("max_results %q: got %d, want 400", raw, rec.Code)
		}
	}
}

func TestDocumentsListFailure(t *testing.T) {
	store := &fakeStore{
		list: func(ctx context.Context, opts storage.ListOptions) (*storage.ListResult, error) {
			return nil, errors.New("container unavailable")
		},
	}

	rec := serveDocuments(store, "GET", "/documents")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "container unavailable" {
		t.Errorf("error body: got %q", body["error"])
	}
}

func TestDocumentsFind(t *testing.T) {
	modified := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{
		find: func(ctx context.Context, key string) (*storage.Metadata, error) {
			if key != "incoming/nested/sample.pdf" {
				t.Errorf("key: got %s", key)
			}
			return &storage.Metadata{
				Key:          key,
				Size:         2048,
				ContentType:  "application/pdf",
				ETag:         "0x1",
				LastModified: modified,
			}, nil
		},
	}

	rec := serveDocuments(store, "GET", "/documents/incoming/nested/sample.pdf")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var meta storage.Metadata
	if err := json.NewDecoder(rec.Body).Decode(&meta); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if meta.Key != "incoming/nested/sample.pdf" || meta.Size != 2048 {
		t.Errorf("metadata: got %+v", meta)
	}
}

func TestDocumentsFindNotFound(t *testing.T) {
	store := &fakeStore{
		find: func(ctx context.Context, key string) (*storage.Metadata, error) {
			return nil, storage.ErrNotFound
		},
	}

	rec := serveDocuments(store, "GET", "/documents/missing.pdf")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] == "" {
		t.Error("expected error body")
	}
}

func TestDocumentsDownload(t *testing.T) {
	store := &fakeStore{
		download: func(ctx context.Context, key string) (*storage.DownloadResult, error) {
			if key != "incoming/sample.pdf" {
				t.Errorf("key: got %s", key)
			}
			return &storage.DownloadResult{
				Body:        io.NopCloser(strings.NewReader("%PDF-1.4 content")),
				Size:        16,
				ContentType: "application/pdf",
			}, nil
		},
	}

	rec := serveDocuments(store, "GET", "/documents/download/incoming/sample.pdf")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type: got %s", ct)
	}
	if cl := rec.Header().Get("Content-Length"); cl != "16" {
		t.Errorf("content length: got %s", cl)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="sample.pdf"` {
		t.Errorf("content disposition: got %s", cd)
	}
	if body := rec.Body.String(); body != "%PDF-1.4 content" {
		t.Errorf("body: got %q", body)
	}
}

func TestDocumentsDownloadNotFound(t *testing.T) {
	store := &fakeStore{
		download: func(ctx context.Context, key string) (*storage.DownloadResult, error) {
			return nil, storage.ErrNotFound
		},
	}

	rec := serveDocuments(store, "GET", "/documents/download/missing.pdf")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rec.Code)
	}
}
