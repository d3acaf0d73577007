package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"

	"github.com/JaimeStill/examiner/pkg/handlers"
	"github.com/JaimeStill/examiner/pkg/routes"
	"github.com/JaimeStill/examiner/pkg/storage"
)

// documentsHandler exposes the analyzed document container for inspection:
// listing uploads, checking a document's metadata, and retrieving content.
type documentsHandler struct {
	store       storage.System
	logger      *slog.Logger
	maxListSize int32
}

func newDocumentsHandler(
	store storage.System,
	logger *slog.Logger,
	maxListSize int32,
) *documentsHandler {
	return &documentsHandler{
		store:       store,
		logger:      logger.With("handler", "documents"),
		maxListSize: maxListSize,
	}
}

func (h *documentsHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/documents",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.list},
			{Method: "GET", Pattern: "/download/{key...}", Handler: h.download},
			{Method: "GET", Pattern: "/{key...}", Handler: h.find},
		},
	}
}

func (h *documentsHandler) list(w http.ResponseWriter, r *http.Request) {
	opts := storage.ListOptions{
		Prefix: r.URL.Query().Get("prefix"),
		Marker: r.URL.Query().Get("marker"),
	}

	if raw := r.URL.Query().Get("max_results"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			handlers.RespondError(
				w, h.logger,
				http.StatusBadRequest,
				fmt.Errorf("invalid max_results: %q", raw),
			)
			return
		}
		if n > int(h.maxListSize) {
			n = int(h.maxListSize)
		}
		opts.MaxResults = int32(n)
	}

	result, err := h.store.List(r.Context(), opts)
	if err != nil {
		handlers.RespondError(
			w, h.logger,
			http.StatusInternalServerError, err,
		)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *documentsHandler) find(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	meta, err := h.store.Find(r.Context(), key)
	if err != nil {
		handlers.RespondError(
			w, h.logger,
			storage.MapHTTPStatus(err), err,
		)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, meta)
}

func (h *documentsHandler) download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	result, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(
			w, h.logger,
			storage.MapHTTPStatus(err), err,
		)
		return
	}
	defer result.Body.Close()

	w.Header().Set("Content-Type", result.ContentType)

	if result.Size > 0 {
		w.Header().Set(
			"Content-Length",
			strconv.FormatInt(result.Size, 10),
		)
	}
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", path.Base(key)),
	)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, result.Body)
}
