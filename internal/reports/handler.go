package reports

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/examiner/pkg/handlers"
	"github.com/JaimeStill/examiner/pkg/routes"
)

// defaultListLimit applies when a list request carries no limit parameter.
const defaultListLimit = 10

// Handler provides HTTP endpoints for stored analysis results.
type Handler struct {
	sys      System
	logger   *slog.Logger
	maxLimit int
}

// ListResponse wraps a page of results with its count.
type ListResponse struct {
	Count   int     `json:"count"`
	Results []Entry `json:"results"`
}

// NewHandler creates a Handler with the given system, logger, and list limit cap.
func NewHandler(sys System, logger *slog.Logger, maxLimit int) *Handler {
	return &Handler{
		sys:      sys,
		logger:   logger.With("handler", "results"),
		maxLimit: maxLimit,
	}
}

// Routes returns the route group definition for result endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/results",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
		},
	}
}

// List returns stored results newest first. The limit query parameter caps
// the page size; invalid values are rejected, oversized ones clamped.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit

	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %q", ErrInvalidLimit, raw))
			return
		}
		limit = min(n, h.maxLimit)
	}

	entries, err := h.sys.List(r.Context(), limit)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ListResponse{
		Count:   len(entries),
		Results: entries,
	})
}

// Find returns a single stored result by its ID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	report, err := h.sys.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, report)
}
