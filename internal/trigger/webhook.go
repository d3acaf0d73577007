package trigger

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	cloudevents "github.com/cloudevents/sdk-go/v2"

	"github.com/JaimeStill/examiner/pkg/handlers"
	"github.com/JaimeStill/examiner/pkg/routes"
	"github.com/JaimeStill/examiner/pkg/storage"
)

// eventTypeBlobCreated announces a new blob in storage event notifications.
const eventTypeBlobCreated = "Microsoft.Storage.BlobCreated"

// blobCreatedData is the payload of a blob created event.
type blobCreatedData struct {
	URL           string `json:"url"`
	ETag          string `json:"eTag"`
	ContentType   string `json:"contentType"`
	ContentLength int64  `json:"contentLength"`
}

// Handler receives blob created events and admits the announced documents
// into the workflow. When the trigger is not in webhook mode the endpoint
// refuses deliveries so documents cannot bypass the configured discovery
// path.
type Handler struct {
	sys     System
	prefix  string
	enabled bool
	logger  *slog.Logger
}

// NewHandler creates a Handler that forwards accepted documents to sys.
// Events for blobs outside prefix are acknowledged and dropped.
func NewHandler(sys System, prefix string, enabled bool, logger *slog.Logger) *Handler {
	return &Handler{
		sys:     sys,
		prefix:  prefix,
		enabled: enabled,
		logger:  logger.With("handler", "events"),
	}
}

// Routes returns the route group definition for event delivery.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/events",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Receive},
			{Method: "OPTIONS", Pattern: "", Handler: h.Validate},
		},
	}
}

// Validate answers the abuse protection handshake sent before a
// subscription starts delivering events.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	if !h.enabled {
		h.refuse(w)
		return
	}

	origin := r.Header.Get("WebHook-Request-Origin")
	w.Header().Set("WebHook-Allowed-Origin", origin)
	w.WriteHeader(http.StatusOK)

	h.logger.Info("event subscription validated", "origin", origin)
}

// Receive handles one delivered event. Blob created events inside the
// configured prefix start a run; everything else is acknowledged so the
// publisher does not retry.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	if !h.enabled {
		h.refuse(w)
		return
	}

	event, err := cloudevents.NewEventFromHTTPRequest(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("read event: %w", err))
		return
	}

	if event.Type() != eventTypeBlobCreated {
		h.logger.Debug("event ignored", "type", event.Type())
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	var data blobCreatedData
	if err := json.Unmarshal(event.Data(), &data); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("decode blob event: %w", err))
		return
	}

	key, err := blobKey(event.Subject(), data.URL)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if h.prefix != "" && !strings.HasPrefix(key, h.prefix) {
		h.logger.Debug("event outside prefix ignored", "document", key)
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	runID, started, err := h.sys.Accept(r.Context(), storage.Metadata{
		Key:         key,
		Size:        data.ContentLength,
		ContentType: data.ContentType,
		ETag:        data.ETag,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	if !started {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "skipped"})
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, map[string]string{"runId": runID})
}

func (h *Handler) refuse(w http.ResponseWriter) {
	handlers.RespondError(w, h.logger, http.StatusNotFound, fmt.Errorf("event ingestion disabled"))
}

// blobKey extracts the container-relative blob path from an event subject
// of the form /blobServices/default/containers/<name>/blobs/<path>,
// falling back to the blob URL.
func blobKey(subject, rawURL string) (string, error) {
	if _, after, ok := strings.Cut(subject, "/blobs/"); ok && after != "" {
		return after, nil
	}

	if rawURL != "" {
		u, err := url.Parse(rawURL)
		if err == nil {
			trimmed := strings.TrimPrefix(u.Path, "/")
			if _, after, ok := strings.Cut(trimmed, "/"); ok && after != "" {
				return after, nil
			}
		}
	}

	return "", fmt.Errorf("blob event carries no document path")
}
