// Package httphandler implements the JSON API driving adapter.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ericfisherdev/updatepanel/internal/application"
	"github.com/ericfisherdev/updatepanel/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter that serves the REST API.
// Every request runs its own ServerSession against the store.
type Handler struct {
	store    driven.ServerStore
	probeSvc *application.ProbeService
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. probeSvc may be
// nil, in which case the probe endpoint answers 501.
func NewHandler(store driven.ServerStore, probeSvc *application.ProbeService, logger *slog.Logger) *Handler {
	return &Handler{
		store:    store,
		probeSvc: probeSvc,
		logger:   logger,
	}
}

// RegisterAPIRoutes registers all JSON API routes on the provided mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/servers", h.ListServers)
	mux.HandleFunc("POST /api/v1/servers", h.AddServer)
	mux.HandleFunc("POST /api/v1/servers/select", h.SelectServer)
	mux.HandleFunc("DELETE /api/v1/servers/{index}", h.DeleteServer)
	mux.HandleFunc("GET /api/v1/servers/{index}/probe", h.ProbeServer)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// NewServeMux creates an http.Handler with the API routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h)
	return ApplyMiddleware(mux, logger)
}

// ListServers returns all statistics servers in stored order.
func (h *Handler) ListServers(w http.ResponseWriter, r *http.Request) {
	session := application.NewServerSession(h.store, application.ModeManagement, h.logger)
	if err := session.Open(r.Context()); err != nil {
		h.writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toServerResponses(session.Servers()))
}

// AddServer appends a statistics server and returns it with its position.
func (h *Handler) AddServer(w http.ResponseWriter, r *http.Request) {
	var req AddServerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session := application.NewServerSession(h.store, application.ModeManagement, h.logger)
	if err := session.Open(r.Context()); err != nil {
		h.writeSessionError(w, err)
		return
	}

	entry := &application.ServerEntry{
		Name:         req.Name,
		WebURL:       req.WebURL,
		DatabaseName: req.DatabaseName,
		Username:     req.Username,
	}
	if err := session.Add(r.Context(), entry); err != nil {
		h.writeSessionError(w, err)
		return
	}

	index, server, _ := session.LastAdded()
	writeJSON(w, http.StatusCreated, toServerResponse(index, server))
}

// DeleteServer removes the statistics server at the given position.
func (h *Handler) DeleteServer(w http.ResponseWriter, r *http.Request) {
	index, ok := parseIndex(w, r)
	if !ok {
		return
	}

	session := application.NewServerSession(h.store, application.ModeManagement, h.logger)
	if err := session.Open(r.Context()); err != nil {
		h.writeSessionError(w, err)
		return
	}

	if err := session.Delete(r.Context(), index); err != nil {
		h.writeSessionError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SelectServer confirms the server at the requested position and returns the
// fields a caller needs to connect to its statistics database.
func (h *Handler) SelectServer(w http.ResponseWriter, r *http.Request) {
	var req SelectServerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		writeError(w, http.StatusBadRequest, "invalid request body: index is required")
		return
	}

	session := application.NewServerSession(h.store, application.ModeSelection, h.logger)
	if err := session.Open(r.Context()); err != nil {
		h.writeSessionError(w, err)
		return
	}

	selection, err := session.Confirm(r.Context(), *req.Index)
	if err != nil {
		session.Cancel()
		h.writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSelectionResponse(selection))
}

// ProbeServer checks whether the web endpoint of the server at the given position answers.
func (h *Handler) ProbeServer(w http.ResponseWriter, r *http.Request) {
	if h.probeSvc == nil {
		writeError(w, http.StatusNotImplemented, "probing is not configured")
		return
	}

	index, ok := parseIndex(w, r)
	if !ok {
		return
	}

	result, err := h.probeSvc.ProbeAt(r.Context(), index)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProbeResponse(result))
}

// Health reports whether the server store is readable. A missing or malformed
// store answers 503 so container health checks fail while the list is unusable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Time: time.Now().UTC().Format(time.RFC3339)}

	servers, err := h.store.LoadAll(r.Context())
	if err != nil {
		h.logger.Warn("health check failed to load servers", "error", err)
		resp.Status = "degraded"
		resp.Error = "statistics server store unavailable"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	resp.Servers = len(servers)
	writeJSON(w, http.StatusOK, resp)
}

// parseIndex reads the {index} path value, writing a 400 response when it is not
// a non-negative integer.
func parseIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		writeError(w, http.StatusBadRequest, "invalid server index")
		return 0, false
	}
	return index, true
}

// writeSessionError maps store and session errors to HTTP responses. Validation
// and parse errors carry only user-supplied data, so their text is returned as is.
func (h *Handler) writeSessionError(w http.ResponseWriter, err error) {
	var parseErr *driven.ParseError
	switch {
	case errors.Is(err, driven.ErrServerNotFound):
		writeError(w, http.StatusNotFound, "statistics server not found")
	case errors.Is(err, driven.ErrInvalidServerField):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, driven.ErrInvalidWebURL):
		writeError(w, http.StatusUnprocessableEntity, "server has an invalid web url")
	case errors.As(err, &parseErr):
		h.logger.Error("statistics server file is malformed", "line", parseErr.Line, "error", err)
		writeError(w, http.StatusInternalServerError, parseErr.Error())
	case errors.Is(err, driven.ErrStoreIO):
		h.logger.Error("statistics server store unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, "statistics server store unavailable")
	default:
		h.logger.Error("statistics server request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
