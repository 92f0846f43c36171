// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/updatepanel/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/updatepanel/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/updatepanel/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/updatepanel/internal/application"
	"github.com/ericfisherdev/updatepanel/internal/domain/port/driven"
)

// Handler is the web GUI driving adapter that serves HTML via templ components.
// It translates form posts into ServerSession calls; each request opens its own session.
type Handler struct {
	store  driven.ServerStore
	logger *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(store driven.ServerStore, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

// ServerList renders the management page.
func (h *Handler) ServerList(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, application.ModeManagement)
}

// SelectList renders the selection page.
func (h *Handler) SelectList(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, application.ModeSelection)
}

func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, mode application.SessionMode) {
	csrf := csrfToken(w, r)

	session := application.NewServerSession(h.store, mode, h.logger)
	if err := session.Open(r.Context()); err != nil {
		h.render(w, r, http.StatusServiceUnavailable, "Error", pages.ErrorPage(userMessage(err)))
		return
	}

	page := toServerListViewModel(session, csrf)
	h.render(w, r, http.StatusOK, page.Title, pages.ServerList(page))
}

// AddServer handles the add-server form. On success it redirects back to the
// list; on failure the list is re-rendered with the error and the submitted values.
func (h *Handler) AddServer(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid csrf token", http.StatusForbidden)
		return
	}

	form := vm.ServerFormViewModel{
		Name:         cleanFormValue(r.FormValue("name")),
		WebURL:       cleanFormValue(r.FormValue("web_url")),
		DatabaseName: cleanFormValue(r.FormValue("database_name")),
		Username:     cleanFormValue(r.FormValue("username")),
	}

	session := application.NewServerSession(h.store, application.ModeManagement, h.logger)
	if err := session.Open(r.Context()); err != nil {
		h.render(w, r, http.StatusServiceUnavailable, "Error", pages.ErrorPage(userMessage(err)))
		return
	}

	err := session.Add(r.Context(), &application.ServerEntry{
		Name:         form.Name,
		WebURL:       form.WebURL,
		DatabaseName: form.DatabaseName,
		Username:     form.Username,
	})
	if err != nil {
		page := toServerListViewModel(session, csrfToken(w, r))
		page.Error = "Error while saving the server: " + userMessage(err)
		page.Form = form
		h.render(w, r, statusFor(err), page.Title, pages.ServerList(page))
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// DeleteServer handles the per-row delete form.
func (h *Handler) DeleteServer(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid csrf token", http.StatusForbidden)
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "invalid server index", http.StatusBadRequest)
		return
	}

	session := application.NewServerSession(h.store, application.ModeManagement, h.logger)
	if err := session.Open(r.Context()); err != nil {
		h.render(w, r, http.StatusServiceUnavailable, "Error", pages.ErrorPage(userMessage(err)))
		return
	}

	if err := session.Delete(r.Context(), index); err != nil {
		page := toServerListViewModel(session, csrfToken(w, r))
		page.Error = "Error while deleting the server: " + userMessage(err)
		h.render(w, r, statusFor(err), page.Title, pages.ServerList(page))
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SelectServer confirms the highlighted server in selection mode.
func (h *Handler) SelectServer(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid csrf token", http.StatusForbidden)
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "invalid server index", http.StatusBadRequest)
		return
	}

	session := application.NewServerSession(h.store, application.ModeSelection, h.logger)
	if err := session.Open(r.Context()); err != nil {
		h.render(w, r, http.StatusServiceUnavailable, "Error", pages.ErrorPage(userMessage(err)))
		return
	}

	var name string
	if servers := session.Servers(); index >= 0 && index < len(servers) {
		name = servers[index].Name
	}

	selection, err := session.Confirm(r.Context(), index)
	if err != nil {
		page := toServerListViewModel(session, csrfToken(w, r))
		page.Error = userMessage(err)
		session.Cancel()
		h.render(w, r, statusFor(err), page.Title, pages.ServerList(page))
		return
	}

	h.render(w, r, http.StatusOK, "Server selected", pages.SelectionConfirmed(toSelectionViewModel(name, selection)))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, title string, body templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := templates.Layout(title, body).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "title", title, "error", err)
	}
}

// userMessage turns a session error into text that is safe to show: validation
// and parse errors only echo user data, everything else is summarized.
func userMessage(err error) string {
	var parseErr *driven.ParseError
	switch {
	case errors.Is(err, driven.ErrServerNotFound):
		return "The selected server no longer exists."
	case errors.Is(err, driven.ErrInvalidServerField):
		return err.Error()
	case errors.As(err, &parseErr):
		return parseErr.Error()
	case errors.Is(err, driven.ErrStoreIO):
		return "The statistics server file could not be read or written."
	default:
		return "An unexpected error occurred."
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, driven.ErrServerNotFound):
		return http.StatusNotFound
	case errors.Is(err, driven.ErrInvalidServerField):
		return http.StatusUnprocessableEntity
	case errors.Is(err, driven.ErrStoreIO):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
