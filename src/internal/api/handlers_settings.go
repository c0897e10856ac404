package api

import (
	"net/http"

	"github.com/rbac-console/admin-console/src/internal/forms"
)

// GetState returns the current session state.
// GET /api/v1/settings
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSONData(w, h.ctrl.State())
}

// LoadSettings fetches the settings document and starts a clean session.
// POST /api/v1/settings/load
func (h *Handler) LoadSettings(w http.ResponseWriter, r *http.Request) {
	state, err := h.ctrl.Load(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSONData(w, state)
}

// GetFields returns the form fields bound to the working tree and edits.
// GET /api/v1/settings/fields
func (h *Handler) GetFields(w http.ResponseWriter, r *http.Request) {
	fields, err := h.ctrl.Fields()
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSONData(w, FieldsResponse{Fields: fields})
}

// EditFields records raw form edits.
// PATCH /api/v1/settings/fields
func (h *Handler) EditFields(w http.ResponseWriter, r *http.Request) {
	var req EditRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Edits) == 0 {
		WriteInvalidRequest(w, "edits must not be empty")
		return
	}

	state, err := h.ctrl.Edit(req.Edits)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSONData(w, state)
}

// SaveSettings gathers the form, validates it and replaces the remote document.
// POST /api/v1/settings/save
func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	state, err := h.ctrl.Save(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSONData(w, state)
}

// ResetSettings drops unsaved edits.
// POST /api/v1/settings/reset
func (h *Handler) ResetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSONData(w, h.ctrl.Reset())
}

// GetForms returns the form catalog.
// GET /api/v1/forms
func (h *Handler) GetForms(w http.ResponseWriter, r *http.Request) {
	writeJSONData(w, FormsResponse{Sections: forms.Catalog()})
}

// GetNotifications returns recent notifications.
// GET /api/v1/notifications
func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSONData(w, NotificationsResponse{Notifications: h.ctrl.Notifications().List()})
}

// GetTheme returns the stylesheet for the saved appearance settings.
// GET /theme.css
func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(h.ctrl.ThemeCSS()))
}
