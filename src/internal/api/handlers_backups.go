package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListBackups returns available backups, newest first.
// GET /api/v1/backups
func (h *Handler) ListBackups(w http.ResponseWriter, r *http.Request) {
	backups, err := h.ctrl.Backups(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSONData(w, BackupsResponse{Backups: backups})
}

// CreateBackup asks the remote API for a new backup.
// POST /api/v1/backups
func (h *Handler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	result, err := h.ctrl.CreateBackup(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeCreated(w, BackupCreatedResponse{Backup: result})
}

// RestoreBackup restores a backup and reloads the session.
// POST /api/v1/backups/{id}/restore
func (h *Handler) RestoreBackup(w http.ResponseWriter, r *http.Request) {
	state, err := h.ctrl.RestoreBackup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSONData(w, state)
}

// DeleteBackup deletes a backup.
// DELETE /api/v1/backups/{id}
func (h *Handler) DeleteBackup(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.DeleteBackup(r.Context(), chi.URLParam(r, "id")); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
