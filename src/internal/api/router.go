package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rbac-console/admin-console/src/internal/console"
)

// NewRouter creates the console HTTP router. ui serves the settings page;
// nil disables static files.
func NewRouter(ctrl *console.Controller, ui http.FileSystem) http.Handler {
	r := chi.NewRouter()

	r.Use(Recovery)
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(PrivateNetworkOnly)
	r.Use(SameOrigin)
	r.Use(JSONContentType)

	h := NewHandler(ctrl)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/settings", h.GetState)
		r.Post("/settings/load", h.LoadSettings)
		r.Get("/settings/fields", h.GetFields)
		r.Patch("/settings/fields", h.EditFields)
		r.Post("/settings/save", h.SaveSettings)
		r.Post("/settings/reset", h.ResetSettings)

		r.Get("/backups", h.ListBackups)
		r.Post("/backups", h.CreateBackup)
		r.Post("/backups/{id}/restore", h.RestoreBackup)
		r.Delete("/backups/{id}", h.DeleteBackup)

		r.Get("/notifications", h.GetNotifications)
		r.Get("/forms", h.GetForms)

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			WriteNotFound(w, "endpoint "+r.Method+" "+r.URL.Path)
		})
	})

	r.Get("/theme.css", h.GetTheme)
	r.Get("/health", h.CheckHealth)
	r.Handle("/metrics", promhttp.Handler())

	registerPprof(r)

	if ui != nil {
		r.Handle("/*", http.FileServer(ui))
	}

	return r
}
