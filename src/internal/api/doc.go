// Package api provides the HTTP server of the admin console.
//
// The server exposes the console controller as a small JSON API, serves
// the settings page and its theme stylesheet, and publishes Prometheus
// metrics.
//
// # Endpoints
//
//	GET    /api/v1/settings               session state
//	POST   /api/v1/settings/load          (re)load settings from the remote API
//	GET    /api/v1/settings/fields        form fields for a render pass
//	PATCH  /api/v1/settings/fields        record raw edits
//	POST   /api/v1/settings/save          gather, validate and save
//	POST   /api/v1/settings/reset         drop unsaved edits
//	GET    /api/v1/backups                list backups
//	POST   /api/v1/backups                create a backup
//	POST   /api/v1/backups/{id}/restore   restore a backup
//	DELETE /api/v1/backups/{id}           delete a backup
//	GET    /api/v1/notifications          recent notifications
//	GET    /api/v1/forms                  form catalog
//	GET    /theme.css                     stylesheet for the saved appearance
//	GET    /health                        liveness
//	GET    /metrics                       Prometheus metrics
//
// # Response Format
//
// All successful responses wrap data in a "data" field:
//
//	{
//	  "data": { /* response payload */ }
//	}
//
// Error responses use the following format:
//
//	{
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "Human-readable error message",
//	    "details": { /* optional context */ }
//	  }
//	}
package api
