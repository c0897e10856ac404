// Package apiclient provides a client for the remote admin Settings API.
//
// The client loads and replaces the full settings document and manages
// settings backups. Every request carries the bearer token supplied by a
// TokenSource and a fresh X-Request-ID header. All methods are safe for
// concurrent use.
//
// # Endpoints
//
//   - GET    /api/settings                       load the document
//   - PUT    /api/settings                       replace the document
//   - POST   /api/settings/backup                create a backup
//   - GET    /api/settings/backups               list backups
//   - POST   /api/settings/backups/{id}/restore  restore a backup
//   - GET    /api/settings/backups/{id}/download download a backup
//   - DELETE /api/settings/backups/{id}          delete a backup
//   - POST   /api/token                          exchange credentials for a token
//
// # Example Usage
//
//	client := apiclient.NewClient("http://localhost:8000", store, nil)
//	tree, err := client.FetchSettings(ctx)
//	if err != nil {
//	    log.Fatalf("%v", err)
//	}
//
// Client implements settings.Source, so it can back a settings.Reconciler
// directly.
//
// Failed requests and non-success statuses are reported as NETWORK_ERROR;
// 401 and 403 responses are reported as AUTH_ERROR.
package apiclient
