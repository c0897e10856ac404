package api

import (
	"github.com/rbac-console/admin-console/src/internal/apiclient"
	"github.com/rbac-console/admin-console/src/internal/console"
	"github.com/rbac-console/admin-console/src/internal/forms"
)

// DataResponse wraps successful API responses.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// FieldsResponse returns the bound form fields.
type FieldsResponse struct {
	Fields []forms.BoundField `json:"fields"`
}

// EditRequest is the body of PATCH /api/v1/settings/fields.
type EditRequest struct {
	Edits []console.FieldEdit `json:"edits"`
}

// BackupsResponse returns the backup list, newest first.
type BackupsResponse struct {
	Backups []console.BackupView `json:"backups"`
}

// BackupCreatedResponse returns the result of POST /api/v1/backups.
type BackupCreatedResponse struct {
	Backup apiclient.BackupResult `json:"backup"`
}

// NotificationsResponse returns recent notifications, oldest first.
type NotificationsResponse struct {
	Notifications []console.Notification `json:"notifications"`
}

// FormsResponse returns the form catalog.
type FormsResponse struct {
	Sections []forms.Section `json:"sections"`
}

// HealthResponse returns server liveness and whether settings are loaded.
type HealthResponse struct {
	Status string `json:"status"`
	Loaded bool   `json:"loaded"`
}
