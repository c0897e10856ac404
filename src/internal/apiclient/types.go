package apiclient

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	settingsEndpoint = "/api/settings"
	backupEndpoint   = "/api/settings/backup"
	backupsEndpoint  = "/api/settings/backups"
	tokenEndpoint    = "/api/token"

	headerRequestID = "X-Request-ID"
)

// TokenSource supplies the bearer token attached to every request.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token() (string, error) {
	return string(t), nil
}

// Backup describes one stored settings backup.
type Backup struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
}

// backupRecord is a Backup as listed by the API.
type backupRecord struct {
	ID        string    `json:"id"`
	CreatedAt timestamp `json:"created_at"`
	Size      int64     `json:"size"`
}

// timestampLayouts are tried in order. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// timestamp accepts RFC 3339 and the naive ISO forms Python backends emit.
type timestamp time.Time

func (t *timestamp) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || *raw == "" {
		*t = timestamp{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, *raw, time.UTC); err == nil {
			*t = timestamp(parsed)
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", *raw)
}

// BackupResult is the response of a backup creation.
type BackupResult struct {
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

// TokenResponse is the response of a credentials exchange.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
