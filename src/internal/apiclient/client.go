package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rbac-console/admin-console/src/internal/errors"
	"github.com/rbac-console/admin-console/src/internal/log"
	"github.com/rbac-console/admin-console/src/internal/settings"
)

// backupsTTL bounds how long a backup listing is served from cache.
const backupsTTL = 30 * time.Second

// maxErrorBody caps how much of an error response is read for its detail.
const maxErrorBody = 4096

// Client is the client for the remote admin Settings API.
type Client struct {
	httpClient HTTPClient
	baseURL    string
	tokens     TokenSource
	cache      *Cache
}

// NewClient creates a new Settings API client for baseURL
// (e.g. "http://localhost:8000").
//
// tokens supplies the bearer token; if nil, requests are sent without an
// Authorization header. If httpClient is nil, a client with DefaultTimeout
// is used.
func NewClient(baseURL string, tokens TokenSource, httpClient HTTPClient) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(DefaultTimeout)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		cache:      NewCache(backupsTTL),
	}
}

// BaseURL returns the API base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// newRequest builds a request with the request ID and, when authenticated
// is set, the bearer token.
func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader, authenticated bool) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, errors.NewNetworkError(fmt.Sprintf("failed to build request for %s", endpoint), err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, uuid.NewString())

	if authenticated && c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// send executes the request and returns the response body of a 2xx reply.
func (c *Client) send(req *http.Request) ([]byte, error) {
	body, err := c.open(req)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, errors.NewNetworkError("failed to read response body", err)
	}
	return data, nil
}

// open executes the request and hands over the body of a 2xx reply.
// The caller must close it.
func (c *Client) open(req *http.Request) (io.ReadCloser, error) {
	endpoint := req.URL.Path
	started := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewNetworkError(fmt.Sprintf("failed to %s %s", req.Method, endpoint), err)
	}

	log.Debugf("%s %s -> %d (%v) [%s]", req.Method, endpoint, resp.StatusCode,
		time.Since(started), req.Header.Get(headerRequestID))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		detail := readDetail(resp.Body)
		msg := fmt.Sprintf("unexpected status code %d for %s %s", resp.StatusCode, req.Method, endpoint)
		if detail != "" {
			msg += ": " + detail
		}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, errors.NewAuthError(msg, nil)
		}
		return nil, errors.NewNetworkError(msg, nil)
	}
	return resp.Body, nil
}

// readDetail extracts the "detail" message of an error response, or the
// trimmed body text when it is not JSON.
func readDetail(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(body) == 0 {
		return ""
	}
	var payload struct {
		Detail any `json:"detail"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Detail != nil {
		if s, ok := payload.Detail.(string); ok {
			return s
		}
		if b, err := json.Marshal(payload.Detail); err == nil {
			return string(b)
		}
	}
	return strings.TrimSpace(string(body))
}

// doAndDeserialize is a generic helper that sends an authenticated request
// with an optional JSON payload and decodes the JSON response into T.
func doAndDeserialize[T any](ctx context.Context, c *Client, method, endpoint string, payload any) (T, error) {
	var result T

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return result, errors.NewInternalError("failed to marshal request", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, endpoint, body, true)
	if err != nil {
		return result, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	respBody, err := c.send(req)
	if err != nil {
		return result, err
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return result, nil
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return result, errors.NewNetworkError(fmt.Sprintf("failed to unmarshal response of %s", endpoint), err)
	}
	return result, nil
}

// FetchSettings retrieves the full settings document.
func (c *Client) FetchSettings(ctx context.Context) (settings.Tree, error) {
	req, err := c.newRequest(ctx, http.MethodGet, settingsEndpoint, nil, true)
	if err != nil {
		return nil, err
	}
	body, err := c.send(req)
	if err != nil {
		return nil, err
	}
	tree, err := settings.ParseTree(body)
	if err != nil {
		return nil, errors.NewNetworkError("failed to decode settings document", err)
	}
	return tree, nil
}

// ReplaceSettings overwrites the full settings document with tree.
// The response body is ignored.
func (c *Client) ReplaceSettings(ctx context.Context, tree settings.Tree) error {
	_, err := doAndDeserialize[json.RawMessage](ctx, c, http.MethodPut, settingsEndpoint, tree)
	return err
}

// CreateBackup asks the server to snapshot the current settings.
func (c *Client) CreateBackup(ctx context.Context) (BackupResult, error) {
	result, err := doAndDeserialize[BackupResult](ctx, c, http.MethodPost, backupEndpoint, nil)
	if err != nil {
		return BackupResult{}, err
	}
	c.cache.Clear()
	return result, nil
}

// ListBackups returns the stored backups. The listing is cached briefly
// and invalidated by any backup mutation made through this client.
func (c *Client) ListBackups(ctx context.Context) ([]Backup, error) {
	if backups, found := c.cache.GetBackups(); found {
		return backups, nil
	}

	listed, err := doAndDeserialize[[]backupRecord](ctx, c, http.MethodGet, backupsEndpoint, nil)
	if err != nil {
		return nil, err
	}
	backups := make([]Backup, len(listed))
	for i, b := range listed {
		backups[i] = Backup{ID: b.ID, CreatedAt: time.Time(b.CreatedAt), Size: b.Size}
	}
	c.cache.SetBackups(backups)
	return backups, nil
}

// RestoreBackup replaces the current settings with the given backup.
func (c *Client) RestoreBackup(ctx context.Context, id string) error {
	endpoint, err := backupPath(id, "/restore")
	if err != nil {
		return err
	}
	_, err = doAndDeserialize[json.RawMessage](ctx, c, http.MethodPost, endpoint, nil)
	if err != nil {
		return err
	}
	c.cache.Clear()
	return nil
}

// DownloadBackup streams the raw content of the given backup. The caller
// must close the returned reader.
func (c *Client) DownloadBackup(ctx context.Context, id string) (io.ReadCloser, error) {
	endpoint, err := backupPath(id, "/download")
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil, true)
	if err != nil {
		return nil, err
	}
	return c.open(req)
}

// DeleteBackup removes the given backup.
func (c *Client) DeleteBackup(ctx context.Context, id string) error {
	endpoint, err := backupPath(id, "")
	if err != nil {
		return err
	}
	_, err = doAndDeserialize[json.RawMessage](ctx, c, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	c.cache.Clear()
	return nil
}

// Login exchanges a username and password for an access token.
func (c *Client) Login(ctx context.Context, username, password string) (TokenResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := c.newRequest(ctx, http.MethodPost, tokenEndpoint, strings.NewReader(form.Encode()), false)
	if err != nil {
		return TokenResponse{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.send(req)
	if err != nil {
		return TokenResponse{}, err
	}

	var token TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return TokenResponse{}, errors.NewNetworkError("failed to unmarshal token response", err)
	}
	if token.AccessToken == "" {
		return TokenResponse{}, errors.NewAuthError("server returned an empty access token", nil)
	}
	return token, nil
}

func backupPath(id, suffix string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", errors.NewValidationError("backup id is required", nil)
	}
	return backupsEndpoint + "/" + url.PathEscape(id) + suffix, nil
}
