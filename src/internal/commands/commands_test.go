package commands

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rbac-console/admin-console/src/internal/config"
	"github.com/rbac-console/admin-console/src/internal/credentials"
)

// fakeAPI is an in-memory settings API.
type fakeAPI struct {
	mu      sync.Mutex
	doc     map[string]any
	puts    int
	token   string
	deleted []string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Path == "/api/token" {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("password") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"detail":"Incorrect username or password"}`)
			return
		}
		_, _ = io.WriteString(w, `{"access_token":"issued-token","token_type":"bearer"}`)
		return
	}

	if r.Header.Get("Authorization") != "Bearer "+f.token {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Not authenticated"}`)
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/settings":
		_ = json.NewEncoder(w).Encode(f.doc)
	case r.Method == http.MethodPut && r.URL.Path == "/api/settings":
		var doc map[string]any
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.doc = doc
		f.puts++
		_, _ = io.WriteString(w, `{"message":"ok"}`)
	case r.Method == http.MethodPost && r.URL.Path == "/api/settings/backup":
		_, _ = io.WriteString(w, `{"id":"b-1","message":"Backup created"}`)
	case r.Method == http.MethodGet && r.URL.Path == "/api/settings/backups":
		_, _ = fmt.Fprintf(w, `[{"id":"b-1","created_at":%q,"size":3072}]`, time.Now().Add(-time.Hour).Format(time.RFC3339))
	case r.Method == http.MethodGet && r.URL.Path == "/api/settings/backups/b-1/download":
		_, _ = io.WriteString(w, `{"site":{"name":"Backup"}}`)
	case r.Method == http.MethodPost && r.URL.Path == "/api/settings/backups/b-1/restore":
		_, _ = io.WriteString(w, `{}`)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/settings/backups/"):
		f.deleted = append(f.deleted, strings.TrimPrefix(r.URL.Path, "/api/settings/backups/"))
		_, _ = io.WriteString(w, `{}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Not Found"}`)
	}
}

type harness struct {
	api    *fakeAPI
	ctx    *AppContext
	out    *bytes.Buffer
	dir    string
	server *httptest.Server
}

func newHarness(t *testing.T, doc map[string]any) *harness {
	t.Helper()
	color.NoColor = true

	api := &fakeAPI{doc: doc, token: "test-token"}
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	cfg := fmt.Sprintf("[api]\nbase_url = %q\n", server.URL)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	out := &bytes.Buffer{}
	env := map[string]string{credentials.TokenEnv: "test-token"}
	ctx := &AppContext{
		ConfigPath: cfgPath,
		Stdout:     out,
		Stdin:      strings.NewReader(""),
		Getenv:     func(k string) string { return env[k] },
	}
	return &harness{api: api, ctx: ctx, out: out, dir: dir, server: server}
}

func (h *harness) run(t *testing.T, cmd Runner, args ...string) error {
	t.Helper()
	h.out.Reset()
	if err := cmd.Init(args, h.ctx); err != nil {
		return err
	}
	return cmd.Run()
}

func TestGet_Formats(t *testing.T) {
	h := newHarness(t, map[string]any{"site": map[string]any{"name": "Admin"}, "security": map[string]any{"password": map[string]any{"min_length": 8}}})

	require.NoError(t, h.run(t, CreateGetCommand()))
	var doc map[string]any
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &doc))
	assert.Equal(t, "Admin", doc["site"].(map[string]any)["name"])

	require.NoError(t, h.run(t, CreateGetCommand(), "-format", "yaml"))
	var y map[string]any
	require.NoError(t, yaml.Unmarshal(h.out.Bytes(), &y))
	assert.Equal(t, 8, y["security"].(map[string]any)["password"].(map[string]any)["min_length"])

	require.NoError(t, h.run(t, CreateGetCommand(), "-format", "toml"))
	assert.Contains(t, h.out.String(), "[site]")
	assert.Contains(t, h.out.String(), "name = 'Admin'")

	require.NoError(t, h.run(t, CreateGetCommand(), "site.name"))
	assert.Equal(t, "\"Admin\"\n", h.out.String())

	assert.Error(t, h.run(t, CreateGetCommand(), "-format", "xml"))
	assert.Error(t, h.run(t, CreateGetCommand(), "site.missing"))
}

func TestSet_SavesAndPrintsDiff(t *testing.T) {
	h := newHarness(t, map[string]any{"security": map[string]any{"password": map[string]any{"min_length": 8}}})

	require.NoError(t, h.run(t, CreateSetCommand(), "security.password.min_length=12", "maintenance.enabled=true"))
	assert.Contains(t, h.out.String(), "~ security.password.min_length: 8 -> 12")
	assert.Contains(t, h.out.String(), "Settings saved successfully!")

	assert.Equal(t, 1, h.api.puts)
	sec := h.api.doc["security"].(map[string]any)["password"].(map[string]any)
	assert.Equal(t, float64(12), sec["min_length"])
	assert.Equal(t, true, h.api.doc["maintenance"].(map[string]any)["enabled"])
}

func TestSet_DryRunDoesNotSave(t *testing.T) {
	h := newHarness(t, map[string]any{})

	require.NoError(t, h.run(t, CreateSetCommand(), "-dry-run", "site.name=Console"))
	assert.Contains(t, h.out.String(), "site.name")
	assert.Equal(t, 0, h.api.puts)
}

func TestSet_RejectsBadInput(t *testing.T) {
	h := newHarness(t, map[string]any{})

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing equals", args: []string{"site.name"}},
		{name: "unknown path", args: []string{"no.such=1"}},
		{name: "bad boolean", args: []string{"maintenance.enabled=maybe"}},
		{name: "blank number", args: []string{"security.password.min_length="}},
		{name: "catalog rule", args: []string{"appearance.theme.primary_color=blue"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, h.run(t, CreateSetCommand(), tt.args...))
		})
	}
	assert.Equal(t, 0, h.api.puts)
}

func TestLoginAndLogout(t *testing.T) {
	h := newHarness(t, map[string]any{})
	h.ctx.Getenv = func(string) string { return "" }

	h.ctx.Stdin = strings.NewReader("wrong\n")
	assert.Error(t, h.run(t, CreateLoginCommand(), "-username", "admin"))

	h.ctx.Stdin = strings.NewReader("secret\n")
	require.NoError(t, h.run(t, CreateLoginCommand(), "-username", "admin"))
	assert.Contains(t, h.out.String(), "Logged in as admin")

	store := credentials.NewStore(filepath.Join(h.dir, config.DefaultCredentialsFile))
	store.SetGetenv(func(string) string { return "" })
	creds, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "issued-token", creds.Token)
	assert.Equal(t, "admin", creds.Username)

	require.NoError(t, h.run(t, CreateLogoutCommand()))
	assert.Contains(t, h.out.String(), "Logged out admin")
	creds, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, creds.Token)

	assert.Error(t, h.run(t, CreateLoginCommand()), "-username is required")
}

func TestGet_WithoutTokenFails(t *testing.T) {
	h := newHarness(t, map[string]any{})
	h.ctx.Getenv = func(string) string { return "" }

	err := h.run(t, CreateGetCommand())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login")
}

func TestFields(t *testing.T) {
	h := newHarness(t, map[string]any{
		"site":  map[string]any{"name": "Admin"},
		"email": map[string]any{"smtp": map[string]any{"password": "hunter2"}},
		"extra": map[string]any{"flag": true},
	})

	require.NoError(t, h.run(t, CreateFieldsCommand(), "-section", "general"))
	assert.Contains(t, h.out.String(), "site.name")
	assert.Contains(t, h.out.String(), "Admin")
	assert.NotContains(t, h.out.String(), "email.smtp")

	require.NoError(t, h.run(t, CreateFieldsCommand(), "-all"))
	assert.Contains(t, h.out.String(), "extra.flag")
	assert.NotContains(t, h.out.String(), "hunter2")
}

func TestBackupCommands(t *testing.T) {
	h := newHarness(t, map[string]any{})

	require.NoError(t, h.run(t, CreateBackupCommand()))
	assert.Contains(t, h.out.String(), "b-1")

	require.NoError(t, h.run(t, CreateBackupsCommand()))
	assert.Contains(t, h.out.String(), "b-1")
	assert.Contains(t, h.out.String(), "3.0 KiB")

	require.NoError(t, h.run(t, CreateRestoreCommand(), "b-1"))
	assert.Contains(t, h.out.String(), "restored")

	target := filepath.Join(h.dir, "b-1.json")
	require.NoError(t, h.run(t, CreateDownloadCommand(), "-o", target, "b-1"))
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Backup")
	assert.Equal(t, `{"site":{"name":"Backup"}}`, string(data))
	assert.Contains(t, h.out.String(), "md5 3dedecd2ee867c5ecb68a33b83a6b1d2")

	require.NoError(t, h.run(t, CreateDownloadCommand(), "b-1"))
	assert.Contains(t, h.out.String(), `{"site":{"name":"Backup"}}`)

	require.NoError(t, h.run(t, CreateDeleteBackupCommand(), "b-1"))
	assert.Equal(t, []string{"b-1"}, h.api.deleted)

	assert.Error(t, h.run(t, CreateRestoreCommand()))
	assert.Error(t, h.run(t, CreateRestoreCommand(), "a", "b"))
}

func TestInit_WritesLoadableConfig(t *testing.T) {
	dir := t.TempDir()
	ctx := &AppContext{ConfigPath: filepath.Join(dir, "nested", "config.toml"), Stdout: io.Discard}

	cmd := CreateInitCommand()
	require.NoError(t, cmd.Init(nil, ctx))
	require.NoError(t, cmd.Run())

	cfg, err := config.LoadConfig(ctx.ConfigPath)
	require.NoError(t, err)
	require.NoError(t, cfg.ValidateConfig())
	assert.Equal(t, config.DefaultBaseURL, cfg.API.BaseURL)

	again := CreateInitCommand()
	require.NoError(t, again.Init(nil, ctx))
	assert.Error(t, again.Run(), "existing file is kept without -force")
}

func TestSupervisor_RestartsUntilSuccess(t *testing.T) {
	attempts := 0
	s := NewSupervisor(SupervisorConfig{Name: "test", Backoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond},
		func(ctx context.Context) error {
			attempts++
			switch attempts {
			case 1:
				return stderrors.New("boom")
			case 2:
				panic("kaboom")
			default:
				return nil
			}
		})

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 2, s.Restarts())
	assert.NoError(t, s.LastError())
}

func TestSupervisor_GivesUp(t *testing.T) {
	s := NewSupervisor(SupervisorConfig{Name: "test", MaxRestarts: 2, Backoff: time.Millisecond},
		func(ctx context.Context) error { return stderrors.New("always") })

	err := s.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, s.Restarts())
}

func TestSupervisor_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewSupervisor(SupervisorConfig{Name: "test"}, func(ctx context.Context) error {
		cancel()
		<-ctx.Done()
		return ctx.Err()
	})
	assert.NoError(t, s.Run(ctx))
}
