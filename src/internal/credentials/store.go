package credentials

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pelletier/go-toml/v2"

	"github.com/rbac-console/admin-console/src/internal/errors"
	"github.com/rbac-console/admin-console/src/internal/log"
)

// TokenEnv overrides the stored token when set.
const TokenEnv = "ADMIN_CONSOLE_TOKEN"

// Credentials is the content of the credentials file.
type Credentials struct {
	Token    string `toml:"token"`
	Username string `toml:"username,omitempty"`
}

// TokenInfo is what can be read from a JWT bearer token without its key.
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry that has passed at now.
func (t TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

// Store reads and writes the credentials file.
type Store struct {
	mu     sync.Mutex
	path   string
	getenv func(string) string
	now    func() time.Time
}

// NewStore creates a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{
		path:   filepath.Clean(path),
		getenv: os.Getenv,
		now:    time.Now,
	}
}

// SetGetenv replaces the environment lookup used for TokenEnv.
func (s *Store) SetGetenv(getenv func(string) string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getenv = getenv
}

// Path returns the credentials file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the credentials file. A missing file yields empty credentials.
func (s *Store) Load() (Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (Credentials, error) {
	var creds Credentials

	content, err := os.ReadFile(s.path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return creds, nil
		}
		return creds, errors.NewConfigError("failed to read credentials file", err)
	}

	if err := toml.Unmarshal(content, &creds); err != nil {
		var derr *toml.DecodeError
		if stderrors.As(err, &derr) {
			row, col := derr.Position()
			log.Errorf("Credentials file error at line %d, column %d", row, col)
		}
		return creds, errors.NewConfigError("failed to parse credentials file", err)
	}
	return creds, nil
}

// Save writes creds to the credentials file with owner-only permissions.
func (s *Store) Save(creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return errors.NewConfigError("failed to create credentials directory", err)
	}

	buf := bytes.Buffer{}
	if err := toml.NewEncoder(&buf).Encode(creds); err != nil {
		return errors.NewInternalError("failed to encode credentials", err)
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0600); err != nil {
		return errors.NewConfigError("failed to write credentials file", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(s.path, 0600); err != nil {
		return errors.NewConfigError("failed to restrict credentials file", err)
	}
	log.Debugf("Credentials saved to %s", s.path)
	return nil
}

// Clear removes the credentials file. Removing a missing file is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !stderrors.Is(err, os.ErrNotExist) {
		return errors.NewConfigError("failed to remove credentials file", err)
	}
	return nil
}

// Token returns the bearer token to send. It prefers TokenEnv over the
// stored token and fails with AUTH_ERROR when there is no token or the
// token is a JWT that has already expired.
func (s *Store) Token() (string, error) {
	token := strings.TrimSpace(s.getenv(TokenEnv))
	if token == "" {
		creds, err := s.Load()
		if err != nil {
			return "", err
		}
		token = strings.TrimSpace(creds.Token)
	}
	if token == "" {
		return "", errors.NewAuthError("not logged in; run \"admin-console login\" first", nil)
	}

	if info, ok := Inspect(token); ok && info.Expired(s.now()) {
		return "", errors.NewAuthError("the stored token expired at "+info.ExpiresAt.Format(time.RFC3339), nil)
	}
	return token, nil
}

// Username returns the stored username, falling back to the token subject.
func (s *Store) Username() string {
	creds, err := s.Load()
	if err != nil {
		return ""
	}
	if creds.Username != "" {
		return creds.Username
	}
	if info, ok := Inspect(creds.Token); ok {
		return info.Subject
	}
	return ""
}

// Inspect parses token as a JWT without verifying its signature. It returns
// false for opaque tokens.
func Inspect(token string) (TokenInfo, bool) {
	if strings.Count(token, ".") != 2 {
		return TokenInfo{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, &jwt.RegisteredClaims{})
	if err != nil {
		return TokenInfo{}, false
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return TokenInfo{}, false
	}

	info := TokenInfo{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, true
}
