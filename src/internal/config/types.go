package config

import (
	"path/filepath"
	"time"

	"github.com/rbac-console/admin-console/src/internal/utils"
)

type Config struct {
	// API configures the remote admin API.
	API *APIConfig `toml:"api" json:"api"`
	// Console configures the local console server.
	Console *ConsoleConfig `toml:"console" json:"console"`
	// Auth configures where the bearer token is kept.
	Auth *AuthConfig `toml:"auth" json:"auth"`

	_absConfigFilePath string
}

type APIConfig struct {
	// BaseURL is the remote admin API root (default: http://localhost:8000).
	BaseURL string `toml:"base_url" json:"base_url" validate:"required,http_url"`
	// TimeoutSeconds bounds every remote request (default: 10).
	TimeoutSeconds int `toml:"timeout_seconds" json:"timeout_seconds" validate:"min=1,max=300"`
}

type ConsoleConfig struct {
	// ListenAddr is the console server address (default: 127.0.0.1:4000).
	ListenAddr string `toml:"listen_addr" json:"listen_addr" validate:"required,listen_addr"`
	// UIDir serves the console UI from this directory instead of the embedded copy.
	UIDir string `toml:"ui_dir" json:"ui_dir,omitempty"`
	// NotificationsLimit is how many notifications the console keeps (default: 20).
	NotificationsLimit int `toml:"notifications_limit" json:"notifications_limit" validate:"min=1,max=1000"`
}

type AuthConfig struct {
	// CredentialsFile stores the bearer token (default: credentials.toml next to the config file).
	CredentialsFile string `toml:"credentials_file" json:"credentials_file" validate:"required"`
}

const (
	DefaultBaseURL            = "http://localhost:8000"
	DefaultTimeoutSeconds     = 10
	DefaultListenAddr         = "127.0.0.1:4000"
	DefaultNotificationsLimit = 20
	DefaultCredentialsFile    = "credentials.toml"
)

// DefaultConfig returns a configuration with every default applied.
// Relative paths resolve against the current directory.
func DefaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.API == nil {
		c.API = &APIConfig{}
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = DefaultTimeoutSeconds
	}

	if c.Console == nil {
		c.Console = &ConsoleConfig{}
	}
	if c.Console.ListenAddr == "" {
		c.Console.ListenAddr = DefaultListenAddr
	}
	if c.Console.NotificationsLimit == 0 {
		c.Console.NotificationsLimit = DefaultNotificationsLimit
	}

	if c.Auth == nil {
		c.Auth = &AuthConfig{}
	}
	if c.Auth.CredentialsFile == "" {
		c.Auth.CredentialsFile = DefaultCredentialsFile
	}
}

// GetConfigDir returns the directory of the loaded config file, or the
// current directory for a default configuration.
func (c *Config) GetConfigDir() string {
	if c._absConfigFilePath == "" {
		dir, err := filepath.Abs(".")
		if err != nil {
			return "."
		}
		return dir
	}
	return filepath.Dir(c._absConfigFilePath)
}

// GetAbsCredentialsFile returns the credentials file path resolved against
// the config directory.
func (c *Config) GetAbsCredentialsFile() string {
	return utils.GetAbsolutePath(c.Auth.CredentialsFile, c.GetConfigDir())
}

// GetAbsUIDir returns the UI directory resolved against the config
// directory, or "" when the embedded UI is used.
func (c *Config) GetAbsUIDir() string {
	if c.Console.UIDir == "" {
		return ""
	}
	return utils.GetAbsolutePath(c.Console.UIDir, c.GetConfigDir())
}

// Timeout returns the remote request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}
