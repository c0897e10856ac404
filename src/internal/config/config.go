package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/rbac-console/admin-console/src/internal/errors"
	"github.com/rbac-console/admin-console/src/internal/log"
)

// APIURLEnv overrides api.base_url when set.
const APIURLEnv = "ADMIN_CONSOLE_API_URL"

func LoadConfig(configPath string) (*Config, error) {
	configFile := filepath.Clean(configPath)

	if !filepath.IsAbs(configFile) {
		if path, err := filepath.Abs(configFile); err != nil {
			return nil, errors.NewConfigError("failed to get absolute path", err)
		} else {
			configFile = path
		}
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, errors.NewConfigError(fmt.Sprintf("configuration file not found: %s", configFile), err)
	}

	content, err := os.ReadFile(configFile)
	if err != nil {
		return nil, errors.NewConfigError("failed to read config file", err)
	}

	config, err := ParseConfig(content)
	if err != nil {
		return nil, err
	}
	config._absConfigFilePath = configFile

	log.Debugf("Configuration file path: %s", configFile)
	log.Debugf("Credentials file: %s", config.GetAbsCredentialsFile())

	return config, nil
}

// ParseConfig decodes TOML content and fills in defaults. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func ParseConfig(content []byte) (*Config, error) {
	var config Config
	dec := toml.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		var derr *toml.DecodeError
		if stderrors.As(err, &derr) {
			log.Errorf(derr.String())
			row, col := derr.Position()
			log.Errorf("Error at line %d, column %d", row, col)
			return nil, errors.NewConfigError("failed to parse config file", err)
		}
		var serr *toml.StrictMissingError
		if stderrors.As(err, &serr) {
			log.Errorf(serr.String())
			return nil, errors.NewConfigError("unknown keys in config file", err)
		}
		return nil, errors.NewConfigError("failed to parse config file", err)
	}
	config.applyDefaults()
	return &config, nil
}

// ApplyEnv applies environment overrides using getenv (os.Getenv in
// production).
func (c *Config) ApplyEnv(getenv func(string) string) {
	if url := strings.TrimSpace(getenv(APIURLEnv)); url != "" {
		log.Debugf("Using API base URL from %s", APIURLEnv)
		c.API.BaseURL = url
	}
}

func (c *Config) SerializeConfig() (*bytes.Buffer, error) {
	buf := bytes.Buffer{}
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return &buf, nil
}
