package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rbac-console/admin-console/src/internal/apiclient"
	"github.com/rbac-console/admin-console/src/internal/config"
	"github.com/rbac-console/admin-console/src/internal/credentials"
)

type Runner interface {
	Init(args []string, globalArgs *AppContext) error
	Run() error
	Name() string
}

type AppContext struct {
	ConfigPath string
	Verbose    bool

	Stdout io.Writer
	Stdin  io.Reader
	Getenv func(string) string
}

// NewAppContext returns a context bound to the process streams.
func NewAppContext(configPath string) *AppContext {
	return &AppContext{
		ConfigPath: configPath,
		Stdout:     os.Stdout,
		Stdin:      os.Stdin,
		Getenv:     os.Getenv,
	}
}

// loadAndValidateConfigOrFail loads the configuration, applies environment
// overrides and validates the result.
func loadAndValidateConfigOrFail(ctx *AppContext) (*config.Config, error) {
	cfg, err := config.LoadConfig(ctx.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if ctx.Getenv != nil {
		cfg.ApplyEnv(ctx.Getenv)
	}

	if err := cfg.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// remote bundles what a command needs to talk to the settings API.
type remote struct {
	cfg    *config.Config
	store  *credentials.Store
	client *apiclient.Client
}

func newRemote(ctx *AppContext) (*remote, error) {
	cfg, err := loadAndValidateConfigOrFail(ctx)
	if err != nil {
		return nil, err
	}
	store := credentials.NewStore(cfg.GetAbsCredentialsFile())
	if ctx.Getenv != nil {
		store.SetGetenv(ctx.Getenv)
	}
	client := apiclient.NewClient(cfg.API.BaseURL, store, apiclient.NewHTTPClient(cfg.Timeout()))
	return &remote{cfg: cfg, store: store, client: client}, nil
}

// requestContext bounds a single CLI operation by the configured timeout.
func (r *remote) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*r.cfg.Timeout())
}

// singleArg returns the only positional argument or an error naming what
// was expected.
func singleArg(args []string, what string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("expected exactly one argument: %s", what)
	}
	return args[0], nil
}
