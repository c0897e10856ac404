package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rbac-console/admin-console/src/internal/config"
	"github.com/rbac-console/admin-console/src/internal/log"
)

// InitCommand writes a default configuration file.
type InitCommand struct {
	fs    *flag.FlagSet
	ctx   *AppContext
	force bool
}

func CreateInitCommand() *InitCommand {
	return &InitCommand{fs: flag.NewFlagSet("init", flag.ContinueOnError)}
}

func (c *InitCommand) Name() string {
	return c.fs.Name()
}

func (c *InitCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	c.fs.BoolVar(&c.force, "force", false, "Overwrite an existing configuration file")
	return c.fs.Parse(args)
}

func (c *InitCommand) Run() error {
	path := c.ctx.ConfigPath
	if _, err := os.Stat(path); err == nil && !c.force {
		return fmt.Errorf("configuration file already exists: %s (use -force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	buf, err := config.DefaultConfig().SerializeConfig()
	if err != nil {
		return fmt.Errorf("failed to serialize configuration: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create configuration directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}

	log.Infof("Configuration written to %s", path)
	return nil
}
