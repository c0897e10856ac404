package commands

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rbac-console/admin-console/src/internal/console"
	"github.com/rbac-console/admin-console/src/internal/hashing"
)

// BackupCommand asks the remote API to create a backup.
type BackupCommand struct {
	fs     *flag.FlagSet
	ctx    *AppContext
	remote *remote
}

func CreateBackupCommand() *BackupCommand {
	return &BackupCommand{fs: flag.NewFlagSet("backup", flag.ContinueOnError)}
}

func (c *BackupCommand) Name() string {
	return c.fs.Name()
}

func (c *BackupCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	if err := c.fs.Parse(args); err != nil {
		return err
	}
	r, err := newRemote(ctx)
	if err != nil {
		return err
	}
	c.remote = r
	return nil
}

func (c *BackupCommand) Run() error {
	ctx, cancel := c.remote.requestContext()
	defer cancel()

	result, err := c.remote.client.CreateBackup(ctx)
	if err != nil {
		return err
	}
	switch {
	case result.ID != "":
		fmt.Fprintf(c.ctx.Stdout, "Backup created: %s\n", result.ID)
	case result.Message != "":
		fmt.Fprintln(c.ctx.Stdout, result.Message)
	default:
		fmt.Fprintln(c.ctx.Stdout, "Backup created successfully!")
	}
	return nil
}

// BackupsCommand lists backups, newest first.
type BackupsCommand struct {
	fs     *flag.FlagSet
	ctx    *AppContext
	remote *remote
}

func CreateBackupsCommand() *BackupsCommand {
	return &BackupsCommand{fs: flag.NewFlagSet("backups", flag.ContinueOnError)}
}

func (c *BackupsCommand) Name() string {
	return c.fs.Name()
}

func (c *BackupsCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	if err := c.fs.Parse(args); err != nil {
		return err
	}
	r, err := newRemote(ctx)
	if err != nil {
		return err
	}
	c.remote = r
	return nil
}

func (c *BackupsCommand) Run() error {
	ctx, cancel := c.remote.requestContext()
	defer cancel()

	backups, err := c.remote.client.ListBackups(ctx)
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Fprintln(c.ctx.Stdout, "No backups")
		return nil
	}

	tw := tabwriter.NewWriter(c.ctx.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSIZE")
	for _, b := range console.BackupViews(backups, time.Now()) {
		fmt.Fprintf(tw, "%s\t%s (%s)\t%s\n", b.ID, b.CreatedAt.Local().Format(time.DateTime), b.CreatedHuman, b.SizeHuman)
	}
	return tw.Flush()
}

// RestoreCommand restores a backup by id.
type RestoreCommand struct {
	fs     *flag.FlagSet
	ctx    *AppContext
	remote *remote
	id     string
}

func CreateRestoreCommand() *RestoreCommand {
	return &RestoreCommand{fs: flag.NewFlagSet("restore", flag.ContinueOnError)}
}

func (c *RestoreCommand) Name() string {
	return c.fs.Name()
}

func (c *RestoreCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	if err := c.fs.Parse(args); err != nil {
		return err
	}
	id, err := singleArg(c.fs.Args(), "backup id")
	if err != nil {
		return err
	}
	c.id = id

	r, err := newRemote(ctx)
	if err != nil {
		return err
	}
	c.remote = r
	return nil
}

func (c *RestoreCommand) Run() error {
	ctx, cancel := c.remote.requestContext()
	defer cancel()

	if err := c.remote.client.RestoreBackup(ctx, c.id); err != nil {
		return err
	}
	fmt.Fprintf(c.ctx.Stdout, "Backup %s restored\n", c.id)
	return nil
}

// DownloadCommand saves a backup archive to a file or stdout.
type DownloadCommand struct {
	fs     *flag.FlagSet
	ctx    *AppContext
	remote *remote
	id     string
	output string
}

func CreateDownloadCommand() *DownloadCommand {
	return &DownloadCommand{fs: flag.NewFlagSet("download", flag.ContinueOnError)}
}

func (c *DownloadCommand) Name() string {
	return c.fs.Name()
}

func (c *DownloadCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	c.fs.StringVar(&c.output, "o", "", "Write the backup to this file instead of stdout")
	if err := c.fs.Parse(args); err != nil {
		return err
	}
	id, err := singleArg(c.fs.Args(), "backup id")
	if err != nil {
		return err
	}
	c.id = id

	r, err := newRemote(ctx)
	if err != nil {
		return err
	}
	c.remote = r
	return nil
}

func (c *DownloadCommand) Run() error {
	ctx, cancel := c.remote.requestContext()
	defer cancel()

	body, err := c.remote.client.DownloadBackup(ctx, c.id)
	if err != nil {
		return err
	}
	defer body.Close()

	if c.output == "" {
		if _, err := io.Copy(c.ctx.Stdout, body); err != nil {
			return fmt.Errorf("failed to read backup: %w", err)
		}
		return nil
	}

	f, err := os.OpenFile(c.output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", c.output, err)
	}
	src := hashing.NewMD5Reader(body)
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		return fmt.Errorf("failed to write backup: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}

	fmt.Fprintf(c.ctx.Stdout, "Saved %s to %s (md5 %s)\n",
		humanize.IBytes(uint64(src.BytesRead())), c.output, src.Checksum())
	return nil
}

// DeleteBackupCommand deletes a backup by id.
type DeleteBackupCommand struct {
	fs     *flag.FlagSet
	ctx    *AppContext
	remote *remote
	id     string
}

func CreateDeleteBackupCommand() *DeleteBackupCommand {
	return &DeleteBackupCommand{fs: flag.NewFlagSet("delete-backup", flag.ContinueOnError)}
}

func (c *DeleteBackupCommand) Name() string {
	return c.fs.Name()
}

func (c *DeleteBackupCommand) Init(args []string, ctx *AppContext) error {
	c.ctx = ctx
	if err := c.fs.Parse(args); err != nil {
		return err
	}
	id, err := singleArg(c.fs.Args(), "backup id")
	if err != nil {
		return err
	}
	c.id = id

	r, err := newRemote(ctx)
	if err != nil {
		return err
	}
	c.remote = r
	return nil
}

func (c *DeleteBackupCommand) Run() error {
	ctx, cancel := c.remote.requestContext()
	defer cancel()

	if err := c.remote.client.DeleteBackup(ctx, c.id); err != nil {
		return err
	}
	fmt.Fprintf(c.ctx.Stdout, "Backup %s deleted\n", c.id)
	return nil
}
