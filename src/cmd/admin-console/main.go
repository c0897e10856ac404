package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rbac-console/admin-console/src/internal/commands"
	"github.com/rbac-console/admin-console/src/internal/log"
)

var (
	version = "dev"
	commit  = "n/a"
	date    = "n/a"
)

func main() {
	ctx := commands.NewAppContext("")

	flag.StringVar(&ctx.ConfigPath, "config", defaultConfigPath(), "Path to configuration file")
	flag.BoolVar(&ctx.Verbose, "verbose", false, "Enable debug logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Admin Console settings manager\n")
		fmt.Fprintf(os.Stderr, "Version: %s (Commit: %s, Date: %s)\n\n", version, commit, date)
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  init                    Write a default configuration file\n")
		fmt.Fprintf(os.Stderr, "  serve                   Run the console server with the settings page\n")
		fmt.Fprintf(os.Stderr, "  login                   Log in and store the API token (password on stdin)\n")
		fmt.Fprintf(os.Stderr, "  logout                  Forget the stored API token\n")
		fmt.Fprintf(os.Stderr, "  get [path]              Print settings (-format json|yaml|toml)\n")
		fmt.Fprintf(os.Stderr, "  set path=value...       Change and save settings (-dry-run to preview)\n")
		fmt.Fprintf(os.Stderr, "  fields                  List form fields with their current values\n")
		fmt.Fprintf(os.Stderr, "  backup                  Create a backup\n")
		fmt.Fprintf(os.Stderr, "  backups                 List backups\n")
		fmt.Fprintf(os.Stderr, "  restore <id>            Restore a backup\n")
		fmt.Fprintf(os.Stderr, "  download <id>           Download a backup (-o file)\n")
		fmt.Fprintf(os.Stderr, "  delete-backup <id>      Delete a backup\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if ctx.Verbose {
		log.SetVerbose(true)
	}
	// stdout carries command output
	log.SetForceStdErr(true)

	cmds := []commands.Runner{
		commands.CreateInitCommand(),
		commands.CreateServeCommand(),
		commands.CreateLoginCommand(),
		commands.CreateLogoutCommand(),
		commands.CreateGetCommand(),
		commands.CreateSetCommand(),
		commands.CreateFieldsCommand(),
		commands.CreateBackupCommand(),
		commands.CreateBackupsCommand(),
		commands.CreateRestoreCommand(),
		commands.CreateDownloadCommand(),
		commands.CreateDeleteBackupCommand(),
	}

	args := flag.Args()

	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	subcommand := args[0]
	for _, cmd := range cmds {
		if cmd.Name() == subcommand {
			if err := cmd.Init(args[1:], ctx); err != nil {
				if errors.Is(err, flag.ErrHelp) {
					os.Exit(0)
				}
				log.Fatalf("Failed to initialize command: %v", err)
			}

			if err := cmd.Run(); err != nil {
				log.Fatalf("%v", err)
			}

			os.Exit(0)
		}
	}

	log.Fatalf("Unknown subcommand: %s", subcommand)
}

// defaultConfigPath prefers ADMIN_CONSOLE_CONFIG, then the user config
// directory.
func defaultConfigPath() string {
	if p := os.Getenv("ADMIN_CONSOLE_CONFIG"); p != "" {
		return p
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "admin-console", "config.toml")
	}
	return "config.toml"
}
