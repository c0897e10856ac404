// Package commands implements the admin-console subcommands.
//
// Each command implements Runner: Init parses its flags and loads the
// configuration, Run performs the work and writes to AppContext.Stdout.
//
// # Available Commands
//
//   - init: write a default configuration file
//   - serve: run the console server with the settings page
//   - login / logout: obtain or forget the API bearer token
//   - get: print the settings document as json, yaml or toml
//   - set: change settings by path and save them
//   - fields: list the form fields with their current values
//   - backup, backups, restore, download, delete-backup: manage backups
//
// # Example Usage
//
//	cmd := commands.CreateGetCommand()
//	ctx := commands.NewAppContext("/etc/admin-console/config.toml")
//	if err := cmd.Init([]string{"-format", "yaml"}, ctx); err != nil {
//	    log.Fatalf("%v", err)
//	}
//	if err := cmd.Run(); err != nil {
//	    log.Fatalf("%v", err)
//	}
package commands
