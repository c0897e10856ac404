// Package config handles configuration file parsing and validation for
// admin-console.
//
// The configuration is a TOML file with three sections:
//
//	[api]
//	base_url = "http://localhost:8000"   # remote admin API
//	timeout_seconds = 10
//
//	[console]
//	listen_addr = "127.0.0.1:4000"       # local console server
//	ui_dir = ""                          # serve UI from disk instead of the embedded copy
//	notifications_limit = 20
//
//	[auth]
//	credentials_file = "credentials.toml" # relative to the config file
//
// Missing sections and zero values are filled with defaults. The
// ADMIN_CONSOLE_API_URL environment variable overrides api.base_url.
//
// # Example Usage
//
//	cfg, err := config.LoadConfig("/etc/admin-console/config.toml")
//	if err != nil {
//	    log.Fatalf("%v", err)
//	}
//	if err := cfg.ValidateConfig(); err != nil {
//	    log.Fatalf("%v", err)
//	}
package config
