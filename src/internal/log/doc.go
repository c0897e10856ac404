// Package log provides simple leveled logging for admin-console.
//
// Four levels are supported: DEBUG (only in verbose mode), INFO, WARN and
// ERROR. Messages are prefixed with a colored level tag. Errors always go to
// stderr; everything else goes to stdout unless SetForceStdErr is enabled,
// which the CLI does so that `admin-console get` output can be piped.
//
// # Example Usage
//
//	log.SetVerbose(true)
//	log.Debugf("GET %s", url)
//	log.Infof("Settings saved")
//	log.Errorf("Failed to load settings: %v", err)
//
// Tests can capture output with SetOutput.
//
// The package uses global state guarded by a mutex, so it is safe to call
// from the console server's request goroutines.
package log
