// Package console is the controller behind the settings page. It owns the
// only mutable settings.Session of a running console, the raw edits typed
// into the form since the last load, backup actions, the notification feed
// and the theme stylesheet derived from the saved appearance settings.
//
// The controller serialises access to its state with a mutex that is never
// held across a remote call. Concurrent saves are rejected by the
// underlying settings.Reconciler.
package console
