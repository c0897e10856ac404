// Package credentials stores the bearer token and username used to talk to
// the remote admin API.
//
// Credentials live in a small TOML file readable only by its owner. The
// ADMIN_CONSOLE_TOKEN environment variable, when set, takes precedence over
// the stored token. Tokens that are JWTs are inspected locally (without
// signature verification) so an expired token is refused before it is sent.
package credentials
