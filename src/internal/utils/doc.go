// Package utils provides small helpers shared across admin-console:
// path resolution relative to the config file, home directory expansion
// and port validation.
package utils
