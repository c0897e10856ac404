package utils

import "strconv"

// IsValidPort reports whether s is a decimal port number in 1..65535.
func IsValidPort(s string) bool {
	port, err := strconv.Atoi(s)
	return err == nil && port >= 1 && port <= 65535
}
