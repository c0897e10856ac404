package settings

import (
	"fmt"
	"strings"
)

// PathSeparator joins path segments in their textual form ("security.password.min_length").
const PathSeparator = "."

// Path identifies one leaf inside a Tree as an ordered list of keys.
type Path []string

// ParsePath splits a dotted path and rejects empty paths and empty segments.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, fmt.Errorf("path is empty")
	}
	segments := strings.Split(s, PathSeparator)
	for i, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("path %q has an empty segment at position %d", s, i)
		}
	}
	return Path(segments), nil
}

// MustParsePath is like ParsePath but panics on error. Intended for static tables.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Validate checks that the path has at least one segment and no empty ones.
func (p Path) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("path is empty")
	}
	for i, seg := range p {
		if seg == "" {
			return fmt.Errorf("path %q has an empty segment at position %d", p.String(), i)
		}
	}
	return nil
}

// String returns the dotted form of the path.
func (p Path) String() string {
	return strings.Join(p, PathSeparator)
}

// MarshalText encodes the path in dotted form.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a dotted path.
func (p *Path) UnmarshalText(text []byte) error {
	parsed, err := ParsePath(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Parent returns the path without its last segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// Leaf returns the last segment.
func (p Path) Leaf() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Child returns a new path with key appended. The receiver is never modified.
func (p Path) Child(key string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, key)
}

// HasPrefix reports whether prefix is an ancestor of (or equal to) p.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if p[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Equal reports whether both paths have the same segments.
func (p Path) Equal(other Path) bool {
	return len(p) == len(other) && p.HasPrefix(other)
}
