// Package frontend serves the settings page of the console.
//
// The page is embedded into the binary. An operator can serve a customized
// copy from disk instead by setting console.ui_dir.
package frontend

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

//go:embed all:dist
var distFS embed.FS

// Embedded returns the embedded page with the "dist" prefix stripped.
func Embedded() (http.FileSystem, error) {
	sub, err := fs.Sub(distFS, "dist")
	if err != nil {
		return nil, err
	}
	return http.FS(sub), nil
}

// GetHTTPFileSystem returns the directory uiDir when set, or the embedded page.
func GetHTTPFileSystem(uiDir string) (http.FileSystem, error) {
	if uiDir == "" {
		return Embedded()
	}
	return NewSafeFileSystem(uiDir), nil
}

// safeFileSystem serves files under root and refuses paths that escape it.
type safeFileSystem struct {
	root string
}

// NewSafeFileSystem creates a file system rooted at root.
func NewSafeFileSystem(root string) http.FileSystem {
	return safeFileSystem{root: root}
}

// Open implements http.FileSystem.
func (s safeFileSystem) Open(name string) (http.File, error) {
	cleanPath := filepath.Clean("/" + name)
	fullPath := filepath.Join(s.root, cleanPath)

	absRoot, err := filepath.Abs(s.root)
	if err != nil {
		return nil, err
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return nil, err
	}
	if absPath != absRoot && !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
		return nil, os.ErrNotExist
	}

	return os.Open(absPath)
}
