// Package filex resolves the on-disk locations used by the client.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDataDir resolves dir ("~/" expanded, relative paths taken from the
// working directory) and creates it with owner-only permissions.
func EnsureDataDir(dir string) (string, error) {
	resolved, err := resolve(dir)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(resolved, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", resolved, err)
	}

	return resolved, nil
}

// DataFile returns the path of name inside the data dir, creating the dir.
func DataFile(dir, name string) (string, error) {
	d, err := EnsureDataDir(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(d, name), nil
}

func resolve(dir string) (string, error) {
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("home dir: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(dir, "~")), nil
	}

	if filepath.IsAbs(dir) {
		return dir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return filepath.Join(cwd, dir), nil
}
