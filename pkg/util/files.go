package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// EnsureDir creates dir (and parents) if it does not already exist.
func EnsureDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("directory path is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// EnsureParentDir creates the parent directory of path if needed.
func EnsureParentDir(path string) error {
	return EnsureDir(filepath.Dir(path))
}

// CleanupFiles removes the given files, ignoring ones that are already gone.
// The first real error is returned after attempting every path.
func CleanupFiles(paths ...string) error {
	var firstErr error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to remove %s: %w", p, err)
			}
		}
	}
	return firstErr
}
