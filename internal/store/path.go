package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// Remove deletes the database at path together with its WAL and shared
// memory files. Missing files are not an error. It reports whether the main
// database file existed.
func Remove(path string) (bool, error) {
	existed := true
	for i, p := range []string{path, path + "-wal", path + "-shm"} {
		err := os.Remove(p)
		switch {
		case err == nil:
		case errors.Is(err, fs.ErrNotExist):
			if i == 0 {
				existed = false
			}
		default:
			return existed, fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return existed, nil
}
