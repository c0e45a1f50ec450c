// Package filex has small filesystem helpers.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureParentDir creates the directory that will hold path. In-memory
// SQLite DSNs (":memory:", "file:...mode=memory") are left alone.
func EnsureParentDir(path string) error {
	if path == "" || path == ":memory:" || strings.Contains(path, "mode=memory") {
		return nil
	}

	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}
