package fsutil

import (
	"fmt"
	"os"
)

// TargetExistsError reports a rename target that already exists.
type TargetExistsError struct {
	Path string
}

func (e *TargetExistsError) Error() string {
	return fmt.Sprintf("target directory already exists: %s", e.Path)
}

// RenameDir renames a directory. With existOK, an already-existing target is
// a no-op rather than an error, which makes the rename idempotent across
// repeated sync runs.
func RenameDir(oldPath, newPath string, existOK bool) error {
	info, err := os.Stat(oldPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("source directory does not exist: %s", oldPath)
		}
		return fmt.Errorf("failed to stat source directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source is not a directory: %s", oldPath)
	}

	if _, err := os.Stat(newPath); err == nil {
		if existOK {
			return nil
		}
		return &TargetExistsError{Path: newPath}
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("failed to rename directory: %w", err)
	}
	return nil
}
