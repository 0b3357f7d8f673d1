package localfs

import (
	"fmt"
	"os"
)

// TempDir is a local file system whose root is a one-time directory created
// under the system's temporary directory. By default the directory and all
// its contents are deleted when the store is closed.
type TempDir struct {
	LocalFS
	deleteOnClose bool
}

// NewTempDir creates a temporary file system, giving the created directory
// name the provided prefix.
func NewTempDir(prefix string) (*TempDir, error) {
	root, err := os.MkdirTemp("", prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary directory: %w", err)
	}
	inner, err := New(root)
	if err != nil {
		return nil, err
	}
	return &TempDir{LocalFS: *inner, deleteOnClose: true}, nil
}

// DeleteOnClose controls whether the temporary directory is removed when
// the store is closed.
func (t *TempDir) DeleteOnClose(b bool) {
	t.deleteOnClose = b
}

// Close stops the interaction with the store and deletes the temporary
// directory unless DeleteOnClose(false) was called.
func (t *TempDir) Close() error {
	if err := t.LocalFS.Close(); err != nil {
		return err
	}
	if t.deleteOnClose {
		if err := os.RemoveAll(t.Root()); err != nil {
			return fmt.Errorf("failed to delete temporary directory: %w", err)
		}
	}
	return nil
}
