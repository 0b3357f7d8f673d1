// Package localfs implements the file system contract over a directory of
// the local machine's disk. The configured root is exposed as the store's
// root, confining every operation beneath it. It also supplies the real
// host-filesystem primitives used by the staging subsystem.
package localfs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/liflab/lif-fs/fs"
)

// LocalFS is a file system backed by a directory on the local disk.
type LocalFS struct {
	cur   fs.Cursor
	lease fs.Lease
	root  string
}

// New creates a local file system rooted at root, creating the root
// directory when it does not exist yet.
func New(root string) (*LocalFS, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create root path %s: %w", root, err)
	}
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("root path %s is not accessible: %w", root, err)
	}
	return &LocalFS{root: root}, nil
}

// Root returns the OS path acting as the root of this store.
func (l *LocalFS) Root() string {
	return l.root
}

// Lease exposes the reification guard, making the store reifiable.
func (l *LocalFS) Lease() *fs.Lease {
	return &l.lease
}

func (l *LocalFS) guard() error {
	if err := l.cur.Guard(); err != nil {
		return err
	}
	return l.lease.Check()
}

// osPath maps a path inside the store onto the real path under the root. A
// path whose normalized form still climbs above the root denotes nothing
// inside the store.
func (l *LocalFS) osPath(p fs.Path) (string, error) {
	if p.Escapes() {
		return "", fs.ErrNotFound
	}
	rel := strings.TrimPrefix(p.String(), fs.Separator)
	return filepath.Join(l.root, filepath.FromSlash(rel)), nil
}

// Open starts the interaction with the store.
func (l *LocalFS) Open() error {
	return l.cur.MarkOpen()
}

// Close stops the interaction with the store.
func (l *LocalFS) Close() error {
	return l.cur.MarkClosed()
}

// List returns the names of the entries of a directory.
func (l *LocalFS) List(path string) ([]string, error) {
	if err := l.guard(); err != nil {
		return nil, err
	}
	target, err := l.osPath(l.cur.Resolve(path))
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fs.ErrNotFound
		}
		return nil, fmt.Errorf("failed to list directory %s: %w", path, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// IsDirectory reports whether path denotes a directory under the root.
func (l *LocalFS) IsDirectory(path string) (bool, error) {
	if err := l.guard(); err != nil {
		return false, err
	}
	target, err := l.osPath(l.cur.Resolve(path))
	if err != nil {
		return false, nil
	}
	info, err := os.Stat(target)
	if err != nil {
		return false, nil
	}
	return info.IsDir(), nil
}

// IsFile reports whether path denotes a file under the root.
func (l *LocalFS) IsFile(path string) (bool, error) {
	if err := l.guard(); err != nil {
		return false, err
	}
	target, err := l.osPath(l.cur.Resolve(path))
	if err != nil {
		return false, nil
	}
	info, err := os.Stat(target)
	if err != nil {
		return false, nil
	}
	return !info.IsDir(), nil
}

// Size returns the size of a file in bytes.
func (l *LocalFS) Size(path string) (int64, error) {
	if err := l.guard(); err != nil {
		return 0, err
	}
	target, err := l.osPath(l.cur.Resolve(path))
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fs.ErrNotFound
		}
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return 0, fs.ErrWrongKind
	}
	return info.Size(), nil
}

// OpenWrite returns a sink on a file. The sink writes to a temporary file
// next to the target, which is renamed into place on Close, so partial
// writes never become durably visible.
func (l *LocalFS) OpenWrite(path string) (io.WriteCloser, error) {
	if err := l.guard(); err != nil {
		return nil, err
	}
	target, err := l.osPath(l.cur.Resolve(path))
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create parent directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".lif-fs-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", path, err)
	}
	return &fileWriter{file: tmp, target: target}, nil
}

// OpenRead returns a source on a file. The caller owns the source and must
// close it.
func (l *LocalFS) OpenRead(path string) (io.ReadCloser, error) {
	if err := l.guard(); err != nil {
		return nil, err
	}
	target, err := l.osPath(l.cur.Resolve(path))
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fs.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	return f, nil
}

// Chdir changes the current working directory.
func (l *LocalFS) Chdir(path string) error {
	if err := l.guard(); err != nil {
		return err
	}
	l.cur.PushDir(l.cur.Resolve(path))
	return nil
}

// Pushd changes the current working directory, remembering the previous one.
func (l *LocalFS) Pushd(path string) error {
	return l.Chdir(path)
}

// Popd restores the previous working directory.
func (l *LocalFS) Popd() error {
	if err := l.guard(); err != nil {
		return err
	}
	l.cur.PopDir()
	return nil
}

// Mkdir creates a directory along with any missing parents.
func (l *LocalFS) Mkdir(path string) error {
	if err := l.guard(); err != nil {
		return err
	}
	target, err := l.osPath(l.cur.Resolve(path))
	if err != nil {
		return err
	}
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		return fs.ErrWrongKind
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// Rmdir deletes a directory and all its contents.
func (l *LocalFS) Rmdir(path string) error {
	if err := l.guard(); err != nil {
		return err
	}
	target, err := l.osPath(l.cur.Resolve(path))
	if err != nil {
		return err
	}
	info, err := os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return fs.ErrNotFound
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return fs.ErrWrongKind
	}
	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("failed to delete directory %s: %w", path, err)
	}
	return nil
}

// Remove deletes a file.
func (l *LocalFS) Remove(path string) error {
	if err := l.guard(); err != nil {
		return err
	}
	target, err := l.osPath(l.cur.Resolve(path))
	if err != nil {
		return err
	}
	info, err := os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return fs.ErrNotFound
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fs.ErrWrongKind
	}
	if err := os.Remove(target); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", path, err)
	}
	return nil
}

// Getwd returns the current working directory, relative to the root.
func (l *LocalFS) Getwd() (string, error) {
	if err := l.guard(); err != nil {
		return "", err
	}
	return l.cur.WorkingDir().String(), nil
}

// fileWriter commits its content by renaming the temporary file over the
// target on Close.
type fileWriter struct {
	file   *os.File
	target string
}

func (w *fileWriter) Write(p []byte) (int, error) {
	return w.file.Write(p)
}

func (w *fileWriter) Close() error {
	if err := w.file.Close(); err != nil {
		os.Remove(w.file.Name())
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(w.file.Name(), w.target); err != nil {
		os.Remove(w.file.Name())
		return fmt.Errorf("failed to commit file %s: %w", w.target, err)
	}
	return nil
}
