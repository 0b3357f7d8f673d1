// Package noop provides a file system where every operation succeeds and
// has no effect. It is a drop-in replacement for a real store when the
// result of write operations is irrelevant, such as during a test.
package noop

import (
	"bytes"
	"io"

	"github.com/liflab/lif-fs/fs"
)

// NoopFS discards writes, reads empty content and lists nothing.
type NoopFS struct{}

// New creates a noop file system.
func New() *NoopFS {
	return &NoopFS{}
}

func (n *NoopFS) Open() error  { return nil }
func (n *NoopFS) Close() error { return nil }

func (n *NoopFS) List(path string) ([]string, error) {
	return []string{}, nil
}

func (n *NoopFS) IsDirectory(path string) (bool, error) {
	return false, nil
}

func (n *NoopFS) IsFile(path string) (bool, error) {
	return false, nil
}

func (n *NoopFS) Size(path string) (int64, error) {
	return 0, nil
}

func (n *NoopFS) OpenWrite(path string) (io.WriteCloser, error) {
	return nopWriter{}, nil
}

func (n *NoopFS) OpenRead(path string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(nil)), nil
}

func (n *NoopFS) Chdir(path string) error { return nil }
func (n *NoopFS) Pushd(path string) error { return nil }
func (n *NoopFS) Popd() error             { return nil }
func (n *NoopFS) Mkdir(path string) error { return nil }
func (n *NoopFS) Rmdir(path string) error { return nil }
func (n *NoopFS) Remove(path string) error {
	return nil
}

func (n *NoopFS) Getwd() (string, error) {
	return fs.Separator, nil
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
func (nopWriter) Close() error                { return nil }
