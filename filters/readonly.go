package filters

import (
	"io"

	"github.com/liflab/lif-fs/fs"
)

// ReadOnly blocks every mutating operation with fs.ErrUnauthorized and
// passes reads through unchanged.
type ReadOnly struct {
	Filter
}

// NewReadOnly wraps a store so it can only be read.
func NewReadOnly(inner fs.FileSystem) *ReadOnly {
	return &ReadOnly{Filter: Filter{FileSystem: inner}}
}

func (r *ReadOnly) OpenWrite(path string) (io.WriteCloser, error) {
	return nil, fs.ErrUnauthorized
}

func (r *ReadOnly) Mkdir(path string) error {
	return fs.ErrUnauthorized
}

func (r *ReadOnly) Rmdir(path string) error {
	return fs.ErrUnauthorized
}

func (r *ReadOnly) Remove(path string) error {
	return fs.ErrUnauthorized
}
