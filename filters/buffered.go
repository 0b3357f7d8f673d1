package filters

import (
	"github.com/liflab/lif-fs/fs"
)

// NewBuffered wraps a store so that every stream is fully buffered in
// memory: writes reach the inner store in a single chunk when the stream
// is closed, and reads pull the whole file up front. Useful in front of
// backends where many small I/O calls are expensive.
func NewBuffered(inner fs.FileSystem) *ContentTransform {
	identity := func(p []byte) ([]byte, error) { return p, nil }
	return NewContentTransform(inner, identity, identity)
}
