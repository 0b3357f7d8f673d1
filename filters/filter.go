// Package filters provides composable behavior-modifying wrappers around
// any file system: read-only enforcement, root confinement, replication,
// rate and capacity limiting, and content transforms. Every wrapper
// implements the same contract as the store it wraps, so chains of
// arbitrary depth compose predictably, each layer seeing the already
// transformed behavior of the layer beneath it.
package filters

import (
	"github.com/liflab/lif-fs/fs"
)

// Filter is the pass-through wrapper: it forwards every operation
// unchanged to the inner store. Concrete policies embed a Filter and
// override only the operations they change.
type Filter struct {
	fs.FileSystem
}

// NewFilter wraps a store with a pass-through filter.
func NewFilter(inner fs.FileSystem) *Filter {
	return &Filter{FileSystem: inner}
}

// Inner returns the wrapped store.
func (f *Filter) Inner() fs.FileSystem {
	return f.FileSystem
}
