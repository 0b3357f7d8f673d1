package filters

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/liflab/lif-fs/fs"
)

// Mirror replicates a store across several underlying stores. Mutations fan
// out to every replica and fail on the first replica that refuses them.
// Queries succeed as soon as one replica answers positively, so a file can
// still be served while some replicas are missing it; an error surfaces only
// when no replica could answer at all. Listings are the union of all replica
// listings.
type Mirror struct {
	replicas []fs.FileSystem
}

// NewMirror builds a mirror over the given replicas. At least one replica is
// expected; the first one acts as the reference for Getwd.
func NewMirror(replicas ...fs.FileSystem) *Mirror {
	return &Mirror{replicas: replicas}
}

// each runs op on every replica and stops at the first failure, tagging the
// error with the replica index.
func (m *Mirror) each(op func(fs.FileSystem) error) error {
	for i, r := range m.replicas {
		if err := op(r); err != nil {
			return fmt.Errorf("replica %d: %w", i, err)
		}
	}
	return nil
}

func (m *Mirror) Open() error {
	return m.each(func(r fs.FileSystem) error { return r.Open() })
}

func (m *Mirror) Close() error {
	return m.each(func(r fs.FileSystem) error { return r.Close() })
}

func (m *Mirror) List(path string) ([]string, error) {
	seen := make(map[string]struct{})
	found := false
	var firstErr error
	for _, r := range m.replicas {
		names, err := r.List(path)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		found = true
		for _, n := range names {
			seen[n] = struct{}{}
		}
	}
	if !found {
		if firstErr != nil {
			return nil, firstErr
		}
		return nil, fs.ErrNotFound
	}
	union := make([]string, 0, len(seen))
	for n := range seen {
		union = append(union, n)
	}
	sort.Strings(union)
	return union, nil
}

func (m *Mirror) IsDirectory(path string) (bool, error) {
	var firstErr error
	answered := false
	for _, r := range m.replicas {
		ok, err := r.IsDirectory(path)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		answered = true
		if ok {
			return true, nil
		}
	}
	if !answered && firstErr != nil {
		return false, firstErr
	}
	return false, nil
}

func (m *Mirror) IsFile(path string) (bool, error) {
	var firstErr error
	answered := false
	for _, r := range m.replicas {
		ok, err := r.IsFile(path)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		answered = true
		if ok {
			return true, nil
		}
	}
	if !answered && firstErr != nil {
		return false, firstErr
	}
	return false, nil
}

func (m *Mirror) Size(path string) (int64, error) {
	var firstErr error
	for _, r := range m.replicas {
		n, err := r.Size(path)
		if err == nil {
			return n, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		firstErr = fs.ErrNotFound
	}
	return 0, firstErr
}

func (m *Mirror) OpenWrite(path string) (io.WriteCloser, error) {
	sinks := make([]io.WriteCloser, 0, len(m.replicas))
	for i, r := range m.replicas {
		w, err := r.OpenWrite(path)
		if err != nil {
			for _, s := range sinks {
				s.Close()
			}
			return nil, fmt.Errorf("replica %d: %w", i, err)
		}
		sinks = append(sinks, w)
	}
	return &mirrorWriter{sinks: sinks}, nil
}

func (m *Mirror) OpenRead(path string) (io.ReadCloser, error) {
	var firstErr error
	for _, r := range m.replicas {
		ok, err := r.IsFile(path)
		if err != nil || !ok {
			if firstErr == nil && err != nil {
				firstErr = err
			}
			continue
		}
		return r.OpenRead(path)
	}
	if firstErr == nil {
		firstErr = fs.ErrNotFound
	}
	return nil, firstErr
}

func (m *Mirror) Chdir(path string) error {
	return m.each(func(r fs.FileSystem) error { return r.Chdir(path) })
}

func (m *Mirror) Pushd(path string) error {
	return m.each(func(r fs.FileSystem) error { return r.Pushd(path) })
}

func (m *Mirror) Popd() error {
	return m.each(func(r fs.FileSystem) error { return r.Popd() })
}

func (m *Mirror) Mkdir(path string) error {
	return m.each(func(r fs.FileSystem) error { return r.Mkdir(path) })
}

func (m *Mirror) Rmdir(path string) error {
	return m.each(func(r fs.FileSystem) error { return r.Rmdir(path) })
}

func (m *Mirror) Remove(path string) error {
	return m.each(func(r fs.FileSystem) error { return r.Remove(path) })
}

func (m *Mirror) Getwd() (string, error) {
	if len(m.replicas) == 0 {
		return "/", nil
	}
	return m.replicas[0].Getwd()
}

// mirrorWriter duplicates every chunk to all replica sinks.
type mirrorWriter struct {
	sinks []io.WriteCloser
}

func (w *mirrorWriter) Write(p []byte) (int, error) {
	for i, s := range w.sinks {
		if _, err := s.Write(p); err != nil {
			return 0, fmt.Errorf("replica %d: %w", i, err)
		}
	}
	return len(p), nil
}

func (w *mirrorWriter) Close() error {
	var errs []error
	for i, s := range w.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("replica %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
