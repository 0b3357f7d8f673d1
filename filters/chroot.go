package filters

import (
	"io"

	"github.com/liflab/lif-fs/fs"
)

// Chroot confines a store to a subtree of the inner store. Every path
// argument is resolved against the chroot-visible working directory and
// prefixed with the fixed base before delegating. The visible directory is
// recomputed from the inner store's live working directory on every call,
// never cached, so it stays correct across Chdir, Pushd and Popd issued
// through any layer. Resolutions that would climb above the base fail with
// fs.ErrUnauthorized.
type Chroot struct {
	inner fs.FileSystem
	base  fs.Path
}

// NewChroot wraps a store, exposing only the subtree under base.
func NewChroot(inner fs.FileSystem, base string) *Chroot {
	return &Chroot{inner: inner, base: fs.Root().Resolve(base)}
}

// visible derives the working directory seen by callers: the inner store's
// live working directory with the base prefix stripped. An inner directory
// outside the base maps to the visible root.
func (c *Chroot) visible() (fs.Path, error) {
	wd, err := c.inner.Getwd()
	if err != nil {
		return fs.Path{}, err
	}
	inner := fs.ParsePath(wd)
	baseSegs := c.base.Segments()
	innerSegs := inner.Segments()
	if len(innerSegs) < len(baseSegs) {
		return fs.Root(), nil
	}
	for i, seg := range baseSegs {
		if innerSegs[i] != seg {
			return fs.Root(), nil
		}
	}
	return fs.NewPath(innerSegs[len(baseSegs):], true), nil
}

// mapPath resolves a caller path against the visible working directory and
// re-anchors it under the base.
func (c *Chroot) mapPath(path string) (string, error) {
	vis, err := c.visible()
	if err != nil {
		return "", err
	}
	target := vis.Resolve(path)
	if target.Escapes() {
		return "", fs.ErrUnauthorized
	}
	mapped := fs.NewPath(append(c.base.Segments(), target.Segments()...), true)
	return mapped.String(), nil
}

func (c *Chroot) Open() error {
	return c.inner.Open()
}

func (c *Chroot) Close() error {
	return c.inner.Close()
}

func (c *Chroot) List(path string) ([]string, error) {
	mapped, err := c.mapPath(path)
	if err != nil {
		return nil, err
	}
	return c.inner.List(mapped)
}

func (c *Chroot) IsDirectory(path string) (bool, error) {
	mapped, err := c.mapPath(path)
	if err != nil {
		return false, err
	}
	return c.inner.IsDirectory(mapped)
}

func (c *Chroot) IsFile(path string) (bool, error) {
	mapped, err := c.mapPath(path)
	if err != nil {
		return false, err
	}
	return c.inner.IsFile(mapped)
}

func (c *Chroot) Size(path string) (int64, error) {
	mapped, err := c.mapPath(path)
	if err != nil {
		return 0, err
	}
	return c.inner.Size(mapped)
}

func (c *Chroot) OpenWrite(path string) (io.WriteCloser, error) {
	mapped, err := c.mapPath(path)
	if err != nil {
		return nil, err
	}
	return c.inner.OpenWrite(mapped)
}

func (c *Chroot) OpenRead(path string) (io.ReadCloser, error) {
	mapped, err := c.mapPath(path)
	if err != nil {
		return nil, err
	}
	return c.inner.OpenRead(mapped)
}

func (c *Chroot) Chdir(path string) error {
	mapped, err := c.mapPath(path)
	if err != nil {
		return err
	}
	return c.inner.Chdir(mapped)
}

func (c *Chroot) Pushd(path string) error {
	mapped, err := c.mapPath(path)
	if err != nil {
		return err
	}
	return c.inner.Pushd(mapped)
}

func (c *Chroot) Popd() error {
	return c.inner.Popd()
}

func (c *Chroot) Mkdir(path string) error {
	mapped, err := c.mapPath(path)
	if err != nil {
		return err
	}
	return c.inner.Mkdir(mapped)
}

func (c *Chroot) Rmdir(path string) error {
	mapped, err := c.mapPath(path)
	if err != nil {
		return err
	}
	return c.inner.Rmdir(mapped)
}

func (c *Chroot) Remove(path string) error {
	mapped, err := c.mapPath(path)
	if err != nil {
		return err
	}
	return c.inner.Remove(mapped)
}

func (c *Chroot) Getwd() (string, error) {
	vis, err := c.visible()
	if err != nil {
		return "", err
	}
	return vis.String(), nil
}
