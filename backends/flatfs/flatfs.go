// Package flatfs stores a hierarchical tree inside a store that only holds
// files at its root. Each file's full path is encoded into a single flat
// name, so any backing capable of plain named blobs can carry a full
// directory structure.
package flatfs

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/liflab/lif-fs/backends/ramdisk"
	"github.com/liflab/lif-fs/fs"
)

// ToFlatName encodes an absolute path into a flat file name.
func ToFlatName(p fs.Path) string {
	return hex.EncodeToString([]byte(p.String()))
}

// FromFlatName decodes a flat file name back into the path it encodes.
func FromFlatName(name string) (fs.Path, error) {
	b, err := hex.DecodeString(name)
	if err != nil {
		return fs.Path{}, fmt.Errorf("flat name %q: %w", name, err)
	}
	p := fs.ParsePath(string(b))
	if !strings.HasPrefix(string(b), "/") {
		return fs.Path{}, fmt.Errorf("flat name %q: not an absolute path", name)
	}
	return p, nil
}

// FlatFS exposes a hierarchical view over a flat backing store. The
// directory structure lives in an in-memory index rebuilt at Open by
// decoding every flat name found in the backing root; file bytes stay in
// the backing store and are streamed through on demand. Folders exist only
// in the index, so an empty folder does not survive a close and reopen.
type FlatFS struct {
	index   *ramdisk.RamDisk
	backing fs.FileSystem
}

// New builds a hierarchical view over a flat backing store.
func New(backing fs.FileSystem) *FlatFS {
	return &FlatFS{index: ramdisk.New(), backing: backing}
}

// Open opens the backing store and rebuilds the index from its root
// listing. Names that do not decode to an absolute path are ignored.
func (f *FlatFS) Open() error {
	if err := f.backing.Open(); err != nil {
		return err
	}
	if err := f.index.Open(); err != nil {
		return err
	}
	names, err := f.backing.List("/")
	if err != nil {
		return err
	}
	for _, name := range names {
		p, err := FromFlatName(name)
		if err != nil {
			continue
		}
		if err := f.index.CreateFile(p.String()); err != nil {
			return err
		}
	}
	return nil
}

func (f *FlatFS) Close() error {
	if err := f.index.Close(); err != nil {
		return err
	}
	return f.backing.Close()
}

// flatName resolves a caller path against the index cursor and encodes it.
func (f *FlatFS) flatName(path string) string {
	return ToFlatName(f.index.Abs(path))
}

func (f *FlatFS) List(path string) ([]string, error) {
	return f.index.List(path)
}

func (f *FlatFS) IsDirectory(path string) (bool, error) {
	return f.index.IsDirectory(path)
}

func (f *FlatFS) IsFile(path string) (bool, error) {
	return f.index.IsFile(path)
}

func (f *FlatFS) Size(path string) (int64, error) {
	ok, err := f.index.IsFile(path)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fs.ErrNotFound
	}
	return f.backing.Size(f.flatName(path))
}

func (f *FlatFS) OpenWrite(path string) (io.WriteCloser, error) {
	if err := f.index.CreateFile(path); err != nil {
		return nil, err
	}
	return f.backing.OpenWrite(f.flatName(path))
}

func (f *FlatFS) OpenRead(path string) (io.ReadCloser, error) {
	ok, err := f.index.IsFile(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fs.ErrNotFound
	}
	return f.backing.OpenRead(f.flatName(path))
}

func (f *FlatFS) Chdir(path string) error {
	return f.index.Chdir(path)
}

func (f *FlatFS) Pushd(path string) error {
	return f.index.Pushd(path)
}

func (f *FlatFS) Popd() error {
	return f.index.Popd()
}

func (f *FlatFS) Mkdir(path string) error {
	return f.index.Mkdir(path)
}

func (f *FlatFS) Rmdir(path string) error {
	return f.index.Rmdir(path)
}

func (f *FlatFS) Remove(path string) error {
	flat := f.flatName(path)
	if err := f.index.Remove(path); err != nil {
		return err
	}
	return f.backing.Remove(flat)
}

func (f *FlatFS) Getwd() (string, error) {
	return f.index.Getwd()
}
