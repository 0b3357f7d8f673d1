// Package ramdisk implements the in-memory hierarchical store. Besides
// serving as a backend in its own right, its tree backs every store that
// needs an in-process namespace: archive directory indexes, flattened-name
// stores and serialize-on-close stores build on it.
package ramdisk

import (
	"bytes"
	"io"

	"github.com/liflab/lif-fs/fs"
)

// RamDisk is a file system whose files live in memory.
type RamDisk struct {
	cur   fs.Cursor
	lease fs.Lease
	root  *node
}

// New creates an empty ramdisk.
func New() *RamDisk {
	return &RamDisk{root: newFolder("")}
}

// Lease exposes the reification guard, making the ramdisk reifiable.
func (d *RamDisk) Lease() *fs.Lease {
	return &d.lease
}

func (d *RamDisk) guard() error {
	if err := d.cur.Guard(); err != nil {
		return err
	}
	return d.lease.Check()
}

// Open starts the interaction with the ramdisk.
func (d *RamDisk) Open() error {
	return d.cur.MarkOpen()
}

// Close stops the interaction with the ramdisk. The tree is kept in memory
// but can no longer be reached through the contract.
func (d *RamDisk) Close() error {
	return d.cur.MarkClosed()
}

// Abs resolves a path string against the current working directory.
func (d *RamDisk) Abs(path string) fs.Path {
	return d.cur.Resolve(path)
}

// List returns the names of the entries of a directory.
func (d *RamDisk) List(path string) ([]string, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	n := d.locate(d.cur.Resolve(path))
	if n == nil {
		return nil, fs.ErrNotFound
	}
	if !n.dir {
		return nil, fs.ErrWrongKind
	}
	names := make([]string, 0, len(n.children))
	for _, c := range n.children {
		names = append(names, c.name)
	}
	return names, nil
}

// IsDirectory reports whether path denotes a folder node.
func (d *RamDisk) IsDirectory(path string) (bool, error) {
	if err := d.guard(); err != nil {
		return false, err
	}
	n := d.locate(d.cur.Resolve(path))
	return n != nil && n.dir, nil
}

// IsFile reports whether path denotes a file node.
func (d *RamDisk) IsFile(path string) (bool, error) {
	if err := d.guard(); err != nil {
		return false, err
	}
	n := d.locate(d.cur.Resolve(path))
	return n != nil && !n.dir, nil
}

// Size returns the length of a file's content buffer.
func (d *RamDisk) Size(path string) (int64, error) {
	if err := d.guard(); err != nil {
		return 0, err
	}
	n := d.locate(d.cur.Resolve(path))
	if n == nil {
		return 0, fs.ErrNotFound
	}
	if n.dir {
		return 0, fs.ErrWrongKind
	}
	return int64(len(n.content)), nil
}

// OpenWrite returns a sink on a file node, creating the node and any
// intermediate folders as needed. The node's content buffer is replaced
// atomically when the sink is closed; until then the previous content stays
// visible.
func (d *RamDisk) OpenWrite(path string) (io.WriteCloser, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	n, err := d.createFile(d.cur.Resolve(path))
	if err != nil {
		return nil, err
	}
	return &fileWriter{node: n}, nil
}

// OpenRead returns a source on a file's content. The source reads from the
// buffer as it was at the time of the call.
func (d *RamDisk) OpenRead(path string) (io.ReadCloser, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	n := d.locate(d.cur.Resolve(path))
	if n == nil {
		return nil, fs.ErrNotFound
	}
	if n.dir {
		return nil, fs.ErrWrongKind
	}
	return io.NopCloser(bytes.NewReader(n.content)), nil
}

// Chdir changes the current working directory.
func (d *RamDisk) Chdir(path string) error {
	if err := d.guard(); err != nil {
		return err
	}
	d.cur.PushDir(d.cur.Resolve(path))
	return nil
}

// Pushd changes the current working directory, remembering the previous one.
func (d *RamDisk) Pushd(path string) error {
	return d.Chdir(path)
}

// Popd restores the previous working directory.
func (d *RamDisk) Popd() error {
	if err := d.guard(); err != nil {
		return err
	}
	d.cur.PopDir()
	return nil
}

// Mkdir creates a folder, along with any missing intermediate folders.
func (d *RamDisk) Mkdir(path string) error {
	if err := d.guard(); err != nil {
		return err
	}
	return d.CreateFolder(path)
}

// Rmdir deletes a folder and its whole subtree.
func (d *RamDisk) Rmdir(path string) error {
	if err := d.guard(); err != nil {
		return err
	}
	n := d.locate(d.cur.Resolve(path))
	if n == nil {
		return fs.ErrNotFound
	}
	if !n.dir {
		return fs.ErrWrongKind
	}
	if n.parent == nil {
		// Deleting the root empties it instead.
		n.children = nil
		return nil
	}
	n.parent.removeChild(n)
	return nil
}

// Remove deletes a file.
func (d *RamDisk) Remove(path string) error {
	if err := d.guard(); err != nil {
		return err
	}
	n := d.locate(d.cur.Resolve(path))
	if n == nil {
		return fs.ErrNotFound
	}
	if n.dir {
		return fs.ErrWrongKind
	}
	n.parent.removeChild(n)
	return nil
}

// Getwd returns the current working directory.
func (d *RamDisk) Getwd() (string, error) {
	if err := d.guard(); err != nil {
		return "", err
	}
	return d.cur.WorkingDir().String(), nil
}

// CreateFile creates or reuses the file node at path, walking and creating
// intermediate folders on the way. Stores built on the ramdisk use this to
// populate their index without going through a write sink.
func (d *RamDisk) CreateFile(path string) error {
	if err := d.guard(); err != nil {
		return err
	}
	_, err := d.createFile(d.cur.Resolve(path))
	return err
}

// CreateFolder creates the folder at path, creating intermediate folders as
// needed.
func (d *RamDisk) CreateFolder(path string) error {
	if err := d.guard(); err != nil {
		return err
	}
	cur := d.root
	for _, seg := range d.cur.Resolve(path).Segments() {
		found := cur.child(seg)
		if found == nil {
			next := newFolder(seg)
			cur.addChild(next)
			cur = next
			continue
		}
		if !found.dir {
			return fs.ErrWrongKind
		}
		cur = found
	}
	return nil
}

// locate walks the tree along the path's segments, scanning children by
// name at each level. It returns nil as soon as a segment is absent.
func (d *RamDisk) locate(p fs.Path) *node {
	cur := d.root
	for _, seg := range p.Segments() {
		if cur = cur.child(seg); cur == nil {
			return nil
		}
	}
	return cur
}

// createFile walks the path, creating missing intermediate folders, and
// creates or reuses the terminal file node. It fails with ErrWrongKind when
// an intermediate segment is a file or the terminal segment is a folder.
func (d *RamDisk) createFile(p fs.Path) (*node, error) {
	segs := p.Segments()
	if len(segs) == 0 {
		return nil, fs.ErrWrongKind
	}
	cur := d.root
	for i, seg := range segs {
		last := i == len(segs)-1
		found := cur.child(seg)
		if found == nil {
			if last {
				f := newFile(seg)
				cur.addChild(f)
				return f, nil
			}
			next := newFolder(seg)
			cur.addChild(next)
			cur = next
			continue
		}
		if last {
			if found.dir {
				return nil, fs.ErrWrongKind
			}
			return found, nil
		}
		if !found.dir {
			return nil, fs.ErrWrongKind
		}
		cur = found
	}
	return nil, fs.ErrWrongKind
}

// fileWriter buffers writes and commits them to the node on Close.
type fileWriter struct {
	node *node
	buf  bytes.Buffer
}

func (w *fileWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *fileWriter) Close() error {
	w.node.content = append([]byte(nil), w.buf.Bytes()...)
	return nil
}
