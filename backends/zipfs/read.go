// Package zipfs exposes zip archives through the file system contract: a
// read-only view over an existing archive and a write-only builder that
// serializes an in-memory tree into a new archive when closed.
package zipfs

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"

	"github.com/liflab/lif-fs/backends/ramdisk"
	"github.com/liflab/lif-fs/fs"
)

// ReadZip is a read-only view of a zip archive. The archive's table of
// contents is loaded into an in-memory index at Open, so navigation and
// listing never touch the archive; file bytes are decompressed on demand
// when a read stream is opened. Mutating operations fail with
// fs.ErrUnsupported.
type ReadZip struct {
	*ramdisk.RamDisk
	archive *zip.Reader
	entries map[string]*zip.File
}

// NewReadZip parses the archive's central directory from a random-access
// source.
func NewReadZip(r io.ReaderAt, size int64) (*ReadZip, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("reading zip archive: %w", err)
	}
	return &ReadZip{RamDisk: ramdisk.New(), archive: zr}, nil
}

// Open builds the in-memory index from the archive entries.
func (z *ReadZip) Open() error {
	if err := z.RamDisk.Open(); err != nil {
		return err
	}
	z.entries = make(map[string]*zip.File)
	for _, f := range z.archive.File {
		name := "/" + strings.Trim(f.Name, "/")
		if f.FileInfo().IsDir() {
			if err := z.RamDisk.CreateFolder(name); err != nil {
				return err
			}
			continue
		}
		if err := z.RamDisk.CreateFile(name); err != nil {
			return err
		}
		z.entries[fs.ParsePath(name).String()] = f
	}
	return nil
}

// entry resolves a caller path to its archive entry.
func (z *ReadZip) entry(path string) (*zip.File, error) {
	ok, err := z.RamDisk.IsFile(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fs.ErrNotFound
	}
	f, found := z.entries[z.RamDisk.Abs(path).String()]
	if !found {
		return nil, fs.ErrNotFound
	}
	return f, nil
}

func (z *ReadZip) Size(path string) (int64, error) {
	f, err := z.entry(path)
	if err != nil {
		return 0, err
	}
	return int64(f.UncompressedSize64), nil
}

func (z *ReadZip) OpenRead(path string) (io.ReadCloser, error) {
	f, err := z.entry(path)
	if err != nil {
		return nil, err
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening zip entry %s: %w", f.Name, err)
	}
	return rc, nil
}

func (z *ReadZip) OpenWrite(path string) (io.WriteCloser, error) {
	return nil, fs.ErrUnsupported
}

func (z *ReadZip) Mkdir(path string) error {
	return fs.ErrUnsupported
}

func (z *ReadZip) Rmdir(path string) error {
	return fs.ErrUnsupported
}

func (z *ReadZip) Remove(path string) error {
	return fs.ErrUnsupported
}
