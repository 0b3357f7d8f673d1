package zipfs

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/liflab/lif-fs/backends/ramdisk"
	"github.com/liflab/lif-fs/fs"
	"github.com/liflab/lif-fs/fsutil"
)

// WriteZip builds a zip archive. All operations run against an in-memory
// tree; the archive is serialized to the output in one pass when the store
// is closed. Reading back what was written is allowed while the store is
// open.
type WriteZip struct {
	*ramdisk.RamDisk
	out io.Writer
}

// NewWriteZip builds an archive writer targeting out. Nothing is written
// until Close.
func NewWriteZip(out io.Writer) *WriteZip {
	return &WriteZip{RamDisk: ramdisk.New(), out: out}
}

// Close serializes the in-memory tree into the archive, folders first so
// empty directories survive the round trip, then closes the store.
func (z *WriteZip) Close() error {
	if err := z.RamDisk.Chdir("/"); err != nil {
		return err
	}
	zw := zip.NewWriter(z.out)
	err := fsutil.Walk(z.RamDisk, func(p fs.Path, dir bool) error {
		name := p.String()
		if dir {
			_, err := zw.Create(name + "/")
			return err
		}
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		src, err := z.RamDisk.OpenRead(p.String())
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(w, src)
		return err
	})
	if err != nil {
		return fmt.Errorf("serializing zip archive: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing zip archive: %w", err)
	}
	return z.RamDisk.Close()
}
