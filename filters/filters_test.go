package filters

import (
	"io"
	"testing"

	"github.com/liflab/lif-fs/backends/ramdisk"
	"github.com/liflab/lif-fs/fs"
)

// newDisk returns an opened in-memory store populated with a small tree:
//
//	/abc/a.txt  /abc/b.txt
//	/def/ghi/c.txt  /def/e.txt
//	/e.txt
func newDisk(t *testing.T) *ramdisk.RamDisk {
	t.Helper()
	d := ramdisk.New()
	if err := d.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	for path, content := range map[string]string{
		"/abc/a.txt":     "alpha",
		"/abc/b.txt":     "beta",
		"/def/ghi/c.txt": "gamma",
		"/def/e.txt":     "delta",
		"/e.txt":         "epsilon",
	} {
		writeString(t, d, path, content)
	}
	return d
}

func writeString(t *testing.T, fsys fs.FileSystem, path, content string) {
	t.Helper()
	w, err := fsys.OpenWrite(path)
	if err != nil {
		t.Fatalf("OpenWrite(%s): %v", path, err)
	}
	if _, err := io.WriteString(w, content); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing %s: %v", path, err)
	}
}

func readString(t *testing.T, fsys fs.FileSystem, path string) string {
	t.Helper()
	r, err := fsys.OpenRead(path)
	if err != nil {
		t.Fatalf("OpenRead(%s): %v", path, err)
	}
	defer r.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(b)
}

func TestFilterPassesThrough(t *testing.T) {
	d := newDisk(t)
	f := NewFilter(d)

	if got := readString(t, f, "/abc/a.txt"); got != "alpha" {
		t.Errorf("read through filter = %q, want %q", got, "alpha")
	}
	writeString(t, f, "/new.txt", "fresh")
	if got := readString(t, d, "/new.txt"); got != "fresh" {
		t.Errorf("write through filter = %q, want %q", got, "fresh")
	}
	if f.Inner() != fs.FileSystem(d) {
		t.Error("Inner should expose the wrapped store")
	}
}

func TestFiltersCompose(t *testing.T) {
	d := newDisk(t)
	chained := NewReadOnly(NewChroot(d, "/abc"))

	if got := readString(t, chained, "/a.txt"); got != "alpha" {
		t.Errorf("chained read = %q, want %q", got, "alpha")
	}
	if _, err := chained.OpenWrite("/a.txt"); err == nil {
		t.Error("write through read-only chain should fail")
	}
}
