package fsutil

import (
	"sort"
	"testing"

	"github.com/liflab/lif-fs/backends/ramdisk"
	"github.com/liflab/lif-fs/fs"
)

func newDisk(t *testing.T) *ramdisk.RamDisk {
	t.Helper()
	d := ramdisk.New()
	if err := d.Open(); err != nil {
		t.Fatal(err)
	}
	for path, content := range map[string]string{
		"/abc/a.txt":     "alpha",
		"/abc/b.txt":     "beta",
		"/def/ghi/c.txt": "gamma",
		"/def/e.txt":     "delta",
		"/e.txt":         "epsilon",
	} {
		if err := WriteFile(d, path, []byte(content)); err != nil {
			t.Fatalf("WriteFile(%s): %v", path, err)
		}
	}
	if err := d.Mkdir("/jkl"); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestReadWriteFile(t *testing.T) {
	d := newDisk(t)
	if err := WriteFile(d, "/f.txt", []byte("payload")); err != nil {
		t.Fatal(err)
	}
	b, err := ReadFile(d, "/f.txt")
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "payload" {
		t.Errorf("content = %q, want %q", b, "payload")
	}
}

func TestCopyBetweenStores(t *testing.T) {
	src := newDisk(t)
	dst := ramdisk.New()
	if err := dst.Open(); err != nil {
		t.Fatal(err)
	}

	if err := Copy(src, dst); err != nil {
		t.Fatalf("Copy: %v", err)
	}

	for path, want := range map[string]string{
		"/abc/a.txt":     "alpha",
		"/def/ghi/c.txt": "gamma",
		"/e.txt":         "epsilon",
	} {
		b, err := ReadFile(dst, path)
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", path, err)
		}
		if string(b) != want {
			t.Errorf("%s = %q, want %q", path, b, want)
		}
	}
	if ok, _ := dst.IsDirectory("/jkl"); !ok {
		t.Error("empty folder not copied")
	}

	// Both cursors are back where they started.
	for name, store := range map[string]fs.FileSystem{"src": src, "dst": dst} {
		wd, err := store.Getwd()
		if err != nil {
			t.Fatal(err)
		}
		if wd != "/" {
			t.Errorf("%s cursor left at %q", name, wd)
		}
	}
}

func TestWalkVisitsEverything(t *testing.T) {
	d := newDisk(t)
	var files, dirs []string
	err := Walk(d, func(p fs.Path, dir bool) error {
		if dir {
			dirs = append(dirs, p.String())
		} else {
			files = append(files, p.String())
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(files)
	wantFiles := []string{"abc/a.txt", "abc/b.txt", "def/e.txt", "def/ghi/c.txt", "e.txt"}
	if len(files) != len(wantFiles) {
		t.Fatalf("files = %v, want %v", files, wantFiles)
	}
	for i := range wantFiles {
		if files[i] != wantFiles[i] {
			t.Fatalf("files = %v, want %v", files, wantFiles)
		}
	}
	sort.Strings(dirs)
	wantDirs := []string{"abc", "def", "def/ghi", "jkl"}
	if len(dirs) != len(wantDirs) {
		t.Fatalf("dirs = %v, want %v", dirs, wantDirs)
	}
}

func TestTreeSize(t *testing.T) {
	d := newDisk(t)
	total, err := TreeSize(d, "/")
	if err != nil {
		t.Fatal(err)
	}
	if total != 26 {
		t.Errorf("TreeSize(/) = %d, want 26", total)
	}

	sub, err := TreeSize(d, "/abc")
	if err != nil {
		t.Fatal(err)
	}
	if sub != 9 {
		t.Errorf("TreeSize(/abc) = %d, want 9", sub)
	}

	// The walk must not disturb the cursor.
	wd, _ := d.Getwd()
	if wd != "/" {
		t.Errorf("cursor left at %q", wd)
	}
}

func TestListPattern(t *testing.T) {
	d := newDisk(t)
	names, err := ListPattern(d, "/abc", `\.txt$`)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 {
		t.Errorf("ListPattern = %v, want two entries", names)
	}
	none, err := ListPattern(d, "/abc", `\.bin$`)
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("ListPattern = %v, want none", none)
	}
	if _, err := ListPattern(d, "/abc", `(`); err == nil {
		t.Error("invalid pattern should fail")
	}
}
