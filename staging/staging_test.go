package staging

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/liflab/lif-fs/backends/ramdisk"
	"github.com/liflab/lif-fs/fs"
)

func newBacking(t *testing.T) *ramdisk.RamDisk {
	t.Helper()
	d := ramdisk.New()
	if err := d.Open(); err != nil {
		t.Fatal(err)
	}
	for path, content := range map[string]string{
		"/abc/a.txt": "alpha",
		"/def/e.txt": "delta",
		"/e.txt":     "epsilon",
	} {
		w, err := d.OpenWrite(path)
		if err != nil {
			t.Fatalf("OpenWrite(%s): %v", path, err)
		}
		if _, err := io.WriteString(w, content); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}
	}
	return d
}

func readBacking(t *testing.T, d *ramdisk.RamDisk, path string) string {
	t.Helper()
	d.Lease().BeginBypass()
	defer d.Lease().EndBypass()
	r, err := d.OpenRead(path)
	if err != nil {
		t.Fatalf("OpenRead(%s): %v", path, err)
	}
	defer r.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestReifyTakesLease(t *testing.T) {
	d := newBacking(t)
	area, err := Reify(d, nil)
	if err != nil {
		t.Fatalf("Reify: %v", err)
	}
	defer area.Release()

	// Direct access to the backing store is refused while staged.
	if _, err := d.List("/"); !errors.Is(err, fs.ErrLeaseConflict) {
		t.Errorf("List while reified = %v, want ErrLeaseConflict", err)
	}
	// A second staging area cannot be taken out.
	if _, err := Reify(d, nil); !errors.Is(err, fs.ErrLeaseConflict) {
		t.Errorf("second Reify = %v, want ErrLeaseConflict", err)
	}
}

func TestLocalPathMaterializesFile(t *testing.T) {
	d := newBacking(t)
	area, err := Reify(d, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer area.Release()

	p, err := area.LocalPath("/abc/a.txt")
	if err != nil {
		t.Fatalf("LocalPath: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("reading materialized file: %v", err)
	}
	if string(b) != "alpha" {
		t.Errorf("materialized content = %q, want %q", b, "alpha")
	}

	// The fetch is one-shot: changing the backing afterwards does not
	// refresh the local copy.
	d.Lease().BeginBypass()
	w, err := d.OpenWrite("/abc/a.txt")
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(w, "changed behind the area's back")
	w.Close()
	d.Lease().EndBypass()

	p2, err := area.LocalPath("/abc/a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if p2 != p {
		t.Errorf("second LocalPath = %q, want %q", p2, p)
	}
	b, _ = os.ReadFile(p2)
	if string(b) != "alpha" {
		t.Errorf("snapshot refreshed unexpectedly: %q", b)
	}
}

func TestLocalPathFolderAndAbsent(t *testing.T) {
	d := newBacking(t)
	area, err := Reify(d, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer area.Release()

	dir, err := area.LocalPath("/abc")
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("folder did not materialize as a directory: %v", err)
	}

	// An absent path gets its parent chain only, so a new file can be
	// created at the returned location.
	fresh, err := area.LocalPath("/brand/new/file.txt")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(fresh); !os.IsNotExist(err) {
		t.Errorf("absent path should not materialize: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(fresh)); err != nil {
		t.Errorf("parent chain missing: %v", err)
	}
}

func TestCommitWritesBack(t *testing.T) {
	d := newBacking(t)
	area, err := Reify(d, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer area.Release()

	p, err := area.LocalPath("/abc/a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("edited"), 0o644); err != nil {
		t.Fatal(err)
	}
	// A file created natively, never fetched, must be written back too.
	native, err := area.LocalPath("/made/here.txt")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(native, []byte("native"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := area.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if got := readBacking(t, d, "/abc/a.txt"); got != "edited" {
		t.Errorf("backing content = %q, want %q", got, "edited")
	}
	if got := readBacking(t, d, "/made/here.txt"); got != "native" {
		t.Errorf("native file = %q, want %q", got, "native")
	}
}

func TestRepeatedCommits(t *testing.T) {
	d := newBacking(t)
	area, err := Reify(d, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer area.Release()

	if area.Committed() {
		t.Error("fresh area should not report committed")
	}
	p, err := area.LocalPath("/abc/a.txt")
	if err != nil {
		t.Fatal(err)
	}
	for _, content := range []string{"first pass", "second pass"} {
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := area.Commit(); err != nil {
			t.Fatalf("Commit: %v", err)
		}
		if got := readBacking(t, d, "/abc/a.txt"); got != content {
			t.Errorf("backing content = %q, want %q", got, content)
		}
	}
	if !area.Committed() {
		t.Error("area should report committed after Commit")
	}
	// Commit leaves the local store's directory stack as it found it.
	wd, err := area.local.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if wd != "/" {
		t.Errorf("local wd after commits = %q, want /", wd)
	}
}

func TestReleaseWithoutCommitDiscards(t *testing.T) {
	d := newBacking(t)
	area, err := Reify(d, nil)
	if err != nil {
		t.Fatal(err)
	}

	p, err := area.LocalPath("/e.txt")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("never persisted"), 0o644); err != nil {
		t.Fatal(err)
	}
	root := area.Root()

	if err := area.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Error("staging directory should be deleted on release")
	}
	if got := readBacking(t, d, "/e.txt"); got != "epsilon" {
		t.Errorf("backing changed without commit: %q", got)
	}
	// The lease is free again.
	if _, err := d.List("/"); err != nil {
		t.Errorf("List after release = %v", err)
	}

	// Release is idempotent, and a released area refuses further work.
	if err := area.Release(); err != nil {
		t.Errorf("second Release = %v", err)
	}
	if _, err := area.LocalPath("/e.txt"); !errors.Is(err, fs.ErrClosed) {
		t.Errorf("LocalPath after release = %v, want ErrClosed", err)
	}
	if area.Committed() {
		t.Error("area was never committed")
	}
}

func TestListMergesLocalAndBacking(t *testing.T) {
	d := newBacking(t)
	area, err := Reify(d, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer area.Release()

	// Create a native file the backing does not know about.
	native, err := area.LocalPath("/native.txt")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(native, []byte("n"), 0o644); err != nil {
		t.Fatal(err)
	}

	names, err := area.List("/")
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[string]bool)
	for _, n := range names {
		if seen[n] {
			t.Errorf("duplicate entry %q in %v", n, names)
		}
		seen[n] = true
	}
	for _, want := range []string{"abc", "def", "e.txt", "native.txt"} {
		if !seen[want] {
			t.Errorf("missing %q in %v", want, names)
		}
	}
}
