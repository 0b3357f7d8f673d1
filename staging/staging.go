// Package staging materializes a virtual store onto the real filesystem so
// that tools requiring native OS paths can operate on its content, then
// writes their changes back. A single-use lease guards the backing store
// while a staging area is outstanding.
package staging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/liflab/lif-fs/backends/localfs"
	"github.com/liflab/lif-fs/fs"
	"github.com/liflab/lif-fs/fsutil"
)

// Area is a staging directory bound to a leased backing store. Paths are
// fetched lazily and at most once: a path materialized by LocalPath is
// never re-fetched, even if the backing store changes afterwards. Changes
// made under the staging root, by whatever tool, are only persisted by an
// explicit Commit; Release discards whatever was not committed.
type Area struct {
	backing   fs.Reifiable
	token     fs.LeaseToken
	root      string
	local     *localfs.LocalFS
	staged    map[string]bool
	committed bool
	released  bool
	logger    *zap.Logger
}

// Reify acquires the store's lease and creates an empty staging directory.
// It fails with fs.ErrLeaseConflict while another area is outstanding.
func Reify(backing fs.Reifiable, logger *zap.Logger) (*Area, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	token, err := backing.Lease().Acquire()
	if err != nil {
		return nil, err
	}
	root := filepath.Join(os.TempDir(), "lif-fs-staging-"+uuid.NewString())
	local, err := localfs.New(root)
	if err != nil {
		backing.Lease().Release(token)
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}
	if err := local.Open(); err != nil {
		backing.Lease().Release(token)
		os.RemoveAll(root)
		return nil, err
	}
	logger.Debug("staging area created", zap.String("root", root))
	return &Area{
		backing: backing,
		token:   token,
		root:    root,
		local:   local,
		staged:  make(map[string]bool),
		logger:  logger,
	}, nil
}

// Root returns the staging directory on the real filesystem.
func (a *Area) Root() string {
	return a.root
}

// bypass runs fn with the backing store's lease guard lifted, so the
// area's own calls into the leased store are admitted.
func (a *Area) bypass(fn func() error) error {
	a.backing.Lease().BeginBypass()
	defer a.backing.Lease().EndBypass()
	return fn()
}

// resolve maps a caller path to its absolute form in the backing store and
// the corresponding location under the staging root.
func (a *Area) resolve(path string) (abs fs.Path, localPath string, err error) {
	var wd string
	err = a.bypass(func() error {
		var e error
		wd, e = a.backing.Getwd()
		return e
	})
	if err != nil {
		return fs.Path{}, "", err
	}
	abs = fs.ParsePath(wd).Resolve(path)
	rel := strings.TrimPrefix(abs.String(), "/")
	return abs, filepath.Join(a.root, filepath.FromSlash(rel)), nil
}

// LocalPath returns the real OS path for a backing path, fetching its
// content into the staging area on first access. Folders materialize as
// empty local folders, files are copied once, and absent paths get only
// their parent chain so a brand-new file can be created at the returned
// location.
func (a *Area) LocalPath(path string) (string, error) {
	if a.released {
		return "", fs.ErrClosed
	}
	abs, localPath, err := a.resolve(path)
	if err != nil {
		return "", err
	}
	key := abs.String()
	if a.staged[key] {
		return localPath, nil
	}

	err = a.bypass(func() error {
		isDir, err := a.backing.IsDirectory(key)
		if err == nil && isDir {
			return os.MkdirAll(localPath, 0o755)
		}
		if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
			return err
		}
		isFile, err := a.backing.IsFile(key)
		if err != nil || !isFile {
			return nil
		}
		src, err := a.backing.OpenRead(key)
		if err != nil {
			return err
		}
		defer src.Close()
		dst, err := os.Create(localPath)
		if err != nil {
			return err
		}
		if _, err := io.Copy(dst, src); err != nil {
			dst.Close()
			return err
		}
		return dst.Close()
	})
	if err != nil {
		return "", fmt.Errorf("materializing %s: %w", key, err)
	}

	a.staged[key] = true
	a.logger.Debug("path materialized",
		zap.String("path", key),
		zap.String("local", localPath))
	return localPath, nil
}

// List merges the names visible in the staging area with those of the
// backing store, without materializing anything. Each name is reported
// once.
func (a *Area) List(path string) ([]string, error) {
	if a.released {
		return nil, fs.ErrClosed
	}
	abs, _, err := a.resolve(path)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	found := false
	if names, err := a.local.List(abs.String()); err == nil {
		found = true
		for _, n := range names {
			seen[n] = struct{}{}
		}
	}
	var backErr error
	backErr = a.bypass(func() error {
		names, err := a.backing.List(abs.String())
		if err != nil {
			return err
		}
		for _, n := range names {
			seen[n] = struct{}{}
		}
		return nil
	})
	if backErr == nil {
		found = true
	}
	if !found {
		return nil, backErr
	}
	union := make([]string, 0, len(seen))
	for n := range seen {
		union = append(union, n)
	}
	sort.Strings(union)
	return union, nil
}

// Commit walks the whole staging tree, including anything written there by
// native tools, and writes every entry back into the backing store,
// creating folders as needed and overwriting files unconditionally. The
// write-back is best effort: a mid-walk failure leaves the backing store
// partially updated.
func (a *Area) Commit() error {
	if a.released {
		return fs.ErrClosed
	}
	if err := a.local.Pushd("/"); err != nil {
		return err
	}
	defer a.local.Popd()
	err := a.bypass(func() error {
		return fsutil.Walk(a.local, func(p fs.Path, dir bool) error {
			target := "/" + p.String()
			if dir {
				return a.backing.Mkdir(target)
			}
			src, err := a.local.OpenRead(p.String())
			if err != nil {
				return err
			}
			defer src.Close()
			dst, err := a.backing.OpenWrite(target)
			if err != nil {
				return err
			}
			if _, err := io.Copy(dst, src); err != nil {
				dst.Close()
				return err
			}
			return dst.Close()
		})
	})
	if err != nil {
		return fmt.Errorf("committing staging area: %w", err)
	}
	a.committed = true
	a.logger.Debug("staging area committed", zap.String("root", a.root))
	return nil
}

// Committed reports whether the area's content has been written back at
// least once. An area released without a commit discarded its changes.
func (a *Area) Committed() bool {
	return a.committed
}

// Release deletes the staging directory and frees the lease. It never
// commits implicitly and may be called more than once; only the first call
// has any effect.
func (a *Area) Release() error {
	if a.released {
		return nil
	}
	a.released = true
	a.local.Close()
	if err := os.RemoveAll(a.root); err != nil {
		a.backing.Lease().Release(a.token)
		return fmt.Errorf("removing staging directory: %w", err)
	}
	if err := a.backing.Lease().Release(a.token); err != nil {
		return err
	}
	a.logger.Debug("staging area released",
		zap.String("root", a.root),
		zap.Bool("committed", a.committed))
	return nil
}
