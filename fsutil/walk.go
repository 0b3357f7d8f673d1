package fsutil

import (
	"github.com/liflab/lif-fs/fs"
)

// WalkFunc is invoked for every entry found by Walk. The path is relative
// to the directory the walk started from.
type WalkFunc func(path fs.Path, dir bool) error

// Walk enumerates every file and folder under the store's current
// directory. Files of a directory are visited before its subdirectories are
// descended into.
func Walk(fsys fs.FileSystem, fn WalkFunc) error {
	return walk(fsys, fs.NewPath(nil, false), fn)
}

func walk(fsys fs.FileSystem, dir fs.Path, fn WalkFunc) error {
	entries, err := fsys.List(dir.String())
	if err != nil {
		return err
	}
	var folders []fs.Path
	for _, name := range entries {
		child := dir.Resolve(name)
		isDir, err := fsys.IsDirectory(child.String())
		if err != nil {
			return err
		}
		if err := fn(child, isDir); err != nil {
			return err
		}
		if isDir {
			folders = append(folders, child)
		}
	}
	for _, sub := range folders {
		if err := walk(fsys, sub, fn); err != nil {
			return err
		}
	}
	return nil
}

// TreeSize returns the total size of all files inside a folder and its
// subfolders.
func TreeSize(fsys fs.FileSystem, path string) (int64, error) {
	if err := fsys.Pushd(path); err != nil {
		return 0, err
	}
	defer fsys.Popd()
	var total int64
	err := Walk(fsys, func(p fs.Path, dir bool) error {
		if dir {
			return nil
		}
		n, err := fsys.Size(p.String())
		if err != nil {
			return err
		}
		total += n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}
