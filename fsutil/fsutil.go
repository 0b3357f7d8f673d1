// Package fsutil provides common operations built on top of the file
// system contract: whole-file reads and writes, recursive copies between
// stores, tree walks and aggregate sizing.
package fsutil

import (
	"fmt"
	"io"
	"regexp"

	"github.com/liflab/lif-fs/fs"
)

// ReadFile reads the whole content of a file.
func ReadFile(fsys fs.FileSystem, path string) ([]byte, error) {
	src, err := fsys.OpenRead(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// WriteFile writes data as the whole content of a file.
func WriteFile(fsys fs.FileSystem, path string, data []byte) error {
	sink, err := fsys.OpenWrite(path)
	if err != nil {
		return err
	}
	if _, err := sink.Write(data); err != nil {
		sink.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := sink.Close(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", path, err)
	}
	return nil
}

// CopyStream copies the content of a source into a sink, leaving both open.
func CopyStream(from io.Reader, to io.Writer) error {
	if _, err := io.Copy(to, from); err != nil {
		return fmt.Errorf("failed to copy stream: %w", err)
	}
	return nil
}

// Copy replicates all files and folders under the current directory of one
// store into another, recursing through subdirectories with the directory
// stack discipline.
func Copy(from, to fs.FileSystem) error {
	entries, err := from.List("")
	if err != nil {
		return err
	}
	var folders []string
	for _, name := range entries {
		dir, err := from.IsDirectory(name)
		if err != nil {
			return err
		}
		if dir {
			folders = append(folders, name)
			continue
		}
		if err := copyFile(from, to, name); err != nil {
			return err
		}
	}
	for _, name := range folders {
		if err := to.Mkdir(name); err != nil {
			return err
		}
		if err := from.Pushd(name); err != nil {
			return err
		}
		if err := to.Pushd(name); err != nil {
			return err
		}
		if err := Copy(from, to); err != nil {
			return err
		}
		if err := from.Popd(); err != nil {
			return err
		}
		if err := to.Popd(); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(from, to fs.FileSystem, name string) error {
	src, err := from.OpenRead(name)
	if err != nil {
		return err
	}
	defer src.Close()
	sink, err := to.OpenWrite(name)
	if err != nil {
		return err
	}
	if err := CopyStream(src, sink); err != nil {
		sink.Close()
		return err
	}
	return sink.Close()
}

// ListPattern lists a directory and keeps only the names matching a regular
// expression.
func ListPattern(fsys fs.FileSystem, path, pattern string) ([]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	entries, err := fsys.List(path)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, name := range entries {
		if re.MatchString(name) {
			out = append(out, name)
		}
	}
	return out, nil
}
