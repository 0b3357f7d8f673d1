// Package fs defines the uniform file system contract shared by every
// backend and decorator: the structured path model, the open/close state
// machine with its directory stack, the error taxonomy, and the lease guard
// used by the reification subsystem.
package fs

import "io"

// OpenState is the lifecycle state of a file system instance. The only legal
// transitions are Uninitialized to Open and Open to Closed; a closed store
// can never be reopened.
type OpenState int

const (
	Uninitialized OpenState = iota
	Open
	Closed
)

// String returns the state name for logs and error messages.
func (s OpenState) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// FileSystem is the uniform contract for file-and-folder operations. Every
// backend, whatever its storage medium, honors the same state machine:
// every operation except Open and Close fails with ErrNotOpen unless the
// store is open; Close fails with ErrClosed when already closed; Open fails
// with ErrClosed after a close.
//
// Path arguments may be absolute or relative; relative paths resolve
// against the store's current working directory. A FileSystem instance is
// not safe for concurrent use without external synchronization.
type FileSystem interface {
	// Open starts the interaction with the store.
	Open() error

	// List returns the names of the entries of a directory. The empty
	// path lists the current working directory.
	List(path string) ([]string, error)

	// IsDirectory reports whether path denotes an existing directory.
	IsDirectory(path string) (bool, error)

	// IsFile reports whether path denotes an existing file.
	IsFile(path string) (bool, error)

	// Size returns the size in bytes of the file at path.
	Size(path string) (int64, error)

	// OpenWrite returns a sink for writing the file at path. Content is
	// committed to the store only when the sink is closed; partial
	// writes are never durably visible before that.
	OpenWrite(path string) (io.WriteCloser, error)

	// OpenRead returns a source for reading the file at path. The caller
	// owns the source and must close it.
	OpenRead(path string) (io.ReadCloser, error)

	// Chdir changes the current working directory, pushing the previous
	// one onto the directory stack.
	Chdir(path string) error

	// Pushd is Chdir under its stack-discipline name.
	Pushd(path string) error

	// Popd restores the directory at the top of the stack, or resets to
	// the root when the stack is empty.
	Popd() error

	// Mkdir creates a directory, creating intermediate directories as
	// needed. Creating an existing directory is not an error.
	Mkdir(path string) error

	// Rmdir deletes a directory and all its contents.
	Rmdir(path string) error

	// Remove deletes a file.
	Remove(path string) error

	// Getwd returns the current working directory, relative to the root
	// of the store.
	Getwd() (string, error)

	// Close stops the interaction with the store.
	Close() error
}
