package fs

import "errors"

// Sentinel errors shared by every backend and decorator. Callers are
// expected to test with errors.Is; backends wrap underlying I/O failures
// with fmt.Errorf("...: %w", err) so the native cause stays reachable.
var (
	// ErrNotOpen is returned by any operation other than Open invoked
	// before the store has been opened, or after it has been closed.
	ErrNotOpen = errors.New("file system is not open")

	// ErrClosed is returned by Open and Close once the store has been
	// closed; a closed store cannot be reopened and Close is not
	// idempotent.
	ErrClosed = errors.New("file system has already been closed")

	// ErrNotFound is returned when a path does not denote any resource.
	ErrNotFound = errors.New("no such file or directory")

	// ErrWrongKind is returned when a path denotes a resource of the
	// wrong kind, such as Remove on a folder or Rmdir on a file.
	ErrWrongKind = errors.New("wrong resource kind")

	// ErrUnauthorized is returned when a policy decorator blocks an
	// operation.
	ErrUnauthorized = errors.New("unauthorized access")

	// ErrCapacityExceeded is returned by a capped write sink the instant
	// a write would push usage past the configured ceiling. Bytes written
	// by earlier calls are not rolled back.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrUnsupported is returned when an operation is meaningless for a
	// backend, such as Mkdir on a read-only archive.
	ErrUnsupported = errors.New("operation not supported by this file system")

	// ErrLeaseConflict is returned by Reify while a lease is outstanding,
	// and by ordinary operations reaching a leased store without going
	// through its staging handle.
	ErrLeaseConflict = errors.New("file system is reified")
)
