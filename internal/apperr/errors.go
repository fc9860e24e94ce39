// Package apperr defines the error taxonomy shared by all store components.
package apperr

import "errors"

var (
	// ErrInvalidPath marks a sanitizer rejection: unsafe filename, traversal
	// attempt, absolute path, or embedded null byte.
	ErrInvalidPath = errors.New("invalid path")

	// ErrNotFound marks a missing note, notebook, template, version, or
	// attachment.
	ErrNotFound = errors.New("not found")

	// ErrIndexCorrupt marks an unparseable metadata index. Recoverable: the
	// index is treated as empty and a warning is surfaced.
	ErrIndexCorrupt = errors.New("index corrupt")

	// ErrIO marks a failed filesystem read/write/copy/delete. Surfaced to the
	// caller, never retried automatically.
	ErrIO = errors.New("io failure")

	// ErrValidation marks rejected input: empty create, tag outside the tag
	// grammar, empty notebook name.
	ErrValidation = errors.New("validation failed")
)
