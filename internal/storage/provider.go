// Package storage defines the store-root file-system abstraction.
package storage

// Provider is the interface for file operations under the store root. All
// paths are relative to the root and validated before use.
type Provider interface {
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating parent directories.
	Write(path string, content []byte) error
	// Delete removes the file at path. Missing files are not an error.
	Delete(path string) error
	// RemoveDir removes the directory at path and everything under it.
	// Missing directories are not an error.
	RemoveDir(path string) error
	// Rename moves oldPath to newPath within the root.
	Rename(oldPath, newPath string) error
	// CopyIn copies an absolute external source file to destPath and
	// returns the number of bytes written.
	CopyIn(src, destPath string) (int64, error)
	// ListDir returns the sorted file names directly under dir. A missing
	// dir yields an empty list.
	ListDir(dir string) ([]string, error)
	// Exists reports whether path refers to an existing file or directory.
	Exists(path string) bool
	// Abs resolves path against the root, re-validating it.
	Abs(path string) (string, error)
	// Root returns the absolute store root directory.
	Root() string
}
