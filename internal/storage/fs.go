package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/pathsafe"
)

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to the store root
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute store root directory.
func (f *FS) Root() string { return f.root }

// safePath resolves a relative path against the store root and rejects any
// result that escapes it.
func (f *FS) safePath(rel string) (string, error) {
	cleaned, err := pathsafe.CleanRel(rel)
	if err != nil {
		return "", err
	}
	joined := filepath.Join(f.root, filepath.FromSlash(cleaned))
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	// Ensure the resolved path is still under root.
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: path escapes store root %q: %w", rel, apperr.ErrInvalidPath)
	}
	return abs, nil
}

// Abs resolves path against the root, re-validating it through the sanitizer.
func (f *FS) Abs(path string) (string, error) {
	return f.safePath(path)
}

// Exists reports whether path refers to an existing file or directory.
func (f *FS) Exists(path string) bool {
	abs, err := f.safePath(path)
	if err != nil {
		return false
	}
	_, err = os.Stat(abs)
	return err == nil
}

// Read returns the raw bytes of a store file.
func (f *FS) Read(path string) ([]byte, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("storage: read %s: %w", path, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("storage: read %s: %v: %w", path, err, apperr.ErrIO)
	}
	return data, nil
}

// Write atomically writes content: tmp file → fsync → rename.
func (f *FS) Write(path string, content []byte) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %v: %w", err, apperr.ErrIO)
	}

	tmp, err := os.CreateTemp(dir, ".othala-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %v: %w", err, apperr.ErrIO)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %v: %w", err, apperr.ErrIO)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %v: %w", err, apperr.ErrIO)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %v: %w", err, apperr.ErrIO)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %v: %w", err, apperr.ErrIO)
	}
	success = true
	return nil
}

// Delete removes a file. A missing file is not an error.
func (f *FS) Delete(path string) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: delete %s: %v: %w", path, err, apperr.ErrIO)
	}
	return nil
}

// RemoveDir removes a directory tree. A missing directory is not an error.
func (f *FS) RemoveDir(path string) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(abs); err != nil {
		return fmt.Errorf("storage: remove dir %s: %v: %w", path, err, apperr.ErrIO)
	}
	return nil
}

// Rename moves a file within the store.
func (f *FS) Rename(oldPath, newPath string) error {
	absOld, err := f.safePath(oldPath)
	if err != nil {
		return err
	}
	absNew, err := f.safePath(newPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(absNew), 0o755); err != nil {
		return fmt.Errorf("storage: mkdir for rename: %v: %w", err, apperr.ErrIO)
	}
	if err := os.Rename(absOld, absNew); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("storage: rename %s: %w", oldPath, apperr.ErrNotFound)
		}
		return fmt.Errorf("storage: rename %s: %v: %w", oldPath, err, apperr.ErrIO)
	}
	return nil
}

// CopyIn copies an absolute external source file into the store.
func (f *FS) CopyIn(src, destPath string) (int64, error) {
	abs, err := f.safePath(destPath)
	if err != nil {
		return 0, err
	}
	in, err := os.Open(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("storage: copy source %s: %w", src, apperr.ErrNotFound)
		}
		return 0, fmt.Errorf("storage: open source %s: %v: %w", src, err, apperr.ErrIO)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return 0, fmt.Errorf("storage: mkdir for copy: %v: %w", err, apperr.ErrIO)
	}
	out, err := os.Create(abs)
	if err != nil {
		return 0, fmt.Errorf("storage: create %s: %v: %w", destPath, err, apperr.ErrIO)
	}
	n, err := io.Copy(out, in)
	if err != nil {
		_ = out.Close()
		_ = os.Remove(abs)
		return 0, fmt.Errorf("storage: copy to %s: %v: %w", destPath, err, apperr.ErrIO)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("storage: close %s: %v: %w", destPath, err, apperr.ErrIO)
	}
	return n, nil
}

// ListDir returns the sorted file names directly under dir.
func (f *FS) ListDir(dir string) ([]string, error) {
	abs, err := f.safePath(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("storage: list %s: %v: %w", dir, err, apperr.ErrIO)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
