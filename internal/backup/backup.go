// Package backup copies the whole store between its root and an external
// folder. The layout round-trips byte-for-byte, so an exported folder is
// itself a valid store.
package backup

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/index"
)

// contentDirs are copied in parallel; meta/ follows once they are complete
// so a reader of the target never sees an index referencing missing files.
var contentDirs = []string{"notes", "versions", "images"}

// Engine exports and imports the store directory tree.
type Engine struct {
	root   string
	idx    *index.Index
	logger *slog.Logger
}

// NewEngine creates a backup engine for the store rooted at root.
func NewEngine(root string, idx *index.Index, logger *slog.Logger) *Engine {
	return &Engine{root: root, idx: idx, logger: logger}
}

// Export copies the store into target, creating it if needed. Content
// directories go first, the metadata index last.
func (e *Engine) Export(target string) error {
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("backup: create target: %v: %w", err, apperr.ErrIO)
	}
	if err := copyTree(e.root, target); err != nil {
		return err
	}
	e.logger.Info("backup: export complete", slog.String("target", target))
	return nil
}

// Import copies a previously exported folder into the store and reloads the
// index. A missing source is ErrNotFound.
func (e *Engine) Import(source string) error {
	info, err := os.Stat(source)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("backup: source %s: %w", source, apperr.ErrNotFound)
	}
	if err := copyTree(source, e.root); err != nil {
		return err
	}
	if err := e.idx.Reload(); err != nil {
		return err
	}
	e.logger.Info("backup: import complete", slog.String("source", source))
	return nil
}

func copyTree(from, to string) error {
	var g errgroup.Group
	for _, d := range contentDirs {
		d := d
		g.Go(func() error {
			return copyDir(filepath.Join(from, d), filepath.Join(to, d))
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return copyDir(filepath.Join(from, "meta"), filepath.Join(to, "meta"))
}

// copyDir recursively copies src into dest. A missing src is a no-op: a
// fresh store has no versions or images yet.
func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("backup: read %s: %v: %w", src, err, apperr.ErrIO)
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("backup: create %s: %v: %w", dest, err, apperr.ErrIO)
	}
	for _, entry := range entries {
		s := filepath.Join(src, entry.Name())
		d := filepath.Join(dest, entry.Name())
		if entry.IsDir() {
			if err := copyDir(s, d); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(s, d); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("backup: open %s: %v: %w", src, err, apperr.ErrIO)
	}
	defer in.Close()
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("backup: create %s: %v: %w", dest, err, apperr.ErrIO)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("backup: copy %s: %v: %w", dest, err, apperr.ErrIO)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("backup: close %s: %v: %w", dest, err, apperr.ErrIO)
	}
	return nil
}
