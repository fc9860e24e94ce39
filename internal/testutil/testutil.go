// Package testutil provides shared test helpers for setting up stores.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/starford/othala/internal/index"
	"github.com/starford/othala/internal/storage"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestStore creates a temporary store directory with a storage.Provider.
func TestStore(t *testing.T) (string, storage.Provider) {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, store
}

// TestIndex creates a store plus an opened index over it.
func TestIndex(t *testing.T) (string, storage.Provider, *index.Index) {
	t.Helper()
	root, store := TestStore(t)
	idx, err := index.Open(store, Logger())
	if err != nil {
		t.Fatal(err)
	}
	return root, store, idx
}
