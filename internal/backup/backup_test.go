package backup

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/attachments"
	"github.com/starford/othala/internal/index"
	"github.com/starford/othala/internal/notestore"
	"github.com/starford/othala/internal/testutil"
	"github.com/starford/othala/internal/versions"
)

func seededService(t *testing.T) (string, *notestore.Service, *index.Index) {
	t.Helper()
	root, store, idx := testutil.TestIndex(t)
	clock := time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC)
	svc := notestore.New(store, idx, versions.NewArchive(store), attachments.NewStore(store),
		testutil.Logger(), notestore.WithClock(func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		}))
	return root, svc, idx
}

func TestExportImportRoundTrip(t *testing.T) {
	root, svc, idx := seededService(t)
	note, err := svc.SaveNote("", "Keep Me", "body #roundtrip")
	if err != nil {
		t.Fatal(err)
	}
	// Produce a version snapshot too.
	if _, err := svc.SaveNote(note.ID, "Keep Me", "body v2"); err != nil {
		t.Fatal(err)
	}

	target := filepath.Join(t.TempDir(), "backup")
	eng := NewEngine(root, idx, testutil.Logger())
	if err := eng.Export(target); err != nil {
		t.Fatalf("Export: %v", err)
	}

	// The exported folder carries the full layout.
	if _, err := os.Stat(filepath.Join(target, "meta", "index.json")); err != nil {
		t.Errorf("exported index missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(target, "notes", note.ID+".txt")); err != nil {
		t.Errorf("exported note missing: %v", err)
	}
	versionsDir := filepath.Join(target, "versions", note.ID)
	entries, _ := os.ReadDir(versionsDir)
	if len(entries) != 1 {
		t.Errorf("exported versions = %d, want 1", len(entries))
	}

	// Import into a fresh store.
	freshRoot, _, freshIdx := testutil.TestIndex(t)
	fresh := NewEngine(freshRoot, freshIdx, testutil.Logger())
	if err := fresh.Import(target); err != nil {
		t.Fatalf("Import: %v", err)
	}
	got, err := freshIdx.GetNote(note.ID)
	if err != nil {
		t.Fatalf("note missing after import: %v", err)
	}
	if !got.HasTag("roundtrip") {
		t.Errorf("tags = %v", got.Tags)
	}
	body, err := os.ReadFile(filepath.Join(freshRoot, "notes", note.ID+".txt"))
	if err != nil || string(body) != "body v2" {
		t.Errorf("body = %q, %v", body, err)
	}
}

func TestImport_MissingSource(t *testing.T) {
	root, _, idx := seededService(t)
	eng := NewEngine(root, idx, testutil.Logger())
	err := eng.Import(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestExport_CreatesTarget(t *testing.T) {
	root, _, idx := seededService(t)
	eng := NewEngine(root, idx, testutil.Logger())
	target := filepath.Join(t.TempDir(), "deep", "nested", "backup")
	if err := eng.Export(target); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if _, err := os.Stat(filepath.Join(target, "meta", "index.json")); err != nil {
		t.Errorf("index not exported: %v", err)
	}
}
