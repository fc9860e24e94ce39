package index

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openIndex(t *testing.T) (storage.Provider, *Index) {
	t.Helper()
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	idx, err := Open(store, testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return store, idx
}

func TestOpen_CreatesMissingDocument(t *testing.T) {
	store, idx := openIndex(t)
	if idx.Corrupt() {
		t.Error("fresh index reported corrupt")
	}
	if !store.Exists(FilePath) {
		t.Error("index document was not created")
	}
	if notes := idx.Notes(); len(notes) != 0 {
		t.Errorf("notes = %v, want empty", notes)
	}
}

func TestOpen_RecoversFromCorruptDocument(t *testing.T) {
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_ = store.Write(FilePath, []byte("{not json"))

	idx, err := Open(store, testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !idx.Corrupt() {
		t.Error("expected corrupt flag")
	}
	if len(idx.Notes()) != 0 {
		t.Error("expected empty recovery state")
	}
}

func TestUpdate_PersistsAcrossReopen(t *testing.T) {
	store, idx := openIndex(t)
	err := idx.Update(func(f *models.IndexFile) error {
		f.Notes = append(f.Notes, models.Note{
			ID: "n1", Title: "First", CreatedAt: time.Now(), UpdatedAt: time.Now(),
			Images: []models.ImageRef{}, Tags: []string{"first"}, LinksTo: []string{},
		})
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	reopened, err := Open(store, testLogger())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	note, err := reopened.GetNote("n1")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if note.Title != "First" || !note.HasTag("first") {
		t.Errorf("note = %+v", note)
	}
}

func TestUpdate_RollsBackOnError(t *testing.T) {
	_, idx := openIndex(t)
	_ = idx.Update(func(f *models.IndexFile) error {
		f.Notes = append(f.Notes, models.Note{ID: "keep"})
		return nil
	})

	wantErr := errors.New("boom")
	err := idx.Update(func(f *models.IndexFile) error {
		f.Notes = nil
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v", err)
	}
	if _, err := idx.GetNote("keep"); err != nil {
		t.Errorf("rollback lost data: %v", err)
	}
}

func TestUpdate_ConcurrentNoLostUpdates(t *testing.T) {
	_, idx := openIndex(t)
	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = idx.Update(func(f *models.IndexFile) error {
				f.Notes = append(f.Notes, models.Note{ID: fmt.Sprintf("n%d", i)})
				return nil
			})
		}(i)
	}
	wg.Wait()
	if got := len(idx.Notes()); got != workers {
		t.Errorf("notes = %d, want %d", got, workers)
	}
}

func TestGetNote_NotFound(t *testing.T) {
	_, idx := openIndex(t)
	if _, err := idx.GetNote("ghost"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	_, idx := openIndex(t)
	_ = idx.Update(func(f *models.IndexFile) error {
		f.Notes = append(f.Notes, models.Note{ID: "n1", Tags: []string{"a"}})
		return nil
	})
	snap := idx.Snapshot()
	snap.Notes[0].Tags[0] = "mutated"

	note, _ := idx.GetNote("n1")
	if note.Tags[0] != "a" {
		t.Error("snapshot mutation leaked into index state")
	}
}

func TestReload_PicksUpExternalSwap(t *testing.T) {
	store, idx := openIndex(t)
	_ = store.Write(FilePath, []byte(`{"notes":[{"id":"ext","title":"External","createdAt":"2026-08-01T00:00:00Z","updatedAt":"2026-08-01T00:00:00Z","important":false,"filename":"ext.txt","images":[],"tags":[],"linksTo":[],"isDaily":false}],"notebooks":[],"templates":[]}`))

	if err := idx.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if _, err := idx.GetNote("ext"); err != nil {
		t.Errorf("external note missing after reload: %v", err)
	}
}
