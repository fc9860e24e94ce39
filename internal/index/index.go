// Package index owns the metadata index document: the single authoritative
// mapping from ids to note, notebook, and template records.
package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/storage"
)

// FilePath is the index document location relative to the store root.
const FilePath = "meta/index.json"

// Index holds the in-memory copy of the index document plus the single
// mutual-exclusion domain for read-modify-write cycles. All writes go
// through Update, which serializes the cycle and swaps the file atomically,
// so readers never observe a half-written index.
type Index struct {
	store  storage.Provider
	logger *slog.Logger

	mu      sync.Mutex
	data    models.IndexFile
	corrupt bool
}

// Open loads the persisted index. A missing file yields empty structures
// (and creates the file); unparseable content is recovered by starting
// empty with a surfaced warning, never by failing.
func Open(store storage.Provider, logger *slog.Logger) (*Index, error) {
	idx := &Index{store: store, logger: logger}
	data, err := store.Read(FilePath)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		if err := idx.persistLocked(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if jsonErr := json.Unmarshal(data, &idx.data); jsonErr != nil {
			logger.Warn("index: unparseable document, starting empty",
				slog.String("path", FilePath),
				slog.String("error", fmt.Errorf("%v: %w", jsonErr, apperr.ErrIndexCorrupt).Error()))
			idx.data = models.IndexFile{}
			idx.corrupt = true
		}
	}
	return idx, nil
}

// Corrupt reports whether the last load recovered from an unparseable
// document.
func (idx *Index) Corrupt() bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.corrupt
}

// Reload re-reads the document from disk, replacing the in-memory state.
// Used after an import and when the watcher sees an external swap.
func (idx *Index) Reload() error {
	data, err := idx.store.Read(FilePath)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			idx.mu.Lock()
			idx.data = models.IndexFile{}
			idx.mu.Unlock()
			return nil
		}
		return err
	}
	var next models.IndexFile
	if jsonErr := json.Unmarshal(data, &next); jsonErr != nil {
		return fmt.Errorf("index: reload: %v: %w", jsonErr, apperr.ErrIndexCorrupt)
	}
	idx.mu.Lock()
	idx.data = next
	idx.corrupt = false
	idx.mu.Unlock()
	return nil
}

// Update runs fn against the document under the index lock and persists the
// result atomically. Returning an error from fn aborts without persisting.
func (idx *Index) Update(fn func(*models.IndexFile) error) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	backup := cloneIndexFile(&idx.data)
	if err := fn(&idx.data); err != nil {
		idx.data = backup
		return err
	}
	if err := idx.persistLocked(); err != nil {
		idx.data = backup
		return err
	}
	return nil
}

// persistLocked serializes the document and swaps it into place. Caller
// holds idx.mu (or has exclusive access during Open).
func (idx *Index) persistLocked() error {
	out, err := json.MarshalIndent(&idx.data, "", "  ")
	if err != nil {
		return fmt.Errorf("index: marshal: %w", err)
	}
	return idx.store.Write(FilePath, out)
}

// Snapshot returns a deep copy of the document for read-only use.
func (idx *Index) Snapshot() models.IndexFile {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return cloneIndexFile(&idx.data)
}

// Notes returns a deep copy of all note records.
func (idx *Index) Notes() []models.Note {
	return idx.Snapshot().Notes
}

// GetNote returns the note with the given id.
func (idx *Index) GetNote(id string) (models.Note, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for i := range idx.data.Notes {
		if idx.data.Notes[i].ID == id {
			return cloneNote(&idx.data.Notes[i]), nil
		}
	}
	return models.Note{}, fmt.Errorf("index: note %s: %w", id, apperr.ErrNotFound)
}

// Notebooks returns a copy of all notebook records.
func (idx *Index) Notebooks() []models.Notebook {
	return idx.Snapshot().Notebooks
}

// Templates returns a copy of the persisted custom templates.
func (idx *Index) Templates() []models.Template {
	return idx.Snapshot().Templates
}

// SyncFolder returns the configured sync folder, or nil when unset.
func (idx *Index) SyncFolder() *string {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.data.SyncFolder == nil {
		return nil
	}
	v := *idx.data.SyncFolder
	return &v
}

// FindNote locates a note inside a document by id. Shared by Update
// callbacks.
func FindNote(f *models.IndexFile, id string) (*models.Note, error) {
	for i := range f.Notes {
		if f.Notes[i].ID == id {
			return &f.Notes[i], nil
		}
	}
	return nil, fmt.Errorf("index: note %s: %w", id, apperr.ErrNotFound)
}

// FindNotebook locates a notebook inside a document by id.
func FindNotebook(f *models.IndexFile, id string) (*models.Notebook, error) {
	for i := range f.Notebooks {
		if f.Notebooks[i].ID == id {
			return &f.Notebooks[i], nil
		}
	}
	return nil, fmt.Errorf("index: notebook %s: %w", id, apperr.ErrNotFound)
}

func cloneNote(n *models.Note) models.Note {
	out := *n
	out.Images = append([]models.ImageRef(nil), n.Images...)
	out.Tags = append([]string(nil), n.Tags...)
	out.LinksTo = append([]string(nil), n.LinksTo...)
	if n.NotebookID != nil {
		v := *n.NotebookID
		out.NotebookID = &v
	}
	return out
}

func cloneIndexFile(f *models.IndexFile) models.IndexFile {
	out := models.IndexFile{
		Notes:     make([]models.Note, len(f.Notes)),
		Notebooks: append([]models.Notebook(nil), f.Notebooks...),
		Templates: append([]models.Template(nil), f.Templates...),
	}
	for i := range f.Notes {
		out.Notes[i] = cloneNote(&f.Notes[i])
	}
	if f.SyncFolder != nil {
		v := *f.SyncFolder
		out.SyncFolder = &v
	}
	return out
}
