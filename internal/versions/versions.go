// Package versions keeps the bounded per-note snapshot history.
package versions

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/pathsafe"
	"github.com/starford/othala/internal/storage"
)

// MaxPerNote caps the snapshots kept for one note; the oldest entry is
// evicted first when the cap is exceeded.
const MaxPerNote = 30

// previewRunes bounds the body preview returned by List.
const previewRunes = 150

// Archive stores version snapshots as one JSON file per snapshot under
// versions/<noteId>/.
type Archive struct {
	store storage.Provider
}

// NewArchive creates an archive backed by the given store.
func NewArchive(store storage.Provider) *Archive {
	return &Archive{store: store}
}

func dir(noteID string) string {
	return path.Join("versions", pathsafe.SanitizeFilename(noteID))
}

// filename derives the snapshot file name from its savedAt timestamp
// (colons are not portable in file names).
func filename(savedAt time.Time) string {
	return strings.ReplaceAll(savedAt.Format(time.RFC3339Nano), ":", "-") + ".json"
}

// Record appends a snapshot. It is a no-op when the body equals the newest
// stored snapshot's body, and evicts the oldest entries beyond MaxPerNote.
func (a *Archive) Record(noteID string, snap models.VersionSnapshot) error {
	if err := pathsafe.ValidateID(noteID); err != nil {
		return err
	}
	entries, err := a.load(noteID)
	if err != nil {
		return err
	}
	if len(entries) > 0 && entries[0].snap.Body == snap.Body {
		return nil
	}

	out, err := json.MarshalIndent(&snap, "", "  ")
	if err != nil {
		return fmt.Errorf("versions: marshal: %w", err)
	}
	if err := a.store.Write(path.Join(dir(noteID), filename(snap.SavedAt)), out); err != nil {
		return err
	}

	// Evict oldest beyond the cap, counting the snapshot just written.
	if len(entries)+1 > MaxPerNote {
		for _, e := range entries[MaxPerNote-1:] {
			if err := a.store.Delete(path.Join(dir(noteID), e.name)); err != nil {
				return err
			}
		}
	}
	return nil
}

// List returns the note's snapshots newest-first with a short body preview.
func (a *Archive) List(noteID string) ([]models.VersionListItem, error) {
	if err := pathsafe.ValidateID(noteID); err != nil {
		return nil, err
	}
	entries, err := a.load(noteID)
	if err != nil {
		return nil, err
	}
	items := make([]models.VersionListItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, models.VersionListItem{
			SavedAt:     e.snap.SavedAt,
			Title:       e.snap.Title,
			BodyPreview: preview(e.snap.Body),
		})
	}
	return items, nil
}

// Get loads the full snapshot identified by savedAt.
func (a *Archive) Get(noteID string, savedAt time.Time) (models.VersionSnapshot, error) {
	if err := pathsafe.ValidateID(noteID); err != nil {
		return models.VersionSnapshot{}, err
	}
	data, err := a.store.Read(path.Join(dir(noteID), filename(savedAt)))
	if err != nil {
		// Only a missing snapshot maps to not-found; read failures keep
		// their own class.
		if !errors.Is(err, apperr.ErrNotFound) {
			return models.VersionSnapshot{}, fmt.Errorf("versions: %s@%s: %w",
				noteID, savedAt.Format(time.RFC3339Nano), err)
		}
		return models.VersionSnapshot{}, fmt.Errorf("versions: %s@%s: %w",
			noteID, savedAt.Format(time.RFC3339Nano), apperr.ErrNotFound)
	}
	var snap models.VersionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.VersionSnapshot{}, fmt.Errorf("versions: decode: %w", err)
	}
	return snap, nil
}

// Remove deletes the note's whole archive. Missing archives are fine.
func (a *Archive) Remove(noteID string) error {
	if err := pathsafe.ValidateID(noteID); err != nil {
		return err
	}
	return a.store.RemoveDir(dir(noteID))
}

type entry struct {
	name string
	snap models.VersionSnapshot
}

// load reads every snapshot of a note, newest first.
func (a *Archive) load(noteID string) ([]entry, error) {
	names, err := a.store.ListDir(dir(noteID))
	if err != nil {
		return nil, err
	}
	var entries []entry
	for _, name := range names {
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		data, err := a.store.Read(path.Join(dir(noteID), name))
		if err != nil {
			continue
		}
		var snap models.VersionSnapshot
		if json.Unmarshal(data, &snap) != nil {
			continue
		}
		entries = append(entries, entry{name: name, snap: snap})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].snap.SavedAt.After(entries[j].snap.SavedAt)
	})
	return entries, nil
}

func preview(body string) string {
	runes := []rune(body)
	if len(runes) <= previewRunes {
		return body
	}
	return string(runes[:previewRunes]) + "…"
}
