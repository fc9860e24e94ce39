// Package notestore is the orchestration layer: it sequences content
// writes, version snapshots, attachment moves, and index updates so that a
// failure never leaves the index pointing at content that was not written.
package notestore

import (
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/attachments"
	"github.com/starford/othala/internal/index"
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/parser"
	"github.com/starford/othala/internal/pathsafe"
	"github.com/starford/othala/internal/storage"
	"github.com/starford/othala/internal/versions"
)

// Change event kinds passed to the change hook.
const (
	EventCreated = "note.created"
	EventUpdated = "note.updated"
	EventDeleted = "note.deleted"
)

// Service implements the note operations on top of the content store, the
// metadata index, the version archive, and the attachment store.
type Service struct {
	files  storage.Provider
	idx    *index.Index
	arch   *versions.Archive
	attach *attachments.Store
	logger *slog.Logger

	locks    *storage.Locker
	now      func() time.Time
	onChange func(event, id string)
	daily    singleflight.Group
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source. Tests use it to pin timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithChangeHook registers a callback invoked after every successful
// note mutation. Used to feed the event stream.
func WithChangeHook(fn func(event, id string)) Option {
	return func(s *Service) { s.onChange = fn }
}

// New creates the service.
func New(files storage.Provider, idx *index.Index, arch *versions.Archive,
	attach *attachments.Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		files:  files,
		idx:    idx,
		arch:   arch,
		attach: attach,
		logger: logger,
		locks:  storage.NewLocker(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) emit(event, id string) {
	if s.onChange != nil {
		s.onChange(event, id)
	}
}

func (s *Service) notePath(id string) string {
	return path.Join("notes", pathsafe.SanitizeFilename(id)+".txt")
}

// readBody loads a note's content file, treating a missing file as empty.
func (s *Service) readBody(id string) string {
	data, err := s.files.Read(s.notePath(id))
	if err != nil {
		return ""
	}
	return string(data)
}

// SaveNote creates (id == "") or updates a note. The content file is written
// before the index entry, and on an update the previous content is archived
// first, so the version history always covers what the save overwrote.
func (s *Service) SaveNote(id, title, body string) (models.Note, error) {
	title = strings.TrimSpace(title)
	creating := id == ""
	if creating {
		if title == "" && strings.TrimSpace(body) == "" {
			return models.Note{}, fmt.Errorf("notestore: nothing to save: %w", apperr.ErrValidation)
		}
		if title == "" {
			title = "Untitled"
		}
		id = uuid.NewString()
	} else if err := pathsafe.ValidateID(id); err != nil {
		return models.Note{}, err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	now := s.now()
	if !creating {
		prior, err := s.idx.GetNote(id)
		if err != nil {
			return models.Note{}, err
		}
		if current := s.readBody(id); current != body {
			snap := models.VersionSnapshot{SavedAt: prior.UpdatedAt, Title: prior.Title, Body: current}
			if err := s.arch.Record(id, snap); err != nil {
				return models.Note{}, err
			}
		}
	}

	if err := s.files.Write(s.notePath(id), []byte(body)); err != nil {
		return models.Note{}, err
	}

	err := s.idx.Update(func(f *models.IndexFile) error {
		if creating {
			f.Notes = append(f.Notes, models.Note{
				ID:        id,
				Title:     title,
				CreatedAt: now,
				UpdatedAt: now,
				Filename:  id + ".txt",
				Images:    []models.ImageRef{},
				Tags:      []string{},
				LinksTo:   []string{},
			})
		}
		n, err := index.FindNote(f, id)
		if err != nil {
			return err
		}
		if title != "" {
			n.Title = title
		}
		n.UpdatedAt = now
		n.Tags = mergeTags(n.Tags, body, n.Title, n.IsDaily)
		n.LinksTo = parser.ResolveLinks(body, f.Notes, id)
		if n.LinksTo == nil {
			n.LinksTo = []string{}
		}
		return nil
	})
	if err != nil {
		return models.Note{}, err
	}

	if creating {
		s.emit(EventCreated, id)
	} else {
		s.emit(EventUpdated, id)
	}
	return s.idx.GetNote(id)
}

// ReadNote returns a note's metadata together with its body. A metadata
// entry whose content file is gone reads as an empty body rather than
// failing, so a half-restored store stays usable.
func (s *Service) ReadNote(id string) (models.NoteContent, error) {
	if err := pathsafe.ValidateID(id); err != nil {
		return models.NoteContent{}, err
	}
	meta, err := s.idx.GetNote(id)
	if err != nil {
		return models.NoteContent{}, err
	}
	return models.NoteContent{Meta: meta, Body: s.readBody(id)}, nil
}

// ListNotes returns all notes, most recently updated first.
func (s *Service) ListNotes() []models.Note {
	notes := s.idx.Notes()
	sortNotes(notes)
	return notes
}

// DeleteNote removes the note's index entry (including its id in other
// notes' link lists) and then its content, attachments, and versions.
func (s *Service) DeleteNote(id string) error {
	if err := pathsafe.ValidateID(id); err != nil {
		return err
	}
	unlock := s.locks.Lock(id)
	defer unlock()

	err := s.idx.Update(func(f *models.IndexFile) error {
		return removeNotes(f, map[string]struct{}{id: {}})
	})
	if err != nil {
		return err
	}
	if err := s.removeNoteFiles(id); err != nil {
		return err
	}
	s.emit(EventDeleted, id)
	return nil
}

// BatchDelete removes several notes in one index swap.
func (s *Service) BatchDelete(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if err := pathsafe.ValidateID(id); err != nil {
			return err
		}
		set[id] = struct{}{}
	}
	err := s.idx.Update(func(f *models.IndexFile) error {
		return removeNotes(f, set)
	})
	if err != nil {
		return err
	}
	for id := range set {
		if err := s.removeNoteFiles(id); err != nil {
			return err
		}
		s.emit(EventDeleted, id)
	}
	return nil
}

// ToggleImportant flips the note's starred flag and returns the new state.
func (s *Service) ToggleImportant(id string) (models.Note, error) {
	if err := pathsafe.ValidateID(id); err != nil {
		return models.Note{}, err
	}
	now := s.now()
	err := s.idx.Update(func(f *models.IndexFile) error {
		n, err := index.FindNote(f, id)
		if err != nil {
			return err
		}
		n.Important = !n.Important
		n.UpdatedAt = now
		return nil
	})
	if err != nil {
		return models.Note{}, err
	}
	s.emit(EventUpdated, id)
	return s.idx.GetNote(id)
}

// BatchImportant sets the starred flag on several notes in one index swap.
func (s *Service) BatchImportant(ids []string, important bool) error {
	if len(ids) == 0 {
		return nil
	}
	now := s.now()
	err := s.idx.Update(func(f *models.IndexFile) error {
		for _, id := range ids {
			n, err := index.FindNote(f, id)
			if err != nil {
				return err
			}
			n.Important = important
			n.UpdatedAt = now
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, id := range ids {
		s.emit(EventUpdated, id)
	}
	return nil
}

// UpdateTitle retitles a note. The new title's slug joins the tag set the
// same way it would on a full save.
func (s *Service) UpdateTitle(id, title string) (models.Note, error) {
	if err := pathsafe.ValidateID(id); err != nil {
		return models.Note{}, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Note{}, fmt.Errorf("notestore: title cannot be empty: %w", apperr.ErrValidation)
	}
	now := s.now()
	err := s.idx.Update(func(f *models.IndexFile) error {
		n, err := index.FindNote(f, id)
		if err != nil {
			return err
		}
		n.Title = title
		n.UpdatedAt = now
		n.Tags = mergeTags(n.Tags, "", title, n.IsDaily)
		return nil
	})
	if err != nil {
		return models.Note{}, err
	}
	s.emit(EventUpdated, id)
	return s.idx.GetNote(id)
}

// Backlinks returns the notes whose link lists contain id.
func (s *Service) Backlinks(id string) ([]models.Note, error) {
	if err := pathsafe.ValidateID(id); err != nil {
		return nil, err
	}
	if _, err := s.idx.GetNote(id); err != nil {
		return nil, err
	}
	var out []models.Note
	for _, n := range s.idx.Notes() {
		for _, target := range n.LinksTo {
			if target == id {
				out = append(out, n)
				break
			}
		}
	}
	sortNotes(out)
	return out, nil
}

// removeNoteFiles deletes a note's content, attachments, and versions.
func (s *Service) removeNoteFiles(id string) error {
	if err := s.files.Delete(s.notePath(id)); err != nil {
		return err
	}
	if err := s.attach.RemoveAll(id); err != nil {
		return err
	}
	return s.arch.Remove(id)
}

// removeNotes drops every note in set from the document and retracts their
// ids from the remaining notes' link lists.
func removeNotes(f *models.IndexFile, set map[string]struct{}) error {
	kept := f.Notes[:0]
	removed := 0
	for i := range f.Notes {
		if _, ok := set[f.Notes[i].ID]; ok {
			removed++
			continue
		}
		kept = append(kept, f.Notes[i])
	}
	if removed != len(set) {
		return fmt.Errorf("index: note: %w", apperr.ErrNotFound)
	}
	f.Notes = kept
	retractLinks(f, set)
	return nil
}

// retractLinks removes every id in set from all notes' link lists.
func retractLinks(f *models.IndexFile, set map[string]struct{}) {
	for i := range f.Notes {
		links := f.Notes[i].LinksTo[:0]
		for _, target := range f.Notes[i].LinksTo {
			if _, ok := set[target]; !ok {
				links = append(links, target)
			}
		}
		f.Notes[i].LinksTo = links
	}
}

// mergeTags unions the existing tag set with the tags derived from body and
// title. Tags are never dropped here: removal is an explicit operation.
func mergeTags(existing []string, body, title string, isDaily bool) []string {
	set := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		set[t] = struct{}{}
	}
	for _, t := range parser.Tags(body) {
		set[t] = struct{}{}
	}
	if slug := parser.Slug(title); slug != "" {
		set[slug] = struct{}{}
	}
	if isDaily {
		set["daily"] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func sortNotes(notes []models.Note) {
	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].UpdatedAt.Equal(notes[j].UpdatedAt) {
			return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
		}
		return notes[i].ID < notes[j].ID
	})
}
