package notestore

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/index"
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/pathsafe"
)

// Notebooks lists all notebooks, active ones first, each group oldest
// first.
func (s *Service) Notebooks() []models.Notebook {
	books := s.idx.Notebooks()
	sort.Slice(books, func(i, j int) bool {
		if books[i].Archived != books[j].Archived {
			return !books[i].Archived
		}
		if !books[i].CreatedAt.Equal(books[j].CreatedAt) {
			return books[i].CreatedAt.Before(books[j].CreatedAt)
		}
		return books[i].ID < books[j].ID
	})
	return books
}

// CreateNotebook adds a notebook with the given name.
func (s *Service) CreateNotebook(name string) (models.Notebook, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Notebook{}, fmt.Errorf("notestore: notebook name cannot be empty: %w", apperr.ErrValidation)
	}
	nb := models.Notebook{ID: uuid.NewString(), Name: name, CreatedAt: s.now()}
	err := s.idx.Update(func(f *models.IndexFile) error {
		f.Notebooks = append(f.Notebooks, nb)
		return nil
	})
	if err != nil {
		return models.Notebook{}, err
	}
	return nb, nil
}

// RenameNotebook changes a notebook's name.
func (s *Service) RenameNotebook(id, name string) (models.Notebook, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Notebook{}, fmt.Errorf("notestore: notebook name cannot be empty: %w", apperr.ErrValidation)
	}
	var out models.Notebook
	err := s.idx.Update(func(f *models.IndexFile) error {
		nb, err := index.FindNotebook(f, id)
		if err != nil {
			return err
		}
		nb.Name = name
		out = *nb
		return nil
	})
	return out, err
}

// ArchiveNotebook sets the notebook's archived flag. Archiving is a soft
// delete: notes keep their assignment and the notebook stays listed.
func (s *Service) ArchiveNotebook(id string, archived bool) (models.Notebook, error) {
	var out models.Notebook
	err := s.idx.Update(func(f *models.IndexFile) error {
		nb, err := index.FindNotebook(f, id)
		if err != nil {
			return err
		}
		nb.Archived = archived
		out = *nb
		return nil
	})
	return out, err
}

// MoveToNotebook assigns a note to a notebook, or clears the assignment
// when notebookID is nil. The notebook must exist.
func (s *Service) MoveToNotebook(noteID string, notebookID *string) (models.Note, error) {
	if err := pathsafe.ValidateID(noteID); err != nil {
		return models.Note{}, err
	}
	now := s.now()
	err := s.idx.Update(func(f *models.IndexFile) error {
		if notebookID != nil {
			if _, err := index.FindNotebook(f, *notebookID); err != nil {
				return err
			}
		}
		n, err := index.FindNote(f, noteID)
		if err != nil {
			return err
		}
		n.NotebookID = notebookID
		n.UpdatedAt = now
		return nil
	})
	if err != nil {
		return models.Note{}, err
	}
	s.emit(EventUpdated, noteID)
	return s.idx.GetNote(noteID)
}

// NotesInNotebook lists the notes assigned to a notebook, most recently
// updated first.
func (s *Service) NotesInNotebook(notebookID string) []models.Note {
	var out []models.Note
	for _, n := range s.idx.Notes() {
		if n.NotebookID != nil && *n.NotebookID == notebookID {
			out = append(out, n)
		}
	}
	sortNotes(out)
	return out
}

// SyncFolder returns the configured sync folder, or nil when unset.
func (s *Service) SyncFolder() *string {
	return s.idx.SyncFolder()
}

// SetSyncFolder persists the sync folder setting. A nil path clears it.
func (s *Service) SetSyncFolder(folder *string) error {
	if folder != nil {
		trimmed := strings.TrimSpace(*folder)
		if trimmed == "" {
			return fmt.Errorf("notestore: sync folder cannot be empty: %w", apperr.ErrValidation)
		}
		folder = &trimmed
	}
	return s.idx.Update(func(f *models.IndexFile) error {
		f.SyncFolder = folder
		return nil
	})
}
