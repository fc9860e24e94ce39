package notestore

import (
	"path"
	"strings"

	"github.com/starford/othala/internal/index"
	"github.com/starford/othala/internal/models"
)

// AttachFiles imports external files into the note. Files land on disk
// before the refs are recorded, so a failed copy leaves no dangling ref.
func (s *Service) AttachFiles(noteID string, sources []string) (models.Note, error) {
	if _, err := s.idx.GetNote(noteID); err != nil {
		return models.Note{}, err
	}
	refs, err := s.attach.Import(noteID, sources)
	if err != nil {
		return models.Note{}, err
	}
	return s.appendRefs(noteID, refs)
}

// AttachData stores in-memory bytes (clipboard paste) as an attachment.
func (s *Service) AttachData(noteID string, data []byte, suggestedName string) (models.Note, error) {
	if _, err := s.idx.GetNote(noteID); err != nil {
		return models.Note{}, err
	}
	ref, err := s.attach.FromData(noteID, data, suggestedName)
	if err != nil {
		return models.Note{}, err
	}
	return s.appendRefs(noteID, []models.ImageRef{ref})
}

// RemoveAttachment deletes the file, then drops its ref. A ref whose file
// is already gone is still dropped.
func (s *Service) RemoveAttachment(noteID, relPath string) (models.Note, error) {
	if err := s.attach.Remove(noteID, relPath); err != nil {
		return models.Note{}, err
	}
	now := s.now()
	err := s.idx.Update(func(f *models.IndexFile) error {
		n, err := index.FindNote(f, noteID)
		if err != nil {
			return err
		}
		kept := n.Images[:0]
		for _, img := range n.Images {
			if img.Path != relPath {
				kept = append(kept, img)
			}
		}
		n.Images = kept
		n.UpdatedAt = now
		return nil
	})
	if err != nil {
		return models.Note{}, err
	}
	s.emit(EventUpdated, noteID)
	return s.idx.GetNote(noteID)
}

// RenameAttachment renames the file on disk and updates the ref's display
// name and path together. The stored extension is kept.
func (s *Service) RenameAttachment(noteID, relPath, newName string) (models.Note, error) {
	newRel, err := s.attach.Rename(noteID, relPath, newName)
	if err != nil {
		return models.Note{}, err
	}
	display := strings.TrimSpace(newName)
	if ext := path.Ext(relPath); !strings.HasSuffix(strings.ToLower(display), strings.ToLower(ext)) {
		display += ext
	}
	now := s.now()
	err = s.idx.Update(func(f *models.IndexFile) error {
		n, err := index.FindNote(f, noteID)
		if err != nil {
			return err
		}
		for i := range n.Images {
			if n.Images[i].Path == relPath {
				n.Images[i].Name = display
				n.Images[i].Path = newRel
				n.UpdatedAt = now
				return nil
			}
		}
		// File moved but no ref pointed at it; record nothing.
		return nil
	})
	if err != nil {
		return models.Note{}, err
	}
	s.emit(EventUpdated, noteID)
	return s.idx.GetNote(noteID)
}

// ResolveAttachment maps a stored relative path to an absolute path.
func (s *Service) ResolveAttachment(relPath string) (string, error) {
	return s.attach.Resolve(relPath)
}

func (s *Service) appendRefs(noteID string, refs []models.ImageRef) (models.Note, error) {
	now := s.now()
	err := s.idx.Update(func(f *models.IndexFile) error {
		n, err := index.FindNote(f, noteID)
		if err != nil {
			return err
		}
		n.Images = append(n.Images, refs...)
		n.UpdatedAt = now
		return nil
	})
	if err != nil {
		return models.Note{}, err
	}
	s.emit(EventUpdated, noteID)
	return s.idx.GetNote(noteID)
}
