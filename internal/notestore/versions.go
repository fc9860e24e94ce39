package notestore

import (
	"time"

	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/pathsafe"
)

// ListVersions returns the note's version timeline, newest first.
func (s *Service) ListVersions(id string) ([]models.VersionListItem, error) {
	if err := pathsafe.ValidateID(id); err != nil {
		return nil, err
	}
	if _, err := s.idx.GetNote(id); err != nil {
		return nil, err
	}
	return s.arch.List(id)
}

// GetVersion loads one full snapshot by its savedAt timestamp.
func (s *Service) GetVersion(id string, savedAt time.Time) (models.VersionSnapshot, error) {
	if err := pathsafe.ValidateID(id); err != nil {
		return models.VersionSnapshot{}, err
	}
	return s.arch.Get(id, savedAt)
}

// RestoreVersion replaces the note's content with a snapshot's. It goes
// through the normal save path, so the content being replaced is archived
// first and a restore can itself be undone.
func (s *Service) RestoreVersion(id string, savedAt time.Time) (models.Note, error) {
	snap, err := s.GetVersion(id, savedAt)
	if err != nil {
		return models.Note{}, err
	}
	return s.SaveNote(id, snap.Title, snap.Body)
}
