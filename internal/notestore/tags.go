package notestore

import (
	"fmt"
	"sort"
	"strings"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/index"
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/parser"
	"github.com/starford/othala/internal/pathsafe"
)

// TagCount is one entry of the tag inventory.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// ListTags returns every tag in use with its note count, most used first,
// ties alphabetical.
func (s *Service) ListTags() []TagCount {
	counts := make(map[string]int)
	for _, n := range s.idx.Notes() {
		for _, t := range n.Tags {
			counts[t]++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for t, c := range counts {
		out = append(out, TagCount{Tag: t, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// NotesByTag returns the notes carrying the tag, most recently updated
// first. Lookup is case-insensitive since tags are stored lowercase.
func (s *Service) NotesByTag(tag string) []models.Note {
	tag = strings.ToLower(strings.TrimSpace(tag))
	var out []models.Note
	for _, n := range s.idx.Notes() {
		if n.HasTag(tag) {
			out = append(out, n)
		}
	}
	sortNotes(out)
	return out
}

// AddTagToNotes adds one tag to several notes in a single index swap. The
// tag is lowercased and must match the tag grammar.
func (s *Service) AddTagToNotes(tag string, ids []string) error {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if !parser.ValidTag(tag) {
		return fmt.Errorf("notestore: invalid tag %q: %w", tag, apperr.ErrValidation)
	}
	for _, id := range ids {
		if err := pathsafe.ValidateID(id); err != nil {
			return err
		}
	}
	now := s.now()
	err := s.idx.Update(func(f *models.IndexFile) error {
		for _, id := range ids {
			n, err := index.FindNote(f, id)
			if err != nil {
				return err
			}
			if n.HasTag(tag) {
				continue
			}
			n.Tags = append(n.Tags, tag)
			sort.Strings(n.Tags)
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

// RemoveTag drops one tag from a note's metadata. The body is not edited:
// if the tag still appears as a #token there, the next save derives it
// again.
func (s *Service) RemoveTag(id, tag string) (models.Note, error) {
	if err := pathsafe.ValidateID(id); err != nil {
		return models.Note{}, err
	}
	tag = strings.ToLower(strings.TrimSpace(tag))
	now := s.now()
	err := s.idx.Update(func(f *models.IndexFile) error {
		n, err := index.FindNote(f, id)
		if err != nil {
			return err
		}
		kept := n.Tags[:0]
		for _, t := range n.Tags {
			if t != tag {
				kept = append(kept, t)
			}
		}
		n.Tags = kept
		n.UpdatedAt = now
		return nil
	})
	if err != nil {
		return models.Note{}, err
	}
	s.emit(EventUpdated, id)
	return s.idx.GetNote(id)
}
