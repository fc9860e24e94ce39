package notestore

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/attachments"
	"github.com/starford/othala/internal/index"
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/parser"
	"github.com/starford/othala/internal/pathsafe"
	"github.com/starford/othala/internal/render"
)

// Duplicate creates a fresh note titled "<title> (copy)" with the same body
// and copies of all attachments. The copy gets its own history.
func (s *Service) Duplicate(id string) (models.Note, error) {
	content, err := s.ReadNote(id)
	if err != nil {
		return models.Note{}, err
	}
	dup, err := s.SaveNote("", strings.TrimSpace(content.Meta.Title)+" (copy)", content.Body)
	if err != nil {
		return models.Note{}, err
	}
	if len(content.Meta.Images) == 0 {
		return dup, nil
	}
	if err := s.attach.CopyAll(id, dup.ID); err != nil {
		return models.Note{}, err
	}
	refs := make([]models.ImageRef, 0, len(content.Meta.Images))
	addedAt := s.now()
	for _, img := range content.Meta.Images {
		refs = append(refs, models.ImageRef{
			Name:    img.Name,
			Path:    path.Join(attachments.Dir(dup.ID), path.Base(img.Path)),
			AddedAt: addedAt,
			Size:    img.Size,
		})
	}
	return s.appendRefs(dup.ID, refs)
}

// Merge concatenates the notes' bodies into the first id of the list
// (sections ordered oldest first) and deletes the rest. Links into the
// removed notes are retracted everywhere.
func (s *Service) Merge(ids []string) (models.Note, error) {
	if len(ids) == 0 {
		return models.Note{}, fmt.Errorf("notestore: no notes to merge: %w", apperr.ErrValidation)
	}
	// Repeated ids would merge a note into itself and then remove it; drop
	// them before anything touches the disk.
	seen := make(map[string]struct{}, len(ids))
	uniq := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	ids = uniq
	if len(ids) == 1 {
		return s.idx.GetNote(ids[0])
	}
	keepID := ids[0]
	unlock := s.locks.Lock(keepID)
	defer unlock()

	type section struct {
		meta models.Note
		body string
	}
	sections := make([]section, 0, len(ids))
	for _, id := range ids {
		if err := pathsafe.ValidateID(id); err != nil {
			return models.Note{}, err
		}
		meta, err := s.idx.GetNote(id)
		if err != nil {
			return models.Note{}, err
		}
		sections = append(sections, section{meta: meta, body: s.readBody(id)})
	}
	sort.SliceStable(sections, func(i, j int) bool {
		if !sections[i].meta.UpdatedAt.Equal(sections[j].meta.UpdatedAt) {
			return sections[i].meta.UpdatedAt.Before(sections[j].meta.UpdatedAt)
		}
		return sections[i].meta.ID < sections[j].meta.ID
	})

	mergedTitle := sections[0].meta.Title
	var b strings.Builder
	for _, sec := range sections {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", sec.meta.Title, sec.body)
	}
	mergedBody := strings.TrimSpace(b.String()) + "\n"

	// Archive the keeper's current content before it is overwritten.
	keeper, err := s.idx.GetNote(keepID)
	if err != nil {
		return models.Note{}, err
	}
	snap := models.VersionSnapshot{SavedAt: keeper.UpdatedAt, Title: keeper.Title, Body: s.readBody(keepID)}
	if err := s.arch.Record(keepID, snap); err != nil {
		return models.Note{}, err
	}
	if err := s.files.Write(s.notePath(keepID), []byte(mergedBody)); err != nil {
		return models.Note{}, err
	}

	removed := make(map[string]struct{}, len(ids)-1)
	for _, id := range ids[1:] {
		removed[id] = struct{}{}
	}
	now := s.now()
	err = s.idx.Update(func(f *models.IndexFile) error {
		if err := removeNotes(f, removed); err != nil {
			return err
		}
		n, err := index.FindNote(f, keepID)
		if err != nil {
			return err
		}
		n.Title = mergedTitle
		n.UpdatedAt = now
		n.Tags = mergeTags(n.Tags, mergedBody, mergedTitle, n.IsDaily)
		n.LinksTo = parser.ResolveLinks(mergedBody, f.Notes, keepID)
		if n.LinksTo == nil {
			n.LinksTo = []string{}
		}
		return nil
	})
	if err != nil {
		return models.Note{}, err
	}

	for id := range removed {
		if err := s.removeNoteFiles(id); err != nil {
			return models.Note{}, err
		}
		s.emit(EventDeleted, id)
	}
	s.emit(EventUpdated, keepID)
	return s.idx.GetNote(keepID)
}

// DailyNote returns today's daily note, creating it on first call. The
// date is the local calendar date; concurrent callers share one creation.
func (s *Service) DailyNote() (models.Note, error) {
	date := s.now().Format("2006-01-02")
	v, err, _ := s.daily.Do(date, func() (interface{}, error) {
		for _, n := range s.idx.Notes() {
			if n.IsDaily && n.Title == date {
				return n, nil
			}
		}
		id := uuid.NewString()
		now := s.now()
		if err := s.files.Write(s.notePath(id), []byte("# daily\n")); err != nil {
			return nil, err
		}
		err := s.idx.Update(func(f *models.IndexFile) error {
			f.Notes = append(f.Notes, models.Note{
				ID:        id,
				Title:     date,
				CreatedAt: now,
				UpdatedAt: now,
				Filename:  id + ".txt",
				Images:    []models.ImageRef{},
				Tags:      []string{"daily"},
				LinksTo:   []string{},
				IsDaily:   true,
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
		s.emit(EventCreated, id)
		created, err := s.idx.GetNote(id)
		if err != nil {
			return nil, err
		}
		return created, nil
	})
	if err != nil {
		return models.Note{}, err
	}
	note, _ := v.(models.Note)
	return note, nil
}

// ExportText renders the plain-text export of a note.
func (s *Service) ExportText(id string) (string, error) {
	content, err := s.ReadNote(id)
	if err != nil {
		return "", err
	}
	return render.Text(content), nil
}

// ExportMarkdown renders the Markdown export of a note.
func (s *Service) ExportMarkdown(id string) (string, error) {
	content, err := s.ReadNote(id)
	if err != nil {
		return "", err
	}
	return render.Markdown(content)
}

// RenderHTML renders a note to HTML for display.
func (s *Service) RenderHTML(id string) (string, error) {
	content, err := s.ReadNote(id)
	if err != nil {
		return "", err
	}
	return render.HTML(content)
}
