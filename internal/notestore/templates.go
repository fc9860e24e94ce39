package notestore

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/models"
)

// builtinTemplates are compiled in and always listed before custom ones.
func builtinTemplates() []models.Template {
	return []models.Template{
		{
			ID:                  "daily-journal",
			Name:                "Daily journal",
			Body:                "# Daily Journal — {{date}}\n\n## What happened today\n- \n\n## Thoughts & reflections\n- \n\n## Tomorrow\n- \n",
			DefaultTitlePattern: "Journal {{date}}",
		},
		{
			ID:                  "meeting-notes",
			Name:                "Meeting notes",
			Body:                "# Meeting: {{title}}\n\n**Date:** {{date}}\n**Attendees:** \n**Agenda:**\n- \n\n**Notes:**\n- \n\n**Action items:**\n- [ ] \n- [ ] \n",
			DefaultTitlePattern: "Meeting {{date}}",
		},
		{
			ID:                  "project-planning",
			Name:                "Project planning",
			Body:                "# Project: {{title}}\n\n## Overview\n- **Goal:** \n- **Timeline:** \n\n## Tasks\n- [ ] \n- [ ] \n\n## Notes\n- \n",
			DefaultTitlePattern: "Project",
		},
	}
}

// Templates returns the built-in templates followed by the custom ones.
func (s *Service) Templates() []models.Template {
	return append(builtinTemplates(), s.idx.Templates()...)
}

func (s *Service) findTemplate(id string) (models.Template, error) {
	for _, t := range s.Templates() {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Template{}, fmt.Errorf("notestore: template %s: %w", id, apperr.ErrNotFound)
}

// CreateFromTemplate instantiates a template into a new note. An empty
// titleOverride falls back to the template's default title pattern, then to
// "Untitled". {{date}} and {{title}} placeholders are expanded in both the
// title and the body.
func (s *Service) CreateFromTemplate(templateID, titleOverride string) (models.Note, error) {
	t, err := s.findTemplate(templateID)
	if err != nil {
		return models.Note{}, err
	}
	title := strings.TrimSpace(titleOverride)
	if title == "" {
		title = strings.TrimSpace(t.DefaultTitlePattern)
	}
	if title == "" {
		title = "Untitled"
	}
	date := s.now().Format("2006-01-02")
	title = strings.ReplaceAll(title, "{{date}}", date)
	body := strings.ReplaceAll(t.Body, "{{date}}", date)
	body = strings.ReplaceAll(body, "{{title}}", title)
	return s.SaveNote("", title, body)
}

// SaveTemplate persists a new custom template. Its name doubles as the
// default title pattern.
func (s *Service) SaveTemplate(name, body string) (models.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Template{}, fmt.Errorf("notestore: template name cannot be empty: %w", apperr.ErrValidation)
	}
	t := models.Template{
		ID:                  "custom-" + uuid.NewString(),
		Name:                name,
		Body:                body,
		DefaultTitlePattern: name,
		IsCustom:            true,
	}
	err := s.idx.Update(func(f *models.IndexFile) error {
		f.Templates = append(f.Templates, t)
		return nil
	})
	if err != nil {
		return models.Template{}, err
	}
	return t, nil
}

// DeleteTemplate removes a custom template. Built-ins cannot be deleted.
func (s *Service) DeleteTemplate(id string) error {
	if !strings.HasPrefix(id, "custom-") {
		return fmt.Errorf("notestore: template %s is built-in: %w", id, apperr.ErrValidation)
	}
	return s.idx.Update(func(f *models.IndexFile) error {
		for i := range f.Templates {
			if f.Templates[i].ID == id {
				f.Templates = append(f.Templates[:i], f.Templates[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("notestore: template %s: %w", id, apperr.ErrNotFound)
	})
}
