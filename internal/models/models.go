// Package models defines the domain types for Othala.
package models

import "time"

// ImageRef is an attachment reference stored on a note. Path is relative to
// the store root and always points inside the note's own image directory.
type ImageRef struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	AddedAt time.Time `json:"addedAt"`
	Size    *int64    `json:"size,omitempty"`
}

// Note is the metadata record for a single note. The body lives in its own
// file under notes/<id>.txt; everything else is kept in the index document.
type Note struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	Important  bool       `json:"important"`
	Filename   string     `json:"filename"`
	Images     []ImageRef `json:"images"`
	Tags       []string   `json:"tags"`
	LinksTo    []string   `json:"linksTo"`
	IsDaily    bool       `json:"isDaily"`
	NotebookID *string    `json:"notebookId,omitempty"`
}

// HasTag reports whether the note carries the given tag.
func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Notebook groups notes. Archiving is a soft delete: assigned notes keep
// their notebookId.
type Notebook struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"createdAt"`
}

// Template is a note template. Built-ins are compiled in and never
// persisted; custom templates (IsCustom) live in the index document.
type Template struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Body                string `json:"body"`
	DefaultTitlePattern string `json:"defaultTitlePattern,omitempty"`
	IsCustom            bool   `json:"isCustom"`
}

// IndexFile is the single persisted metadata document (meta/index.json).
type IndexFile struct {
	Notes      []Note     `json:"notes"`
	Notebooks  []Notebook `json:"notebooks"`
	Templates  []Template `json:"templates"`
	SyncFolder *string    `json:"syncFolder,omitempty"`
}

// NoteContent pairs a note's metadata with its body text.
type NoteContent struct {
	Meta Note   `json:"meta"`
	Body string `json:"body"`
}

// VersionSnapshot is a full (title, body) copy captured before a
// content-changing save. SavedAt identifies the version within its note.
type VersionSnapshot struct {
	SavedAt time.Time `json:"savedAt"`
	Title   string    `json:"title"`
	Body    string    `json:"body"`
}

// VersionListItem is a lightweight entry in a note's version timeline.
type VersionListItem struct {
	SavedAt     time.Time `json:"savedAt"`
	Title       string    `json:"title"`
	BodyPreview string    `json:"bodyPreview"`
}
