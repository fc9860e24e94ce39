package api

import "github.com/starford/othala/internal/models"

// SaveNoteRequest is the body for creating or updating a note.
type SaveNoteRequest struct {
	Title string `json:"title" example:"Project Alpha"`
	Body  string `json:"body" example:"Kickoff #alpha"`
}

// TitleRequest is the body for retitling a note.
type TitleRequest struct {
	Title string `json:"title" validate:"required"`
}

// IDListRequest carries the ids of a batch operation.
type IDListRequest struct {
	IDs []string `json:"ids" validate:"required"`
}

// BatchImportantRequest stars or unstars several notes.
type BatchImportantRequest struct {
	IDs       []string `json:"ids" validate:"required"`
	Important bool     `json:"important"`
}

// AttachFilesRequest imports external files by absolute path.
type AttachFilesRequest struct {
	Sources []string `json:"sources" validate:"required"`
}

// AttachDataRequest stores raw bytes (base64) as an attachment.
type AttachDataRequest struct {
	Name string `json:"name" example:"paste.png"`
	Data []byte `json:"data" validate:"required"`
}

// AttachmentPathRequest identifies one attachment by its stored path.
type AttachmentPathRequest struct {
	Path string `json:"path" validate:"required"`
}

// RenameAttachmentRequest renames one attachment.
type RenameAttachmentRequest struct {
	Path    string `json:"path" validate:"required"`
	NewName string `json:"newName" validate:"required"`
}

// NameRequest carries a single name field (notebooks, templates).
type NameRequest struct {
	Name string `json:"name" validate:"required"`
}

// TemplateRequest is the body for saving a custom template.
type TemplateRequest struct {
	Name string `json:"name" validate:"required"`
	Body string `json:"body"`
}

// InstantiateRequest creates a note from a template.
type InstantiateRequest struct {
	Title string `json:"title"`
}

// NotebookAssignRequest moves a note into (or out of) a notebook.
type NotebookAssignRequest struct {
	NotebookID *string `json:"notebookId"`
}

// ArchiveRequest sets a notebook's archived flag.
type ArchiveRequest struct {
	Archived bool `json:"archived"`
}

// FolderRequest carries a backup or sync folder path.
type FolderRequest struct {
	Folder string `json:"folder" validate:"required"`
}

// SyncFolderRequest sets or clears the sync folder.
type SyncFolderRequest struct {
	Folder *string `json:"folder"`
}

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []models.Note `json:"notes" validate:"required"`
	Total int           `json:"total" example:"42" validate:"required"`
}

// ExportResponse wraps a rendered export.
type ExportResponse struct {
	Content string `json:"content" validate:"required"`
}
