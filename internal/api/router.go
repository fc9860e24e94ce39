package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(h *Handler, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes CRUD. Batch routes are registered before the {id} routes so
	// chi never treats "batch" or "merge" as a note id.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Post("/notes/batch/delete", h.BatchDelete)
	r.Post("/notes/batch/important", h.BatchImportant)
	r.Post("/notes/merge", h.Merge)
	r.Get("/notes/{id}", h.GetNote)
	r.Put("/notes/{id}", h.UpdateNote)
	r.Delete("/notes/{id}", h.DeleteNote)
	r.Post("/notes/{id}/important", h.ToggleImportant)
	r.Put("/notes/{id}/title", h.UpdateTitle)
	r.Get("/notes/{id}/backlinks", h.Backlinks)
	r.Post("/notes/{id}/duplicate", h.Duplicate)
	r.Get("/notes/{id}/export", h.Export)
	r.Put("/notes/{id}/notebook", h.MoveToNotebook)
	r.Delete("/notes/{id}/tags/{tag}", h.RemoveTag)

	// Versions.
	r.Get("/notes/{id}/versions", h.ListVersions)
	r.Get("/notes/{id}/version", h.GetVersion)
	r.Post("/notes/{id}/version/restore", h.RestoreVersion)

	// Attachments.
	r.Post("/notes/{id}/attachments", h.AttachFiles)
	r.Post("/notes/{id}/attachments/data", h.AttachData)
	r.Post("/notes/{id}/attachments/remove", h.RemoveAttachment)
	r.Post("/notes/{id}/attachments/rename", h.RenameAttachment)
	r.Get("/attachments", h.ServeAttachment)

	// Tags.
	r.Get("/tags", h.ListTags)
	r.Get("/tags/{tag}/notes", h.NotesByTag)
	r.Post("/tags/{tag}/notes", h.AddTag)

	// Notebooks.
	r.Get("/notebooks", h.ListNotebooks)
	r.Post("/notebooks", h.CreateNotebook)
	r.Put("/notebooks/{id}", h.RenameNotebook)
	r.Post("/notebooks/{id}/archive", h.ArchiveNotebook)
	r.Get("/notebooks/{id}/notes", h.NotebookNotes)

	// Templates.
	r.Get("/templates", h.ListTemplates)
	r.Post("/templates", h.SaveTemplate)
	r.Delete("/templates/{id}", h.DeleteTemplate)
	r.Post("/templates/{id}/notes", h.InstantiateTemplate)

	// Daily note and search.
	r.Get("/daily", h.DailyNote)
	r.Get("/search", h.Search)

	// Whole-store backup and the sync folder setting.
	r.Post("/backup/export", h.ExportStore)
	r.Post("/backup/import", h.ImportStore)
	r.Get("/sync-folder", h.GetSyncFolder)
	r.Put("/sync-folder", h.SetSyncFolder)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
