package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/othala/internal/backup"
	"github.com/starford/othala/internal/notestore"
	"github.com/starford/othala/internal/search"
)

// Handler holds API route handlers.
type Handler struct {
	svc    *notestore.Service
	finder *search.Engine
	backup *backup.Engine
}

// NewHandler creates a new Handler.
func NewHandler(svc *notestore.Service, finder *search.Engine, bk *backup.Engine) *Handler {
	return &Handler{svc: svc, finder: finder, backup: bk}
}

func noteID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}

// ListNotes handles GET /api/notes.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes := h.svc.ListNotes()
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes, Total: len(notes)})
}

// CreateNote handles POST /api/notes.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req SaveNoteRequest
	if !decode(w, r, &req) {
		return
	}
	note, err := h.svc.SaveNote("", req.Title, req.Body)
	if err != nil {
		writeError(w, "create note", err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// GetNote handles GET /api/notes/{id}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	content, err := h.svc.ReadNote(noteID(r))
	if err != nil {
		writeError(w, "get note", err)
		return
	}
	writeJSON(w, http.StatusOK, content)
}

// UpdateNote handles PUT /api/notes/{id}.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req SaveNoteRequest
	if !decode(w, r, &req) {
		return
	}
	note, err := h.svc.SaveNote(noteID(r), req.Title, req.Body)
	if err != nil {
		writeError(w, "update note", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/{id}.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteNote(noteID(r)); err != nil {
		writeError(w, "delete note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleImportant handles POST /api/notes/{id}/important.
func (h *Handler) ToggleImportant(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.ToggleImportant(noteID(r))
	if err != nil {
		writeError(w, "toggle important", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// UpdateTitle handles PUT /api/notes/{id}/title.
func (h *Handler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	var req TitleRequest
	if !decode(w, r, &req) {
		return
	}
	note, err := h.svc.UpdateTitle(noteID(r), req.Title)
	if err != nil {
		writeError(w, "update title", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Backlinks handles GET /api/notes/{id}/backlinks.
func (h *Handler) Backlinks(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.Backlinks(noteID(r))
	if err != nil {
		writeError(w, "backlinks", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes, Total: len(notes)})
}

// Duplicate handles POST /api/notes/{id}/duplicate.
func (h *Handler) Duplicate(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.Duplicate(noteID(r))
	if err != nil {
		writeError(w, "duplicate note", err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// Export handles GET /api/notes/{id}/export?format=text|markdown|html.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	id := noteID(r)
	var (
		out string
		err error
	)
	switch format := r.URL.Query().Get("format"); format {
	case "", "text":
		out, err = h.svc.ExportText(id)
	case "markdown":
		out, err = h.svc.ExportMarkdown(id)
	case "html":
		out, err = h.svc.RenderHTML(id)
	default:
		writeJSON(w, http.StatusBadRequest, errorBody("unknown format "+format))
		return
	}
	if err != nil {
		writeError(w, "export note", err)
		return
	}
	writeJSON(w, http.StatusOK, ExportResponse{Content: out})
}

// BatchDelete handles POST /api/notes/batch/delete.
func (h *Handler) BatchDelete(w http.ResponseWriter, r *http.Request) {
	var req IDListRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.BatchDelete(req.IDs); err != nil {
		writeError(w, "batch delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BatchImportant handles POST /api/notes/batch/important.
func (h *Handler) BatchImportant(w http.ResponseWriter, r *http.Request) {
	var req BatchImportantRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.BatchImportant(req.IDs, req.Important); err != nil {
		writeError(w, "batch important", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Merge handles POST /api/notes/merge.
func (h *Handler) Merge(w http.ResponseWriter, r *http.Request) {
	var req IDListRequest
	if !decode(w, r, &req) {
		return
	}
	note, err := h.svc.Merge(req.IDs)
	if err != nil {
		writeError(w, "merge notes", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DailyNote handles GET /api/daily. The note is created on first access.
func (h *Handler) DailyNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.DailyNote()
	if err != nil {
		writeError(w, "daily note", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Search handles GET /api/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	notes, err := h.finder.Search(r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes, Total: len(notes)})
}

// ExportStore handles POST /api/backup/export.
func (h *Handler) ExportStore(w http.ResponseWriter, r *http.Request) {
	var req FolderRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Folder == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("folder is required"))
		return
	}
	if err := h.backup.Export(req.Folder); err != nil {
		writeError(w, "backup export", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportStore handles POST /api/backup/import.
func (h *Handler) ImportStore(w http.ResponseWriter, r *http.Request) {
	var req FolderRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Folder == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("folder is required"))
		return
	}
	if err := h.backup.Import(req.Folder); err != nil {
		writeError(w, "backup import", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSyncFolder handles GET /api/sync-folder.
func (h *Handler) GetSyncFolder(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SyncFolderRequest{Folder: h.svc.SyncFolder()})
}

// SetSyncFolder handles PUT /api/sync-folder.
func (h *Handler) SetSyncFolder(w http.ResponseWriter, r *http.Request) {
	var req SyncFolderRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.SetSyncFolder(req.Folder); err != nil {
		writeError(w, "set sync folder", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
