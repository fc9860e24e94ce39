package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListTags handles GET /api/tags.
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tags": h.svc.ListTags()})
}

// NotesByTag handles GET /api/tags/{tag}/notes.
func (h *Handler) NotesByTag(w http.ResponseWriter, r *http.Request) {
	notes := h.svc.NotesByTag(chi.URLParam(r, "tag"))
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes, Total: len(notes)})
}

// AddTag handles POST /api/tags/{tag}/notes.
func (h *Handler) AddTag(w http.ResponseWriter, r *http.Request) {
	var req IDListRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.AddTagToNotes(chi.URLParam(r, "tag"), req.IDs); err != nil {
		writeError(w, "add tag", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveTag handles DELETE /api/notes/{id}/tags/{tag}.
func (h *Handler) RemoveTag(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.RemoveTag(noteID(r), chi.URLParam(r, "tag"))
	if err != nil {
		writeError(w, "remove tag", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// ListNotebooks handles GET /api/notebooks.
func (h *Handler) ListNotebooks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"notebooks": h.svc.Notebooks()})
}

// CreateNotebook handles POST /api/notebooks.
func (h *Handler) CreateNotebook(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if !decode(w, r, &req) {
		return
	}
	nb, err := h.svc.CreateNotebook(req.Name)
	if err != nil {
		writeError(w, "create notebook", err)
		return
	}
	writeJSON(w, http.StatusCreated, nb)
}

// RenameNotebook handles PUT /api/notebooks/{id}.
func (h *Handler) RenameNotebook(w http.ResponseWriter, r *http.Request) {
	var req NameRequest
	if !decode(w, r, &req) {
		return
	}
	nb, err := h.svc.RenameNotebook(chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeError(w, "rename notebook", err)
		return
	}
	writeJSON(w, http.StatusOK, nb)
}

// ArchiveNotebook handles POST /api/notebooks/{id}/archive.
func (h *Handler) ArchiveNotebook(w http.ResponseWriter, r *http.Request) {
	var req ArchiveRequest
	if !decode(w, r, &req) {
		return
	}
	nb, err := h.svc.ArchiveNotebook(chi.URLParam(r, "id"), req.Archived)
	if err != nil {
		writeError(w, "archive notebook", err)
		return
	}
	writeJSON(w, http.StatusOK, nb)
}

// NotebookNotes handles GET /api/notebooks/{id}/notes.
func (h *Handler) NotebookNotes(w http.ResponseWriter, r *http.Request) {
	notes := h.svc.NotesInNotebook(chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes, Total: len(notes)})
}

// MoveToNotebook handles PUT /api/notes/{id}/notebook.
func (h *Handler) MoveToNotebook(w http.ResponseWriter, r *http.Request) {
	var req NotebookAssignRequest
	if !decode(w, r, &req) {
		return
	}
	note, err := h.svc.MoveToNotebook(noteID(r), req.NotebookID)
	if err != nil {
		writeError(w, "move to notebook", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// ListTemplates handles GET /api/templates.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"templates": h.svc.Templates()})
}

// SaveTemplate handles POST /api/templates.
func (h *Handler) SaveTemplate(w http.ResponseWriter, r *http.Request) {
	var req TemplateRequest
	if !decode(w, r, &req) {
		return
	}
	t, err := h.svc.SaveTemplate(req.Name, req.Body)
	if err != nil {
		writeError(w, "save template", err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// DeleteTemplate handles DELETE /api/templates/{id}.
func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTemplate(chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete template", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// InstantiateTemplate handles POST /api/templates/{id}/notes.
func (h *Handler) InstantiateTemplate(w http.ResponseWriter, r *http.Request) {
	var req InstantiateRequest
	if !decode(w, r, &req) {
		return
	}
	note, err := h.svc.CreateFromTemplate(chi.URLParam(r, "id"), req.Title)
	if err != nil {
		writeError(w, "create from template", err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}
