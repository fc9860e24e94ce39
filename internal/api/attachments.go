package api

import (
	"net/http"
)

// AttachFiles handles POST /api/notes/{id}/attachments.
func (h *Handler) AttachFiles(w http.ResponseWriter, r *http.Request) {
	var req AttachFilesRequest
	if !decode(w, r, &req) {
		return
	}
	if len(req.Sources) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("sources are required"))
		return
	}
	note, err := h.svc.AttachFiles(noteID(r), req.Sources)
	if err != nil {
		writeError(w, "attach files", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// AttachData handles POST /api/notes/{id}/attachments/data (clipboard
// paste; Data is base64 in the JSON body).
func (h *Handler) AttachData(w http.ResponseWriter, r *http.Request) {
	var req AttachDataRequest
	if !decode(w, r, &req) {
		return
	}
	note, err := h.svc.AttachData(noteID(r), req.Data, req.Name)
	if err != nil {
		writeError(w, "attach data", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// RemoveAttachment handles POST /api/notes/{id}/attachments/remove.
func (h *Handler) RemoveAttachment(w http.ResponseWriter, r *http.Request) {
	var req AttachmentPathRequest
	if !decode(w, r, &req) {
		return
	}
	note, err := h.svc.RemoveAttachment(noteID(r), req.Path)
	if err != nil {
		writeError(w, "remove attachment", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// RenameAttachment handles POST /api/notes/{id}/attachments/rename.
func (h *Handler) RenameAttachment(w http.ResponseWriter, r *http.Request) {
	var req RenameAttachmentRequest
	if !decode(w, r, &req) {
		return
	}
	note, err := h.svc.RenameAttachment(noteID(r), req.Path, req.NewName)
	if err != nil {
		writeError(w, "rename attachment", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// ServeAttachment handles GET /api/attachments?path=... and streams the
// file itself.
func (h *Handler) ServeAttachment(w http.ResponseWriter, r *http.Request) {
	rel := r.URL.Query().Get("path")
	if rel == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'path' is required"))
		return
	}
	abs, err := h.svc.ResolveAttachment(rel)
	if err != nil {
		writeError(w, "resolve attachment", err)
		return
	}
	http.ServeFile(w, r, abs)
}
