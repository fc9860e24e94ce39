package api

import (
	"net/http"
	"time"
)

// savedAt parses the version identifier from the query string.
func savedAt(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("savedAt")
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'savedAt' is required"))
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("savedAt must be RFC 3339"))
		return time.Time{}, false
	}
	return t, true
}

// ListVersions handles GET /api/notes/{id}/versions.
func (h *Handler) ListVersions(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListVersions(noteID(r))
	if err != nil {
		writeError(w, "list versions", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"versions": items})
}

// GetVersion handles GET /api/notes/{id}/version?savedAt=...
func (h *Handler) GetVersion(w http.ResponseWriter, r *http.Request) {
	at, ok := savedAt(w, r)
	if !ok {
		return
	}
	snap, err := h.svc.GetVersion(noteID(r), at)
	if err != nil {
		writeError(w, "get version", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// RestoreVersion handles POST /api/notes/{id}/version/restore?savedAt=...
func (h *Handler) RestoreVersion(w http.ResponseWriter, r *http.Request) {
	at, ok := savedAt(w, r)
	if !ok {
		return
	}
	note, err := h.svc.RestoreVersion(noteID(r), at)
	if err != nil {
		writeError(w, "restore version", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}
