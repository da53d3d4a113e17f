package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/mdtrack/internal/status"
)

// handleSetStatus records the tracking status for one item.
func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")

	var body struct {
		Status status.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if !body.Status.Valid() {
		jsonError(w, "status must be pending, in_progress, or complete", http.StatusBadRequest)
		return
	}

	if err := s.statuses.Set(itemID, body.Status); err != nil {
		jsonError(w, "failed to persist status: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"item_id": itemID,
		"status":  body.Status,
	})
}

// handleListStatuses returns every recorded status.
func (s *Server) handleListStatuses(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"statuses": s.statuses.Snapshot(),
	})
}

// handleGetProgress summarizes tracking progress for one document.
func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	doc := s.registry.Get(chi.URLParam(r, "docID"))
	if doc == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id":   doc.ID,
		"path":     doc.Path,
		"progress": s.statuses.Progress(doc.Parsed.Tree),
	})
}
