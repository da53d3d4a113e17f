package api

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/mdtrack/internal/scanner"
	"github.com/dgallion1/mdtrack/internal/track"
)

// handleListDocuments lists every tracked document.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"documents": s.registry.List(),
	})
}

// handleGetDocument returns the full parse snapshot for one document.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc := s.registry.Get(chi.URLParam(r, "docID"))
	if doc == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}

// handleGetSlice extracts the original Markdown text for one item. Positions
// are only valid against the source they were parsed from, so the current
// on-disk content is re-hashed first: if the file changed since the scan, the
// caller gets a conflict and should trigger a rescan.
func (s *Server) handleGetSlice(w http.ResponseWriter, r *http.Request) {
	doc := s.registry.Get(chi.URLParam(r, "docID"))
	if doc == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}

	itemID := chi.URLParam(r, "itemID")
	item := track.FindItem(doc.Parsed.Tree, itemID)
	if item == nil {
		jsonError(w, "item not found", http.StatusNotFound)
		return
	}

	current, err := os.ReadFile(doc.Path)
	if err != nil {
		jsonError(w, "document unavailable: "+err.Error(), http.StatusConflict)
		return
	}
	if scanner.ContentHash(current) != doc.ContentHash {
		jsonError(w, "document changed on disk; rescan required", http.StatusConflict)
		return
	}

	slice, err := track.ExtractSlice(doc.Source, item.Position)
	if err != nil {
		jsonError(w, "slice extraction failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id":  doc.ID,
		"item_id": item.ID,
		"slice":   slice,
	})
}

// handleScan triggers an immediate rescan of all roots.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	result := s.scanner.Scan(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
