package scanner

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dgallion1/mdtrack/internal/track"
)

// Document is a scanned Markdown file: its parse snapshot plus the exact
// source text and content hash the snapshot's positions were computed from.
type Document struct {
	ID          string                `json:"id"`
	Path        string                `json:"path"`
	ContentHash string                `json:"content_hash"`
	Source      string                `json:"-"`
	Parsed      *track.ParsedDocument `json:"parsed"`
	ScannedAt   time.Time             `json:"scanned_at"`
}

// Summary is the listing view of a document.
type Summary struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	ItemCount   int       `json:"item_count"`
	ContentHash string    `json:"content_hash"`
	ScannedAt   time.Time `json:"scanned_at"`
}

// Registry is a thread-safe set of scanned documents keyed by document ID.
type Registry struct {
	mu     sync.Mutex
	byID   map[string]*Document
	byPath map[string]*Document
}

func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[string]*Document),
		byPath: make(map[string]*Document),
	}
}

// Get returns a document by ID, or nil.
func (r *Registry) Get(id string) *Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id]
}

// GetByPath returns a document by file path, or nil.
func (r *Registry) GetByPath(path string) *Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byPath[path]
}

// Put stores or replaces a document. The document ID stays stable across
// rescans of the same path.
func (r *Registry) Put(doc *Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.byPath[doc.Path]; ok && prev.ID != doc.ID {
		delete(r.byID, prev.ID)
	}
	r.byID[doc.ID] = doc
	r.byPath[doc.Path] = doc
}

// Remove deletes the document at path and returns it, or nil.
func (r *Registry) Remove(path string) *Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.byPath[path]
	if !ok {
		return nil
	}
	delete(r.byPath, path)
	delete(r.byID, doc.ID)
	return doc
}

// List returns document summaries sorted by path.
func (r *Registry) List() []Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Summary, 0, len(r.byID))
	for _, doc := range r.byID {
		out = append(out, Summary{
			ID:          doc.ID,
			Path:        doc.Path,
			ItemCount:   doc.Parsed.ItemCount,
			ContentHash: doc.ContentHash,
			ScannedAt:   doc.ScannedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Paths returns every tracked file path.
func (r *Registry) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	paths := make([]string, 0, len(r.byPath))
	for p := range r.byPath {
		paths = append(paths, p)
	}
	return paths
}

// Len returns the number of tracked documents.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// ContentHash computes the SHA-256 hex digest used for change detection.
func ContentHash(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
