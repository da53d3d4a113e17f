package scanner

import (
	"testing"
	"time"

	"github.com/dgallion1/mdtrack/internal/track"
)

func testDoc(id, path string) *Document {
	return &Document{
		ID:          id,
		Path:        path,
		ContentHash: ContentHash([]byte(path)),
		Parsed:      &track.ParsedDocument{SourcePath: path},
		ScannedAt:   time.Now(),
	}
}

func TestRegistry_PutAndGet(t *testing.T) {
	r := NewRegistry()
	doc := testDoc("d1", "/notes/a.md")
	r.Put(doc)

	if got := r.Get("d1"); got != doc {
		t.Errorf("Get returned %v, expected the stored document", got)
	}
	if got := r.GetByPath("/notes/a.md"); got != doc {
		t.Errorf("GetByPath returned %v, expected the stored document", got)
	}
	if r.Get("missing") != nil {
		t.Errorf("expected nil for unknown ID")
	}
}

func TestRegistry_ReplaceKeepsIndexesConsistent(t *testing.T) {
	r := NewRegistry()
	r.Put(testDoc("d1", "/notes/a.md"))
	r.Put(testDoc("d2", "/notes/a.md"))

	if r.Len() != 1 {
		t.Fatalf("expected 1 document after replace, got %d", r.Len())
	}
	if r.Get("d1") != nil {
		t.Errorf("stale ID should be gone after path takeover")
	}
	if got := r.GetByPath("/notes/a.md"); got == nil || got.ID != "d2" {
		t.Errorf("path should resolve to the new document")
	}
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry()
	r.Put(testDoc("d1", "/notes/a.md"))

	removed := r.Remove("/notes/a.md")
	if removed == nil || removed.ID != "d1" {
		t.Fatalf("expected removed document d1, got %v", removed)
	}
	if r.Len() != 0 {
		t.Errorf("expected empty registry, got %d", r.Len())
	}
	if r.Remove("/notes/a.md") != nil {
		t.Errorf("removing twice should return nil")
	}
}

func TestRegistry_ListSortedByPath(t *testing.T) {
	r := NewRegistry()
	r.Put(testDoc("d2", "/notes/b.md"))
	r.Put(testDoc("d1", "/notes/a.md"))

	list := r.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(list))
	}
	if list[0].Path != "/notes/a.md" || list[1].Path != "/notes/b.md" {
		t.Errorf("expected paths sorted, got %q then %q", list[0].Path, list[1].Path)
	}
}

func TestContentHash_Deterministic(t *testing.T) {
	a := ContentHash([]byte("# doc"))
	b := ContentHash([]byte("# doc"))
	if a != b {
		t.Errorf("identical content hashed differently")
	}
	if a == ContentHash([]byte("# doc!")) {
		t.Errorf("different content hashed identically")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}

func TestDocumentID_StablePerPath(t *testing.T) {
	if documentID("/notes/a.md") != documentID("/notes/a.md") {
		t.Errorf("document ID not stable for same path")
	}
	if documentID("/notes/a.md") == documentID("/notes/b.md") {
		t.Errorf("different paths produced the same document ID")
	}
	if len(documentID("/notes/a.md")) != 16 {
		t.Errorf("expected 16-char document ID")
	}
}
