package scanner

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/mdtrack/internal/events"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func newTestScanner(t *testing.T, roots ...string) (*Scanner, *Registry) {
	t.Helper()
	reg := NewRegistry()
	log := testLogger()
	s := New(Config{
		Roots:       roots,
		WorkerCount: 2,
	}, reg, events.NewHub(log), log)
	return s, reg
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}

func TestScan_FindsMarkdownFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "# A\n\n- [ ] task\n")
	writeFile(t, dir, "b.markdown", "# B\n")
	writeFile(t, dir, "notes.txt", "not markdown")

	s, reg := newTestScanner(t, dir)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	defer s.Stop()

	result := s.Scan(ctx)
	if result.Found != 2 {
		t.Errorf("expected 2 files found, got %d", result.Found)
	}
	if result.ScanID == "" {
		t.Errorf("expected a scan ID")
	}

	waitFor(t, func() bool { return reg.Len() == 2 })

	doc := reg.GetByPath(filepath.Join(dir, "a.md"))
	if doc == nil {
		t.Fatalf("a.md not registered")
	}
	if doc.Parsed.ItemCount != 2 {
		t.Errorf("expected 2 items in a.md, got %d", doc.Parsed.ItemCount)
	}
}

func TestScan_RemovesMissingFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "gone.md", "# soon gone\n")

	s, reg := newTestScanner(t, dir)
	ctx := context.Background()

	s.process(ctx, path)
	if reg.Len() != 1 {
		t.Fatalf("expected 1 document, got %d", reg.Len())
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	result := s.Scan(ctx)
	if result.Removed != 1 {
		t.Errorf("expected 1 removal, got %d", result.Removed)
	}
	if reg.Len() != 0 {
		t.Errorf("expected empty registry, got %d", reg.Len())
	}
}

func TestProcess_SkipsUnchangedContent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.md", "# stable\n")

	s, reg := newTestScanner(t, dir)
	ctx := context.Background()

	s.process(ctx, path)
	first := reg.GetByPath(path)
	if first == nil {
		t.Fatalf("document not registered")
	}

	s.process(ctx, path)
	second := reg.GetByPath(path)
	if second != first {
		t.Errorf("unchanged content was reparsed")
	}
}

func TestProcess_ReparsesOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.md", "# v1\n")

	s, reg := newTestScanner(t, dir)
	ctx := context.Background()

	s.process(ctx, path)
	first := reg.GetByPath(path)

	writeFile(t, dir, "a.md", "# v2\n\n- new item\n")
	s.process(ctx, path)
	second := reg.GetByPath(path)

	if second == first {
		t.Fatalf("changed content was not reparsed")
	}
	if second.ID != first.ID {
		t.Errorf("document ID changed across edits: %q vs %q", first.ID, second.ID)
	}
	if second.Parsed.ItemCount != 2 {
		t.Errorf("expected 2 items after edit, got %d", second.Parsed.ItemCount)
	}
	if second.ContentHash == first.ContentHash {
		t.Errorf("content hash did not change")
	}
}

func TestScan_AfterStopIsNoOp(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "# A\n")

	s, reg := newTestScanner(t, dir)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	s.Stop()

	// A scan request arriving mid-shutdown still carries a live context;
	// it must return cleanly instead of sending into a dead pipeline.
	result := s.Scan(context.Background())
	if result.Found != 0 {
		t.Errorf("expected no files enqueued after stop, got %d", result.Found)
	}
	if result.ScanID != "" {
		t.Errorf("expected empty scan ID after stop, got %q", result.ScanID)
	}
	if reg.Len() != 0 {
		t.Errorf("expected empty registry, got %d", reg.Len())
	}
}

func TestNewScanID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := newScanID()
		if len(id) != 26 {
			t.Fatalf("expected 26-char scan ID, got %d (%q)", len(id), id)
		}
		if seen[id] {
			t.Fatalf("duplicate scan ID %q", id)
		}
		seen[id] = true
	}
}

func TestBackoff_Bounded(t *testing.T) {
	for attempt := 0; attempt < 10; attempt++ {
		d := Backoff(attempt)
		if d <= 0 {
			t.Errorf("attempt %d: non-positive backoff %v", attempt, d)
		}
		if d > 3*time.Second {
			t.Errorf("attempt %d: backoff %v exceeds cap", attempt, d)
		}
	}
}
