package status

import (
	"path/filepath"
	"testing"

	"github.com/dgallion1/mdtrack/internal/track"
)

func TestStore_DefaultsToPending(t *testing.T) {
	s := NewStore("")
	if got := s.Get("unknown"); got != StatusPending {
		t.Errorf("expected pending for unknown ID, got %s", got)
	}
}

func TestStore_SetAndGet(t *testing.T) {
	s := NewStore("")

	if err := s.Set("item-1", StatusInProgress); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Get("item-1"); got != StatusInProgress {
		t.Errorf("expected in_progress, got %s", got)
	}

	if err := s.Set("item-1", StatusComplete); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Get("item-1"); got != StatusComplete {
		t.Errorf("expected complete, got %s", got)
	}

	// Setting back to pending removes the record entirely.
	if err := s.Set("item-1", StatusPending); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Snapshot()) != 0 {
		t.Errorf("expected empty snapshot after reset to pending")
	}
}

func TestStore_RejectsUnknownStatus(t *testing.T) {
	s := NewStore("")
	if err := s.Set("item-1", Status("done")); err == nil {
		t.Errorf("expected error for unknown status")
	}
}

func TestStore_PersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")

	s := NewStore(path)
	if err := s.Set("a", StatusComplete); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Set("b", StatusInProgress); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reloaded := NewStore(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if got := reloaded.Get("a"); got != StatusComplete {
		t.Errorf("expected complete after reload, got %s", got)
	}
	if got := reloaded.Get("b"); got != StatusInProgress {
		t.Errorf("expected in_progress after reload, got %s", got)
	}
}

func TestStore_LoadMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err := s.Load(); err != nil {
		t.Errorf("missing file should not be an error, got %v", err)
	}
}

func TestStore_Progress(t *testing.T) {
	s := NewStore("")

	items := []*track.Item{
		{ID: "h", Type: track.TypeHeader, Children: []*track.Item{
			{ID: "c1", Type: track.TypeCheckbox},
			{ID: "c2", Type: track.TypeCheckbox},
			{ID: "c3", Type: track.TypeCheckbox},
		}},
	}

	s.Set("c1", StatusComplete)
	s.Set("c2", StatusInProgress)

	p := s.Progress(items)
	if p.Total != 4 {
		t.Errorf("expected total 4, got %d", p.Total)
	}
	if p.Complete != 1 || p.InProgress != 1 || p.Pending != 2 {
		t.Errorf("unexpected progress breakdown: %+v", p)
	}
}
