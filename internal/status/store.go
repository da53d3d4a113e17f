// Package status persists per-item tracking state keyed by stable item ID.
package status

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/dgallion1/mdtrack/internal/track"
)

// Status is the tracking state of a single item.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusComplete   Status = "complete"
)

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusComplete:
		return true
	}
	return false
}

// Store is a thread-safe item-status registry with JSON file persistence.
// Items without a recorded status read as pending.
type Store struct {
	mu       sync.Mutex
	path     string
	statuses map[string]Status
}

// NewStore creates a store backed by the given file path. An empty path keeps
// the store memory-only.
func NewStore(path string) *Store {
	return &Store{
		path:     path,
		statuses: make(map[string]Status),
	}
}

// Load reads previously persisted statuses. A missing file is not an error.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read status file: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := json.Unmarshal(data, &s.statuses); err != nil {
		return fmt.Errorf("decode status file: %w", err)
	}
	return nil
}

// Get returns the status for an item ID, defaulting to pending.
func (s *Store) Get(id string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.statuses[id]; ok {
		return st
	}
	return StatusPending
}

// Set records a status and writes through to disk.
func (s *Store) Set(id string, st Status) error {
	if !st.Valid() {
		return fmt.Errorf("unknown status %q", st)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if st == StatusPending {
		// Pending is the default; no need to carry it.
		delete(s.statuses, id)
	} else {
		s.statuses[id] = st
	}
	return s.flushLocked()
}

// Snapshot returns a copy of all recorded statuses.
func (s *Store) Snapshot() map[string]Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Status, len(s.statuses))
	for id, st := range s.statuses {
		out[id] = st
	}
	return out
}

// Flush persists the current state to disk.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

func (s *Store) flushLocked() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.statuses, "", "  ")
	if err != nil {
		return fmt.Errorf("encode statuses: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write status file: %w", err)
	}
	return nil
}

// Progress summarizes tracking state over an item forest.
type Progress struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Complete   int `json:"complete"`
}

// Progress counts statuses across every item in the forest, descendants
// included.
func (s *Store) Progress(items []*track.Item) Progress {
	snapshot := s.Snapshot()

	var p Progress
	var walk func(items []*track.Item)
	walk = func(items []*track.Item) {
		for _, item := range items {
			p.Total++
			switch snapshot[item.ID] {
			case StatusInProgress:
				p.InProgress++
			case StatusComplete:
				p.Complete++
			default:
				p.Pending++
			}
			walk(item.Children)
		}
	}
	walk(items)
	return p
}
