// Package scanner walks configured root directories, parses Markdown files
// into tracked documents, and keeps the registry in sync with disk.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dgallion1/mdtrack/internal/events"
	"github.com/dgallion1/mdtrack/internal/markdown"
)

// MaxReadRetries bounds retries on transient file-read errors.
const MaxReadRetries = 3

// Backoff returns a jittered exponential delay for attempt n (0-indexed).
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * 100 * time.Millisecond
	if base > 2*time.Second {
		base = 2 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(base) / 2))
	return base + jitter
}

// Config controls scanning behavior.
type Config struct {
	Roots        []string
	Interval     time.Duration
	WorkerCount  int
	MaxQueueSize int
	MaxFileBytes int64
}

// Scanner runs the scan pipeline: a walker that enqueues file paths and a
// worker pool that reads, hashes, and parses them.
type Scanner struct {
	cfg      Config
	registry *Registry
	hub      *events.Hub
	log      *slog.Logger

	queue  chan string
	cancel context.CancelFunc
	wg     sync.WaitGroup

	scanMu  sync.Mutex // one full scan at a time
	stopped bool       // guarded by scanMu
}

func New(cfg Config, registry *Registry, hub *events.Hub, log *slog.Logger) *Scanner {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 256
	}
	return &Scanner{
		cfg:      cfg,
		registry: registry,
		hub:      hub,
		log:      log,
		queue:    make(chan string, cfg.MaxQueueSize),
	}
}

// Start launches the worker pool and, when an interval is configured, the
// periodic rescan ticker.
func (s *Scanner) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case path, ok := <-s.queue:
					if !ok {
						return
					}
					s.process(workerCtx, path)
				}
			}
		}()
	}

	if s.cfg.Interval > 0 {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			ticker := time.NewTicker(s.cfg.Interval)
			defer ticker.Stop()
			for {
				select {
				case <-workerCtx.Done():
					return
				case <-ticker.C:
					s.Scan(workerCtx)
				}
			}
		}()
	}
}

// Stop cancels in-flight work and waits for workers to exit. The queue stays
// open: API handlers may still call Scan with their own live context during
// shutdown, and a closed channel would turn that into a send panic.
func (s *Scanner) Stop() {
	s.scanMu.Lock()
	s.stopped = true
	s.scanMu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// ScanResult summarizes one full scan run.
type ScanResult struct {
	ScanID  string `json:"scan_id"`
	Found   int    `json:"found"`
	Removed int    `json:"removed"`
}

// Scan walks every configured root, enqueues each Markdown file for
// processing, and evicts registry entries whose files are gone.
func (s *Scanner) Scan(ctx context.Context) ScanResult {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()
	if s.stopped {
		return ScanResult{}
	}

	result := ScanResult{ScanID: newScanID()}
	log := s.log.With("scan_id", result.ScanID)

	seen := make(map[string]bool)
	for _, root := range s.cfg.Roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				log.Warn("walk error", "path", path, "error", err)
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if d.IsDir() || !isMarkdownFile(path) {
				return nil
			}
			seen[path] = true
			result.Found++
			select {
			case s.queue <- path:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})
		if err != nil {
			log.Warn("scan aborted", "root", root, "error", err)
			return result
		}
	}

	// Evict documents whose files disappeared.
	for _, path := range s.registry.Paths() {
		if !seen[path] {
			if doc := s.registry.Remove(path); doc != nil {
				result.Removed++
				log.Info("document removed", "doc_id", doc.ID, "path", path)
				s.hub.Broadcast(events.Event{
					Type:  events.DocumentRemoved,
					DocID: doc.ID,
					Path:  path,
				})
			}
		}
	}

	log.Info("scan complete", "found", result.Found, "removed", result.Removed)
	return result
}

// process reads, hash-gates, and parses one file.
func (s *Scanner) process(ctx context.Context, path string) {
	data, err := s.readFile(ctx, path)
	if err != nil {
		s.log.Error("read failed", "path", path, "error", err)
		return
	}

	hash := ContentHash(data)
	existing := s.registry.GetByPath(path)
	if existing != nil && existing.ContentHash == hash {
		// Unchanged; positions are still valid.
		return
	}

	parsed := markdown.Parse(data, path)

	doc := &Document{
		Path:        path,
		ContentHash: hash,
		Source:      string(data),
		Parsed:      parsed,
		ScannedAt:   time.Now(),
	}

	eventType := events.DocumentChanged
	if existing != nil {
		doc.ID = existing.ID
	} else {
		doc.ID = documentID(path)
		eventType = events.DocumentAdded
	}
	s.registry.Put(doc)

	s.log.Info("document scanned",
		"doc_id", doc.ID,
		"path", path,
		"items", parsed.ItemCount,
	)
	s.hub.Broadcast(events.Event{
		Type:      eventType,
		DocID:     doc.ID,
		Path:      path,
		ItemCount: parsed.ItemCount,
	})
}

// readFile reads a file with bounded retries for transient errors.
func (s *Scanner) readFile(ctx context.Context, path string) ([]byte, error) {
	var data []byte
	var err error
	for attempt := 0; attempt < MaxReadRetries; attempt++ {
		data, err = os.ReadFile(path)
		if err == nil {
			break
		}
		if os.IsNotExist(err) {
			return nil, err
		}
		s.log.Warn("retrying read", "path", path, "attempt", attempt, "error", err)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if s.cfg.MaxFileBytes > 0 && int64(len(data)) > s.cfg.MaxFileBytes {
		return nil, fmt.Errorf("file exceeds max size (%d bytes)", s.cfg.MaxFileBytes)
	}
	return data, nil
}

// documentID derives a stable document ID from the file path, so IDs survive
// restarts and content edits.
func documentID(path string) string {
	return ContentHash([]byte(path))[:16]
}

func isMarkdownFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
