package content

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Store hands out the current content snapshot. Snapshots are never
// mutated; a reload swaps in a new one.
type Store struct {
	path    string
	current atomic.Pointer[Site]
	logger  *slog.Logger
}

// NewStore loads content from path (embedded default when empty).
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	site, err := Load(path)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Store{path: path, logger: logger}
	s.current.Store(site)
	return s, nil
}

// NewStaticStore wraps an already loaded site. Watch is a no-op on it.
func NewStaticStore(site *Site) *Store {
	s := &Store{logger: slog.New(slog.DiscardHandler)}
	s.current.Store(site)
	return s
}

// Current returns the active snapshot.
func (s *Store) Current() *Site {
	return s.current.Load()
}

// Reload re-reads the content file. On error the previous snapshot stays.
func (s *Store) Reload() error {
	site, err := Load(s.path)
	if err != nil {
		return err
	}
	s.current.Store(site)
	return nil
}

// Watch reloads the content file whenever it changes, until ctx is done.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	// Editors replace files on save, so watch the directory.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return err
	}
	target := filepath.Clean(s.path)

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(100*time.Millisecond, func() {
				if err := s.Reload(); err != nil {
					s.logger.Error("content reload failed", "path", s.path, "error", err)
					return
				}
				s.logger.Info("content reloaded", "path", s.path)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("content watcher error", "error", err)
		}
	}
}
