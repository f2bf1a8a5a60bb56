// Package gallery watches output directories and streams metadata for
// the media files they hold.
package gallery

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/BDiopXV/genmeta"
)

// Item is one scanned media file together with its extracted metadata.
type Item struct {
	Path string
	Meta *genmeta.Metadata
}

// Scanner walks a directory tree for generated media and keeps watching
// it for new files. Discovered items are delivered on the channel
// returned by Run.
type Scanner struct {
	root   string
	log    *slog.Logger
	accept map[string]bool

	mu   sync.Mutex
	seen map[string]bool
}

// NewScanner builds a scanner rooted at dir. A nil logger disables
// logging.
func NewScanner(dir string, log *slog.Logger) *Scanner {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Scanner{
		root: dir,
		log:  log,
		accept: map[string]bool{
			".png":  true,
			".webp": true,
			".mp4":  true,
		},
		seen: map[string]bool{},
	}
}

// Run performs an initial recursive scan of the root, then watches for
// files created or modified afterwards. Items are sent on the returned
// channel until ctx is cancelled; the channel is closed when the scanner
// stops. Unreadable files are logged and skipped, never fatal.
func (s *Scanner) Run(ctx context.Context) (<-chan Item, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	items := make(chan Item)

	go func() {
		defer close(items)
		defer watcher.Close()

		if err := s.addWatches(watcher); err != nil {
			s.log.Error("watch setup failed", "dir", s.root, "error", err)
			return
		}

		if err := s.initialScan(ctx, items); err != nil {
			s.log.Error("initial scan failed", "dir", s.root, "error", err)
			return
		}

		s.watchLoop(ctx, watcher, items)
	}()

	return items, nil
}

// addWatches registers the root and every subdirectory with the watcher.
func (s *Scanner) addWatches(w *fsnotify.Watcher) error {
	return filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

// initialScan reads every accepted file already present under the root,
// parsing files in parallel.
func (s *Scanner) initialScan(ctx context.Context, items chan<- Item) error {
	var paths []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && s.accepts(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", s.root, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, path := range paths {
		g.Go(func() error {
			s.emit(ctx, path, items)
			return ctx.Err()
		})
	}
	return g.Wait()
}

// watchLoop handles filesystem events until ctx is cancelled. New
// directories are added to the watch set; created or rewritten media
// files are re-read and emitted.
func (s *Scanner) watchLoop(ctx context.Context, w *fsnotify.Watcher, items chan<- Item) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if event.Op.Has(fsnotify.Create) && isDir(event.Name) {
				// A new subdirectory needs its own watch.
				if err := w.Add(event.Name); err == nil {
					s.log.Debug("watching", "dir", event.Name)
				}
			}
			if s.accepts(event.Name) {
				s.forget(event.Name)
				s.emit(ctx, event.Name, items)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.log.Warn("watch error", "error", err)
		}
	}
}

// emit reads one file and delivers it, deduplicating paths already sent.
func (s *Scanner) emit(ctx context.Context, path string, items chan<- Item) {
	s.mu.Lock()
	if s.seen[path] {
		s.mu.Unlock()
		return
	}
	s.seen[path] = true
	s.mu.Unlock()

	meta, err := genmeta.ReadMetadata(path)
	if err != nil {
		s.log.Warn("skipping unreadable file", "path", path, "error", err)
		return
	}

	select {
	case items <- Item{Path: path, Meta: meta}:
		s.log.Debug("scanned", "path", path, "format", meta.Format)
	case <-ctx.Done():
	}
}

// forget clears the dedup entry so a rewritten file is emitted again.
func (s *Scanner) forget(path string) {
	s.mu.Lock()
	delete(s.seen, path)
	s.mu.Unlock()
}

// accepts reports whether the path has a supported media extension.
func (s *Scanner) accepts(path string) bool {
	return s.accept[strings.ToLower(filepath.Ext(path))]
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
