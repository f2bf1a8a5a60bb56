// Package preview manages a lazily initialized preview backend for
// scanned media.
package preview

import (
	"context"
	"log/slog"
	"sync"
)

// Initializer prepares a preview backend. Implementations are expected
// to be expensive (decoder warmup, cache directory setup) and are run at
// most once per Backend.
type Initializer interface {
	Init(ctx context.Context) error
}

// Provider serves preview bytes for a media file.
type Provider interface {
	// Preview returns encoded preview image bytes for the file at path,
	// generating and caching them on first request.
	Preview(ctx context.Context, path string) ([]byte, error)
}

// Backend wraps an Initializer and guarantees its Init runs exactly
// once, no matter how many goroutines race to use the backend.
//
// A failed Init is permanent: later calls report the same failure
// without retrying.
type Backend struct {
	init Initializer
	log  *slog.Logger

	once sync.Once
	err  error
}

// NewBackend builds a Backend around init. A nil logger disables
// logging.
func NewBackend(init Initializer, log *slog.Logger) *Backend {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Backend{init: init, log: log}
}

// EnsureInitialized runs the backend's one-time initialization if it has
// not run yet and reports whether the backend is usable.
func (b *Backend) EnsureInitialized(ctx context.Context) bool {
	b.once.Do(func() {
		b.err = b.init.Init(ctx)
		if b.err != nil {
			b.log.Error("preview backend init failed", "error", b.err)
			return
		}
		b.log.Debug("preview backend ready")
	})
	return b.err == nil
}

// Err returns the initialization error. Only meaningful after
// EnsureInitialized has returned; the sync.Once inside it orders the
// write of err before any caller's read.
func (b *Backend) Err() error {
	return b.err
}
