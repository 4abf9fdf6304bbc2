package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Config.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// Config configures a Watcher.
type Config struct {
	// Dir is the directory holding the watched files.
	Dir string

	// Files are the base names inside Dir whose changes trigger the
	// callback.
	Files []string

	// Debounce is the quiet period after the last event before the
	// callback runs.
	Debounce time.Duration
}

// Watcher watches policy files and runs a callback after they change.
type Watcher struct {
	config   Config
	files    map[string]struct{}
	watcher  *fsnotify.Watcher
	debounce *Debouncer
	logger   *slog.Logger

	mu       sync.Mutex
	running  bool
	used     bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New creates a watcher. Watching starts with Watch.
func New(cfg Config) (*Watcher, error) {
	if cfg.Dir == "" {
		return nil, errors.New("watch directory cannot be empty")
	}
	if len(cfg.Files) == 0 {
		return nil, errors.New("no files to watch")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	files := make(map[string]struct{}, len(cfg.Files))
	for _, f := range cfg.Files {
		files[filepath.Base(f)] = struct{}{}
	}

	return &Watcher{
		config:   cfg,
		files:    files,
		watcher:  fsw,
		debounce: NewDebouncer(cfg.Debounce),
		logger:   slog.Default().With("component", "policy.watcher"),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch blocks until ctx is cancelled or Stop is called, running onChange
// after every debounced change. Callback errors are logged and watching
// continues. A Watcher runs at most once.
func (w *Watcher) Watch(ctx context.Context, onChange func(context.Context) error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("watcher already running")
	}
	if w.used {
		w.mu.Unlock()
		return errors.New("watcher cannot be restarted")
	}
	w.running = true
	w.used = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	if err := w.watcher.Add(w.config.Dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.config.Dir, err)
	}

	w.logger.Info("policy watcher started",
		"dir", w.config.Dir,
		"files", w.config.Files,
		"debounce_ms", w.config.Debounce.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("policy watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("policy watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}

			w.logger.Debug("policy file event", "path", event.Name, "op", event.Op.String())

			name := event.Name
			w.debounce.Trigger(func() {
				w.logger.Info("policy changed, running callback", "path", name)
				if err := onChange(ctx); err != nil {
					w.logger.Error("policy change callback failed", "error", err)
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.logger.Error("policy watcher error", "error", err)
		}
	}
}

// Stop stops a running watcher and releases its resources.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	running := w.running
	w.mu.Unlock()

	if running {
		w.stopOnce.Do(func() { close(w.stopCh) })
		<-w.doneCh
	}

	w.debounce.Stop()

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// relevant reports whether event is a content change of a watched file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	_, ok := w.files[filepath.Base(event.Name)]
	return ok
}
