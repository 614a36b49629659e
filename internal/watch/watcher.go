// Package watch reports changes to the markdown document on disk.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config configures the watcher.
type Config struct {
	Path       string
	Logger     *slog.Logger
	DebounceMs int // default 300
	// OnChange runs after the content changed and the debounce period passed.
	OnChange func(ctx context.Context)
}

// Watcher watches the directory of one document. The directory is watched
// rather than the file because atomic saves replace the file by rename.
type Watcher struct {
	path     string
	logger   *slog.Logger
	onChange func(ctx context.Context)
	interval time.Duration

	fsWatcher *fsnotify.Watcher

	hashMu   sync.Mutex
	lastHash string

	done     chan struct{}
	stopOnce sync.Once
}

func New(cfg *Config) (*Watcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("document path is required")
	}
	if cfg.OnChange == nil {
		return nil, fmt.Errorf("change callback is required")
	}
	path, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("resolving document path: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounceMs := cfg.DebounceMs
	if debounceMs <= 0 {
		debounceMs = 300
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	w := &Watcher{
		path:      path,
		logger:    logger,
		onChange:  cfg.OnChange,
		interval:  time.Duration(debounceMs) * time.Millisecond,
		fsWatcher: fsWatcher,
		done:      make(chan struct{}),
	}
	w.lastHash = hashFile(path)
	return w, nil
}

// Start watches until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		w.Stop()
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	debouncer := NewDebouncer(w.interval, func() { w.check(ctx) })
	defer debouncer.Stop()

	w.logger.Info("document watcher started", "path", w.path)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("document watcher stopping", "reason", "context cancelled")
			w.Stop()
			return ctx.Err()

		case <-w.done:
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.logger.Debug("document fs event", "op", event.Op.String())
				debouncer.Trigger()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("fsnotify error", "error", err)
		}
	}
}

// check fires the callback when the content hash moved since the last call.
func (w *Watcher) check(ctx context.Context) {
	hash := hashFile(w.path)
	w.hashMu.Lock()
	changed := hash != "" && hash != w.lastHash
	if changed {
		w.lastHash = hash
	}
	w.hashMu.Unlock()

	if !changed {
		w.logger.Debug("document unchanged, skipping")
		return
	}
	if ctx.Err() != nil {
		return
	}
	w.onChange(ctx)
}

// Stop shuts the watcher down. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		if cerr := w.fsWatcher.Close(); cerr != nil {
			err = fmt.Errorf("close fsnotify watcher: %w", cerr)
		}
		w.logger.Info("document watcher stopped")
	})
	return err
}

// Done is closed when the watcher stops.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func hashFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
