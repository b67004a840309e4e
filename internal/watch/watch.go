// Package watch reports changes to a snapshot file made by other programs.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces the burst of events one save produces.
const DefaultDebounce = 100 * time.Millisecond

// Watcher signals on Events whenever the watched file is written, created
// or renamed into place. Signals coalesce: a receiver that falls behind
// sees one pending signal, not a backlog.
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	events   chan struct{}
	stopCh   chan struct{}
	done     chan struct{}
	once     sync.Once
}

// New starts watching path. The parent directory is watched so that
// atomic saves, which replace the file, are seen too.
func New(path string, logger *zap.Logger) (*Watcher, error) {
	return NewWithDebounce(path, DefaultDebounce, logger)
}

// NewWithDebounce is New with a custom debounce window.
func NewWithDebounce(path string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:     abs,
		debounce: debounce,
		watcher:  fw,
		logger:   logger,
		events:   make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.loop()
	logger.Debug("snapshot watcher started", zap.String("path", abs))
	return w, nil
}

// Events returns the change signal channel. It is never closed.
func (w *Watcher) Events() <-chan struct{} { return w.events }

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stopCh)
		err = w.watcher.Close()
		<-w.done
		w.logger.Debug("snapshot watcher stopped", zap.String("path", w.path))
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	base := filepath.Base(w.path)
	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.logger.Info("snapshot changed on disk", zap.String("path", w.path))
			select {
			case w.events <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", zap.Error(err))
		}
	}
}
