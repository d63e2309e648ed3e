// Package perception turns filesystem activity in watched directories into
// sense.Context updates for the companion.
package perception

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/alex/mochi/internal/ring"
	"github.com/alex/mochi/internal/sense"
)

// ErrStopped is returned when starting a watcher that has been stopped.
var ErrStopped = errors.New("file watcher stopped")

// DefaultMaxChanges bounds the changes kept between drains.
const DefaultMaxChanges = 32

// Op is what happened to a file.
type Op string

const (
	OpCreate Op = "create"
	OpModify Op = "modify"
	OpDelete Op = "delete"
	OpRename Op = "rename"
)

// Change is one observed filesystem event.
type Change struct {
	Path string
	Op   Op
	At   time.Time
}

// FileWatcher records changes in a set of directories. Changes pile up in
// a bounded buffer until Drain or Context collects them.
type FileWatcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	dirs    []string
	changes *ring.Buffer[Change]
	max     int
	errors  int
	running bool
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	clock   func() time.Time
	log     *zap.Logger
}

// Option configures a FileWatcher.
type Option func(*FileWatcher)

// WithMaxChanges bounds the buffered changes.
func WithMaxChanges(n int) Option {
	return func(w *FileWatcher) {
		if n > 0 {
			w.max = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *FileWatcher) { w.log = l.Named("perception") }
}

// WithClock sets the time source used to stamp changes.
func WithClock(now func() time.Time) Option {
	return func(w *FileWatcher) { w.clock = now }
}

// NewFileWatcher creates a watcher for dirs. Watching begins with Start.
func NewFileWatcher(dirs []string, opts ...Option) (*FileWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &FileWatcher{
		watcher: fw,
		dirs:    dirs,
		max:     DefaultMaxChanges,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		clock:   time.Now,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.changes = ring.New[Change](w.max)
	return w, nil
}

// Start adds the directories and begins watching in the background.
// Directories that cannot be watched are logged and skipped.
func (w *FileWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return ErrStopped
	}
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	watched := 0
	for _, dir := range w.dirs {
		if err := w.watcher.Add(dir); err != nil {
			w.log.Warn("cannot watch directory", zap.String("dir", dir), zap.Error(err))
			continue
		}
		watched++
		w.log.Info("watching directory", zap.String("dir", dir))
	}
	if len(w.dirs) > 0 && watched == 0 {
		w.log.Warn("no directory could be watched")
	}

	go w.run(ctx)
	return nil
}

// Stop ends watching and releases the fsnotify watcher. It is safe to
// call Stop on a watcher that was never started, and to call it twice.
// A stopped watcher cannot be started again.
func (w *FileWatcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	wasRunning := w.running
	w.running = false
	w.stopped = true
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("closing fsnotify watcher: %w", err)
	}
	return nil
}

func (w *FileWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", zap.Error(err))
			w.mu.Lock()
			w.errors++
			w.mu.Unlock()
		}
	}
}

func (w *FileWatcher) handleEvent(event fsnotify.Event) {
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}

	var op Op
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpModify
	case event.Has(fsnotify.Remove):
		op = OpDelete
	case event.Has(fsnotify.Rename):
		op = OpRename
	default:
		return
	}

	w.log.Debug("file changed", zap.String("path", event.Name), zap.String("op", string(op)))

	w.mu.Lock()
	defer w.mu.Unlock()
	w.changes.Push(Change{Path: event.Name, Op: op, At: w.clock()})
}

// Drain returns the buffered changes, oldest first, and clears the buffer.
func (w *FileWatcher) Drain() []Change {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := w.changes.Items()
	w.changes = ring.New[Change](w.max)
	return out
}

// Errors returns how many watcher errors have been seen.
func (w *FileWatcher) Errors() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.errors
}

// Context drains the buffer into a perception snapshot: every changed path
// is listed once, and newly created files count as discoveries.
func (w *FileWatcher) Context(time.Time) sense.Context {
	return contextFrom(w.Drain())
}

func contextFrom(changes []Change) sense.Context {
	ctx := sense.New()
	if len(changes) == 0 {
		return ctx
	}

	seen := make(map[string]bool, len(changes))
	var paths, discoveries []string
	fresh := false
	for _, c := range changes {
		if !seen[c.Path] {
			seen[c.Path] = true
			paths = append(paths, c.Path)
		}
		switch c.Op {
		case OpCreate:
			discoveries = append(discoveries, filepath.Base(c.Path))
			fresh = true
		case OpModify:
			fresh = true
		}
	}

	return ctx.
		WithFileChanges(paths...).
		WithDiscoveries(discoveries...).
		WithNewContent(fresh)
}
