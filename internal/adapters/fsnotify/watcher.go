// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It recursively watches a plugin directory, skips excluded directories, filters
// events down to plugin source files and debounces bursts (editors often write
// several times per save).
package fsnotify

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/corey/vimmeta/internal/domain/plugin"
)

// DefaultDebounce is the quiet period before a change is reported.
const DefaultDebounce = 50 * time.Millisecond

// Config tunes a Watcher. Zero values select the defaults.
type Config struct {
	Debounce   time.Duration
	Extensions []string // source extensions, plugin.DefaultExtensions if empty
	Logger     *log.Logger
}

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw       *fsnotify.Watcher
	debounce time.Duration
	exts     []string
	logger   *log.Logger

	done    chan struct{}
	stopped bool
	timers  map[string]*time.Timer
	mu      sync.Mutex
}

// NewWatcher creates a new file system watcher.
func NewWatcher(cfg Config) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = plugin.DefaultExtensions
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &Watcher{
		fw:       fw,
		debounce: cfg.Debounce,
		exts:     cfg.Extensions,
		logger:   cfg.Logger,
		done:     make(chan struct{}),
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Watch starts monitoring root recursively. onChange is called with the
// absolute path of each changed plugin source file, once per burst.
func (w *Watcher) Watch(root string, onChange func(path string)) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	if _, err := os.Stat(absRoot); err != nil {
		return err
	}
	if err := w.addTree(absRoot, absRoot); err != nil {
		return err
	}

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				w.handle(absRoot, event, onChange)

			case err, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				w.logger.Warn("watch error", "err", err)

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// addTree watches dir and every directory below it that is not excluded.
func (w *Watcher) addTree(root, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && plugin.ExcludedDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.fw.Add(path)
	})
}

func (w *Watcher) handle(root string, event fsnotify.Event, onChange func(string)) {
	path := event.Name

	// New directories (e.g. a fresh autoload/ subtree) join the watch list.
	if event.Has(fsnotify.Create) {
		if info, err := os.Lstat(path); err == nil && info.IsDir() {
			if !plugin.ExcludedDir(info.Name()) {
				if err := w.addTree(root, path); err != nil {
					w.logger.Warn("watch new directory", "path", path, "err", err)
				}
			}
			return
		}
	}

	if !w.relevant(root, path) {
		return
	}
	if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		stopped := w.stopped
		w.mu.Unlock()
		if !stopped {
			onChange(path)
		}
	})
}

// relevant reports whether path is a plugin source file under root.
func (w *Watcher) relevant(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return plugin.Included(filepath.ToSlash(rel), w.exts)
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	close(w.done)
	return w.fw.Close()
}
