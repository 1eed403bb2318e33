package app

import (
	"context"
	"fmt"
	"path/filepath"

	fsw "github.com/corey/vimmeta/internal/adapters/fsnotify"
	"github.com/corey/vimmeta/internal/ports"
)

func (a *App) defaultWatcher() (ports.Watcher, error) {
	return fsw.NewWatcher(fsw.Config{
		Debounce:   a.debounce,
		Extensions: a.extensions,
		Logger:     a.Logger,
	})
}

// Watch indexes root, then re-indexes it after every source change until ctx
// is done. report receives the outcome of each pass, including the first.
// A failed re-index is reported and the loop keeps going; only the initial
// pass and watcher setup can fail Watch itself.
func (a *App) Watch(ctx context.Context, root string, report func(*IndexResult, error)) error {
	abs, err := CanonicalRoot(root)
	if err != nil {
		return err
	}

	first, err := a.Index(ctx, abs)
	if err != nil {
		return err
	}
	report(first, nil)

	w, err := a.newWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	if err := w.Watch(abs, func(path string) {
		a.onFileChanged(ctx, abs, path, report)
	}); err != nil {
		return fmt.Errorf("watch %s: %w", abs, err)
	}
	a.Logger.Info("watching plugin", "root", abs)

	<-ctx.Done()
	return nil
}

// onFileChanged handles a create/modify/delete event from the watcher by
// re-indexing the whole plugin. Unchanged files are served from the cache.
func (a *App) onFileChanged(ctx context.Context, root, path string, report func(*IndexResult, error)) {
	if ctx.Err() != nil {
		return
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	a.Logger.Debug("source changed", "path", filepath.ToSlash(rel))

	res, err := a.Index(ctx, root)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		a.Logger.Error("re-index failed", "root", root, "err", err)
	}
	report(res, err)
}
