// Package app wires together all adapters and domain logic.
// It owns the metadata store, the parse cache and the assembler, and serializes
// index passes so a watch loop and a one-shot command never interleave.
package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/corey/vimmeta/internal/adapters/bbolt"
	"github.com/corey/vimmeta/internal/adapters/lru"
	"github.com/corey/vimmeta/internal/domain/plugin"
	"github.com/corey/vimmeta/internal/domain/vimscript"
	"github.com/corey/vimmeta/internal/ports"
)

// Config holds initialization parameters for the App.
type Config struct {
	DBPath        string        // path to bbolt file (required)
	Workers       int           // parse workers, 0 = one per CPU
	CacheSize     int           // parsed modules kept between passes (default: lru.DefaultSize if 0)
	Extensions    []string      // source extensions (default: .vim)
	WatchDebounce time.Duration // quiet period before a change triggers re-indexing
	Logger        *log.Logger   // optional, discards when nil
}

// App is the store-backed side of vimmeta: index, show, list, forget, watch.
type App struct {
	Store     ports.Storage
	Assembler *plugin.Assembler
	Cache     *lru.Cache
	Logger    *log.Logger
	Paths     *Paths

	debounce   time.Duration
	extensions []string
	newWatcher func() (ports.Watcher, error)
	now        func() time.Time

	mu sync.Mutex // serializes index passes
}

// IndexResult is the outcome of one persisted index pass.
type IndexResult struct {
	Meta    *ports.PluginMeta
	Plugin  *vimscript.Plugin
	Skipped []plugin.Skipped
}

// NewLogger creates the leveled logger used across vimmeta.
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix: "vimmeta",
		Level:  level,
	})
}

// New creates an App with all dependencies wired. The store is opened
// immediately; call Close when done.
func New(cfg Config) (*App, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path required")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}

	paths := NewPaths(cfg.DBPath)
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	cache, err := lru.New(cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	store, err := bbolt.NewStore(paths.DB)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	opts := []plugin.Option{
		plugin.WithLogger(cfg.Logger),
		plugin.WithWorkers(cfg.Workers),
		plugin.WithCache(cache),
	}
	if len(cfg.Extensions) > 0 {
		opts = append(opts, plugin.WithExtensions(cfg.Extensions...))
	}
	asm := plugin.NewAssembler(opts...)

	a := &App{
		Store:      store,
		Assembler:  asm,
		Cache:      cache,
		Logger:     cfg.Logger,
		Paths:      paths,
		debounce:   cfg.WatchDebounce,
		extensions: asm.Extensions(),
		now:        time.Now,
	}
	a.newWatcher = a.defaultWatcher
	return a, nil
}

// Close releases the store once any in-flight index pass has finished.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Store.Close()
}

// Index assembles the plugin at root and persists it, replacing any prior entry.
func (a *App) Index(ctx context.Context, root string) (*IndexResult, error) {
	abs, err := CanonicalRoot(root)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	start := a.now()
	res, err := a.Assembler.Assemble(ctx, abs)
	if err != nil {
		return nil, err
	}

	meta := &ports.PluginMeta{
		Root:      abs,
		IndexedAt: start.UTC(),
		Modules:   len(res.Plugin.Content),
		Stats:     res.Plugin.Stats(),
		Skipped:   res.SkippedPaths(),
	}
	if err := a.Store.SavePlugin(meta, res.Plugin); err != nil {
		return nil, fmt.Errorf("save plugin: %w", err)
	}

	a.Logger.Info("indexed plugin", "root", abs, "modules", meta.Modules,
		"skipped", len(meta.Skipped), "elapsed", time.Since(start).Round(time.Millisecond))
	return &IndexResult{Meta: meta, Plugin: res.Plugin, Skipped: res.Skipped}, nil
}

// Show returns the stored metadata for root. Fails with bbolt.ErrNotIndexed
// when root was never indexed.
func (a *App) Show(root string) (*ports.PluginMeta, *vimscript.Plugin, error) {
	abs, err := CanonicalRoot(root)
	if err != nil {
		return nil, nil, err
	}
	return a.Store.LoadPlugin(abs)
}

// List returns every indexed plugin summary.
func (a *App) List() ([]ports.PluginMeta, error) {
	return a.Store.ListPlugins()
}

// Forget removes root from the store. Forgetting an unknown root is not an error.
func (a *App) Forget(root string) error {
	abs, err := CanonicalRoot(root)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.Store.DeletePlugin(abs); err != nil {
		return fmt.Errorf("delete plugin: %w", err)
	}
	a.Logger.Info("forgot plugin", "root", abs)
	return nil
}
