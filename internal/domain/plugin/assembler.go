package plugin

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"runtime"
	"sort"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/corey/vimmeta/internal/domain/vimscript"
	"github.com/corey/vimmeta/internal/ports"
)

// ErrNotDirectory is returned when the plugin root is not a directory.
var ErrNotDirectory = errors.New("plugin root is not a directory")

// Skipped records a file or directory that could not be read.
type Skipped struct {
	Path string
	Err  error
}

// Result is the outcome of one assembly pass.
type Result struct {
	Plugin  *vimscript.Plugin
	Skipped []Skipped
}

// SkippedPaths returns the relative paths of Skipped.
func (r *Result) SkippedPaths() []string {
	if len(r.Skipped) == 0 {
		return nil
	}
	out := make([]string, len(r.Skipped))
	for i, s := range r.Skipped {
		out[i] = s.Path
	}
	return out
}

// Assembler walks a plugin tree and parses every source file it finds.
// An Assembler is safe for concurrent use.
type Assembler struct {
	logger  *log.Logger
	workers int
	exts    []string
	cache   ports.ModuleCache
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger used for skip warnings and pass summaries.
func WithLogger(l *log.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithWorkers bounds the number of files parsed concurrently.
// Values below 1 keep the default of runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(a *Assembler) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithExtensions replaces the source file extensions (".vim" by default).
func WithExtensions(exts ...string) Option {
	return func(a *Assembler) {
		if len(exts) > 0 {
			a.exts = append([]string(nil), exts...)
		}
	}
}

// WithCache reuses parsed modules across passes.
func WithCache(c ports.ModuleCache) Option {
	return func(a *Assembler) {
		a.cache = c
	}
}

// NewAssembler creates an Assembler with the given options applied.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		logger:  log.New(io.Discard),
		workers: runtime.NumCPU(),
		exts:    DefaultExtensions,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Extensions returns the configured source extensions.
func (a *Assembler) Extensions() []string {
	return a.exts
}

// Assemble walks the plugin rooted at the directory root.
func (a *Assembler) Assemble(ctx context.Context, root string) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("plugin root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, ErrNotDirectory)
	}
	return a.AssembleFS(ctx, os.DirFS(root))
}

// AssembleFS walks the plugin rooted at the top of fsys. Module paths are
// slash-separated and relative to that root.
func (a *Assembler) AssembleFS(ctx context.Context, fsys fs.FS) (*Result, error) {
	files, skipped, err := a.discover(ctx, fsys)
	if err != nil {
		return nil, err
	}

	mods := make([]*vimscript.Module, len(files))
	errs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, name := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			mod, err := a.parse(fsys, name)
			if err != nil {
				errs[i] = err
				return nil
			}
			mods[i] = &mod
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := &vimscript.Plugin{}
	for i, mod := range mods {
		if mod == nil {
			a.logger.Warn("skipping unreadable file", "path", files[i], "err", errs[i])
			skipped = append(skipped, Skipped{Path: files[i], Err: errs[i]})
			continue
		}
		p.Content = append(p.Content, *mod)
	}
	sort.SliceStable(skipped, func(i, j int) bool { return skipped[i].Path < skipped[j].Path })

	a.logger.Debug("assembled plugin", "modules", len(p.Content), "skipped", len(skipped))
	return &Result{Plugin: p, Skipped: skipped}, nil
}

// discover lists the source files of every category in output order.
// Unreadable directories are reported as skipped rather than failing the pass.
func (a *Assembler) discover(ctx context.Context, fsys fs.FS) ([]string, []Skipped, error) {
	top, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, nil, fmt.Errorf("read plugin root: %w", err)
	}
	present := make(map[string]bool, len(top))
	for _, e := range top {
		if e.IsDir() {
			present[e.Name()] = true
		}
	}

	var files []string
	var skipped []Skipped
	for _, cat := range Categories {
		if !present[cat] {
			continue
		}
		var found []string
		err := fs.WalkDir(fsys, cat, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				a.logger.Warn("skipping unreadable directory", "path", p, "err", err)
				skipped = append(skipped, Skipped{Path: p, Err: err})
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if d.IsDir() {
				if p != cat && ExcludedDir(d.Name()) {
					return fs.SkipDir
				}
				return nil
			}
			if !hasExtension(d.Name(), a.exts) {
				return nil
			}
			switch {
			case d.Type().IsRegular():
				found = append(found, p)
			case d.Type()&fs.ModeSymlink != 0:
				// Linked files are read, linked directories are not followed.
				if info, err := fs.Stat(fsys, p); err == nil && !info.IsDir() {
					found = append(found, p)
				}
			}
			return nil
		})
		if err != nil {
			return nil, nil, err
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, skipped, nil
}

func (a *Assembler) parse(fsys fs.FS, name string) (vimscript.Module, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return vimscript.Module{}, fmt.Errorf("read module %s: %w", name, err)
	}

	var key string
	if a.cache != nil {
		key = CacheKey(name, data)
		if mod, ok := a.cache.Get(key); ok {
			return mod, nil
		}
	}

	mod := vimscript.ParseModuleText(string(data))
	mod.Path = &name
	if a.cache != nil {
		a.cache.Add(key, mod)
	}
	return mod, nil
}

// CacheKey identifies a module by its relative path and content hash.
func CacheKey(name string, data []byte) string {
	sum := sha256.Sum256(data)
	return name + "@" + hex.EncodeToString(sum[:])
}
