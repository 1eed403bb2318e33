package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds the resolved on-disk locations vimmeta writes to.
type Paths struct {
	Root string // directory holding the database
	DB   string // bbolt file
}

// NewPaths derives all paths from the database location.
func NewPaths(dbPath string) *Paths {
	return &Paths{
		Root: filepath.Dir(dbPath),
		DB:   dbPath,
	}
}

// EnsureDirs creates the data directory. Idempotent.
func (p *Paths) EnsureDirs() error {
	return os.MkdirAll(p.Root, 0755)
}

// CanonicalRoot turns a user-supplied plugin directory into the absolute,
// cleaned key the store uses. Symlinks are resolved so two spellings of the
// same plugin share one entry; a root that doesn't exist yet is kept as is.
func CanonicalRoot(root string) (string, error) {
	if root == "" {
		return "", fmt.Errorf("plugin root required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", root, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return filepath.Clean(abs), nil
}
