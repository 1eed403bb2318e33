// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

import (
	"time"

	"github.com/corey/vimmeta/internal/domain/vimscript"
)

// Storage persists assembled plugin metadata. Each plugin root gets its own
// namespace keyed by its absolute path. Concurrent reads are safe; writes are
// serialized by the adapter.
//
// SavePlugin must be transactional: a crash mid-write must not corrupt a
// previously committed plugin.
type Storage interface {
	// SavePlugin stores the plugin and its summary, replacing any prior entry.
	SavePlugin(meta *PluginMeta, plugin *vimscript.Plugin) error

	// LoadPlugin returns the stored summary and plugin for root.
	// Fails with the adapter's not-indexed error when root was never saved.
	LoadPlugin(root string) (*PluginMeta, *vimscript.Plugin, error)

	// ListPlugins returns every stored summary, ordered by root.
	ListPlugins() ([]PluginMeta, error)

	// DeletePlugin removes root. Deleting an unknown root is not an error.
	DeletePlugin(root string) error

	Close() error
}

// PluginMeta summarizes one indexed plugin.
type PluginMeta struct {
	Root      string                 `json:"root"`
	IndexedAt time.Time              `json:"indexed_at"`
	Modules   int                    `json:"modules"`
	Stats     map[vimscript.Kind]int `json:"stats"`
	Skipped   []string               `json:"skipped,omitempty"` // relative paths that could not be read
}
