// Package lru implements ports.ModuleCache with a fixed-size LRU from
// github.com/hashicorp/golang-lru/v2.
package lru

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/corey/vimmeta/internal/domain/vimscript"
)

// DefaultSize is the number of modules kept when no size is configured.
const DefaultSize = 1024

// Cache implements ports.ModuleCache. Safe for concurrent use.
type Cache struct {
	c *lru.Cache[string, vimscript.Module]
}

// New creates a cache holding at most size modules.
func New(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[string, vimscript.Module](size)
	if err != nil {
		return nil, fmt.Errorf("lru new: %w", err)
	}
	return &Cache{c: c}, nil
}

// Get returns the cached module for key.
func (c *Cache) Get(key string) (vimscript.Module, bool) {
	return c.c.Get(key)
}

// Add stores mod under key, evicting the least recently used entry if full.
func (c *Cache) Add(key string, mod vimscript.Module) {
	c.c.Add(key, mod)
}

// Len returns the number of cached modules.
func (c *Cache) Len() int {
	return c.c.Len()
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.c.Purge()
}
