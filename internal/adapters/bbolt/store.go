// Package bbolt implements the ports.Storage interface using bbolt (embedded B+ tree).
// Each plugin root gets its own top-level bucket holding a JSON summary under
// "meta" and the JSON-encoded plugin under "content". Writes are transactional;
// a crash mid-write cannot corrupt previously committed data.
package bbolt

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/corey/vimmeta/internal/domain/vimscript"
	"github.com/corey/vimmeta/internal/ports"
)

// ErrNotIndexed is returned by LoadPlugin for a root that was never saved.
var ErrNotIndexed = errors.New("plugin not indexed")

var (
	keyMeta    = []byte("meta")
	keyContent = []byte("content")
)

// Store implements ports.Storage backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SavePlugin persists a plugin under meta.Root, replacing any prior entry.
func (s *Store) SavePlugin(meta *ports.PluginMeta, p *vimscript.Plugin) error {
	if meta == nil || meta.Root == "" {
		return fmt.Errorf("plugin meta without root")
	}
	if p == nil {
		return fmt.Errorf("nil plugin")
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}
	contentJSON, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal plugin: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(meta.Root))
		if err != nil {
			return err
		}
		if err := b.Put(keyMeta, metaJSON); err != nil {
			return err
		}
		return b.Put(keyContent, contentJSON)
	})
}

// LoadPlugin retrieves the summary and plugin stored for root.
func (s *Store) LoadPlugin(root string) (*ports.PluginMeta, *vimscript.Plugin, error) {
	var metaJSON, contentJSON []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(root))
		if b == nil {
			return nil
		}
		// bbolt slices are only valid within the transaction.
		metaJSON = clone(b.Get(keyMeta))
		contentJSON = clone(b.Get(keyContent))
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if metaJSON == nil || contentJSON == nil {
		return nil, nil, fmt.Errorf("%s: %w", root, ErrNotIndexed)
	}

	var meta ports.PluginMeta
	if err := json.Unmarshal(metaJSON, &meta); err != nil {
		return nil, nil, fmt.Errorf("unmarshal meta: %w", err)
	}
	var p vimscript.Plugin
	if err := json.Unmarshal(contentJSON, &p); err != nil {
		return nil, nil, fmt.Errorf("unmarshal plugin: %w", err)
	}
	return &meta, &p, nil
}

// ListPlugins returns every stored summary in root order.
func (s *Store) ListPlugins() ([]ports.PluginMeta, error) {
	var out []ports.PluginMeta
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, b *bolt.Bucket) error {
			v := b.Get(keyMeta)
			if v == nil {
				return nil
			}
			var meta ports.PluginMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return fmt.Errorf("unmarshal meta %q: %w", name, err)
			}
			out = append(out, meta)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Root < out[j].Root })
	return out, nil
}

// DeletePlugin removes root. Idempotent: deleting an unknown root is not an error.
func (s *Store) DeletePlugin(root string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket([]byte(root))
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
}

func clone(v []byte) []byte {
	if v == nil {
		return nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out
}
