// Package catalog holds the normalized weapon stat tables the formula
// engine resolves named weapons against. Tables ship embedded and can be
// overlaid from a YAML file, with optional hot reload.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"WastelandOps/internal/game"
)

//go:embed weapons.yaml
var embeddedWeapons []byte

type catalogFile struct {
	SchemaVersion string            `yaml:"schema_version"`
	Weapons       []game.WeaponSpec `yaml:"weapons"`
}

// Catalog is a concurrency-safe weapon table implementing
// game.WeaponLookup.
type Catalog struct {
	mu      sync.RWMutex
	weapons map[string]game.WeaponSpec
	path    string
}

// Load builds a catalog from the embedded defaults, overlaid with the
// weapons from path if it is non-empty. A missing overlay file is not an
// error; a malformed one is.
func Load(path string) (*Catalog, error) {
	c := &Catalog{weapons: make(map[string]game.WeaponSpec), path: path}
	if err := c.merge(embeddedWeapons); err != nil {
		return nil, fmt.Errorf("embedded weapon catalog: %w", err)
	}
	if path == "" {
		return c, nil
	}
	if err := c.LoadFile(path); err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, err
	}
	return c, nil
}

// LoadFile overlays weapon entries from a YAML file onto the catalog.
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return err
	}
	if err := c.merge(data); err != nil {
		return fmt.Errorf("weapon catalog %q: %w", path, err)
	}
	return nil
}

func (c *Catalog) merge(data []byte) error {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	for i, w := range f.Weapons {
		if err := validate(w); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, w := range f.Weapons {
		c.weapons[w.ID] = w
	}
	return nil
}

func validate(w game.WeaponSpec) error {
	if w.ID == "" {
		return fmt.Errorf("weapon id cannot be empty")
	}
	if w.Class != game.WeaponRanged && w.Class != game.WeaponMelee {
		return fmt.Errorf("weapon %s: unknown class %q", w.ID, w.Class)
	}
	if w.Damage < 0 || w.RatePerMinute < 0 {
		return fmt.Errorf("weapon %s: negative damage or rate", w.ID)
	}
	if w.Accuracy < 0 || w.Accuracy > 100 || w.Reliability < 0 || w.Reliability > 100 {
		return fmt.Errorf("weapon %s: accuracy and reliability must be 0-100", w.ID)
	}
	return nil
}

// Weapon resolves a weapon by ID. Implements game.WeaponLookup.
func (c *Catalog) Weapon(id string) (game.WeaponSpec, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	w, ok := c.weapons[id]
	return w, ok
}

// Len reports how many weapons are loaded.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.weapons)
}

// Watch reloads the overlay file whenever it changes, until ctx is
// canceled. Returns immediately with an error if the watcher cannot be
// created; reload failures are logged and the previous table stays in
// effect.
func (c *Catalog) Watch(ctx context.Context) error {
	if c.path == "" {
		return fmt.Errorf("no catalog file to watch")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	dir := filepath.Dir(c.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	go func() {
		defer watcher.Close()
		target := filepath.Clean(c.path)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := c.LoadFile(c.path); err != nil {
					log.Printf("weapon catalog reload: %v", err)
					continue
				}
				log.Printf("weapon catalog reloaded from %s (%d weapons)", c.path, c.Len())
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("weapon catalog watcher: %v", err)
			}
		}
	}()
	return nil
}
