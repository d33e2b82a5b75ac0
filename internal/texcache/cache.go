// Package texcache is the process-wide, path-keyed texture cache the
// sprite-font builder registers pages into and the loader reads pages
// back from. Sprite-font atlas pages are never evicted (a font's pages
// live as long as something holds the font or the cache entry), so
// there is no soft limit or access-time bookkeeping to carry, just a
// mutex-guarded map safe for concurrent builders and loaders.
package texcache

import (
	"sync"

	"github.com/mochifont/spritefont/internal/rasterimg"
)

// Texture is a CPU-side page image plus whatever a real renderer would
// need to know to use it as a GPU texture. This module does not upload
// anything to a GPU; Texture stops at
// the handle a cache entry and a SpriteFont page both point to.
type Texture struct {
	// Image is nil once a holder has explicitly released CPU-side pixels
	// after upload; sprite-font building and loading always keep it set.
	Image *rasterimg.Image
	// Path is the cache key this texture was registered under, empty for
	// textures that were never added to a Cache.
	Path string
}

// Cache is a process-wide mapping from path to a shared *Texture. The
// cache is a weak co-owner of each texture: deleting an entry or letting
// the cache itself be dropped does not invalidate a *Texture another
// holder (a SpriteFont) still references.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Texture
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{entries: make(map[string]*Texture)}
}

// Get returns the texture registered under path, if any.
func (c *Cache) Get(path string) (*Texture, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.entries[path]
	return t, ok
}

// Add registers t under path, overwriting any previous entry for the
// same path, and returns t for convenient chaining at call sites.
func (c *Cache) Add(path string, t *Texture) *Texture {
	c.mu.Lock()
	defer c.mu.Unlock()
	t.Path = path
	c.entries[path] = t
	return t
}

// GetOrCreate returns the cached texture for path, or calls create and
// registers its result if no entry exists yet.
func (c *Cache) GetOrCreate(path string, create func() *Texture) *Texture {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.entries[path]; ok {
		return t
	}
	t := create()
	t.Path = path
	c.entries[path] = t
	return t
}

// Delete removes the entry for path, if present. Any *Texture other
// holders still reference remains valid.
func (c *Cache) Delete(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// Len returns the number of registered entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
