// Package cache provides the rasterized image cache for the resource engine.
// The cache maps composite keys to rendered images and supports only coarse
// invalidation: wholesale clears plus per-icon clears. It holds no ownership
// over icon or theme descriptors.
package cache

import (
	"image"
	"sync"

	"quill/pkg/quilltypes"
)

// Key identifies one rasterized image. Two lookups with equal keys must
// receive the identical image without re-rasterizing.
type Key struct {
	IconID    string
	Theme     string
	Size      int
	Primary   quilltypes.Color
	Secondary quilltypes.Color
}

// ImageCache is a thread-safe in-memory map from Key to rendered image.
type ImageCache struct {
	mu      sync.RWMutex
	entries map[Key]image.Image
}

// NewImageCache creates an empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		entries: make(map[Key]image.Image),
	}
}

// Get returns the cached image for key, if present.
func (c *ImageCache) Get(key Key) (image.Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	img, ok := c.entries[key]
	return img, ok
}

// Put stores an image under key, replacing any previous entry.
func (c *ImageCache) Put(key Key, img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = img
}

// Clear drops every entry and returns the number removed.
func (c *ImageCache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.entries)
	c.entries = make(map[Key]image.Image)
	return n
}

// ClearIcon drops every entry for the given icon id, regardless of theme,
// size, or colors. Returns the number removed.
func (c *ImageCache) ClearIcon(iconID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key := range c.entries {
		if key.IconID == iconID {
			delete(c.entries, key)
			n++
		}
	}
	return n
}

// Len returns the number of cached entries.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
