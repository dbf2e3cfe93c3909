package images

import (
	"image"

	lru "github.com/hashicorp/golang-lru/v2"
)

// renderKey identifies a rendered overlay by patch index and mutation
// revision. Revisions never repeat, so a hit is always current.
type renderKey struct {
	Index    int
	Revision uint64
}

// RenderCache keeps recently rendered patch overlays so navigating back and
// forth does not re-tint unchanged patches.
type RenderCache struct {
	lru *lru.Cache[renderKey, *image.RGBA]
}

// NewRenderCache returns a cache bounded to size entries. Non-positive sizes
// fall back to 32.
func NewRenderCache(size int) *RenderCache {
	if size <= 0 {
		size = 32
	}
	c, err := lru.New[renderKey, *image.RGBA](size)
	if err != nil {
		return nil
	}
	return &RenderCache{lru: c}
}

// Get returns the cached render for (index, revision), if present.
func (c *RenderCache) Get(index int, revision uint64) (*image.RGBA, bool) {
	if c == nil || c.lru == nil {
		return nil, false
	}
	return c.lru.Get(renderKey{Index: index, Revision: revision})
}

// Put stores a render under (index, revision).
func (c *RenderCache) Put(index int, revision uint64, img *image.RGBA) {
	if c == nil || c.lru == nil || img == nil {
		return
	}
	c.lru.Add(renderKey{Index: index, Revision: revision}, img)
}

// Purge drops all entries, e.g. when a new image is loaded.
func (c *RenderCache) Purge() {
	if c == nil || c.lru == nil {
		return
	}
	c.lru.Purge()
}
