// Package imagecache memoizes window bitmaps for the search picker and
// alert surfaces. A window with no obtainable image is a normal condition,
// not an error.
package imagecache

import (
	"sync"

	"github.com/barkeepapp/barkeep/internal/logging"
)

// Capturer renders a window to bitmap bytes. The bridge satisfies it.
type Capturer interface {
	CaptureWindow(id uint32) ([]byte, error)
}

// Cache memoizes captures by window id.
type Cache struct {
	capturer Capturer

	mu     sync.Mutex
	images map[uint32][]byte
}

func New(capturer Capturer) *Cache {
	return &Cache{
		capturer: capturer,
		images:   make(map[uint32][]byte),
	}
}

// Image returns the cached bitmap for a window, capturing on first use.
// ok is false when the window yields no image; capture errors are logged
// and also report absence.
func (c *Cache) Image(id uint32) ([]byte, bool) {
	c.mu.Lock()
	if img, ok := c.images[id]; ok {
		c.mu.Unlock()
		return img, len(img) > 0
	}
	c.mu.Unlock()

	img, err := c.capturer.CaptureWindow(id)
	if err != nil {
		logging.Error(err)
		return nil, false
	}

	c.mu.Lock()
	c.images[id] = img
	c.mu.Unlock()
	return img, len(img) > 0
}

// Invalidate drops one window's cached bitmap, forcing a fresh capture.
func (c *Cache) Invalidate(id uint32) {
	c.mu.Lock()
	delete(c.images, id)
	c.mu.Unlock()
}

// Clear drops every cached bitmap.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.images = make(map[uint32][]byte)
	c.mu.Unlock()
}
