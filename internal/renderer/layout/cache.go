package layout

import (
	"sync"
	"sync/atomic"

	"github.com/dshills/codepad/internal/renderer/core"
)

// MeasureCache memoizes a MeasureFunc with LRU eviction. The placement
// solver lays the same runs out at several widths, so most measurements
// repeat.
type MeasureCache struct {
	mu        sync.Mutex
	entries   map[measureKey]*measureEntry
	measure   MeasureFunc
	maxSize   int
	tick      uint64
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type measureKey struct {
	text string
	font core.Font
}

type measureEntry struct {
	width      int
	lastAccess uint64
}

// NewMeasureCache wraps measure. maxSize bounds the number of entries;
// zero or less means 4096.
func NewMeasureCache(measure MeasureFunc, maxSize int) *MeasureCache {
	if measure == nil {
		measure = CellMeasure
	}
	if maxSize <= 0 {
		maxSize = 4096
	}
	return &MeasureCache{
		entries: make(map[measureKey]*measureEntry),
		measure: measure,
		maxSize: maxSize,
	}
}

// Measure returns the cached width of text in font, computing it on a miss.
func (c *MeasureCache) Measure(text string, font core.Font) int {
	key := measureKey{text: text, font: font}

	c.mu.Lock()
	c.tick++
	if e, ok := c.entries[key]; ok {
		e.lastAccess = c.tick
		c.mu.Unlock()
		c.hits.Add(1)
		return e.width
	}
	c.mu.Unlock()

	c.misses.Add(1)
	width := c.measure(text, font)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &measureEntry{width: width, lastAccess: c.tick}
	if len(c.entries) > c.maxSize {
		c.evict()
	}
	return width
}

// Func returns the cache as a MeasureFunc.
func (c *MeasureCache) Func() MeasureFunc {
	return c.Measure
}

// evict drops the least recently used quarter of the entries.
// Must be called with the lock held.
func (c *MeasureCache) evict() {
	target := c.maxSize - c.maxSize/4
	for len(c.entries) > target {
		var oldestKey measureKey
		oldest := ^uint64(0)
		for k, e := range c.entries {
			if e.lastAccess < oldest {
				oldest = e.lastAccess
				oldestKey = k
			}
		}
		delete(c.entries, oldestKey)
		c.evictions.Add(1)
	}
}

// Invalidate clears the cache, e.g. after the font set changes.
func (c *MeasureCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[measureKey]*measureEntry)
}

// Size returns the number of cached entries.
func (c *MeasureCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cache statistics.
func (c *MeasureCache) Stats() CacheStats {
	size := c.Size()
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return CacheStats{
		Size:      size,
		MaxSize:   c.maxSize,
		Hits:      hits,
		Misses:    misses,
		Evictions: c.evictions.Load(),
		HitRate:   hitRate,
	}
}

// CacheStats holds cache statistics.
type CacheStats struct {
	Size      int     // Current number of entries
	MaxSize   int     // Maximum entries allowed
	Hits      uint64  // Number of cache hits
	Misses    uint64  // Number of cache misses
	Evictions uint64  // Number of evicted entries
	HitRate   float64 // Hit rate (0.0 - 1.0)
}
