package lut

import (
	"log/slog"
	"math"
	"sync"

	"github.com/jpfielding/dicoslut.go/pkg/util"
)

// Cache shares one RescaleLUT per bit depth and rescale among every window built over it.
// Cached tables are never evicted; they live as long as the Cache.
type Cache struct {
	mu     sync.Mutex
	tables map[cacheKey]*RescaleLUT
}

// NewCache creates an empty Cache
func NewCache() *Cache {
	return &Cache{tables: map[cacheKey]*RescaleLUT{}}
}

type cacheKey struct {
	BitsStored int     `json:"bits_stored"`
	Slope      float64 `json:"slope"`
	Intercept  float64 `json:"intercept"`
}

// Rescale returns the cached table for bitsStored and rsi, building it on first use
func (c *Cache) Rescale(bitsStored int, rsi RescaleSpec) (*RescaleLUT, error) {
	if math.IsNaN(rsi.Slope) || math.IsNaN(rsi.Intercept) { // NaN keys never match
		return NewRescaleLUT(bitsStored, rsi)
	}
	key := cacheKey{BitsStored: bitsStored, Slope: rsi.Slope, Intercept: rsi.Intercept}
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.tables[key]; ok {
		return r, nil
	}
	r, err := NewRescaleLUT(bitsStored, rsi)
	if err != nil {
		return nil, err
	}
	c.tables[key] = r
	slog.Debug("rescale lut cached", "id", TableID(bitsStored, rsi), "bits_stored", bitsStored, "slope", rsi.Slope, "intercept", rsi.Intercept)
	return r, nil
}

// TableID is a content derived UUID for a rescale table, stable across processes so logs
// from different hosts can be correlated. It is "" for NaN or infinite rescales.
func TableID(bitsStored int, rsi RescaleSpec) string {
	return util.HashUUID(cacheKey{BitsStored: bitsStored, Slope: rsi.Slope, Intercept: rsi.Intercept})
}

// Window builds a new, not yet updated, WindowLUT over the cached rescale table
func (c *Cache) Window(bitsStored int, rsi RescaleSpec, signed bool) (*WindowLUT, error) {
	r, err := c.Rescale(bitsStored, rsi)
	if err != nil {
		return nil, err
	}
	return NewWindowLUT(r, signed), nil
}

// Len returns the number of cached rescale tables
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tables)
}
