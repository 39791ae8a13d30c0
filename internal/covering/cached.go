package covering

import (
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mohammed-shakir/spatial-index/internal/cache/keys"
	"github.com/mohammed-shakir/spatial-index/internal/core/observability"
	"github.com/mohammed-shakir/spatial-index/internal/geo"
)

// Cached memoizes coverings of identical requests. Errors are not cached.
type Cached struct {
	next *Coverer
	lru  *lru.Cache[string, []Cell]
}

func NewCached(next *Coverer, size int) (*Cached, error) {
	if size <= 0 {
		size = 1024
	}
	c, err := lru.New[string, []Cell](size)
	if err != nil {
		return nil, fmt.Errorf("covering cache: %w", err)
	}
	return &Cached{next: next, lru: c}, nil
}

func (c *Cached) ForRadius(center geo.Location, radiusKm float64, precision, maxCells int) ([]Cell, error) {
	k := keys.CoveringKey(c.next.m.Kind().String(), "radius", precision, maxCells,
		center.Lat, center.Lon, radiusKm)
	return c.lookup(k, func() ([]Cell, error) {
		return c.next.ForRadius(center, radiusKm, precision, maxCells)
	})
}

func (c *Cached) ForBoundingBox(box geo.BoundingBox, precision, maxCells int) ([]Cell, error) {
	k := keys.CoveringKey(c.next.m.Kind().String(), "box", precision, maxCells,
		box.SouthWest.Lat, box.SouthWest.Lon, box.NorthEast.Lat, box.NorthEast.Lon)
	return c.lookup(k, func() ([]Cell, error) {
		return c.next.ForBoundingBox(box, precision, maxCells)
	})
}

func (c *Cached) Len() int { return c.lru.Len() }

// lookup hands out copies so callers cannot alter cached entries.
func (c *Cached) lookup(k string, compute func() ([]Cell, error)) ([]Cell, error) {
	if v, ok := c.lru.Get(k); ok {
		observability.IncCoveringCache(true)
		return slices.Clone(v), nil
	}
	observability.IncCoveringCache(false)
	cells, err := compute()
	if err != nil {
		return nil, err
	}
	c.lru.Add(k, cells)
	return slices.Clone(cells), nil
}
