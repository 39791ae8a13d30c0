// Package covering turns a radius or a bounding box into the distance-sorted
// list of cells that must be scanned to find every record inside it.
package covering

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/mohammed-shakir/spatial-index/internal/core/observability"
	"github.com/mohammed-shakir/spatial-index/internal/geo"
	"github.com/mohammed-shakir/spatial-index/internal/mapper"
)

// ErrTooManySamples is returned when a box is too large for the precision.
var ErrTooManySamples = errors.New("covering needs too many samples")

const DefaultMaxSamples = 250_000

// sliverPad widens the box, in shortest edges, when testing whether a
// neighbor's bounds reach into it.
const sliverPad = 0.05

// Cell is one covering cell and the distance from the reference center to
// the cell center.
type Cell struct {
	ID         string  `json:"id"`
	DistanceKm float64 `json:"distance_km"`
}

// Interface is satisfied by *Coverer and *Cached.
type Interface interface {
	ForRadius(center geo.Location, radiusKm float64, precision, maxCells int) ([]Cell, error)
	ForBoundingBox(box geo.BoundingBox, precision, maxCells int) ([]Cell, error)
}

type Option func(*Coverer)

func WithMaxSamples(n int) Option {
	return func(c *Coverer) {
		if n > 0 {
			c.maxSamples = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Coverer) {
		if l != nil {
			c.logger = l
		}
	}
}

// Coverer is stateless apart from its configuration and safe for concurrent
// use.
type Coverer struct {
	m          mapper.Interface
	maxSamples int
	logger     *slog.Logger
}

func New(m mapper.Interface, opts ...Option) *Coverer {
	c := &Coverer{m: m, maxSamples: DefaultMaxSamples, logger: slog.Default()}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Coverer) Mapper() mapper.Interface { return c.m }

// ForRadius covers the offset box around center. Cells are ordered and
// truncated by distance from center.
func (c *Coverer) ForRadius(center geo.Location, radiusKm float64, precision, maxCells int) ([]Cell, error) {
	start := time.Now()
	if err := c.validate(precision, maxCells); err != nil {
		return nil, err
	}
	box, err := geo.RadiusBox(center, radiusKm)
	if err != nil {
		return nil, err
	}
	cells, err := c.cover(box, center, precision, maxCells)
	if err != nil {
		return nil, fmt.Errorf("radius %.3f km around %v: %w", radiusKm, center, err)
	}
	observability.ObserveCovering(c.m.Kind().String(), "radius", len(cells), time.Since(start).Seconds())
	return cells, nil
}

// ForBoundingBox covers box. Cells are ordered and truncated by distance
// from the box center.
func (c *Coverer) ForBoundingBox(box geo.BoundingBox, precision, maxCells int) ([]Cell, error) {
	start := time.Now()
	if err := c.validate(precision, maxCells); err != nil {
		return nil, err
	}
	if _, err := geo.NewBoundingBox(box.SouthWest, box.NorthEast); err != nil {
		return nil, err
	}
	cells, err := c.cover(box, box.Center(), precision, maxCells)
	if err != nil {
		return nil, fmt.Errorf("box %v: %w", box, err)
	}
	observability.ObserveCovering(c.m.Kind().String(), "box", len(cells), time.Since(start).Seconds())
	return cells, nil
}

func (c *Coverer) validate(precision, maxCells int) error {
	if err := c.m.ValidatePrecision(precision); err != nil {
		return err
	}
	if maxCells <= 0 {
		return geo.Invalid("maxCells", maxCells, "must be positive")
	}
	return nil
}

func (c *Coverer) cover(box geo.BoundingBox, ref geo.Location, precision, maxCells int) ([]Cell, error) {
	parts := []geo.BoundingBox{box}
	if west, east, ok := box.SplitAtDateLine(); ok {
		parts = []geo.BoundingBox{west, east}
	}

	plans := make([]grid, len(parts))
	total := 0
	for i, p := range parts {
		plans[i] = c.plan(p, precision, c.maxSamples)
		total += plans[i].count()
	}
	if total > c.maxSamples {
		c.logger.Debug("covering rejected",
			"kind", c.m.Kind(), "precision", precision, "samples", total, "max_samples", c.maxSamples)
		return nil, fmt.Errorf("%d samples at precision %d exceeds %d: %w", total, precision, c.maxSamples, ErrTooManySamples)
	}

	set := make(map[string]struct{})
	rim := make(map[string]struct{})
	for i, p := range parts {
		inner, edge := plans[i].points(p)
		for _, loc := range inner {
			id, err := c.m.Encode(loc, precision)
			if err != nil {
				return nil, fmt.Errorf("encode sample %v: %w", loc, err)
			}
			set[id] = struct{}{}
		}
		for _, loc := range edge {
			id, err := c.m.Encode(loc, precision)
			if err != nil {
				return nil, fmt.Errorf("encode sample %v: %w", loc, err)
			}
			set[id] = struct{}{}
			rim[id] = struct{}{}
		}
	}
	if _, fixed := c.m.(mapper.GridSizer); !fixed {
		if err := c.addSlivers(set, rim, parts, precision); err != nil {
			return nil, err
		}
	}

	cells := make([]Cell, 0, len(set))
	for id := range set {
		center, err := c.m.Decode(id)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", id, err)
		}
		cells = append(cells, Cell{ID: id, DistanceKm: geo.DistanceKm(ref, center)})
	}
	Sort(cells)

	if len(cells) > maxCells {
		c.logger.Debug("covering truncated",
			"kind", c.m.Kind(), "precision", precision, "cells", len(cells), "max_cells", maxCells)
		cells = cells[:maxCells]
	}
	return cells, nil
}

// addSlivers adds the neighbors of boundary cells that reach into the box
// between two boundary samples. Cells on a lat/lon grid never do, so only
// codecs with curved or rotated cells need this pass.
func (c *Coverer) addSlivers(set, rim map[string]struct{}, parts []geo.BoundingBox, precision int) error {
	pad := sliverPad * mapper.MinEdgeKm(c.m, precision) / geo.KmPerDegree
	padded := make([]geo.BoundingBox, len(parts))
	for i, p := range parts {
		padded[i] = geo.BoundingBox{
			SouthWest: geo.Location{Lat: max(p.SouthWest.Lat-pad, geo.MinLat), Lon: max(p.SouthWest.Lon-pad, geo.MinLon)},
			NorthEast: geo.Location{Lat: min(p.NorthEast.Lat+pad, geo.MaxLat), Lon: min(p.NorthEast.Lon+pad, geo.MaxLon)},
		}
	}
	for id := range rim {
		nbs, err := c.m.Neighbors(id)
		if err != nil {
			return fmt.Errorf("neighbors of %s: %w", id, err)
		}
		for _, nb := range nbs {
			if _, ok := set[nb]; ok {
				continue
			}
			b, err := c.m.Bounds(nb)
			if err != nil {
				return fmt.Errorf("bounds of %s: %w", nb, err)
			}
			for _, p := range padded {
				if b.Intersects(p) {
					set[nb] = struct{}{}
					break
				}
			}
		}
	}
	return nil
}

// Sort orders cells by distance, then by id.
func Sort(cells []Cell) {
	slices.SortFunc(cells, func(a, b Cell) int {
		if c := cmp.Compare(a.DistanceKm, b.DistanceKm); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// grid is the sampling plan for one non-crossing box: a latitude step and,
// per row, a longitude step.
type grid struct {
	rows     []float64
	lonStep  []float64
	width    float64
	overflow bool
}

// plan spaces samples at most half a cell apart. Codecs with cells of fixed
// angular size are stepped in degrees; the others by half the shortest edge,
// converting the longitude step at the row latitude closest to the equator.
// A plan whose rows alone would exceed limit is cut short; its count then
// reports more than limit samples.
func (c *Coverer) plan(box geo.BoundingBox, precision, limit int) grid {
	south, north := box.SouthWest.Lat, box.NorthEast.Lat
	g := grid{width: box.NorthEast.Lon - box.SouthWest.Lon}

	var latStep float64
	fixedLon := 0.0
	spacing := mapper.MinEdgeKm(c.m, precision) / 2
	if gs, ok := c.m.(mapper.GridSizer); ok {
		dLat, dLon := gs.CellSizeDeg(precision)
		latStep, fixedLon = dLat/2, dLon/2
	} else {
		latStep = spacing / geo.KmPerDegree
	}

	if (north-south)/latStep >= float64(limit) {
		return grid{overflow: true}
	}
	for lat := south; ; lat += latStep {
		if lat >= north {
			lat = north
		}
		g.rows = append(g.rows, lat)
		step := fixedLon
		if step == 0 {
			lo, hi := max(lat-latStep, south), min(lat+latStep, north)
			nearEq := 0.0
			if lo > 0 {
				nearEq = lo
			} else if hi < 0 {
				nearEq = hi
			}
			cos := math.Cos(nearEq * math.Pi / 180)
			step = spacing / (geo.KmPerDegree * max(cos, 1e-9))
		}
		g.lonStep = append(g.lonStep, step)
		if lat == north {
			break
		}
	}
	return g
}

func (g grid) cols(i int) int {
	if g.width <= 0 {
		return 1
	}
	return int(math.Ceil(g.width/g.lonStep[i])) + 1
}

// count is the number of samples points will produce.
func (g grid) count() int {
	if g.overflow {
		return math.MaxInt32
	}
	n := 1 // center
	for i := range g.rows {
		n += g.cols(i)
		if n > math.MaxInt32 {
			return n
		}
	}
	return n
}

// points walks each row from the west edge to the east edge inclusive. The
// box center and the interior samples come back in inner; the first and last
// rows and columns in edge.
func (g grid) points(box geo.BoundingBox) (inner, edge []geo.Location) {
	west, east := box.SouthWest.Lon, box.NorthEast.Lon
	inner = make([]geo.Location, 0, g.count())
	inner = append(inner, box.Center())
	last := len(g.rows) - 1
	for i, lat := range g.rows {
		n := g.cols(i)
		for k := 0; k < n; k++ {
			lon := west + float64(k)*g.lonStep[i]
			if k == n-1 || lon > east {
				lon = east
			}
			loc := geo.Location{Lat: lat, Lon: lon}
			if i == 0 || i == last || k == 0 || k == n-1 {
				edge = append(edge, loc)
			} else {
				inner = append(inner, loc)
			}
		}
	}
	return inner, edge
}
