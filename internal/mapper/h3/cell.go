package h3mapper

import (
	"fmt"
	"math"
	"sort"

	"github.com/mohammed-shakir/spatial-index/internal/geo"
	"github.com/mohammed-shakir/spatial-index/internal/mapper"
)

// Cell is an H3 cell value. Index is the canonical 15 character hex string.
type Cell struct {
	Index      string `json:"index"`
	Resolution int    `json:"resolution"`

	id Index
}

func validateRes(res int) error {
	if res < 0 || res > MaxRes {
		return geo.Invalid("resolution", res, "must be 0..15")
	}
	return nil
}

func newCell(h Index) Cell {
	return Cell{Index: h.String(), Resolution: h.Resolution(), id: h}
}

// FromLocation returns the cell containing loc at res.
func FromLocation(loc geo.Location, res int) (Cell, error) {
	if _, err := geo.NewLocation(loc.Lat, loc.Lon); err != nil {
		return Cell{}, err
	}
	if err := validateRes(res); err != nil {
		return Cell{}, err
	}
	h, err := fromLatLng(latLng{lat: toRad(loc.Lat), lng: toRad(loc.Lon)}, res)
	if err != nil {
		return Cell{}, err
	}
	return newCell(h), nil
}

func ParseCell(s string) (Cell, error) {
	h, err := ParseIndex(s)
	if err != nil {
		return Cell{}, err
	}
	return newCell(h), nil
}

func (c Cell) ID() Index { return c.id }

func (c Cell) IsPentagon() bool { return c.id.IsPentagon() }

// Center is the cell's center point. Re-encoding it at the same resolution
// always returns the cell at resolutions 0..3; at finer resolutions the
// projected center can round into a neighbor, which H3 accepts since cells
// are combinatorially rather than geometrically exact.
func (c Cell) Center() geo.Location {
	g := c.id.center()
	return geo.Location{Lat: toDeg(g.lat), Lon: toDeg(g.lng)}
}

// Bounds is the lat/lon box of the cell's hexagon vertices. Cells holding a
// pole reach it across every longitude.
func (c Cell) Bounds() geo.BoundingBox {
	res := c.Resolution
	face, ijk := c.id.toFaceIJK()
	center := ijk.toHex2d()
	r := 1 / math.Sqrt(3)

	pts := make([]geo.Location, 0, 6)
	for k := 0; k < 6; k++ {
		a := math.Pi/6 + float64(k)*math.Pi/3
		v := vec2d{center.x + r*math.Cos(a), center.y + r*math.Sin(a)}
		g := hex2dToGeo(v, face, res)
		pts = append(pts, geo.Location{Lat: toDeg(g.lat), Lon: toDeg(g.lng)})
	}
	box := geo.BoxAround(pts)

	for _, north := range []bool{true, false} {
		pole := latLng{lat: math.Pi / 2}
		if !north {
			pole.lat = -math.Pi / 2
		}
		if h, err := fromLatLng(pole, res); err == nil && h == c.id {
			box = box.WithPole(north)
		}
	}
	return box
}

// Neighbors returns the cells sharing an edge with c, sorted: six for a
// hexagon, five for a pentagon.
func (c Cell) Neighbors() []Cell {
	res := c.Resolution
	face, ijk := c.id.toFaceIJK()

	seen := make(map[Index]struct{}, 6)
	out := make([]Cell, 0, 6)
	for d := kAxesDigit; d < invalidDigit; d++ {
		g := faceIJKToGeo(face, ijk.neighbor(d), res)
		h, err := fromLatLng(g, res)
		if err != nil || h == c.id {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, newCell(h))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func (c Cell) Parent() (Cell, error) {
	if c.Resolution == 0 {
		return Cell{}, fmt.Errorf("h3 cell %s at resolution 0: %w", c.Index, mapper.ErrNoParent)
	}
	return c.parentAt(c.Resolution - 1), nil
}

func (c Cell) parentAt(res int) Cell {
	h := c.id &^ (Index(resMask) << resOffset)
	h |= Index(res) << resOffset
	for r := res + 1; r <= MaxRes; r++ {
		h = h.setDigit(r, invalidDigit)
	}
	return newCell(h)
}

// Children lists the cells one resolution finer, center child first. A
// pentagon has no child in the deleted k direction.
func (c Cell) Children() ([]Cell, error) {
	if c.Resolution == MaxRes {
		return nil, fmt.Errorf("h3 cell %s at resolution %d: %w", c.Index, MaxRes, mapper.ErrNoChildren)
	}
	res := c.Resolution + 1
	base := c.id &^ (Index(resMask) << resOffset)
	base |= Index(res) << resOffset

	pent := c.IsPentagon()
	out := make([]Cell, 0, 7)
	for d := centerDigit; d < invalidDigit; d++ {
		if pent && d == kAxesDigit {
			continue
		}
		out = append(out, newCell(base.setDigit(res, d)))
	}
	return out, nil
}

func toRad(d float64) float64 { return d * math.Pi / 180 }
func toDeg(r float64) float64 { return r * 180 / math.Pi }
