package s2mapper

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mohammed-shakir/spatial-index/internal/geo"
	"github.com/mohammed-shakir/spatial-index/internal/mapper"
)

// Cell is an S2 cell value addressed by its token.
type Cell struct {
	Token string `json:"token"`
	Level int    `json:"level"`

	id CellID
}

func validateLevel(level int) error {
	if level < 0 || level > MaxLevel {
		return geo.Invalid("level", level, "must be 0..30")
	}
	return nil
}

func newCell(id CellID) Cell {
	return Cell{Token: id.ToToken(), Level: id.Level(), id: id}
}

// FromLocation returns the cell containing loc at level.
func FromLocation(loc geo.Location, level int) (Cell, error) {
	if _, err := geo.NewLocation(loc.Lat, loc.Lon); err != nil {
		return Cell{}, err
	}
	if err := validateLevel(level); err != nil {
		return Cell{}, err
	}
	p := pointFromLatLng(loc.Lat*math.Pi/180, loc.Lon*math.Pi/180)
	return newCell(cellIDFromPoint(p).Parent(level)), nil
}

// ParseCell accepts a token in either case. Trailing zeros may be omitted.
func ParseCell(token string) (Cell, error) {
	if token == "" {
		return Cell{}, geo.Invalid("cell", nil, "S2 token must not be empty")
	}
	if len(token) > 16 {
		return Cell{}, geo.Invalid("cell", token, "S2 token must be at most 16 hex characters")
	}
	id := CellIDFromToken(strings.ToLower(token))
	if id == 0 || !id.IsValid() {
		return Cell{}, geo.Invalid("cell", token, "not a valid S2 cell token")
	}
	return newCell(id), nil
}

func (c Cell) ID() CellID { return c.id }

func (c Cell) Center() geo.Location {
	lat, lng := c.id.rawPoint().latLng()
	return geo.Location{Lat: lat * 180 / math.Pi, Lon: lng * 180 / math.Pi}
}

const boundSamples = 16

// Bounds samples the four cell edges in (u,v) space. Cells holding a pole
// reach it across every longitude.
func (c Cell) Bounds() geo.BoundingBox {
	face := c.id.Face()
	uLo, uHi, vLo, vHi := c.id.boundUV()

	pts := make([]geo.Location, 0, 4*boundSamples+1)
	add := func(u, v float64) {
		lat, lng := faceUVToXYZ(face, u, v).latLng()
		pts = append(pts, geo.Location{Lat: lat * 180 / math.Pi, Lon: lng * 180 / math.Pi})
	}
	for k := 0; k < boundSamples; k++ {
		t := float64(k) / boundSamples
		add(uLo+(uHi-uLo)*t, vLo)
		add(uHi, vLo+(vHi-vLo)*t)
		add(uHi-(uHi-uLo)*t, vHi)
		add(uLo, vHi-(vHi-vLo)*t)
	}
	box := geo.BoxAround(pts)

	if c.id.Contains(cellIDFromPoint(point{0, 0, 1})) {
		box = box.WithPole(true)
	}
	if c.id.Contains(cellIDFromPoint(point{0, 0, -1})) {
		box = box.WithPole(false)
	}
	return box
}

// Neighbors returns the distinct cells at the same level that share an edge
// or a corner with c: eight in general, seven next to a cube corner.
func (c Cell) Neighbors() []Cell {
	seen := map[CellID]struct{}{c.id: {}}
	var out []Cell
	for _, n := range c.id.allNeighbors() {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, newCell(n))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// EdgeNeighbors returns the four cells across c's edges.
func (c Cell) EdgeNeighbors() [4]Cell {
	level := c.Level
	size := sizeIJ(level)
	f, i, j, _ := c.id.faceIJOrientation()
	return [4]Cell{
		newCell(cellIDFromFaceIJWrap(f, i, j-size).Parent(level)),
		newCell(cellIDFromFaceIJWrap(f, i+size, j).Parent(level)),
		newCell(cellIDFromFaceIJWrap(f, i, j+size).Parent(level)),
		newCell(cellIDFromFaceIJWrap(f, i-size, j).Parent(level)),
	}
}

func (c Cell) Parent() (Cell, error) {
	if c.Level == 0 {
		return Cell{}, fmt.Errorf("s2 cell %s at level 0: %w", c.Token, mapper.ErrNoParent)
	}
	return newCell(c.id.Parent(c.Level - 1)), nil
}

// ParentAt returns the ancestor at level.
func (c Cell) ParentAt(level int) (Cell, error) {
	if err := validateLevel(level); err != nil {
		return Cell{}, err
	}
	if level > c.Level {
		return Cell{}, fmt.Errorf("level %d must be <= cell level %d", level, c.Level)
	}
	return newCell(c.id.Parent(level)), nil
}

// Children returns the four children in Hilbert curve order.
func (c Cell) Children() ([]Cell, error) {
	if c.Level == MaxLevel {
		return nil, fmt.Errorf("s2 cell %s at level %d: %w", c.Token, MaxLevel, mapper.ErrNoChildren)
	}
	ch := c.id.Children()
	out := make([]Cell, len(ch))
	for i, id := range ch {
		out[i] = newCell(id)
	}
	return out, nil
}
