// Package s2mapper implements the S2 cube-face quadtree cell codec.
package s2mapper

import (
	"math"

	"github.com/mohammed-shakir/spatial-index/internal/geo"
	"github.com/mohammed-shakir/spatial-index/internal/mapper"
)

// minEdgeDeriv is the shortest cell edge at level 0 in radians under the
// quadratic projection.
var minEdgeDeriv = 2 * math.Sqrt2 / 3

type Mapper struct{}

var _ mapper.Interface = (*Mapper)(nil)

func New() *Mapper { return &Mapper{} }

func (m *Mapper) Kind() mapper.Kind { return mapper.S2 }

func (m *Mapper) ValidatePrecision(level int) error { return validateLevel(level) }

func (m *Mapper) Encode(loc geo.Location, level int) (string, error) {
	c, err := FromLocation(loc, level)
	if err != nil {
		return "", err
	}
	return c.Token, nil
}

func (m *Mapper) Decode(token string) (geo.Location, error) {
	c, err := ParseCell(token)
	if err != nil {
		return geo.Location{}, err
	}
	return c.Center(), nil
}

func (m *Mapper) Bounds(token string) (geo.BoundingBox, error) {
	c, err := ParseCell(token)
	if err != nil {
		return geo.BoundingBox{}, err
	}
	return c.Bounds(), nil
}

func (m *Mapper) Precision(token string) (int, error) {
	c, err := ParseCell(token)
	if err != nil {
		return 0, err
	}
	return c.Level, nil
}

func (m *Mapper) Neighbors(token string) ([]string, error) {
	c, err := ParseCell(token)
	if err != nil {
		return nil, err
	}
	return tokens(c.Neighbors()), nil
}

func (m *Mapper) Parent(token string) (string, error) {
	c, err := ParseCell(token)
	if err != nil {
		return "", err
	}
	p, err := c.Parent()
	if err != nil {
		return "", err
	}
	return p.Token, nil
}

func (m *Mapper) Children(token string) ([]string, error) {
	c, err := ParseCell(token)
	if err != nil {
		return nil, err
	}
	kids, err := c.Children()
	if err != nil {
		return nil, err
	}
	return tokens(kids), nil
}

// EdgeKm is the minimum cell edge length at level.
func (m *Mapper) EdgeKm(level int) float64 {
	level = max(0, min(MaxLevel, level))
	return math.Ldexp(minEdgeDeriv, -level) * geo.EarthRadiusKm
}

func tokens(cells []Cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.Token
	}
	return out
}
