package h3mapper

import (
	"github.com/mohammed-shakir/spatial-index/internal/geo"
	"github.com/mohammed-shakir/spatial-index/internal/mapper"
)

type Mapper struct{}

var _ mapper.Interface = (*Mapper)(nil)

func New() *Mapper { return &Mapper{} }

func (m *Mapper) Kind() mapper.Kind { return mapper.H3 }

func (m *Mapper) ValidatePrecision(res int) error { return validateRes(res) }

func (m *Mapper) Encode(loc geo.Location, res int) (string, error) {
	c, err := FromLocation(loc, res)
	if err != nil {
		return "", err
	}
	return c.Index, nil
}

func (m *Mapper) Decode(cell string) (geo.Location, error) {
	c, err := ParseCell(cell)
	if err != nil {
		return geo.Location{}, err
	}
	return c.Center(), nil
}

func (m *Mapper) Bounds(cell string) (geo.BoundingBox, error) {
	c, err := ParseCell(cell)
	if err != nil {
		return geo.BoundingBox{}, err
	}
	return c.Bounds(), nil
}

func (m *Mapper) Precision(cell string) (int, error) {
	c, err := ParseCell(cell)
	if err != nil {
		return 0, err
	}
	return c.Resolution, nil
}

func (m *Mapper) Neighbors(cell string) ([]string, error) {
	c, err := ParseCell(cell)
	if err != nil {
		return nil, err
	}
	return indexes(c.Neighbors()), nil
}

func (m *Mapper) Parent(cell string) (string, error) {
	c, err := ParseCell(cell)
	if err != nil {
		return "", err
	}
	p, err := c.Parent()
	if err != nil {
		return "", err
	}
	return p.Index, nil
}

func (m *Mapper) Children(cell string) ([]string, error) {
	c, err := ParseCell(cell)
	if err != nil {
		return nil, err
	}
	kids, err := c.Children()
	if err != nil {
		return nil, err
	}
	return indexes(kids), nil
}

// EdgeKm is the average hexagon edge length at res, clamped to 0..15.
func (m *Mapper) EdgeKm(res int) float64 {
	return edgeLengthKm[max(0, min(MaxRes, res))]
}

// MinEdgeKm bounds the shortest edge at res, pentagon neighborhoods and
// icosahedron face edges included.
func (m *Mapper) MinEdgeKm(res int) float64 {
	return m.EdgeKm(res) * minEdgeRatio
}

func indexes(cells []Cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.Index
	}
	return out
}
