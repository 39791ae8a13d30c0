// Package mapper defines the cell codec contract shared by the GeoHash, S2
// and H3 implementations.
package mapper

import (
	"errors"
	"strings"

	"github.com/mohammed-shakir/spatial-index/internal/geo"
)

type Kind string

const (
	GeoHash Kind = "geohash"
	S2      Kind = "s2"
	H3      Kind = "h3"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case GeoHash, S2, H3:
		return k, nil
	default:
		return "", geo.Invalid("index kind", s, "must be one of geohash, s2, h3")
	}
}

// DefaultPrecision is a cell size of roughly one kilometer for each kind.
func (k Kind) DefaultPrecision() int {
	switch k {
	case GeoHash:
		return 6
	case S2:
		return 13
	default:
		return 8
	}
}

// PrecisionRange is the valid precision interval for k.
func (k Kind) PrecisionRange() (lo, hi int) {
	switch k {
	case GeoHash:
		return 1, 12
	case S2:
		return 0, 30
	default:
		return 0, 15
	}
}

func (k Kind) String() string { return string(k) }

// Interface is implemented by every codec. Cells cross the boundary as their
// canonical string form; precision means characters, level or resolution
// depending on the kind.
type Interface interface {
	Kind() Kind
	ValidatePrecision(p int) error
	Encode(loc geo.Location, precision int) (string, error)
	// Decode returns the cell center.
	Decode(cell string) (geo.Location, error)
	Bounds(cell string) (geo.BoundingBox, error)
	Precision(cell string) (int, error)
	Neighbors(cell string) ([]string, error)
	Parent(cell string) (string, error)
	Children(cell string) ([]string, error)
	// EdgeKm approximates the cell edge length at precision p. Codecs whose
	// edges vary widely around it also implement MinEdger.
	EdgeKm(p int) float64
}

// MinEdger reports a lower bound on every cell edge at precision p.
type MinEdger interface {
	MinEdgeKm(p int) float64
}

// MinEdgeKm is m's MinEdgeKm when it has one, otherwise its EdgeKm.
func MinEdgeKm(m Interface, p int) float64 {
	if me, ok := m.(MinEdger); ok {
		return me.MinEdgeKm(p)
	}
	return m.EdgeKm(p)
}

// ErrNoParent and ErrNoChildren are wrapped when a hierarchy step leaves the
// valid precision range.
var (
	ErrNoParent   = errors.New("cell has no parent")
	ErrNoChildren = errors.New("cell has no children")
)

// GridSizer is implemented by codecs whose cells are uniform in degrees
// rather than in kilometers.
type GridSizer interface {
	CellSizeDeg(p int) (dLat, dLon float64)
}
