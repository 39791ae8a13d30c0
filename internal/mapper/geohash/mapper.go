package geohashmapper

import (
	"fmt"
	"math"
	"strings"

	"github.com/mohammed-shakir/spatial-index/internal/geo"
	"github.com/mohammed-shakir/spatial-index/internal/mapper"
)

type Mapper struct{}

var (
	_ mapper.Interface = (*Mapper)(nil)
	_ mapper.GridSizer = (*Mapper)(nil)
)

func New() *Mapper { return &Mapper{} }

func (m *Mapper) Kind() mapper.Kind { return mapper.GeoHash }

func (m *Mapper) ValidatePrecision(p int) error { return validatePrecision(p) }

func (m *Mapper) Encode(loc geo.Location, p int) (string, error) {
	return Encode(loc.Lat, loc.Lon, p)
}

func (m *Mapper) Decode(hash string) (geo.Location, error) {
	c, _, err := Decode(strings.ToLower(hash))
	return c, err
}

func (m *Mapper) Bounds(hash string) (geo.BoundingBox, error) {
	return bounds(strings.ToLower(hash))
}

func (m *Mapper) Precision(hash string) (int, error) {
	if err := validateHash(strings.ToLower(hash)); err != nil {
		return 0, err
	}
	return len(hash), nil
}

func (m *Mapper) Neighbors(hash string) ([]string, error) {
	return Neighbors(strings.ToLower(hash))
}

// Parent drops the last character.
func (m *Mapper) Parent(hash string) (string, error) {
	hash = strings.ToLower(hash)
	if err := validateHash(hash); err != nil {
		return "", err
	}
	if len(hash) == MinPrecision {
		return "", fmt.Errorf("geohash %s: %w", hash, mapper.ErrNoParent)
	}
	return hash[:len(hash)-1], nil
}

// Children appends each of the 32 characters, in sort order.
func (m *Mapper) Children(hash string) ([]string, error) {
	hash = strings.ToLower(hash)
	if err := validateHash(hash); err != nil {
		return nil, err
	}
	if len(hash) == MaxPrecision {
		return nil, fmt.Errorf("geohash %s: %w", hash, mapper.ErrNoChildren)
	}
	out := make([]string, len(alphabet))
	for i := 0; i < len(alphabet); i++ {
		out[i] = hash + alphabet[i:i+1]
	}
	return out, nil
}

func (m *Mapper) CellSizeDeg(p int) (float64, float64) {
	return CellSizeDeg(max(MinPrecision, min(MaxPrecision, p)))
}

// EdgeKm is the shorter of the cell's height and its width at the equator.
func (m *Mapper) EdgeKm(p int) float64 {
	dLat, dLon := m.CellSizeDeg(p)
	return math.Min(dLat, dLon) * geo.KmPerDegree
}
