// Package geohashmapper implements the base-32 GeoHash codec.
package geohashmapper

import (
	"fmt"
	"strings"

	"github.com/mohammed-shakir/spatial-index/internal/geo"
)

const (
	alphabet     = "0123456789bcdefghjkmnpqrstuvwxyz"
	MinPrecision = 1
	MaxPrecision = 12
)

var decodeMap [256]int8

func init() {
	for i := range decodeMap {
		decodeMap[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		decodeMap[alphabet[i]] = int8(i)
	}
}

// Cell is a GeoHash cell value.
type Cell struct {
	Hash      string `json:"hash"`
	Precision int    `json:"precision"`
}

func validatePrecision(p int) error {
	if p < MinPrecision || p > MaxPrecision {
		return geo.Invalid("precision", p, "must be 1..12")
	}
	return nil
}

// Encode bisects longitude then latitude alternately, five bits per
// character.
func Encode(lat, lon float64, precision int) (string, error) {
	if _, err := geo.NewLocation(lat, lon); err != nil {
		return "", err
	}
	if err := validatePrecision(precision); err != nil {
		return "", err
	}

	minLat, maxLat := geo.MinLat, geo.MaxLat
	minLon, maxLon := geo.MinLon, geo.MaxLon

	var b strings.Builder
	b.Grow(precision)
	bit, ch := 0, 0
	isLon := true
	for b.Len() < precision {
		if isLon {
			mid := (minLon + maxLon) / 2
			if lon >= mid {
				ch |= 1 << (4 - bit)
				minLon = mid
			} else {
				maxLon = mid
			}
		} else {
			mid := (minLat + maxLat) / 2
			if lat >= mid {
				ch |= 1 << (4 - bit)
				minLat = mid
			} else {
				maxLat = mid
			}
		}
		isLon = !isLon
		bit++
		if bit == 5 {
			b.WriteByte(alphabet[ch])
			bit, ch = 0, 0
		}
	}
	return b.String(), nil
}

// Decode returns the cell center and its bounds.
func Decode(hash string) (geo.Location, geo.BoundingBox, error) {
	box, err := bounds(hash)
	if err != nil {
		return geo.Location{}, geo.BoundingBox{}, err
	}
	return box.Center(), box, nil
}

func validateHash(hash string) error {
	if hash == "" {
		return geo.Invalid("hash", nil, "must not be empty")
	}
	if len(hash) > MaxPrecision {
		return geo.Invalid("hash", hash, fmt.Sprintf("length %d exceeds %d", len(hash), MaxPrecision))
	}
	for i := 0; i < len(hash); i++ {
		if decodeMap[hash[i]] < 0 {
			return geo.Invalid("hash", hash, fmt.Sprintf("invalid character %q at position %d", hash[i], i))
		}
	}
	return nil
}

func bounds(hash string) (geo.BoundingBox, error) {
	if err := validateHash(hash); err != nil {
		return geo.BoundingBox{}, err
	}

	minLat, maxLat := geo.MinLat, geo.MaxLat
	minLon, maxLon := geo.MinLon, geo.MaxLon
	isLon := true
	for i := 0; i < len(hash); i++ {
		idx := int(decodeMap[hash[i]])
		for bit := 4; bit >= 0; bit-- {
			if isLon {
				mid := (minLon + maxLon) / 2
				if idx&(1<<bit) != 0 {
					minLon = mid
				} else {
					maxLon = mid
				}
			} else {
				mid := (minLat + maxLat) / 2
				if idx&(1<<bit) != 0 {
					minLat = mid
				} else {
					maxLat = mid
				}
			}
			isLon = !isLon
		}
	}
	return geo.BoundingBox{
		SouthWest: geo.Location{Lat: minLat, Lon: minLon},
		NorthEast: geo.Location{Lat: maxLat, Lon: maxLon},
	}, nil
}

// CellSizeDeg is the height and width of a cell in degrees.
func CellSizeDeg(precision int) (dLat, dLon float64) {
	bits := 5 * precision
	lonBits := (bits + 1) / 2
	latBits := bits / 2
	return 180 / float64(uint64(1)<<latBits), 360 / float64(uint64(1)<<lonBits)
}

// Direction names an adjacent cell.
type Direction int

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

var offsets = [8]struct{ lat, lon float64 }{
	North: {1, 0}, NorthEast: {1, 1}, East: {0, 1}, SouthEast: {-1, 1},
	South: {-1, 0}, SouthWest: {-1, -1}, West: {0, -1}, NorthWest: {1, -1},
}

// Adjacent returns the neighbor in dir. Longitude wraps at ±180; there is no
// neighbor beyond a pole, reported as ok == false.
func Adjacent(hash string, dir Direction) (string, bool, error) {
	center, box, err := Decode(hash)
	if err != nil {
		return "", false, err
	}
	if dir < North || dir > NorthWest {
		return "", false, geo.Invalid("direction", int(dir), "must be 0..7")
	}
	o := offsets[dir]
	dLat := box.NorthEast.Lat - box.SouthWest.Lat
	dLon := box.NorthEast.Lon - box.SouthWest.Lon
	lat := center.Lat + o.lat*dLat
	if lat > geo.MaxLat || lat < geo.MinLat {
		return "", false, nil
	}
	lon := geo.NormalizeLon(center.Lon + o.lon*dLon)
	n, err := Encode(lat, lon, len(hash))
	if err != nil {
		return "", false, err
	}
	return n, true, nil
}

// Neighbors returns the up to eight surrounding cells in N, NE, E, SE, S, SW,
// W, NW order.
func Neighbors(hash string) ([]string, error) {
	out := make([]string, 0, 8)
	seen := map[string]struct{}{hash: {}}
	for d := North; d <= NorthWest; d++ {
		n, ok, err := Adjacent(hash, d)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out, nil
}

// RangeForBox returns the lexicographic [min, max] hash range enclosing box
// at precision. A box crossing the date line is widened to every longitude
// so that min never sorts after max.
func RangeForBox(box geo.BoundingBox, precision int) (string, string, error) {
	if err := validatePrecision(precision); err != nil {
		return "", "", err
	}
	west, east := box.SouthWest.Lon, box.NorthEast.Lon
	if box.CrossesDateLine() {
		west, east = geo.MinLon, geo.MaxLon
	}
	lo, err := Encode(box.SouthWest.Lat, west, precision)
	if err != nil {
		return "", "", fmt.Errorf("southwest: %w", err)
	}
	hi, err := Encode(box.NorthEast.Lat, east, precision)
	if err != nil {
		return "", "", fmt.Errorf("northeast: %w", err)
	}
	return lo, hi, nil
}

func FromLocation(loc geo.Location, precision int) (Cell, error) {
	h, err := Encode(loc.Lat, loc.Lon, precision)
	if err != nil {
		return Cell{}, err
	}
	return Cell{Hash: h, Precision: precision}, nil
}

// ParseCell accepts either case and returns the lower case form.
func ParseCell(hash string) (Cell, error) {
	hash = strings.ToLower(hash)
	if err := validateHash(hash); err != nil {
		return Cell{}, err
	}
	return Cell{Hash: hash, Precision: len(hash)}, nil
}

func (c Cell) Bounds() geo.BoundingBox {
	b, _ := bounds(c.Hash)
	return b
}

func (c Cell) Center() geo.Location { return c.Bounds().Center() }

// Contains reports prefix containment.
func (c Cell) Contains(o Cell) bool { return strings.HasPrefix(o.Hash, c.Hash) }
