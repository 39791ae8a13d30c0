// Package geo holds the WGS84 lat/lon primitives shared by the codecs,
// the covering and the query layer.
package geo

import (
	"fmt"
	"math"
)

const (
	MinLat = -90.0
	MaxLat = 90.0
	MinLon = -180.0
	MaxLon = 180.0
)

// Location is a validated latitude/longitude pair in degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewLocation(lat, lon float64) (Location, error) {
	if err := ValidateLat(lat); err != nil {
		return Location{}, err
	}
	if err := ValidateLon(lon); err != nil {
		return Location{}, err
	}
	return Location{Lat: lat, Lon: lon}, nil
}

// MustLocation panics on invalid input; intended for literals and tests.
func MustLocation(lat, lon float64) Location {
	l, err := NewLocation(lat, lon)
	if err != nil {
		panic(err)
	}
	return l
}

func ValidateLat(lat float64) error {
	if math.IsNaN(lat) || lat < MinLat || lat > MaxLat {
		return Invalid("latitude", lat, "must be in [-90,90]")
	}
	return nil
}

func ValidateLon(lon float64) error {
	if math.IsNaN(lon) || lon < MinLon || lon > MaxLon {
		return Invalid("longitude", lon, "must be in [-180,180]")
	}
	return nil
}

func (l Location) String() string { return fmt.Sprintf("(%.6f,%.6f)", l.Lat, l.Lon) }

// NormalizeLon wraps any finite longitude into [-180,180].
func NormalizeLon(lon float64) float64 {
	if lon >= MinLon && lon <= MaxLon {
		return lon
	}
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

func clampLat(lat float64) float64 {
	return math.Max(MinLat, math.Min(MaxLat, lat))
}
