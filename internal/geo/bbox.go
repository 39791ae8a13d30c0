package geo

import "fmt"

// BoundingBox spans SouthWest to NorthEast. SouthWest.Lon > NorthEast.Lon is
// legal and means the box crosses the antimeridian.
type BoundingBox struct {
	SouthWest Location `json:"southwest"`
	NorthEast Location `json:"northeast"`
}

func NewBoundingBox(sw, ne Location) (BoundingBox, error) {
	if _, err := NewLocation(sw.Lat, sw.Lon); err != nil {
		return BoundingBox{}, fmt.Errorf("southwest: %w", err)
	}
	if _, err := NewLocation(ne.Lat, ne.Lon); err != nil {
		return BoundingBox{}, fmt.Errorf("northeast: %w", err)
	}
	if sw.Lat > ne.Lat {
		return BoundingBox{}, Invalid("southwest.latitude", sw.Lat,
			fmt.Sprintf("must not exceed northeast.latitude %v", ne.Lat))
	}
	return BoundingBox{SouthWest: sw, NorthEast: ne}, nil
}

// BoxFromEdges builds a box from south, west, north, east edges.
func BoxFromEdges(south, west, north, east float64) (BoundingBox, error) {
	return NewBoundingBox(Location{Lat: south, Lon: west}, Location{Lat: north, Lon: east})
}

func (b BoundingBox) CrossesDateLine() bool { return b.SouthWest.Lon > b.NorthEast.Lon }

func (b BoundingBox) IncludesPole() bool {
	return b.NorthEast.Lat >= MaxLat || b.SouthWest.Lat <= MinLat
}

// FullLongitude reports whether the box spans every meridian.
func (b BoundingBox) FullLongitude() bool {
	return b.SouthWest.Lon <= MinLon && b.NorthEast.Lon >= MaxLon
}

// SplitAtDateLine returns the western [sw.lon,180] and eastern [-180,ne.lon]
// halves of a crossing box. ok is false when the box does not cross.
func (b BoundingBox) SplitAtDateLine() (west, east BoundingBox, ok bool) {
	if !b.CrossesDateLine() {
		return b, BoundingBox{}, false
	}
	west = BoundingBox{
		SouthWest: b.SouthWest,
		NorthEast: Location{Lat: b.NorthEast.Lat, Lon: MaxLon},
	}
	east = BoundingBox{
		SouthWest: Location{Lat: b.SouthWest.Lat, Lon: MinLon},
		NorthEast: b.NorthEast,
	}
	return west, east, true
}

// WidthDeg is the longitudinal extent, accounting for date line crossing.
func (b BoundingBox) WidthDeg() float64 {
	if b.CrossesDateLine() {
		return (MaxLon - b.SouthWest.Lon) + (b.NorthEast.Lon - MinLon)
	}
	return b.NorthEast.Lon - b.SouthWest.Lon
}

func (b BoundingBox) Center() Location {
	lat := (b.SouthWest.Lat + b.NorthEast.Lat) / 2
	lon := b.SouthWest.Lon + b.WidthDeg()/2
	return Location{Lat: lat, Lon: NormalizeLon(lon)}
}

func (b BoundingBox) Contains(l Location) bool {
	if l.Lat < b.SouthWest.Lat || l.Lat > b.NorthEast.Lat {
		return false
	}
	if b.CrossesDateLine() {
		return l.Lon >= b.SouthWest.Lon || l.Lon <= b.NorthEast.Lon
	}
	return l.Lon >= b.SouthWest.Lon && l.Lon <= b.NorthEast.Lon
}

// Intersects reports whether b and o share at least one point. Either box
// may cross the date line.
func (b BoundingBox) Intersects(o BoundingBox) bool {
	if b.NorthEast.Lat < o.SouthWest.Lat || b.SouthWest.Lat > o.NorthEast.Lat {
		return false
	}
	for _, x := range b.lonSpans() {
		for _, y := range o.lonSpans() {
			if x[0] <= y[1] && y[0] <= x[1] {
				return true
			}
		}
	}
	return false
}

func (b BoundingBox) lonSpans() [][2]float64 {
	if b.CrossesDateLine() {
		return [][2]float64{{b.SouthWest.Lon, MaxLon}, {MinLon, b.NorthEast.Lon}}
	}
	return [][2]float64{{b.SouthWest.Lon, b.NorthEast.Lon}}
}

// Corners returns SW, SE, NE, NW.
func (b BoundingBox) Corners() [4]Location {
	return [4]Location{
		b.SouthWest,
		{Lat: b.SouthWest.Lat, Lon: b.NorthEast.Lon},
		b.NorthEast,
		{Lat: b.NorthEast.Lat, Lon: b.SouthWest.Lon},
	}
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("[%v %v]", b.SouthWest, b.NorthEast)
}

// BoxAround returns the narrower of the plain and date-line-crossing boxes
// holding every point.
func BoxAround(points []Location) BoundingBox {
	if len(points) == 0 {
		return BoundingBox{}
	}
	south, north := points[0].Lat, points[0].Lat
	minLon, maxLon := points[0].Lon, points[0].Lon
	minPos, maxNeg := MaxLon, MinLon
	hasPos, hasNeg := false, false
	for _, p := range points {
		south = min(south, p.Lat)
		north = max(north, p.Lat)
		minLon = min(minLon, p.Lon)
		maxLon = max(maxLon, p.Lon)
		if p.Lon >= 0 {
			hasPos = true
			minPos = min(minPos, p.Lon)
		} else {
			hasNeg = true
			maxNeg = max(maxNeg, p.Lon)
		}
	}
	if hasPos && hasNeg && (MaxLon-minPos)+(maxNeg-MinLon) < maxLon-minLon {
		return BoundingBox{
			SouthWest: Location{Lat: south, Lon: minPos},
			NorthEast: Location{Lat: north, Lon: maxNeg},
		}
	}
	return BoundingBox{
		SouthWest: Location{Lat: south, Lon: minLon},
		NorthEast: Location{Lat: north, Lon: maxLon},
	}
}

// WithPole widens b to reach the given pole across every longitude.
func (b BoundingBox) WithPole(north bool) BoundingBox {
	if north {
		b.NorthEast.Lat = MaxLat
	} else {
		b.SouthWest.Lat = MinLat
	}
	b.SouthWest.Lon = MinLon
	b.NorthEast.Lon = MaxLon
	return b
}
