package geo

import "math"

// EarthRadiusKm is the mean Earth radius.
const EarthRadiusKm = 6371.0088

// KmPerDegree is the length of one degree of a great circle.
const KmPerDegree = EarthRadiusKm * math.Pi / 180

func toRad(d float64) float64 { return d * math.Pi / 180 }
func toDeg(r float64) float64 { return r * 180 / math.Pi }

// DistanceKm is the haversine great-circle distance.
func DistanceKm(a, b Location) float64 {
	lat1, lat2 := toRad(a.Lat), toRad(b.Lat)
	dLat := lat2 - lat1
	dLon := toRad(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Destination walks distKm from origin along the initial bearing (degrees
// clockwise from north).
func Destination(origin Location, bearingDeg, distKm float64) Location {
	d := distKm / EarthRadiusKm
	brg := toRad(bearingDeg)
	lat1, lon1 := toRad(origin.Lat), toRad(origin.Lon)

	sinLat := math.Sin(lat1)*math.Cos(d) + math.Cos(lat1)*math.Sin(d)*math.Cos(brg)
	lat2 := math.Asin(math.Max(-1, math.Min(1, sinLat)))
	lon2 := lon1 + math.Atan2(
		math.Sin(brg)*math.Sin(d)*math.Cos(lat1),
		math.Cos(d)-math.Sin(lat1)*math.Sin(lat2),
	)
	return Location{Lat: clampLat(toDeg(lat2)), Lon: NormalizeLon(toDeg(lon2))}
}

// RadiusBox returns the smallest lat/lon box enclosing the circle of radiusKm
// around center. Touching a pole widens the box to every longitude; wrapping
// past ±180 yields a box that crosses the date line.
func RadiusBox(center Location, radiusKm float64) (BoundingBox, error) {
	if _, err := NewLocation(center.Lat, center.Lon); err != nil {
		return BoundingBox{}, err
	}
	if math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) || radiusKm <= 0 {
		return BoundingBox{}, Invalid("radiusKm", radiusKm, "must be a positive finite number")
	}

	angular := radiusKm / EarthRadiusKm
	dLat := toDeg(angular)
	south := center.Lat - dLat
	north := center.Lat + dLat
	if south <= MinLat || north >= MaxLat {
		return BoundingBox{
			SouthWest: Location{Lat: clampLat(south), Lon: MinLon},
			NorthEast: Location{Lat: clampLat(north), Lon: MaxLon},
		}, nil
	}

	// bounding meridians touch the circle at the tangent latitude
	ratio := math.Sin(angular) / math.Cos(toRad(center.Lat))
	if ratio >= 1 {
		return BoundingBox{
			SouthWest: Location{Lat: south, Lon: MinLon},
			NorthEast: Location{Lat: north, Lon: MaxLon},
		}, nil
	}
	dLon := toDeg(math.Asin(ratio))
	west := NormalizeLon(center.Lon - dLon)
	east := NormalizeLon(center.Lon + dLon)
	return BoundingBox{
		SouthWest: Location{Lat: south, Lon: west},
		NorthEast: Location{Lat: north, Lon: east},
	}, nil
}
