package h3mapper

import "math"

func posAngle(a float64) float64 {
	t := a
	if a < 0 {
		t = a + 2*math.Pi
	}
	if a >= 2*math.Pi {
		t -= 2 * math.Pi
	}
	return t
}

func constrainLng(l float64) float64 {
	for l > math.Pi {
		l -= 2 * math.Pi
	}
	for l < -math.Pi {
		l += 2 * math.Pi
	}
	return l
}

func (g latLng) toVec3() vec3d {
	r := math.Cos(g.lat)
	return vec3d{math.Cos(g.lng) * r, math.Sin(g.lng) * r, math.Sin(g.lat)}
}

func (v vec3d) squareDist(o vec3d) float64 {
	dx, dy, dz := v.x-o.x, v.y-o.y, v.z-o.z
	return dx*dx + dy*dy + dz*dz
}

func azimuthRads(p1, p2 latLng) float64 {
	return math.Atan2(
		math.Cos(p2.lat)*math.Sin(p2.lng-p1.lng),
		math.Cos(p1.lat)*math.Sin(p2.lat)-math.Sin(p1.lat)*math.Cos(p2.lat)*math.Cos(p2.lng-p1.lng),
	)
}

// azDistance walks distance radians from p1 along azimuth az.
func azDistance(p1 latLng, az, distance float64) latLng {
	if distance < epsilon {
		return p1
	}
	az = posAngle(az)

	var p2 latLng
	if az < epsilon || math.Abs(az-math.Pi) < epsilon {
		// due north or south
		if az < epsilon {
			p2.lat = p1.lat + distance
		} else {
			p2.lat = p1.lat - distance
		}
		switch {
		case math.Abs(p2.lat-math.Pi/2) < epsilon:
			return latLng{math.Pi / 2, 0}
		case math.Abs(p2.lat+math.Pi/2) < epsilon:
			return latLng{-math.Pi / 2, 0}
		}
		p2.lng = constrainLng(p1.lng)
		return p2
	}

	sinLat := math.Sin(p1.lat)*math.Cos(distance) + math.Cos(p1.lat)*math.Sin(distance)*math.Cos(az)
	sinLat = math.Max(-1, math.Min(1, sinLat))
	p2.lat = math.Asin(sinLat)
	switch {
	case math.Abs(p2.lat-math.Pi/2) < epsilon:
		return latLng{math.Pi / 2, 0}
	case math.Abs(p2.lat+math.Pi/2) < epsilon:
		return latLng{-math.Pi / 2, 0}
	}
	inv := 1 / math.Cos(p2.lat)
	sinLng := math.Sin(az) * math.Sin(distance) * inv
	cosLng := (math.Cos(distance) - math.Sin(p1.lat)*math.Sin(p2.lat)) / math.Cos(p1.lat) * inv
	sinLng = math.Max(-1, math.Min(1, sinLng))
	cosLng = math.Max(-1, math.Min(1, cosLng))
	p2.lng = constrainLng(p1.lng + math.Atan2(sinLng, cosLng))
	return p2
}

func closestFace(g latLng) (int, float64) {
	v := g.toVec3()
	face, best := 0, math.MaxFloat64
	for f := 0; f < numFaces; f++ {
		if d := faceCenterPoint[f].squareDist(v); d < best {
			face, best = f, d
		}
	}
	return face, best
}

// geoToHex2d projects g gnomonically onto its closest face at res.
func geoToHex2d(g latLng, res int) (int, vec2d) {
	face, sqd := closestFace(g)
	r := math.Acos(1 - sqd/2)
	if r < epsilon {
		return face, vec2d{}
	}

	theta := posAngle(faceAxesAzRadsCII[face] - posAngle(azimuthRads(faceCenterGeo[face], g)))
	if isClassIII(res) {
		theta = posAngle(theta - ap7RotRads)
	}
	r = math.Tan(r) * invRes0UGnomonic
	for i := 0; i < res; i++ {
		r *= sqrt7
	}
	return face, vec2d{r * math.Cos(theta), r * math.Sin(theta)}
}

// hex2dToGeo inverts geoToHex2d for a point on face's plane.
func hex2dToGeo(v vec2d, face, res int) latLng {
	r := math.Hypot(v.x, v.y)
	if r < epsilon {
		return faceCenterGeo[face]
	}
	theta := math.Atan2(v.y, v.x)
	for i := 0; i < res; i++ {
		r /= sqrt7
	}
	r = math.Atan(r * res0UGnomonic)
	if isClassIII(res) {
		theta = posAngle(theta + ap7RotRads)
	}
	theta = posAngle(faceAxesAzRadsCII[face] - theta)
	return azDistance(faceCenterGeo[face], theta, r)
}

func faceIJKToGeo(face int, c coordIJK, res int) latLng {
	return hex2dToGeo(c.toHex2d(), face, res)
}

// adjustOverageClassII moves a Class II coordinate that ran off its face onto
// the neighboring face. It reports whether an adjustment happened.
func adjustOverageClassII(face int, c coordIJK, res int, pentLeading4 bool) (int, coordIJK, bool) {
	maxDim := maxDimByCIIRes(res)
	if c.sum() <= maxDim {
		return face, c, false
	}

	var fo faceOrient
	switch {
	case c.k > 0 && c.j > 0:
		fo = faceNeighbors[face][quadJK]
	case c.k > 0:
		fo = faceNeighbors[face][quadKI]
		if pentLeading4 {
			// rotate out of the deleted k subsequence about the i axis vertex
			origin := coordIJK{maxDim, 0, 0}
			c = c.sub(origin).rotate60cw().add(origin)
		}
	default:
		fo = faceNeighbors[face][quadIJ]
	}

	for i := 0; i < fo.ccwRot60; i++ {
		c = c.rotate60ccw()
	}
	c = c.add(fo.translate.scale(unitScaleByCIIRes(res))).normalize()
	return fo.face, c, true
}
