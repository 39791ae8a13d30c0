package s2mapper

import "math"

// point is an unnormalized vector in cube space.
type point struct {
	x, y, z float64
}

func pointFromLatLng(latRad, lngRad float64) point {
	phi, theta := latRad, lngRad
	cosphi := math.Cos(phi)
	return point{math.Cos(theta) * cosphi, math.Sin(theta) * cosphi, math.Sin(phi)}
}

func (p point) latLng() (latRad, lngRad float64) {
	lat := math.Atan2(p.z, math.Sqrt(p.x*p.x+p.y*p.y))
	lng := math.Atan2(p.y, p.x)
	return lat, lng
}

// stToUV applies the quadratic area balancing transform.
func stToUV(s float64) float64 {
	if s >= 0.5 {
		return (1 / 3.) * (4*s*s - 1)
	}
	return (1 / 3.) * (1 - 4*(1-s)*(1-s))
}

func uvToST(u float64) float64 {
	if u >= 0 {
		return 0.5 * math.Sqrt(1+3*u)
	}
	return 1 - 0.5*math.Sqrt(1-3*u)
}

func siTiToST(si uint32) float64 {
	if si > maxSiTi {
		return 1
	}
	return float64(si) / float64(maxSiTi)
}

// faceOf returns the face whose axis has the largest absolute component.
func faceOf(p point) int {
	ax, ay, az := math.Abs(p.x), math.Abs(p.y), math.Abs(p.z)
	var f int
	switch {
	case ax > ay && ax > az:
		f = 0
	case ax > ay:
		f = 2
	case ay > az:
		f = 1
	default:
		f = 2
	}
	switch {
	case f == 0 && p.x < 0, f == 1 && p.y < 0, f == 2 && p.z < 0:
		f += 3
	}
	return f
}

func validFaceXYZToUV(face int, p point) (float64, float64) {
	switch face {
	case 0:
		return p.y / p.x, p.z / p.x
	case 1:
		return -p.x / p.y, p.z / p.y
	case 2:
		return -p.x / p.z, -p.y / p.z
	case 3:
		return p.z / p.x, p.y / p.x
	case 4:
		return p.z / p.y, -p.x / p.y
	}
	return -p.y / p.z, -p.x / p.z
}

func xyzToFaceUV(p point) (int, float64, float64) {
	f := faceOf(p)
	u, v := validFaceXYZToUV(f, p)
	return f, u, v
}

func faceUVToXYZ(face int, u, v float64) point {
	switch face {
	case 0:
		return point{1, u, v}
	case 1:
		return point{-u, 1, v}
	case 2:
		return point{-u, -v, 1}
	case 3:
		return point{-1, -v, -u}
	case 4:
		return point{v, -1, -u}
	default:
		return point{v, u, -1}
	}
}

func stToIJ(s float64) int {
	return clampInt(int(math.Floor(maxSize*s)), 0, maxSize-1)
}

func ijToSTMin(i int) float64 { return float64(i) / float64(maxSize) }

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
