package h3mapper

import "math"

const (
	numFaces     = 20
	numBaseCells = 122
	MaxRes       = 15

	epsilon = 1e-16

	// resolution 0 unit length on the gnomonic plane
	res0UGnomonic    = 0.38196601125010500003
	invRes0UGnomonic = 1 / res0UGnomonic
	// rotation between Class II and Class III grids
	ap7RotRads = 0.333473172251832115336090755351601070065900389
)

var (
	sqrt7    = math.Sqrt(7)
	rsin60   = 1 / math.Sin(math.Pi/3)
	sqrt3By2 = math.Sqrt(3) / 2
)

// Index layout: mode(4) | reserved(3) | res(4) | base cell(7) | 15 x digit(3).
const (
	modeCell     = 1
	modeOffset   = 59
	resOffset    = 52
	bcOffset     = 45
	digitBits    = 3
	digitMask    = 7
	resMask      = 0xf
	bcMask       = 0x7f
	modeMask     = 0xf
	reservedMask = 0x7
	reservedOff  = 56
)

// direction is one of the seven aperture-7 digits.
type direction int

const (
	centerDigit direction = iota
	kAxesDigit
	jAxesDigit
	jkAxesDigit
	iAxesDigit
	ikAxesDigit
	ijAxesDigit
	invalidDigit
)

type latLng struct {
	lat, lng float64
}

type vec3d struct {
	x, y, z float64
}

type vec2d struct {
	x, y float64
}

type faceOrient struct {
	face      int
	translate coordIJK
	ccwRot60  int
}

// face neighbor quadrants
const (
	quadIJ = 1
	quadKI = 2
	quadJK = 3
)

type baseCellData struct {
	homeFace     int
	homeIJK      coordIJK
	pentagon     bool
	cwOffsetPent [2]int
}

type baseCellRotation struct {
	baseCell int
	ccwRot60 int
}

// minEdgeRatio scales the average edge down to a bound on the shortest one.
const minEdgeRatio = 0.5

// edgeLengthKm is the average hexagon edge length per resolution.
var edgeLengthKm = [MaxRes + 1]float64{
	1107.712591, 418.6760055, 158.2446558, 59.81085794,
	22.6063794, 8.544408276, 3.229482772, 1.220629759,
	0.461354684, 0.174375668, 0.065907807, 0.024910561,
	0.009415526, 0.003559893, 0.001348575, 0.000509713,
}

func isClassIII(res int) bool { return res%2 == 1 }

// maxDimByCIIRes is the largest IJK component sum that still lies on a face
// at a Class II resolution.
func maxDimByCIIRes(res int) int {
	d := 2
	for i := 0; i < res/2; i++ {
		d *= 7
	}
	return d
}

func unitScaleByCIIRes(res int) int {
	d := 1
	for i := 0; i < res/2; i++ {
		d *= 7
	}
	return d
}
