package s2mapper

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"
)

// CellID packs face(3) | Hilbert position(2 bits per level) | 1 | 0...
type CellID uint64

const (
	faceBits = 3
	numFaces = 6
	MaxLevel = 30
	posBits  = 2*MaxLevel + 1
	maxSize  = 1 << MaxLevel
	maxSiTi  = maxSize << 1

	lookupBits = 4
	swapMask   = 0x01
	invertMask = 0x02
)

var (
	posToIJ = [4][4]int{
		{0, 1, 3, 2}, // canonical order:    (0,0), (0,1), (1,1), (1,0)
		{0, 2, 3, 1}, // axes swapped:       (0,0), (1,0), (1,1), (0,1)
		{3, 2, 0, 1}, // bits inverted:      (1,1), (1,0), (0,0), (0,1)
		{3, 1, 0, 2}, // swapped & inverted: (1,1), (0,1), (0,0), (1,0)
	}
	posToOrientation = [4]int{swapMask, 0, 0, invertMask | swapMask}
	lookupIJ         [1 << (2*lookupBits + 2)]int
	lookupPos        [1 << (2*lookupBits + 2)]int
)

func init() {
	initLookupCell(0, 0, 0, 0, 0, 0)
	initLookupCell(0, 0, 0, swapMask, 0, swapMask)
	initLookupCell(0, 0, 0, invertMask, 0, invertMask)
	initLookupCell(0, 0, 0, swapMask|invertMask, 0, swapMask|invertMask)
}

// initLookupCell fills both Hilbert tables for one 4-level block.
func initLookupCell(level, i, j, origOrientation, pos, orientation int) {
	if level == lookupBits {
		ij := (i << lookupBits) + j
		lookupPos[(ij<<2)+origOrientation] = (pos << 2) + orientation
		lookupIJ[(pos<<2)+origOrientation] = (ij << 2) + orientation
		return
	}

	level++
	i <<= 1
	j <<= 1
	pos <<= 2
	r := posToIJ[orientation]
	for k := 0; k < 4; k++ {
		initLookupCell(level, i+(r[k]>>1), j+(r[k]&1), origOrientation, pos+k, orientation^posToOrientation[k])
	}
}

func cellIDFromFace(face int) CellID {
	return CellID((uint64(face) << posBits) + lsbForLevel(0))
}

func lsbForLevel(level int) uint64 { return 1 << uint64(2*(MaxLevel-level)) }

func (ci CellID) Face() int { return int(uint64(ci) >> posBits) }

func (ci CellID) lsb() uint64 { return uint64(ci) & -uint64(ci) }

func (ci CellID) Level() int {
	return MaxLevel - bits.TrailingZeros64(uint64(ci))>>1
}

func (ci CellID) IsLeaf() bool { return uint64(ci)&1 != 0 }

func (ci CellID) IsValid() bool {
	return ci.Face() < numFaces && (ci.lsb()&0x1555555555555555 != 0)
}

// Parent returns the ancestor at level, which must not exceed ci.Level().
func (ci CellID) Parent(level int) CellID {
	lsb := lsbForLevel(level)
	return CellID((uint64(ci) & -lsb) | lsb)
}

func (ci CellID) Children() [4]CellID {
	var ch [4]CellID
	lsb := CellID(ci.lsb())
	ch[0] = ci - lsb + lsb>>2
	lsb >>= 1
	ch[1] = ch[0] + lsb
	ch[2] = ch[1] + lsb
	ch[3] = ch[2] + lsb
	return ch
}

func (ci CellID) RangeMin() CellID { return CellID(uint64(ci) - (ci.lsb() - 1)) }
func (ci CellID) RangeMax() CellID { return CellID(uint64(ci) + (ci.lsb() - 1)) }

func (ci CellID) Contains(o CellID) bool {
	return uint64(ci.RangeMin()) <= uint64(o) && uint64(o) <= uint64(ci.RangeMax())
}

// ToToken renders the id as hex with trailing zeros trimmed.
func (ci CellID) ToToken() string {
	s := strings.TrimRight(fmt.Sprintf("%016x", uint64(ci)), "0")
	if len(s) == 0 {
		return "X"
	}
	return s
}

// CellIDFromToken is the inverse of ToToken. Malformed tokens yield 0,
// which is never a valid cell.
func CellIDFromToken(s string) CellID {
	if len(s) > 16 {
		return 0
	}
	n, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0
	}
	if len(s) < 16 {
		n <<= 4 * uint(16-len(s))
	}
	return CellID(n)
}

func cellIDFromPoint(p point) CellID {
	f, u, v := xyzToFaceUV(p)
	return cellIDFromFaceIJ(f, stToIJ(uvToST(u)), stToIJ(uvToST(v)))
}

// cellIDFromFaceIJ returns the leaf cell at (i,j) on face f.
func cellIDFromFaceIJ(f, i, j int) CellID {
	n := uint64(f) << (posBits - 1)
	b := f & swapMask
	for k := 7; k >= 0; k-- {
		mask := (1 << lookupBits) - 1
		b += ((i >> uint(k*lookupBits)) & mask) << (lookupBits + 2)
		b += ((j >> uint(k*lookupBits)) & mask) << 2
		b = lookupPos[b]
		n |= uint64(b>>2) << (uint(k) * 2 * lookupBits)
		b &= swapMask | invertMask
	}
	return CellID(n*2 + 1)
}

// cellIDFromFaceIJWrap reprojects an (i,j) just past a face edge onto the
// adjacent face.
func cellIDFromFaceIJWrap(f, i, j int) CellID {
	i = clampInt(i, -1, maxSize)
	j = clampInt(j, -1, maxSize)

	const scale = 1.0 / maxSize
	limit := math.Nextafter(1, 2)
	u := math.Max(-limit, math.Min(limit, scale*float64((i<<1)+1-maxSize)))
	v := math.Max(-limit, math.Min(limit, scale*float64((j<<1)+1-maxSize)))

	f, u, v = xyzToFaceUV(faceUVToXYZ(f, u, v))
	return cellIDFromFaceIJ(f, stToIJ(0.5*(u+1)), stToIJ(0.5*(v+1)))
}

func cellIDFromFaceIJSame(f, i, j int, sameFace bool) CellID {
	if sameFace {
		return cellIDFromFaceIJ(f, i, j)
	}
	return cellIDFromFaceIJWrap(f, i, j)
}

func (ci CellID) faceIJOrientation() (f, i, j, orientation int) {
	f = ci.Face()
	orientation = f & swapMask
	nbits := MaxLevel - 7*lookupBits

	for k := 7; k >= 0; k-- {
		orientation += (int(uint64(ci)>>uint64(k*2*lookupBits+1)) & ((1 << uint(2*nbits)) - 1)) << 2
		orientation = lookupIJ[orientation]
		i += (orientation >> (lookupBits + 2)) << uint(k*lookupBits)
		j += ((orientation >> 2) & ((1 << lookupBits) - 1)) << uint(k*lookupBits)
		orientation &= swapMask | invertMask
		nbits = lookupBits
	}

	// each trailing "00" pair below the level flips the swap bit
	if ci.lsb()&0x1111111111111110 != 0 {
		orientation ^= swapMask
	}
	return
}

func (ci CellID) faceSiTi() (face int, si, ti uint32) {
	face, i, j, _ := ci.faceIJOrientation()
	delta := 0
	if ci.IsLeaf() {
		delta = 1
	} else if (i^(int(ci)>>2))&1 != 0 {
		delta = 2
	}
	return face, uint32(2*i + delta), uint32(2*j + delta)
}

func (ci CellID) rawPoint() point {
	face, si, ti := ci.faceSiTi()
	return faceUVToXYZ(face, stToUV(siTiToST(si)), stToUV(siTiToST(ti)))
}

func sizeIJ(level int) int { return 1 << uint(MaxLevel-level) }

// boundUV returns the cell's (u,v) rectangle as uLo, uHi, vLo, vHi.
func (ci CellID) boundUV() (float64, float64, float64, float64) {
	_, i, j, _ := ci.faceIJOrientation()
	size := sizeIJ(ci.Level())
	iLo, jLo := i&-size, j&-size
	return stToUV(ijToSTMin(iLo)), stToUV(ijToSTMin(iLo + size)),
		stToUV(ijToSTMin(jLo)), stToUV(ijToSTMin(jLo + size))
}

// allNeighbors returns the cells at ci's level whose boundaries touch ci,
// including diagonal ones. Cells next to a cube corner can repeat.
func (ci CellID) allNeighbors() []CellID {
	level := ci.Level()
	face, i, j, _ := ci.faceIJOrientation()

	size := sizeIJ(level)
	i &= -size
	j &= -size

	var out []CellID
	for k := -size; ; k += size {
		var sameFace bool
		switch {
		case k < 0:
			sameFace = j+k >= 0
		case k >= size:
			sameFace = j+k < maxSize
		default:
			sameFace = true
			// top and bottom
			out = append(out,
				cellIDFromFaceIJSame(face, i+k, j-size, j-size >= 0).Parent(level),
				cellIDFromFaceIJSame(face, i+k, j+size, j+size < maxSize).Parent(level),
			)
		}

		// left, right and diagonals
		out = append(out,
			cellIDFromFaceIJSame(face, i-size, j+k, sameFace && i-size >= 0).Parent(level),
			cellIDFromFaceIJSame(face, i+size, j+k, sameFace && i+size < maxSize).Parent(level),
		)

		if k >= size {
			break
		}
	}
	return out
}
