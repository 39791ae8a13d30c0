package h3mapper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mohammed-shakir/spatial-index/internal/geo"
)

// Index is a packed 64-bit H3 cell index.
type Index uint64

func newIndex(res, baseCell int, digits []direction) Index {
	h := Index(modeCell)<<modeOffset | Index(res)<<resOffset | Index(baseCell)<<bcOffset
	for r := 1; r <= MaxRes; r++ {
		d := invalidDigit
		if r <= res {
			d = digits[r-1]
		}
		h |= Index(d) << digitShift(r)
	}
	return h
}

func digitShift(r int) uint { return uint((MaxRes - r) * digitBits) }

func (h Index) Resolution() int { return int(h>>resOffset) & resMask }
func (h Index) BaseCell() int   { return int(h>>bcOffset) & bcMask }

func (h Index) digit(r int) direction { return direction(h>>digitShift(r)) & digitMask }

func (h Index) setDigit(r int, d direction) Index {
	shift := digitShift(r)
	return h&^(Index(digitMask)<<shift) | Index(d)<<shift
}

func (h Index) digits() []direction {
	res := h.Resolution()
	out := make([]direction, res)
	for r := 1; r <= res; r++ {
		out[r-1] = h.digit(r)
	}
	return out
}

// String renders the canonical 15 character lowercase hex form.
func (h Index) String() string { return strconv.FormatUint(uint64(h), 16) }

func (h Index) IsPentagon() bool {
	if !baseCells[h.BaseCell()].pentagon {
		return false
	}
	return leadingDigit(h.digits()) == centerDigit
}

// ParseIndex validates the textual form and the packed layout.
func ParseIndex(s string) (Index, error) {
	if s == "" {
		return 0, geo.Invalid("cell", nil, "H3 index must not be empty")
	}
	if len(s) != 15 {
		return 0, geo.Invalid("cell", s, "H3 index must be 15 hex characters")
	}
	v, err := strconv.ParseUint(strings.ToLower(s), 16, 64)
	if err != nil {
		return 0, geo.Invalid("cell", s, "H3 index must be hexadecimal")
	}
	h := Index(v)
	if err := h.validate(); err != nil {
		return 0, geo.Invalid("cell", s, err.Error())
	}
	return h, nil
}

func (h Index) validate() error {
	if int(h>>modeOffset)&modeMask != modeCell {
		return fmt.Errorf("mode must be %d", modeCell)
	}
	if h>>63 != 0 || int(h>>reservedOff)&reservedMask != 0 {
		return fmt.Errorf("reserved bits must be zero")
	}
	if h.BaseCell() >= numBaseCells {
		return fmt.Errorf("base cell %d out of range 0..%d", h.BaseCell(), numBaseCells-1)
	}
	res := h.Resolution()
	for r := 1; r <= MaxRes; r++ {
		d := h.digit(r)
		if r <= res && d == invalidDigit {
			return fmt.Errorf("digit %d is unused padding inside resolution %d", r, res)
		}
		if r > res && d != invalidDigit {
			return fmt.Errorf("digit %d beyond resolution %d must be 7", r, res)
		}
	}
	if baseCells[h.BaseCell()].pentagon && leadingDigit(h.digits()) == kAxesDigit {
		return fmt.Errorf("pentagon index uses the deleted k direction")
	}
	return nil
}

func leadingDigit(ds []direction) direction {
	for _, d := range ds {
		if d != centerDigit {
			return d
		}
	}
	return centerDigit
}

func rotateDigits(ds []direction, table *[8]direction) {
	for i, d := range ds {
		ds[i] = table[d]
	}
}

// rotatePent60ccw rotates a pentagon digit path, skipping past the deleted
// k direction when it becomes the leading digit.
func rotatePent60ccw(ds []direction) {
	found := false
	for i := range ds {
		ds[i] = ccwDigit[ds[i]]
		if !found && ds[i] != centerDigit {
			found = true
			if ds[i] == kAxesDigit {
				rotateDigits(ds, &ccwDigit)
			}
		}
	}
}

func isCwOffset(baseCell, face int) bool {
	bc := baseCells[baseCell]
	return bc.cwOffsetPent[0] == face || bc.cwOffsetPent[1] == face
}

// faceIJKToIndex encodes a face coordinate at res into an index.
func faceIJKToIndex(face int, c coordIJK, res int) (Index, bool) {
	digits := make([]direction, res)
	for r := res - 1; r >= 0; r-- {
		last := c
		var center coordIJK
		if isClassIII(r + 1) {
			c = c.upAp7()
			center = c.downAp7()
		} else {
			c = c.upAp7r()
			center = c.downAp7r()
		}
		digits[r] = last.sub(center).unitDigit()
	}
	if c.i > 2 || c.j > 2 || c.k > 2 {
		return 0, false
	}

	bcr := faceIJKBaseCells[face][c.i][c.j][c.k]
	if baseCells[bcr.baseCell].pentagon {
		if leadingDigit(digits) == kAxesDigit {
			if isCwOffset(bcr.baseCell, face) {
				rotateDigits(digits, &cwDigit)
			} else {
				rotateDigits(digits, &ccwDigit)
			}
		}
		for i := 0; i < bcr.ccwRot60; i++ {
			rotatePent60ccw(digits)
		}
	} else {
		for i := 0; i < bcr.ccwRot60; i++ {
			rotateDigits(digits, &ccwDigit)
		}
	}
	return newIndex(res, bcr.baseCell, digits), true
}

// toFaceIJK walks the digit path from the base cell home face, correcting
// for face overage, and returns the face coordinate at the index resolution.
func (h Index) toFaceIJK() (int, coordIJK) {
	res := h.Resolution()
	bcNum := h.BaseCell()
	bc := baseCells[bcNum]
	digits := h.digits()
	if bc.pentagon && leadingDigit(digits) == ikAxesDigit {
		rotateDigits(digits, &cwDigit)
	}

	face, c := bc.homeFace, bc.homeIJK
	possibleOverage := bc.pentagon || (res != 0 && c != (coordIJK{}))
	for r := 1; r <= res; r++ {
		if isClassIII(r) {
			c = c.downAp7()
		} else {
			c = c.downAp7r()
		}
		c = c.neighbor(digits[r-1])
	}
	if !possibleOverage {
		return face, c
	}

	orig := c
	adjRes := res
	if isClassIII(res) {
		c = c.downAp7r()
		adjRes++
	}

	pentLeading4 := bc.pentagon && leadingDigit(digits) == iAxesDigit
	var moved bool
	face, c, moved = adjustOverageClassII(face, c, adjRes, pentLeading4)
	if moved {
		if bc.pentagon {
			for {
				var again bool
				face, c, again = adjustOverageClassII(face, c, adjRes, false)
				if !again {
					break
				}
			}
		}
		if adjRes != res {
			c = c.upAp7r()
		}
	} else if adjRes != res {
		c = orig
	}
	return face, c
}

func fromLatLng(g latLng, res int) (Index, error) {
	face, v := geoToHex2d(g, res)
	h, ok := faceIJKToIndex(face, hex2dToIJK(v), res)
	if !ok {
		return 0, fmt.Errorf("h3: face %d coordinate outside base cell table", face)
	}
	return h, nil
}

func (h Index) center() latLng {
	face, c := h.toFaceIJK()
	return faceIJKToGeo(face, c, h.Resolution())
}
