package h3mapper

import "math"

// coordIJK is an axial hex coordinate with three non-negative components,
// at least one of which is zero once normalized.
type coordIJK struct {
	i, j, k int
}

var unitVecs = [7]coordIJK{
	{0, 0, 0}, {0, 0, 1}, {0, 1, 0}, {0, 1, 1},
	{1, 0, 0}, {1, 0, 1}, {1, 1, 0},
}

func (c coordIJK) add(o coordIJK) coordIJK { return coordIJK{c.i + o.i, c.j + o.j, c.k + o.k} }
func (c coordIJK) sub(o coordIJK) coordIJK { return coordIJK{c.i - o.i, c.j - o.j, c.k - o.k} }
func (c coordIJK) scale(f int) coordIJK    { return coordIJK{c.i * f, c.j * f, c.k * f} }
func (c coordIJK) sum() int                { return c.i + c.j + c.k }

func (c coordIJK) normalize() coordIJK {
	if c.i < 0 {
		c.j -= c.i
		c.k -= c.i
		c.i = 0
	}
	if c.j < 0 {
		c.i -= c.j
		c.k -= c.j
		c.j = 0
	}
	if c.k < 0 {
		c.i -= c.k
		c.j -= c.k
		c.k = 0
	}
	m := min(c.i, c.j, c.k)
	return coordIJK{c.i - m, c.j - m, c.k - m}
}

// linear applies the basis change (iVec, jVec, kVec) and normalizes.
func (c coordIJK) linear(iv, jv, kv coordIJK) coordIJK {
	return iv.scale(c.i).add(jv.scale(c.j)).add(kv.scale(c.k)).normalize()
}

func round(x float64) int { return int(math.Round(x)) }

// upAp7 moves to the parent Class III resolution.
func (c coordIJK) upAp7() coordIJK {
	i, j := c.i-c.k, c.j-c.k
	return coordIJK{round(float64(3*i-j) / 7), round(float64(i+2*j) / 7), 0}.normalize()
}

// upAp7r moves to the parent Class II resolution.
func (c coordIJK) upAp7r() coordIJK {
	i, j := c.i-c.k, c.j-c.k
	return coordIJK{round(float64(2*i+j) / 7), round(float64(3*j-i) / 7), 0}.normalize()
}

func (c coordIJK) downAp7() coordIJK {
	return c.linear(coordIJK{3, 0, 1}, coordIJK{1, 3, 0}, coordIJK{0, 1, 3})
}

func (c coordIJK) downAp7r() coordIJK {
	return c.linear(coordIJK{3, 1, 0}, coordIJK{0, 3, 1}, coordIJK{1, 0, 3})
}

func (c coordIJK) rotate60ccw() coordIJK {
	return c.linear(coordIJK{1, 1, 0}, coordIJK{0, 1, 1}, coordIJK{1, 0, 1})
}

func (c coordIJK) rotate60cw() coordIJK {
	return c.linear(coordIJK{1, 0, 1}, coordIJK{1, 1, 0}, coordIJK{0, 1, 1})
}

func (c coordIJK) neighbor(d direction) coordIJK {
	if d > centerDigit && d < invalidDigit {
		return c.add(unitVecs[d]).normalize()
	}
	return c
}

// unitDigit maps a unit vector back to its digit, or invalidDigit.
func (c coordIJK) unitDigit() direction {
	n := c.normalize()
	for d := centerDigit; d < invalidDigit; d++ {
		if unitVecs[d] == n {
			return d
		}
	}
	return invalidDigit
}

func (c coordIJK) toHex2d() vec2d {
	i := float64(c.i - c.k)
	j := float64(c.j - c.k)
	return vec2d{i - 0.5*j, j * sqrt3By2}
}

// hex2dToIJK finds the hex containing a point on the face plane.
func hex2dToIJK(v vec2d) coordIJK {
	a1 := math.Abs(v.x)
	a2 := math.Abs(v.y)

	x2 := a2 * rsin60
	x1 := a1 + x2/2
	m1 := int(x1)
	m2 := int(x2)
	r1 := x1 - float64(m1)
	r2 := x2 - float64(m2)

	var i, j int
	if r1 < 0.5 {
		if r1 < 1.0/3.0 {
			i = m1
			if r2 < (1+r1)/2 {
				j = m2
			} else {
				j = m2 + 1
			}
		} else {
			if r2 < 1-r1 {
				j = m2
			} else {
				j = m2 + 1
			}
			if 1-r1 <= r2 && r2 < 2*r1 {
				i = m1 + 1
			} else {
				i = m1
			}
		}
	} else {
		if r1 < 2.0/3.0 {
			if r2 < 1-r1 {
				j = m2
			} else {
				j = m2 + 1
			}
			if 2*r1-1 < r2 && r2 < 1-r1 {
				i = m1
			} else {
				i = m1 + 1
			}
		} else {
			i = m1 + 1
			if r2 < r1/2 {
				j = m2
			} else {
				j = m2 + 1
			}
		}
	}

	// fold across the axes for the other quadrants
	if v.x < 0 {
		if j%2 == 0 {
			axis := j / 2
			i -= 2 * (i - axis)
		} else {
			axis := (j + 1) / 2
			i -= 2*(i-axis) + 1
		}
	}
	if v.y < 0 {
		i -= (2*j + 1) / 2
		j = -j
	}
	return coordIJK{i, j, 0}.normalize()
}

var (
	ccwDigit = [8]direction{0, 5, 3, 1, 6, 4, 2, 7}
	cwDigit  = [8]direction{0, 3, 6, 2, 5, 1, 4, 7}
)
