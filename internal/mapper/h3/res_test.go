package h3mapper

import (
	"math"
	"slices"
	"testing"

	"github.com/matryer/is"

	"github.com/mohammed-shakir/spatial-index/internal/geo"
)

func pow(b, n int) int {
	out := 1
	for range n {
		out *= b
	}
	return out
}

func TestToChildren_HexagonCounts(t *testing.T) {
	is := is.New(t)
	m := New()
	c, err := FromLocation(geo.Location{Lat: 59.3293, Lon: 18.0686}, 5)
	is.NoErr(err)
	is.True(!c.IsPentagon())

	for n := 0; n <= 3; n++ {
		kids, err := m.ToChildren(c.Index, c.Resolution+n)
		is.NoErr(err)
		if len(kids) != pow(7, n) {
			t.Fatalf("%d levels down: %d children, want %d", n, len(kids), pow(7, n))
		}
		is.True(slices.IsSorted(kids))
		for _, k := range kids {
			p, err := m.ToParent(k, c.Resolution)
			is.NoErr(err)
			if p != c.Index {
				t.Fatalf("child %s climbs to %s, want %s", k, p, c.Index)
			}
		}
	}
}

func TestToChildren_PentagonCounts(t *testing.T) {
	m := New()
	for _, s := range baseCellIndexes() {
		c, err := ParseCell(s)
		if err != nil {
			t.Fatalf("ParseCell(%s): %v", s, err)
		}
		if !c.IsPentagon() {
			continue
		}
		// one pentagon and 5(7^n-1)/6 hexagons n levels down
		for n := 1; n <= 3; n++ {
			kids, err := m.ToChildren(s, n)
			if err != nil {
				t.Fatalf("ToChildren(%s, %d): %v", s, n, err)
			}
			want := 1 + 5*(pow(7, n)-1)/6
			if len(kids) != want {
				t.Fatalf("pentagon %s at res %d: %d children, want %d", s, n, len(kids), want)
			}
			pentagons := 0
			for _, k := range kids {
				if kc, _ := ParseCell(k); kc.IsPentagon() {
					pentagons++
				}
			}
			if pentagons != 1 {
				t.Fatalf("pentagon %s at res %d: %d pentagon children", s, n, pentagons)
			}
		}
		return
	}
	t.Fatalf("no pentagon base cell found")
}

func TestToParent_MatchesStepwiseParents(t *testing.T) {
	m := New()
	for _, loc := range []geo.Location{
		{Lat: 55.6050, Lon: 13.0038},
		{Lat: -33.8688, Lon: 151.2093},
		{Lat: 64.1466, Lon: -21.9426},
	} {
		c, err := FromLocation(loc, 12)
		if err != nil {
			t.Fatalf("FromLocation(%v): %v", loc, err)
		}
		step := c
		for res := c.Resolution; res >= 0; res-- {
			got, err := m.ToParent(c.Index, res)
			if err != nil {
				t.Fatalf("ToParent(%s, %d): %v", c.Index, res, err)
			}
			if want := c.parentAt(res).Index; got != want {
				t.Fatalf("ToParent(%s, %d) = %s, parentAt gives %s", c.Index, res, got, want)
			}
			if got != step.Index {
				t.Fatalf("ToParent(%s, %d) = %s, stepping Parent gives %s", c.Index, res, got, step.Index)
			}
			if res > 0 {
				if step, err = step.Parent(); err != nil {
					t.Fatalf("Parent(%s): %v", step.Index, err)
				}
			}
		}
	}
}

func TestHierarchy_SameResolutionAndBadTransitions(t *testing.T) {
	is := is.New(t)
	m := New()
	c, err := FromLocation(geo.Location{Lat: 57.7089, Lon: 11.9746}, 9)
	is.NoErr(err)

	p, err := m.ToParent(c.Index, 9)
	is.NoErr(err)
	is.Equal(p, c.Index)
	kids, err := m.ToChildren(c.Index, 9)
	is.NoErr(err)
	is.Equal(kids, []string{c.Index})

	_, err = m.ToParent(c.Index, 10)
	is.True(err != nil)
	_, err = m.ToChildren(c.Index, 8)
	is.True(err != nil)
	_, err = m.ToChildren(c.Index, 16)
	is.True(err != nil)
	_, err = m.ToParent("not-a-cell", 3)
	is.True(err != nil)
}

func TestMinEdgeKm_BoundsNeighborSpacing(t *testing.T) {
	m := New()
	cells := []string{}
	for _, loc := range []geo.Location{
		{Lat: 59.3293, Lon: 18.0686},
		{Lat: 0, Lon: 0},
		{Lat: 89.9, Lon: 45},
		{Lat: -45, Lon: 179.99},
	} {
		c, err := FromLocation(loc, 7)
		if err != nil {
			t.Fatalf("FromLocation(%v): %v", loc, err)
		}
		cells = append(cells, c.Index)
	}
	// pentagons distort their neighborhoods the most; the center child of
	// a pentagon is the pentagon one level down
	for _, s := range baseCellIndexes() {
		c, _ := ParseCell(s)
		if !c.IsPentagon() {
			continue
		}
		for c.Resolution < 7 {
			kids, err := c.Children()
			if err != nil {
				t.Fatalf("Children(%s): %v", c.Index, err)
			}
			c = kids[0]
		}
		if !c.IsPentagon() {
			t.Fatalf("center descendant %s of %s is not a pentagon", c.Index, s)
		}
		cells = append(cells, c.Index)
	}

	// adjacent hexagon centers sit sqrt(3) edges apart
	floor := math.Sqrt(3) * m.MinEdgeKm(7)
	if m.MinEdgeKm(7) >= m.EdgeKm(7) {
		t.Fatalf("MinEdgeKm %.3f not below EdgeKm %.3f", m.MinEdgeKm(7), m.EdgeKm(7))
	}
	for _, s := range cells {
		a, err := m.Decode(s)
		if err != nil {
			t.Fatalf("Decode(%s): %v", s, err)
		}
		nbs, err := m.Neighbors(s)
		if err != nil {
			t.Fatalf("Neighbors(%s): %v", s, err)
		}
		for _, nb := range nbs {
			b, _ := m.Decode(nb)
			if d := geo.DistanceKm(a, b); d < floor {
				t.Fatalf("%s and %s are %.3f km apart, below %.3f", s, nb, d, floor)
			}
		}
	}
}
