package h3mapper

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"testing"

	h3 "github.com/uber/h3-go/v4"

	"github.com/mohammed-shakir/spatial-index/internal/geo"
	"github.com/mohammed-shakir/spatial-index/internal/mapper"
)

func randomLocation(r *rand.Rand) geo.Location {
	lat := math.Asin(r.Float64()*2-1) * 180 / math.Pi
	lon := r.Float64()*360 - 180
	return geo.Location{Lat: lat, Lon: lon}
}

func TestEncode_KnownVectors(t *testing.T) {
	m := New()
	cases := []struct {
		lat, lon float64
		res      int
		want     string
	}{
		{37.775938728915946, -122.41795063018799, 9, "8928308280fffff"},
		{40.689167, -74.044444, 10, "8a2a1072b59ffff"},
		{37.3615593, -122.0553238, 5, "85283473fffffff"},
		{37.769377, -122.388903, 9, "89283082e73ffff"},
	}
	for _, tc := range cases {
		got, err := m.Encode(geo.Location{Lat: tc.lat, Lon: tc.lon}, tc.res)
		if err != nil {
			t.Fatalf("Encode(%v,%v,%d): %v", tc.lat, tc.lon, tc.res, err)
		}
		if got != tc.want {
			t.Fatalf("Encode(%v,%v,%d) = %s, want %s", tc.lat, tc.lon, tc.res, got, tc.want)
		}
	}

	center, err := m.Decode("85283473fffffff")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if math.Abs(center.Lat-37.34579337536848) > 1e-9 || math.Abs(center.Lon+121.9763759725512) > 1e-9 {
		t.Fatalf("Decode center = %v", center)
	}
}

func TestEncode_MatchesReferenceLibrary(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for res := 0; res <= MaxRes; res++ {
		for i := 0; i < 200; i++ {
			loc := randomLocation(r)
			got, err := FromLocation(loc, res)
			if err != nil {
				t.Fatalf("FromLocation(%v,%d): %v", loc, res, err)
			}
			want, err := h3.LatLngToCell(h3.LatLng{Lat: loc.Lat, Lng: loc.Lon}, res)
			if err != nil {
				t.Fatalf("LatLngToCell: %v", err)
			}
			if got.Index != want.String() {
				t.Fatalf("res %d %v: got %s want %s", res, loc, got.Index, want.String())
			}
		}
	}
}

func TestDecode_MatchesReferenceCenter(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for res := 0; res <= MaxRes; res += 3 {
		for i := 0; i < 100; i++ {
			c, err := FromLocation(randomLocation(r), res)
			if err != nil {
				t.Fatalf("FromLocation: %v", err)
			}
			ll, err := h3.CellToLatLng(h3.Cell(h3.IndexFromString(c.Index)))
			if err != nil {
				t.Fatalf("CellToLatLng: %v", err)
			}
			got := c.Center()
			if d := geo.DistanceKm(got, geo.Location{Lat: ll.Lat, Lon: ll.Lng}); d > 1e-6 {
				t.Fatalf("cell %s center off by %v km", c.Index, d)
			}
		}
	}
}

func TestRoundTrip_ExactAtCoarseResolutions(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for res := 0; res <= 3; res++ {
		for i := 0; i < 500; i++ {
			c, err := FromLocation(randomLocation(r), res)
			if err != nil {
				t.Fatalf("FromLocation: %v", err)
			}
			again, err := FromLocation(c.Center(), res)
			if err != nil {
				t.Fatalf("FromLocation(center): %v", err)
			}
			if again.Index != c.Index {
				t.Fatalf("res %d: %s re-encoded to %s", res, c.Index, again.Index)
			}
			parsed, err := ParseCell(c.Index)
			if err != nil || parsed.Index != c.Index || parsed.Resolution != res {
				t.Fatalf("ParseCell(%s) = %+v, %v", c.Index, parsed, err)
			}
		}
	}
}

func baseCellIndexes() []string {
	out := make([]string, 0, numBaseCells)
	for bc := 0; bc < numBaseCells; bc++ {
		out = append(out, newIndex(0, bc, nil).String())
	}
	return out
}

func TestBaseCells_TwelvePentagons(t *testing.T) {
	pent := 0
	seen := map[string]bool{}
	for _, s := range baseCellIndexes() {
		c, err := ParseCell(s)
		if err != nil {
			t.Fatalf("ParseCell(%s): %v", s, err)
		}
		if seen[s] {
			t.Fatalf("duplicate base cell %s", s)
		}
		seen[s] = true
		if c.IsPentagon() {
			pent++
		}
		if c.IsPentagon() != h3.Cell(h3.IndexFromString(s)).IsPentagon() {
			t.Fatalf("pentagon flag mismatch for %s", s)
		}
	}
	if pent != 12 {
		t.Fatalf("want 12 pentagons, got %d", pent)
	}
}

func neighborSet(t *testing.T, m *Mapper, cell string) map[string]bool {
	t.Helper()
	ns, err := m.Neighbors(cell)
	if err != nil {
		t.Fatalf("Neighbors(%s): %v", cell, err)
	}
	set := make(map[string]bool, len(ns))
	for _, n := range ns {
		set[n] = true
	}
	return set
}

func TestNeighbors_CardinalityAndSymmetry(t *testing.T) {
	m := New()
	cells := baseCellIndexes()
	r := rand.New(rand.NewSource(11))
	for res := 1; res <= 12; res++ {
		for i := 0; i < 40; i++ {
			s, err := m.Encode(randomLocation(r), res)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			cells = append(cells, s)
		}
	}

	for _, cell := range cells {
		c, _ := ParseCell(cell)
		ns := neighborSet(t, m, cell)
		want := 6
		if c.IsPentagon() {
			want = 5
		}
		if len(ns) != want {
			t.Fatalf("%s: %d neighbors, want %d", cell, len(ns), want)
		}
		for n := range ns {
			if !neighborSet(t, m, n)[cell] {
				t.Fatalf("%s lists %s but not vice versa", cell, n)
			}
		}
	}
}

func TestNeighbors_MatchGridDisk(t *testing.T) {
	m := New()
	r := rand.New(rand.NewSource(5))
	for i := 0; i < 200; i++ {
		res := r.Intn(MaxRes + 1)
		cell, err := m.Encode(randomLocation(r), res)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		disk, err := h3.GridDisk(h3.Cell(h3.IndexFromString(cell)), 1)
		if err != nil {
			t.Fatalf("GridDisk: %v", err)
		}
		got := neighborSet(t, m, cell)
		if len(got) != len(disk)-1 {
			t.Fatalf("%s: %d neighbors, reference ring has %d", cell, len(got), len(disk)-1)
		}
		for _, d := range disk {
			if d.String() != cell && !got[d.String()] {
				t.Fatalf("%s: missing neighbor %s", cell, d.String())
			}
		}
	}
}

func TestParentChildren(t *testing.T) {
	m := New()
	cell, err := m.Encode(geo.Location{Lat: 59.3293, Lon: 18.0686}, 8)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	parent, err := m.Parent(cell)
	if err != nil {
		t.Fatalf("Parent: %v", err)
	}
	if res, _ := m.Precision(parent); res != 7 {
		t.Fatalf("parent resolution %d, want 7", res)
	}
	kids, err := m.Children(parent)
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if len(kids) != 7 {
		t.Fatalf("hexagon children = %d, want 7", len(kids))
	}
	found := false
	seen := map[string]bool{}
	for _, k := range kids {
		if res, _ := m.Precision(k); res != 8 {
			t.Fatalf("child %s resolution %d", k, res)
		}
		if seen[k] {
			t.Fatalf("duplicate child %s", k)
		}
		seen[k] = true
		found = found || k == cell
	}
	if !found {
		t.Fatalf("children of %s do not include %s", parent, cell)
	}

	// center child sits on the parent center
	pc, _ := m.Decode(parent)
	cc, _ := m.Decode(kids[0])
	if d := geo.DistanceKm(pc, cc); d > m.EdgeKm(8) {
		t.Fatalf("center child is %v km from parent center", d)
	}

	ref, err := h3.Cell(h3.IndexFromString(parent)).Children(8)
	if err != nil {
		t.Fatalf("reference Children: %v", err)
	}
	for _, k := range ref {
		if !seen[k.String()] {
			t.Fatalf("missing child %s", k.String())
		}
	}
}

func TestParentChildren_PentagonAndLimits(t *testing.T) {
	m := New()
	for _, s := range baseCellIndexes() {
		c, _ := ParseCell(s)
		if !c.IsPentagon() {
			continue
		}
		kids, err := m.Children(s)
		if err != nil {
			t.Fatalf("Children(%s): %v", s, err)
		}
		if len(kids) != 6 {
			t.Fatalf("pentagon %s: %d children, want 6", s, len(kids))
		}
		if _, err := m.Parent(s); !errors.Is(err, mapper.ErrNoParent) {
			t.Fatalf("res 0 parent: want ErrNoParent, got %v", err)
		}
	}

	leaf, _ := m.Encode(geo.Location{Lat: 1, Lon: 1}, MaxRes)
	if _, err := m.Children(leaf); !errors.Is(err, mapper.ErrNoChildren) {
		t.Fatalf("res 15 children: want ErrNoChildren, got %v", err)
	}
}

func TestBounds_ContainCenter(t *testing.T) {
	m := New()
	r := rand.New(rand.NewSource(9))
	for res := 0; res <= MaxRes; res++ {
		for i := 0; i < 30; i++ {
			cell, _ := m.Encode(randomLocation(r), res)
			b, err := m.Bounds(cell)
			if err != nil {
				t.Fatalf("Bounds: %v", err)
			}
			center, _ := m.Decode(cell)
			if !b.Contains(center) {
				t.Fatalf("%s: bounds %v miss center %v", cell, b, center)
			}
		}
	}
}

func TestBounds_PoleCell(t *testing.T) {
	m := New()
	cell, err := m.Encode(geo.Location{Lat: 90, Lon: 0}, 2)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b, _ := m.Bounds(cell)
	if b.NorthEast.Lat != 90 || !b.FullLongitude() {
		t.Fatalf("pole cell bounds %v", b)
	}
}

func TestValidation(t *testing.T) {
	m := New()
	if _, err := m.Encode(geo.Location{Lat: 10, Lon: 10}, 16); !errors.Is(err, geo.ErrInvalidArgument) {
		t.Fatalf("res 16: %v", err)
	}
	if _, err := m.Encode(geo.Location{Lat: 100, Lon: 10}, 5); !errors.Is(err, geo.ErrInvalidArgument) {
		t.Fatalf("lat 100: %v", err)
	}
	for _, bad := range []string{"", "zz", "8928308280fffffff", "0928308280fffff", "8928308280ffxff", "80f5fffffffffff", "81087ffffffffff"} {
		_, err := m.Decode(bad)
		var ve *geo.ValidationError
		if !errors.As(err, &ve) || ve.Param != "cell" {
			t.Fatalf("Decode(%q): want cell validation error, got %v", bad, err)
		}
	}
}

func TestNeighbors_Sorted(t *testing.T) {
	m := New()
	ns, _ := m.Neighbors("8928308280fffff")
	if !sort.StringsAreSorted(ns) {
		t.Fatalf("neighbors not sorted: %v", ns)
	}
}
