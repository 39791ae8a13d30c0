package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/matryer/is"
)

func TestNewLocation_RejectsOutOfRange(t *testing.T) {
	is := is.New(t)

	_, err := NewLocation(91, 0)
	is.True(errors.Is(err, ErrInvalidArgument))
	var ve *ValidationError
	is.True(errors.As(err, &ve))
	is.Equal(ve.Param, "latitude")
	is.Equal(ve.Value, 91.0)

	_, err = NewLocation(0, -180.5)
	is.True(errors.As(err, &ve))
	is.Equal(ve.Param, "longitude")

	_, err = NewLocation(math.NaN(), 0)
	is.True(err != nil)

	l, err := NewLocation(-90, 180)
	is.NoErr(err)
	is.Equal(l, Location{Lat: -90, Lon: 180})
}

func TestNewBoundingBox_LatOrderAndDateLine(t *testing.T) {
	is := is.New(t)

	_, err := BoxFromEdges(10, 0, 5, 1)
	is.True(errors.Is(err, ErrInvalidArgument))

	b, err := BoxFromEdges(-10, 170, 10, -170)
	is.NoErr(err)
	is.True(b.CrossesDateLine())
	is.Equal(b.WidthDeg(), 20.0)
	is.True(b.Contains(Location{Lat: 0, Lon: 179}))
	is.True(b.Contains(Location{Lat: 0, Lon: -175}))
	is.True(!b.Contains(Location{Lat: 0, Lon: 0}))
	c := b.Center()
	is.True(math.Abs(math.Abs(c.Lon)-180) < 1e-9)
}

func TestSplitAtDateLine(t *testing.T) {
	is := is.New(t)

	b, err := BoxFromEdges(-5, 170, 5, -170)
	is.NoErr(err)
	west, east, ok := b.SplitAtDateLine()
	is.True(ok)
	is.Equal(west.SouthWest.Lon, 170.0)
	is.Equal(west.NorthEast.Lon, 180.0)
	is.Equal(east.SouthWest.Lon, -180.0)
	is.Equal(east.NorthEast.Lon, -170.0)
	is.True(!west.CrossesDateLine())
	is.True(!east.CrossesDateLine())
	is.Equal(west.WidthDeg()+east.WidthDeg(), b.WidthDeg())

	plain, _ := BoxFromEdges(0, 0, 1, 1)
	_, _, ok = plain.SplitAtDateLine()
	is.True(!ok)
}

func TestIntersects(t *testing.T) {
	box := func(s, w, n, e float64) BoundingBox {
		b, err := BoxFromEdges(s, w, n, e)
		if err != nil {
			t.Fatalf("BoxFromEdges: %v", err)
		}
		return b
	}
	crossing := box(-5, 170, 5, -170)
	for _, tc := range []struct {
		name string
		a, b BoundingBox
		want bool
	}{
		{"overlap", box(0, 0, 2, 2), box(1, 1, 3, 3), true},
		{"shared edge", box(0, 0, 1, 1), box(1, 0, 2, 1), true},
		{"apart in lat", box(0, 0, 1, 1), box(1.5, 0, 2, 1), false},
		{"apart in lon", box(0, 0, 1, 1), box(0, 1.5, 1, 2), false},
		{"crossing vs east side", crossing, box(0, -175, 1, -174), true},
		{"crossing vs west side", box(0, 175, 1, 176), crossing, true},
		{"crossing vs far side", crossing, box(0, -10, 1, 10), false},
		{"both crossing", crossing, box(-1, 179, 1, -179), true},
	} {
		if got := tc.a.Intersects(tc.b); got != tc.want {
			t.Fatalf("%s: Intersects=%v want %v", tc.name, got, tc.want)
		}
	}
}

func TestDistanceKm_KnownPairs(t *testing.T) {
	sf := Location{Lat: 37.7749, Lon: -122.4194}
	la := Location{Lat: 34.0522, Lon: -118.2437}
	d := DistanceKm(sf, la)
	if math.Abs(d-559) > 2 {
		t.Fatalf("SF-LA distance = %.1f km, want ~559", d)
	}
	if DistanceKm(sf, sf) != 0 {
		t.Fatalf("self distance must be 0")
	}
	eq := DistanceKm(Location{0, 179.5}, Location{0, -179.5})
	if math.Abs(eq-KmPerDegree) > 1e-6 {
		t.Fatalf("antimeridian distance = %v, want %v", eq, KmPerDegree)
	}
}

func TestDestination_RoundTripsDistance(t *testing.T) {
	origin := Location{Lat: 48.85, Lon: 2.35}
	for _, brg := range []float64{0, 45, 90, 180, 270, 315} {
		p := Destination(origin, brg, 25)
		if d := DistanceKm(origin, p); math.Abs(d-25) > 1e-6 {
			t.Fatalf("bearing %v: distance %v, want 25", brg, d)
		}
	}
}

func TestRadiusBox_PoleExpandsLongitude(t *testing.T) {
	is := is.New(t)

	b, err := RadiusBox(Location{Lat: 89, Lon: 0}, 200)
	is.NoErr(err)
	is.Equal(b.NorthEast.Lat, 90.0)
	is.Equal(b.SouthWest.Lon, -180.0)
	is.Equal(b.NorthEast.Lon, 180.0)
	is.True(b.IncludesPole())
	is.True(b.FullLongitude())
}

func TestRadiusBox_EnclosesCircle(t *testing.T) {
	center := Location{Lat: 37.7749, Lon: -122.4194}
	b, err := RadiusBox(center, 5)
	if err != nil {
		t.Fatalf("RadiusBox: %v", err)
	}
	for brg := 0.0; brg < 360; brg += 5 {
		p := Destination(center, brg, 5)
		if !b.Contains(p) {
			t.Fatalf("box %v does not contain %v (bearing %v)", b, p, brg)
		}
	}
	if b.CrossesDateLine() {
		t.Fatalf("box should not cross the date line")
	}
}

func TestRadiusBox_CrossesDateLine(t *testing.T) {
	b, err := RadiusBox(Location{Lat: 0, Lon: 179.9}, 50)
	if err != nil {
		t.Fatalf("RadiusBox: %v", err)
	}
	if !b.CrossesDateLine() {
		t.Fatalf("expected crossing box, got %v", b)
	}
	if !b.Contains(Location{Lat: 0, Lon: -179.8}) {
		t.Fatalf("crossing box %v misses eastern side", b)
	}
}

func TestRadiusBox_RejectsBadRadius(t *testing.T) {
	for _, r := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := RadiusBox(Location{}, r); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("radius %v: want invalid argument, got %v", r, err)
		}
	}
}

func TestNormalizeLon(t *testing.T) {
	cases := map[float64]float64{190: -170, -190: 170, 540: 180, 45: 45}
	for in, want := range cases {
		got := NormalizeLon(in)
		if math.Abs(got-want) > 1e-9 && !(math.Abs(got) == 180 && math.Abs(want) == 180) {
			t.Fatalf("NormalizeLon(%v) = %v, want %v", in, got, want)
		}
	}
}
