package registry

import (
	"testing"

	"github.com/mohammed-shakir/spatial-index/internal/geo"
	"github.com/mohammed-shakir/spatial-index/internal/mapper"
)

func TestNew_EveryKind(t *testing.T) {
	for _, k := range []mapper.Kind{mapper.GeoHash, mapper.S2, mapper.H3} {
		m, err := New(k)
		if err != nil {
			t.Fatalf("New(%s): %v", k, err)
		}
		if m.Kind() != k {
			t.Fatalf("New(%s).Kind() = %s", k, m.Kind())
		}
		p := k.DefaultPrecision()
		if err := m.ValidatePrecision(p); err != nil {
			t.Fatalf("%s default precision %d: %v", k, p, err)
		}
		cell, err := m.Encode(geo.Location{Lat: 59.3293, Lon: 18.0686}, p)
		if err != nil {
			t.Fatalf("%s encode: %v", k, err)
		}
		if got, _ := m.Precision(cell); got != p {
			t.Fatalf("%s precision of %s = %d, want %d", k, cell, got, p)
		}
		if e := m.EdgeKm(p); e < 0.3 || e > 1.5 {
			t.Fatalf("%s default edge %v km is not about a kilometer", k, e)
		}
	}
	if _, err := New("quadkey"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestAll(t *testing.T) {
	seen := map[mapper.Kind]bool{}
	for _, m := range All() {
		seen[m.Kind()] = true
	}
	if len(seen) != 3 {
		t.Fatalf("All() kinds = %v", seen)
	}
}

func TestPrecisionRange_MatchesCodec(t *testing.T) {
	for _, m := range All() {
		lo, hi := m.Kind().PrecisionRange()
		if m.ValidatePrecision(lo) != nil || m.ValidatePrecision(hi) != nil {
			t.Fatalf("%s: range %d..%d rejected by codec", m.Kind(), lo, hi)
		}
		if m.ValidatePrecision(lo-1) == nil || m.ValidatePrecision(hi+1) == nil {
			t.Fatalf("%s: codec accepts precision outside %d..%d", m.Kind(), lo, hi)
		}
	}
}
