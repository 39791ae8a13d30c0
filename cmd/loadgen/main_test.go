package main

import (
	"encoding/json"
	"math"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPercentile(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5}
	cases := map[float64]float64{0: 1, 50: 3, 100: 5, 25: 2, 90: 4.6}
	for p, want := range cases {
		if got := percentile(vals, p); math.Abs(got-want) > 1e-9 {
			t.Fatalf("p%v = %v want %v", p, got, want)
		}
	}
	if !math.IsNaN(percentile(nil, 50)) {
		t.Fatalf("empty input should be NaN")
	}
}

func TestCollect(t *testing.T) {
	ch := make(chan sample, 3)
	ch <- sample{Latency: 2 * time.Millisecond, Pages: 2, Items: 60}
	ch <- sample{Latency: 4 * time.Millisecond, Pages: 1, Items: 10}
	ch <- sample{Err: "status=500"}
	close(ch)

	a := collect(ch)
	if a.total != 3 || a.success != 2 || a.errors != 1 {
		t.Fatalf("counts %+v", a)
	}
	if mean(a.pages, a.success) != 1.5 || mean(a.items, a.success) != 35 {
		t.Fatalf("means pages=%v items=%v", mean(a.pages, a.success), mean(a.items, a.success))
	}
}

func TestRandomPoint_Valid(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		p := randomPoint(r)
		if p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
			t.Fatalf("invalid point %v", p)
		}
	}
}

func TestRadiusQuery_FollowsCursor(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		out := page{Items: []json.RawMessage{json.RawMessage(`{}`), json.RawMessage(`{}`)}}
		if r.URL.Query().Get("cursor") == "" {
			out.Cursor = "next"
		}
		_ = json.NewEncoder(w).Encode(out)
	}))
	defer srv.Close()

	cfg := Config{TargetURL: srv.URL, RadiusKm: 1, Limit: 2, MaxPages: 5}
	s := radiusQuery(t.Context(), srv.Client(), cfg, cities[0])
	if s.Err != "" || s.Pages != 2 || s.Items != 4 || calls != 2 {
		t.Fatalf("sample %+v after %d calls", s, calls)
	}

	cfg.MaxPages = 1
	calls = 0
	if s := radiusQuery(t.Context(), srv.Client(), cfg, cities[0]); s.Pages != 1 || calls != 1 {
		t.Fatalf("page cap ignored: %+v", s)
	}
}
