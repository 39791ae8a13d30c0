// Package storetest is a conformance suite every store.Interface
// implementation runs from its own tests.
package storetest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/mohammed-shakir/spatial-index/internal/cache/keys"
	"github.com/mohammed-shakir/spatial-index/internal/geo"
	"github.com/mohammed-shakir/spatial-index/internal/store"
)

// Item builds a row for cell with a small JSON payload.
func Item(cell, id string, lat, lon float64) store.Item {
	return store.Item{
		Key:      keys.RowKey(cell, id),
		ID:       id,
		Location: geo.Location{Lat: lat, Lon: lon},
		Data:     json.RawMessage(fmt.Sprintf(`{"name":%q}`, id)),
	}
}

func cellRange(cell string) store.Range {
	s, e := keys.CellRange(cell)
	return store.Range{Start: s, End: e}
}

func ids(items []store.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func sameJSON(a, b json.RawMessage) bool {
	var x, y any
	if json.Unmarshal(a, &x) != nil || json.Unmarshal(b, &y) != nil {
		return false
	}
	return reflect.DeepEqual(x, y)
}

// Run exercises s. Each call must get an empty store.
func Run(t *testing.T, newStore func(t *testing.T) store.Interface) {
	t.Helper()
	ctx := context.Background()

	seed := func(t *testing.T, s store.Interface) {
		t.Helper()
		rows := []store.Item{
			Item("u6sce", "c", 59.33, 18.07),
			Item("u6sce", "a", 59.32, 18.06),
			Item("u6sce", "b", 59.34, 18.05),
			Item("u6scf", "d", 59.35, 18.10),
			Item("u6scf", "e", 59.36, 18.11),
			Item("u6sd0", "f", 59.40, 18.20),
		}
		if err := s.Put(ctx, "places", rows...); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if err := s.Put(ctx, "other", Item("u6sce", "z", 1, 1)); err != nil {
			t.Fatalf("Put other: %v", err)
		}
	}

	t.Run("CellRangeInKeyOrder", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)
		p, err := s.Query(ctx, "places", cellRange("u6sce"), 10, "")
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		if got := ids(p.Items); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
			t.Fatalf("ids=%v want [a b c]", got)
		}
		if p.LastEvaluatedKey != "" {
			t.Fatalf("LastEvaluatedKey=%q want empty", p.LastEvaluatedKey)
		}
		it := p.Items[0]
		if it.Key != keys.RowKey("u6sce", "a") || it.Location != (geo.Location{Lat: 59.32, Lon: 18.06}) {
			t.Fatalf("item round trip: %+v", it)
		}
		if !sameJSON(it.Data, json.RawMessage(`{"name":"a"}`)) {
			t.Fatalf("data round trip: %s", it.Data)
		}
	})

	t.Run("Pagination", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)
		r := store.Range{Start: "u6sce", End: keys.PrefixSuccessor("u6scf")}
		var got []string
		after := ""
		pages := 0
		for {
			p, err := s.Query(ctx, "places", r, 2, after)
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			pages++
			got = append(got, ids(p.Items)...)
			if p.LastEvaluatedKey == "" {
				break
			}
			if p.LastEvaluatedKey != p.Items[len(p.Items)-1].Key {
				t.Fatalf("LastEvaluatedKey=%q is not the last returned key", p.LastEvaluatedKey)
			}
			after = p.LastEvaluatedKey
		}
		if !reflect.DeepEqual(got, []string{"a", "b", "c", "d", "e"}) || pages != 3 {
			t.Fatalf("ids=%v pages=%d", got, pages)
		}

		// a page that ends exactly at the end of the range reports exhaustion
		p, err := s.Query(ctx, "places", cellRange("u6scf"), 2, "")
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		if len(p.Items) != 2 || p.LastEvaluatedKey != "" {
			t.Fatalf("exact fit: %v last=%q", ids(p.Items), p.LastEvaluatedKey)
		}
	})

	t.Run("UnboundedEndAndIsolation", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)
		p, err := s.Query(ctx, "places", store.Range{Start: "u6scf"}, 10, "")
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		if got := ids(p.Items); !reflect.DeepEqual(got, []string{"d", "e", "f"}) {
			t.Fatalf("ids=%v want [d e f]", got)
		}
		p, err = s.Query(ctx, "other", store.Range{}, 10, "")
		if err != nil {
			t.Fatalf("Query other: %v", err)
		}
		if got := ids(p.Items); !reflect.DeepEqual(got, []string{"z"}) {
			t.Fatalf("other ids=%v", got)
		}
		p, err = s.Query(ctx, "missing", store.Range{}, 10, "")
		if err != nil || len(p.Items) != 0 || p.LastEvaluatedKey != "" {
			t.Fatalf("missing index: %+v %v", p, err)
		}
	})

	t.Run("OverwriteAndDelete", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)
		upd := Item("u6sce", "a", 59.321, 18.061)
		upd.Data = json.RawMessage(`{"name":"renamed"}`)
		if err := s.Put(ctx, "places", upd); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if err := s.Delete(ctx, "places", keys.RowKey("u6sce", "b"), keys.RowKey("nope", "x")); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		p, err := s.Query(ctx, "places", cellRange("u6sce"), 10, "")
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		if got := ids(p.Items); !reflect.DeepEqual(got, []string{"a", "c"}) {
			t.Fatalf("ids=%v want [a c]", got)
		}
		if !sameJSON(p.Items[0].Data, upd.Data) || p.Items[0].Location != upd.Location {
			t.Fatalf("overwrite lost: %+v", p.Items[0])
		}
	})

	t.Run("Validation", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Query(ctx, "places", store.Range{Start: "b", End: "a"}, 10, ""); !errors.Is(err, store.ErrInvalidRange) {
			t.Fatalf("inverted range: %v", err)
		}
		if _, err := s.Query(ctx, "places", store.Range{}, 0, ""); !errors.Is(err, geo.ErrInvalidArgument) {
			t.Fatalf("zero limit: %v", err)
		}
		bad := Item("u6sce", "x", 91, 0)
		if err := s.Put(ctx, "places", bad); !errors.Is(err, geo.ErrInvalidArgument) {
			t.Fatalf("bad location: %v", err)
		}
	})

	t.Run("CanceledContext", func(t *testing.T) {
		s := newStore(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := s.Query(cctx, "places", store.Range{}, 10, ""); err == nil {
			t.Fatalf("expected error on Query with canceled context")
		}
		if err := s.Put(cctx, "places", Item("u6sce", "a", 1, 1)); err == nil {
			t.Fatalf("expected error on Put with canceled context")
		}
	})
}
