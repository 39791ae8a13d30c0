// Package store defines the range-queryable key-value capability the query
// orchestrator runs against. Keys are ordered byte-wise; pagination is
// forward only.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mohammed-shakir/spatial-index/internal/geo"
)

// ErrInvalidRange is returned for a range whose end sorts before its start.
var ErrInvalidRange = errors.New("invalid key range")

// Item is one indexed record. Key is the sort key, usually keys.RowKey.
type Item struct {
	Key      string          `json:"key"`
	ID       string          `json:"id"`
	Location geo.Location    `json:"location"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// Range is the half-open key interval [Start, End). An empty End is
// unbounded.
type Range struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (r Range) Validate() error {
	if r.End != "" && r.End < r.Start {
		return fmt.Errorf("[%q, %q): %w", r.Start, r.End, ErrInvalidRange)
	}
	return nil
}

func (r Range) Contains(key string) bool {
	return key >= r.Start && (r.End == "" || key < r.End)
}

// Page is one page of a range scan. LastEvaluatedKey is empty exactly when
// the range holds nothing after the returned items.
type Page struct {
	Items            []Item
	LastEvaluatedKey string
}

type Interface interface {
	// Query returns up to limit items in r with keys after
	// exclusiveStartKey, in key order.
	Query(ctx context.Context, index string, r Range, limit int, exclusiveStartKey string) (Page, error)
	Put(ctx context.Context, index string, items ...Item) error
	Delete(ctx context.Context, index string, keys ...string) error
}

// Pinger is implemented by stores backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ValidateQuery checks the arguments every implementation rejects.
func ValidateQuery(index string, r Range, limit int) error {
	if index == "" {
		return geo.Invalid("index", nil, "must not be empty")
	}
	if limit <= 0 {
		return geo.Invalid("limit", limit, "must be positive")
	}
	return r.Validate()
}

// ValidateItem checks an item before it is written.
func ValidateItem(it Item) error {
	if it.Key == "" {
		return geo.Invalid("key", nil, "must not be empty")
	}
	if it.ID == "" {
		return geo.Invalid("id", nil, "must not be empty")
	}
	if _, err := geo.NewLocation(it.Location.Lat, it.Location.Lon); err != nil {
		return err
	}
	if len(it.Data) > 0 && !json.Valid(it.Data) {
		return geo.Invalid("data", nil, "must be valid JSON")
	}
	return nil
}
