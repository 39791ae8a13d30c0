// Package ingest turns location updates into index rows.
package ingest

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mohammed-shakir/spatial-index/internal/geo"
)

const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// LocationEvent is the message published on the ingest topic. Previous, when
// set, is where the item was indexed before; its rows are removed.
type LocationEvent struct {
	Version  int             `json:"version"`
	Op       string          `json:"op"`
	ID       string          `json:"id"`
	TS       time.Time       `json:"ts"`
	Location *geo.Location   `json:"location,omitempty"`
	Previous *geo.Location   `json:"previous,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
}

func (e LocationEvent) Validate() error {
	if e.Version != 1 {
		return fmt.Errorf("version must be 1")
	}
	switch e.Op {
	case OpUpsert, OpDelete:
	default:
		return fmt.Errorf("op must be upsert|delete")
	}
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if e.TS.IsZero() {
		return fmt.Errorf("ts is required")
	}
	if e.Location == nil {
		return fmt.Errorf("location is required")
	}
	if _, err := geo.NewLocation(e.Location.Lat, e.Location.Lon); err != nil {
		return fmt.Errorf("location: %w", err)
	}
	if e.Previous != nil {
		if _, err := geo.NewLocation(e.Previous.Lat, e.Previous.Lon); err != nil {
			return fmt.Errorf("previous: %w", err)
		}
	}
	if e.Op == OpUpsert && len(e.Data) > 0 && !json.Valid(e.Data) {
		return fmt.Errorf("data must be valid JSON")
	}
	return nil
}
