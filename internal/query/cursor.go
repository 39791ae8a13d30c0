package query

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrInvalidCursor is returned for a cursor that does not decode.
	ErrInvalidCursor = errors.New("invalid cursor")
	// ErrCursorOutOfRange is returned when a cursor names a cell past the
	// end of the current covering.
	ErrCursorOutOfRange = errors.New("cursor cell index out of range")
)

// Cursor resumes a query. A nil LastEvaluatedKey starts CellIndex fresh.
type Cursor struct {
	CellIndex        int     `json:"CellIndex"`
	LastEvaluatedKey *string `json:"LastEvaluatedKey"`
}

// EncodeCursor renders c as base64 JSON.
func EncodeCursor(c Cursor) (string, error) {
	if c.CellIndex < 0 {
		return "", fmt.Errorf("cell index %d: %w", c.CellIndex, ErrInvalidCursor)
	}
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode cursor: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// DecodeCursor accepts standard and URL-safe base64.
func DecodeCursor(s string) (Cursor, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		raw, err = base64.URLEncoding.DecodeString(s)
	}
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var c struct {
		CellIndex        *int    `json:"CellIndex"`
		LastEvaluatedKey *string `json:"LastEvaluatedKey"`
	}
	if err := dec.Decode(&c); err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	if c.CellIndex == nil {
		return Cursor{}, fmt.Errorf("%w: CellIndex missing", ErrInvalidCursor)
	}
	if *c.CellIndex < 0 {
		return Cursor{}, fmt.Errorf("%w: CellIndex %d is negative", ErrInvalidCursor, *c.CellIndex)
	}
	return Cursor{CellIndex: *c.CellIndex, LastEvaluatedKey: c.LastEvaluatedKey}, nil
}

func keyPtr(k string) *string { return &k }
