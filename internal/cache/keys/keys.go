// Package keys defines the sort-key layout shared by every store and the
// keys of the covering cache.
package keys

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// Sep joins a cell to a record id. SepNext is the byte after it, so
// [cell+Sep, cell+SepNext) holds exactly the rows of one cell.
const (
	Sep     = ":"
	SepNext = ";"
)

func RowKey(cell, id string) string {
	return cell + Sep + id
}

// SplitRowKey returns the cell and id of a key built by RowKey.
func SplitRowKey(key string) (cell, id string, ok bool) {
	return strings.Cut(key, Sep)
}

// CellRange is the half-open key range of every row stored under cell.
func CellRange(cell string) (start, end string) {
	return cell + Sep, cell + SepNext
}

// HashRange is the half-open key range of every row whose cell has a prefix
// in [lo, hi].
func HashRange(lo, hi string) (start, end string) {
	return lo, PrefixSuccessor(hi)
}

// PrefixSuccessor returns the smallest string that sorts after every string
// with prefix p, or "" when no such string exists.
func PrefixSuccessor(p string) string {
	b := []byte(p)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < 0xff {
			b[i]++
			return string(b[:i+1])
		}
	}
	return ""
}

// IndexKey namespaces an index name for stores with a flat key space.
func IndexKey(prefix, index string) string {
	return prefix + ":" + sanitizeName(strings.TrimSpace(index))
}

// CoveringKey identifies a covering request. Coordinates are hashed as raw
// float bits so that equal requests always collide and nothing else does.
func CoveringKey(kind, op string, precision, maxCells int, coords ...float64) string {
	buf := make([]byte, 8*len(coords))
	for i, c := range coords {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(c))
	}
	sum := xxhash.Sum64(buf)
	return fmt.Sprintf("%s:%s:p=%d:n=%d:f=%016x", sanitizeName(kind), sanitizeName(op), precision, maxCells, sum)
}

func sanitizeName(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	for _, r := range s {
		out := rune(0)
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f':
			out = '_'
		case isAlphaNum(r) || r == '_' || r == '-':
			out = r
		default:
			// anything else, including ':' and non-ASCII, becomes '-'
			out = '-'
		}
		if (out == '_' || out == '-') && out == prev {
			continue
		}
		b.WriteRune(out)
		prev = out
	}
	return b.String()
}

func isAlphaNum(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r < unicode.MaxASCII && unicode.IsDigit(r))
}
