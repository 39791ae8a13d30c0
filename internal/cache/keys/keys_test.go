package keys

import (
	"regexp"
	"strings"
	"testing"
	"unicode"
)

func TestRowKey_SortsWithinCellRange(t *testing.T) {
	start, end := CellRange("892a100d2b3ffff")
	for _, id := range []string{"", "a", "zzz", "~~~", "id:with:colons"} {
		k := RowKey("892a100d2b3ffff", id)
		if k < start || k >= end {
			t.Fatalf("%q outside [%q, %q)", k, start, end)
		}
	}
	// a longer cell sharing the prefix must stay outside
	if k := RowKey("892a100d2b3ffff0", "a"); k >= start && k < end {
		t.Fatalf("%q leaked into the range of a different cell", k)
	}
	cell, id, ok := SplitRowKey("9q8yyk:place:1")
	if !ok || cell != "9q8yyk" || id != "place:1" {
		t.Fatalf("SplitRowKey = %q %q %v", cell, id, ok)
	}
}

func TestPrefixSuccessor(t *testing.T) {
	cases := map[string]string{
		"9q8yyk":     "9q8yyl",
		"u4pz":       "u4p{",
		"ab\xff":     "ac",
		"\xff\xff":   "",
		"":           "",
		"89283082e3": "89283082e4",
	}
	for in, want := range cases {
		if got := PrefixSuccessor(in); got != want {
			t.Fatalf("PrefixSuccessor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHashRange_IncludesLongerKeys(t *testing.T) {
	start, end := HashRange("9q8yy", "9q8yz")
	for _, k := range []string{RowKey("9q8yy", "a"), RowKey("9q8yyk", "a"), RowKey("9q8yzzzz", "b")} {
		if k < start || k >= end {
			t.Fatalf("%q outside [%q, %q)", k, start, end)
		}
	}
	if k := RowKey("9q8z0", "a"); k < end {
		t.Fatalf("%q should sort after %q", k, end)
	}
}

func TestCoveringKey_Determinism(t *testing.T) {
	k1 := CoveringKey("h3", "radius", 9, 64, 37.7749, -122.4194, 5)
	k2 := CoveringKey("h3", "radius", 9, 64, 37.7749, -122.4194, 5)
	if k1 != k2 {
		t.Fatalf("determinism failed:\n k1=%s\n k2=%s", k1, k2)
	}
	if !regexp.MustCompile(`^[A-Za-z0-9:_=\-]+$`).MatchString(k1) {
		t.Fatalf("key contains disallowed characters: %s", k1)
	}
	if !regexp.MustCompile(`:f=[0-9a-f]{16}$`).MatchString(k1) {
		t.Fatalf("missing :f=<hex64> suffix: %s", k1)
	}
}

func TestCoveringKey_Differences(t *testing.T) {
	base := CoveringKey("h3", "radius", 9, 64, 37.7749, -122.4194, 5)
	variants := []string{
		CoveringKey("s2", "radius", 9, 64, 37.7749, -122.4194, 5),
		CoveringKey("h3", "box", 9, 64, 37.7749, -122.4194, 5),
		CoveringKey("h3", "radius", 8, 64, 37.7749, -122.4194, 5),
		CoveringKey("h3", "radius", 9, 32, 37.7749, -122.4194, 5),
		CoveringKey("h3", "radius", 9, 64, 37.7749, -122.4194, 5.000001),
		CoveringKey("h3", "radius", 9, 64, -122.4194, 37.7749, 5),
	}
	for _, v := range variants {
		if v == base {
			t.Fatalf("distinct requests share key %s", v)
		}
	}
}

func TestIndexKey_Sanitized(t *testing.T) {
	k := IndexKey("geoindex", "  my places:Göteborg ")
	for _, r := range k {
		if r > unicode.MaxASCII {
			t.Fatalf("non-ASCII rune leaked into key: %q in %s", r, k)
		}
	}
	if k != "geoindex:my_places-G-teborg" {
		t.Fatalf("IndexKey = %q", k)
	}
	if strings.Count(k, ":") != 1 {
		t.Fatalf("index name must not add separators: %s", k)
	}
}
