package h3mapper

import (
	"fmt"
	"sort"
)

// ToParent returns the ancestor of cell at parentRes.
func (m *Mapper) ToParent(cell string, parentRes int) (string, error) {
	if err := validateRes(parentRes); err != nil {
		return "", err
	}
	c, err := ParseCell(cell)
	if err != nil {
		return "", fmt.Errorf("parse cell: %w", err)
	}
	if parentRes > c.Resolution {
		return "", fmt.Errorf("parentRes %d must be <= cell resolution %d", parentRes, c.Resolution)
	}
	if parentRes == c.Resolution {
		return c.Index, nil
	}
	return c.parentAt(parentRes).Index, nil
}

// ToChildren returns every descendant of cell at childRes, sorted.
func (m *Mapper) ToChildren(cell string, childRes int) ([]string, error) {
	if err := validateRes(childRes); err != nil {
		return nil, err
	}
	c, err := ParseCell(cell)
	if err != nil {
		return nil, fmt.Errorf("parse cell: %w", err)
	}
	if childRes < c.Resolution {
		return nil, fmt.Errorf("childRes %d must be >= cell resolution %d", childRes, c.Resolution)
	}

	level := []Cell{c}
	for r := c.Resolution; r < childRes; r++ {
		next := make([]Cell, 0, len(level)*7)
		for _, p := range level {
			kids, err := p.Children()
			if err != nil {
				return nil, fmt.Errorf("h3 children: %w", err)
			}
			next = append(next, kids...)
		}
		level = next
	}

	out := indexes(level)
	// return sorted children
	sort.Strings(out)
	return out, nil
}
