package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/mohammed-shakir/spatial-index/internal/cache/keys"
	"github.com/mohammed-shakir/spatial-index/internal/core/observability"
	"github.com/mohammed-shakir/spatial-index/internal/geo"
	"github.com/mohammed-shakir/spatial-index/internal/mapper"
	"github.com/mohammed-shakir/spatial-index/internal/store"
)

// Target is one index an item is written to.
type Target struct {
	Index     string
	Mapper    mapper.Interface
	Precision int
}

// Indexer writes each item under every target. It keeps no state of its own;
// moving an item needs its previous location to drop the old rows.
type Indexer struct {
	st      store.Interface
	targets []Target
	logger  *slog.Logger
}

func NewIndexer(st store.Interface, logger *slog.Logger, targets ...Target) (*Indexer, error) {
	if st == nil {
		return nil, errors.New("ingest: store is required")
	}
	if len(targets) == 0 {
		return nil, errors.New("ingest: at least one target is required")
	}
	for _, t := range targets {
		if t.Index == "" || t.Mapper == nil {
			return nil, fmt.Errorf("ingest: target %+v needs an index and a mapper", t)
		}
		if err := t.Mapper.ValidatePrecision(t.Precision); err != nil {
			return nil, fmt.Errorf("ingest: target %s: %w", t.Index, err)
		}
	}
	if dup := lo.FindDuplicatesBy(targets, func(t Target) string { return t.Index }); len(dup) > 0 {
		return nil, fmt.Errorf("ingest: index %s configured twice", dup[0].Index)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{st: st, targets: targets, logger: logger}, nil
}

func (ix *Indexer) Targets() []Target { return ix.targets }

func rowKey(t Target, id string, loc geo.Location) (string, error) {
	cell, err := t.Mapper.Encode(loc, t.Precision)
	if err != nil {
		return "", fmt.Errorf("%s: %w", t.Index, err)
	}
	return keys.RowKey(cell, id), nil
}

// Upsert writes id at loc under every target and removes the rows left at
// prev when the cell changed. It returns the number of rows written.
func (ix *Indexer) Upsert(ctx context.Context, id string, loc geo.Location, data json.RawMessage, prev *geo.Location) (int, error) {
	rows := 0
	for _, t := range ix.targets {
		key, err := rowKey(t, id, loc)
		if err != nil {
			return rows, err
		}
		item := store.Item{Key: key, ID: id, Location: loc, Data: data}
		if err := ix.st.Put(ctx, t.Index, item); err != nil {
			return rows, fmt.Errorf("put %s into %s: %w", key, t.Index, err)
		}
		rows++

		if prev == nil {
			continue
		}
		old, err := rowKey(t, id, *prev)
		if err != nil {
			return rows, err
		}
		if old != key {
			if err := ix.st.Delete(ctx, t.Index, old); err != nil {
				return rows, fmt.Errorf("delete %s from %s: %w", old, t.Index, err)
			}
		}
	}
	return rows, nil
}

// Delete removes id's rows for each of locs under every target.
func (ix *Indexer) Delete(ctx context.Context, id string, locs ...geo.Location) (int, error) {
	rows := 0
	for _, t := range ix.targets {
		ks := make([]string, 0, len(locs))
		for _, l := range locs {
			k, err := rowKey(t, id, l)
			if err != nil {
				return rows, err
			}
			ks = append(ks, k)
		}
		ks = lo.Uniq(ks)
		if err := ix.st.Delete(ctx, t.Index, ks...); err != nil {
			return rows, fmt.Errorf("delete %s from %s: %w", id, t.Index, err)
		}
		rows += len(ks)
	}
	return rows, nil
}

// Apply validates ev and runs it.
func (ix *Indexer) Apply(ctx context.Context, ev LocationEvent) (int, error) {
	if err := ev.Validate(); err != nil {
		observability.ObserveIngest(0, err)
		return 0, fmt.Errorf("invalid event: %w", err)
	}
	var (
		rows int
		err  error
	)
	switch ev.Op {
	case OpUpsert:
		rows, err = ix.Upsert(ctx, ev.ID, *ev.Location, ev.Data, ev.Previous)
	case OpDelete:
		locs := []geo.Location{*ev.Location}
		if ev.Previous != nil {
			locs = append(locs, *ev.Previous)
		}
		rows, err = ix.Delete(ctx, ev.ID, locs...)
	}
	observability.ObserveIngest(rows, err)
	if err != nil {
		return rows, err
	}
	ix.logger.Debug("applied location event",
		"op", ev.Op, "id", ev.ID, "rows", rows,
		"indexes", lo.Map(ix.targets, func(t Target, _ int) string { return t.Index }))
	return rows, nil
}
