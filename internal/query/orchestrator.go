// Package query runs radius and box searches against a range-queryable
// store. GeoHash indexes are read with one key range; S2 and H3 indexes are
// read one covering cell at a time, fanned out over a worker pool and paged
// with a resumable cursor.
package query

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mohammed-shakir/spatial-index/internal/cache/keys"
	"github.com/mohammed-shakir/spatial-index/internal/core/observability"
	"github.com/mohammed-shakir/spatial-index/internal/covering"
	"github.com/mohammed-shakir/spatial-index/internal/geo"
	"github.com/mohammed-shakir/spatial-index/internal/mapper"
	geohashmapper "github.com/mohammed-shakir/spatial-index/internal/mapper/geohash"
	"github.com/mohammed-shakir/spatial-index/internal/store"
)

var tracer = otel.Tracer("spatial-index/query")

const (
	DefaultWorkers  = 8
	DefaultMaxCells = 128

	StrategyRange  = "range"
	StrategyFanout = "fanout"
)

type Option func(*Orchestrator)

// WithIndex names the store index rows were written to. The default is the
// index kind.
func WithIndex(name string) Option {
	return func(o *Orchestrator) {
		if name != "" {
			o.index = name
		}
	}
}

func WithPrecision(p int) Option {
	return func(o *Orchestrator) { o.precision = p }
}

func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

func WithMaxCells(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxCells = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// Orchestrator holds no per-query state and is safe for concurrent use.
type Orchestrator struct {
	st        store.Interface
	m         mapper.Interface
	cov       covering.Interface
	index     string
	precision int
	workers   int
	maxCells  int
	logger    *slog.Logger
}

// New returns an orchestrator for rows indexed by m at the configured
// precision. A nil cov uses an uncached covering.New(m).
func New(st store.Interface, m mapper.Interface, cov covering.Interface, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		st:        st,
		m:         m,
		cov:       cov,
		index:     m.Kind().String(),
		precision: m.Kind().DefaultPrecision(),
		workers:   DefaultWorkers,
		maxCells:  DefaultMaxCells,
		logger:    slog.Default(),
	}
	for _, f := range opts {
		f(o)
	}
	if o.cov == nil {
		o.cov = covering.New(m, covering.WithLogger(o.logger))
	}
	return o
}

func (o *Orchestrator) Kind() mapper.Kind { return o.m.Kind() }
func (o *Orchestrator) Index() string     { return o.index }
func (o *Orchestrator) Precision() int    { return o.precision }

type RadiusRequest struct {
	Center   geo.Location
	RadiusKm float64
	Limit    int
	Cursor   string
}

type BoxRequest struct {
	Box    geo.BoundingBox
	Limit  int
	Cursor string
}

// Hit is a stored item with its distance from the query center.
type Hit struct {
	ID         string          `json:"id"`
	Cell       string          `json:"cell"`
	Key        string          `json:"key"`
	Location   geo.Location    `json:"location"`
	Data       json.RawMessage `json:"data,omitempty"`
	DistanceKm float64         `json:"distance_km"`
}

type Stats struct {
	Strategy        string `json:"strategy"`
	CellsCovered    int    `json:"cells_covered"`
	CellsScanned    int    `json:"cells_scanned"`
	QueriesExecuted int    `json:"queries_executed"`
	ItemsExamined   int    `json:"items_examined"`
}

// Result is one page. An empty Cursor means the query is exhausted.
type Result struct {
	Items  []Hit  `json:"items"`
	Cursor string `json:"cursor,omitempty"`
	Stats  Stats  `json:"stats"`
}

// region is the shape a hit must fall in.
type region struct {
	center   geo.Location
	radiusKm float64
	box      geo.BoundingBox
	isRadius bool
}

func (r region) keep(loc geo.Location) (float64, bool) {
	d := geo.DistanceKm(r.center, loc)
	if r.isRadius {
		return d, d <= r.radiusKm
	}
	return d, r.box.Contains(loc)
}

func (o *Orchestrator) QueryRadius(ctx context.Context, req RadiusRequest) (Result, error) {
	if _, err := geo.NewLocation(req.Center.Lat, req.Center.Lon); err != nil {
		return Result{}, err
	}
	box, err := geo.RadiusBox(req.Center, req.RadiusKm)
	if err != nil {
		return Result{}, err
	}
	reg := region{center: req.Center, radiusKm: req.RadiusKm, box: box, isRadius: true}
	return o.run(ctx, "query-radius", reg, req.Limit, req.Cursor, func() ([]covering.Cell, error) {
		return o.cov.ForRadius(req.Center, req.RadiusKm, o.precision, o.maxCells)
	})
}

func (o *Orchestrator) QueryBox(ctx context.Context, req BoxRequest) (Result, error) {
	box, err := geo.NewBoundingBox(req.Box.SouthWest, req.Box.NorthEast)
	if err != nil {
		return Result{}, err
	}
	reg := region{center: box.Center(), box: box}
	return o.run(ctx, "query-box", reg, req.Limit, req.Cursor, func() ([]covering.Cell, error) {
		return o.cov.ForBoundingBox(box, o.precision, o.maxCells)
	})
}

func (o *Orchestrator) run(ctx context.Context, name string, reg region, limit int, rawCursor string, cover func() ([]covering.Cell, error)) (Result, error) {
	if limit <= 0 {
		return Result{}, geo.Invalid("limit", limit, "must be positive")
	}
	var cur Cursor
	if rawCursor != "" {
		c, err := DecodeCursor(rawCursor)
		if err != nil {
			return Result{}, err
		}
		cur = c
	}

	strategy := StrategyFanout
	if o.m.Kind() == mapper.GeoHash {
		strategy = StrategyRange
	}

	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("index", o.index),
		attribute.String("kind", o.m.Kind().String()),
		attribute.String("strategy", strategy),
	))
	defer span.End()

	start := time.Now()
	var (
		res Result
		err error
	)
	if strategy == StrategyRange {
		res, err = o.rangeScan(ctx, reg, limit, cur)
	} else {
		res, err = o.fanout(ctx, reg, limit, cur, cover)
	}
	dur := time.Since(start)
	res.Stats.Strategy = strategy

	observability.ObserveQuery(o.m.Kind().String(), strategy, res.Stats.QueriesExecuted, len(res.Items), err, dur.Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}
	span.SetAttributes(
		attribute.Int("cells", res.Stats.CellsCovered),
		attribute.Int("queries", res.Stats.QueriesExecuted),
		attribute.Int("items", len(res.Items)),
	)
	o.logger.Debug("spatial query",
		"index", o.index, "kind", o.m.Kind().String(), "strategy", strategy,
		"cells", res.Stats.CellsCovered, "queries", res.Stats.QueriesExecuted,
		"items", len(res.Items), "more", res.Cursor != "", "dur", dur.String())
	return res, nil
}

// rangeScan reads the single lexicographic range enclosing the region, then
// keeps what is really inside it, nearest first.
func (o *Orchestrator) rangeScan(ctx context.Context, reg region, limit int, cur Cursor) (Result, error) {
	if cur.CellIndex != 0 {
		return Result{}, fmt.Errorf("cell %d of 1: %w", cur.CellIndex, ErrCursorOutOfRange)
	}
	lo, hi, err := geohashmapper.RangeForBox(reg.box, o.precision)
	if err != nil {
		return Result{}, err
	}
	start, end := keys.HashRange(lo, hi)
	after := ""
	if cur.LastEvaluatedKey != nil {
		after = *cur.LastEvaluatedKey
	}

	page, err := o.st.Query(ctx, o.index, store.Range{Start: start, End: end}, limit, after)
	if err != nil {
		return Result{}, fmt.Errorf("range [%s, %s]: %w", lo, hi, err)
	}

	res := Result{Stats: Stats{CellsCovered: 1, CellsScanned: 1, QueriesExecuted: 1, ItemsExamined: len(page.Items)}}
	for _, it := range page.Items {
		if d, ok := reg.keep(it.Location); ok {
			res.Items = append(res.Items, newHit(it, d))
		}
	}
	SortHits(res.Items)

	if page.LastEvaluatedKey != "" {
		if res.Cursor, err = EncodeCursor(Cursor{LastEvaluatedKey: keyPtr(page.LastEvaluatedKey)}); err != nil {
			return Result{}, err
		}
	}
	return res, nil
}

// fanout walks the covering in cell order until limit hits are collected.
// Cells are fetched a window at a time; a cell holding more rows than one
// page is read on inline.
func (o *Orchestrator) fanout(ctx context.Context, reg region, limit int, cur Cursor, cover func() ([]covering.Cell, error)) (Result, error) {
	cells, err := cover()
	if err != nil {
		return Result{}, err
	}
	if cur.CellIndex >= len(cells) {
		return Result{}, fmt.Errorf("cell %d of %d: %w", cur.CellIndex, len(cells), ErrCursorOutOfRange)
	}

	res := Result{Stats: Stats{CellsCovered: len(cells)}}
	var next *Cursor
	remaining := limit
	pos := cur.CellIndex
	after := ""
	if cur.LastEvaluatedKey != nil {
		after = *cur.LastEvaluatedKey
	}

walk:
	for pos < len(cells) && remaining > 0 {
		base := pos
		jobs := make([]cellJob, min(o.workers, len(cells)-base))
		for i := range jobs {
			jobs[i] = cellJob{pos: base + i, cell: cells[base+i].ID, limit: remaining}
		}
		jobs[0].after = after

		pages, err := o.fetchCells(ctx, jobs)
		if err != nil {
			return Result{}, err
		}
		res.Stats.QueriesExecuted += len(jobs)

		for i, page := range pages {
			p := base + i
			res.Stats.CellsScanned++
			for {
				for j, it := range page.Items {
					res.Stats.ItemsExamined++
					if d, ok := reg.keep(it.Location); ok {
						res.Items = append(res.Items, newHit(it, d))
						remaining--
					}
					if remaining > 0 {
						continue
					}
					if j < len(page.Items)-1 || page.LastEvaluatedKey != "" {
						next = &Cursor{CellIndex: p, LastEvaluatedKey: keyPtr(it.Key)}
					} else if p+1 < len(cells) {
						next = &Cursor{CellIndex: p + 1}
					}
					break walk
				}
				if page.LastEvaluatedKey == "" {
					break
				}
				page, err = o.fetchCell(ctx, cellJob{pos: p, cell: cells[p].ID, after: page.LastEvaluatedKey, limit: remaining})
				res.Stats.QueriesExecuted++
				if err != nil {
					return Result{}, err
				}
			}
		}
		pos = base + len(pages)
		after = ""
	}

	if next != nil {
		if res.Cursor, err = EncodeCursor(*next); err != nil {
			return Result{}, err
		}
	}
	return res, nil
}

func newHit(it store.Item, distKm float64) Hit {
	cell, _, _ := keys.SplitRowKey(it.Key)
	return Hit{
		ID:         it.ID,
		Cell:       cell,
		Key:        it.Key,
		Location:   it.Location,
		Data:       it.Data,
		DistanceKm: distKm,
	}
}

// SortHits orders hits by distance, then key.
func SortHits(hs []Hit) {
	slices.SortFunc(hs, func(a, b Hit) int {
		return cmp.Or(cmp.Compare(a.DistanceKm, b.DistanceKm), strings.Compare(a.Key, b.Key))
	})
}
