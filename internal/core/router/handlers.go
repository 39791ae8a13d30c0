package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/mohammed-shakir/spatial-index/internal/covering"
	"github.com/mohammed-shakir/spatial-index/internal/geo"
	mylog "github.com/mohammed-shakir/spatial-index/internal/logger"
	"github.com/mohammed-shakir/spatial-index/internal/mapper"
	"github.com/mohammed-shakir/spatial-index/internal/query"
)

// maxChildren caps how many descendants one children request may expand to.
const maxChildren = 4096

var branching = map[mapper.Kind]float64{mapper.GeoHash: 32, mapper.S2: 4, mapper.H3: 7}

type cellView struct {
	Kind      mapper.Kind     `json:"kind"`
	Cell      string          `json:"cell"`
	Precision int             `json:"precision"`
	Center    geo.Location    `json:"center"`
	Bounds    geo.BoundingBox `json:"bounds"`
}

type cellsView struct {
	Kind  mapper.Kind `json:"kind"`
	Cell  string      `json:"cell"`
	Cells []string    `json:"cells"`
}

type coverView struct {
	Kind      mapper.Kind     `json:"kind"`
	Precision int             `json:"precision"`
	Count     int             `json:"count"`
	Cells     []covering.Cell `json:"cells"`
}

type queryView struct {
	Index string      `json:"index"`
	Kind  mapper.Kind `json:"kind"`
	query.Result
}

func describe(m mapper.Interface, cell string) (cellView, error) {
	cell = strings.ToLower(strings.TrimSpace(cell))
	p, err := m.Precision(cell)
	if err != nil {
		return cellView{}, err
	}
	center, err := m.Decode(cell)
	if err != nil {
		return cellView{}, err
	}
	b, err := m.Bounds(cell)
	if err != nil {
		return cellView{}, err
	}
	return cellView{Kind: m.Kind(), Cell: cell, Precision: p, Center: center, Bounds: b}, nil
}

func (a *API) encode(r *http.Request) (any, error) {
	m, err := a.mapperFor(chi.URLParam(r, "kind"))
	if err != nil {
		return nil, err
	}
	loc, err := parseLocation(r)
	if err != nil {
		return nil, err
	}
	p, err := optionalInt(r, "precision", m.Kind().DefaultPrecision())
	if err != nil {
		return nil, err
	}
	cell, err := m.Encode(loc, p)
	if err != nil {
		return nil, err
	}
	return describe(m, cell)
}

func (a *API) cell(r *http.Request) (any, error) {
	m, err := a.mapperFor(chi.URLParam(r, "kind"))
	if err != nil {
		return nil, err
	}
	return describe(m, chi.URLParam(r, "cell"))
}

func (a *API) neighbors(r *http.Request) (any, error) {
	m, err := a.mapperFor(chi.URLParam(r, "kind"))
	if err != nil {
		return nil, err
	}
	cell := strings.ToLower(chi.URLParam(r, "cell"))
	ns, err := m.Neighbors(cell)
	if err != nil {
		return nil, err
	}
	return cellsView{Kind: m.Kind(), Cell: cell, Cells: ns}, nil
}

type multiResParent interface {
	ToParent(cell string, res int) (string, error)
}

type multiResChildren interface {
	ToChildren(cell string, res int) ([]string, error)
}

func (a *API) parent(r *http.Request) (any, error) {
	m, err := a.mapperFor(chi.URLParam(r, "kind"))
	if err != nil {
		return nil, err
	}
	cell := strings.ToLower(chi.URLParam(r, "cell"))
	p, err := m.Precision(cell)
	if err != nil {
		return nil, err
	}
	minP, _ := m.Kind().PrecisionRange()
	if p == minP {
		return nil, fmt.Errorf("%s %s: %w", m.Kind(), cell, mapper.ErrNoParent)
	}
	res, err := optionalInt(r, "res", p-1)
	if err != nil {
		return nil, err
	}
	if res < minP || res >= p {
		return nil, geo.Invalid("res", res, fmt.Sprintf("must be %d..%d", minP, p-1))
	}

	var out string
	if mr, ok := m.(multiResParent); ok {
		out, err = mr.ToParent(cell, res)
	} else {
		out = cell
		for i := p; i > res && err == nil; i-- {
			out, err = m.Parent(out)
		}
	}
	if err != nil {
		return nil, err
	}
	return describe(m, out)
}

func (a *API) children(r *http.Request) (any, error) {
	m, err := a.mapperFor(chi.URLParam(r, "kind"))
	if err != nil {
		return nil, err
	}
	cell := strings.ToLower(chi.URLParam(r, "cell"))
	p, err := m.Precision(cell)
	if err != nil {
		return nil, err
	}
	_, hi := m.Kind().PrecisionRange()
	if p == hi {
		return nil, fmt.Errorf("%s %s: %w", m.Kind(), cell, mapper.ErrNoChildren)
	}
	res, err := optionalInt(r, "res", p+1)
	if err != nil {
		return nil, err
	}
	if res <= p || res > hi {
		return nil, geo.Invalid("res", res, fmt.Sprintf("must be %d..%d", p+1, hi))
	}
	if math.Pow(branching[m.Kind()], float64(res-p)) > maxChildren {
		return nil, geo.Invalid("res", res, fmt.Sprintf("expands to more than %d cells", maxChildren))
	}

	var out []string
	if mr, ok := m.(multiResChildren); ok {
		out, err = mr.ToChildren(cell, res)
	} else {
		out = []string{cell}
		for i := p; i < res && err == nil; i++ {
			var errs []error
			out = lo.FlatMap(out, func(c string, _ int) []string {
				kids, err := m.Children(c)
				if err != nil {
					errs = append(errs, err)
				}
				return kids
			})
			err = errors.Join(errs...)
		}
	}
	if err != nil {
		return nil, err
	}
	return cellsView{Kind: m.Kind(), Cell: cell, Cells: out}, nil
}

func (a *API) cover(r *http.Request) (any, error) {
	k := a.primary
	if raw := r.URL.Query().Get("kind"); raw != "" {
		var err error
		if k, err = mapper.ParseKind(raw); err != nil {
			return nil, err
		}
	}
	defPrecision := k.DefaultPrecision()
	if q, ok := a.queries[k]; ok {
		defPrecision = q.Precision()
	}
	p, err := optionalInt(r, "precision", defPrecision)
	if err != nil {
		return nil, err
	}
	maxCells, err := optionalInt(r, "max_cells", a.maxCells)
	if err != nil {
		return nil, err
	}

	cov := a.coverers[k]
	var cells []covering.Cell
	switch {
	case r.URL.Query().Has("radius_km"):
		center, err := parseLocation(r)
		if err != nil {
			return nil, err
		}
		radius, err := requiredFloat(r, "radius_km")
		if err != nil {
			return nil, err
		}
		cells, err = cov.ForRadius(center, radius, p, maxCells)
		if err != nil {
			return nil, err
		}
	case r.URL.Query().Has("bbox"):
		box, err := requiredBBOX(r)
		if err != nil {
			return nil, err
		}
		cells, err = cov.ForBoundingBox(box, p, maxCells)
		if err != nil {
			return nil, err
		}
	default:
		return nil, geo.Invalid("region", nil, "radius_km with lat/lon, or bbox, is required")
	}
	return coverView{Kind: k, Precision: p, Count: len(cells), Cells: cells}, nil
}

func (a *API) queryRadius(r *http.Request) (any, error) {
	q, err := a.queryFor(r)
	if err != nil {
		return nil, err
	}
	center, err := parseLocation(r)
	if err != nil {
		return nil, err
	}
	radius, err := requiredFloat(r, "radius_km")
	if err != nil {
		return nil, err
	}
	limit, err := parseLimit(r)
	if err != nil {
		return nil, err
	}

	ctx, cancel := a.withTimeout(mylog.WithIndex(r.Context(), q.Index()))
	defer cancel()
	res, err := q.QueryRadius(ctx, query.RadiusRequest{
		Center:   center,
		RadiusKm: radius,
		Limit:    limit,
		Cursor:   r.URL.Query().Get("cursor"),
	})
	if err != nil {
		return nil, err
	}
	return queryView{Index: q.Index(), Kind: q.Kind(), Result: res}, nil
}

func (a *API) queryBox(r *http.Request) (any, error) {
	q, err := a.queryFor(r)
	if err != nil {
		return nil, err
	}
	box, err := requiredBBOX(r)
	if err != nil {
		return nil, err
	}
	limit, err := parseLimit(r)
	if err != nil {
		return nil, err
	}

	ctx, cancel := a.withTimeout(mylog.WithIndex(r.Context(), q.Index()))
	defer cancel()
	res, err := q.QueryBox(ctx, query.BoxRequest{
		Box:    box,
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	})
	if err != nil {
		return nil, err
	}
	return queryView{Index: q.Index(), Kind: q.Kind(), Result: res}, nil
}

type putItemBody struct {
	Lat      *float64        `json:"lat"`
	Lon      *float64        `json:"lon"`
	Data     json.RawMessage `json:"data,omitempty"`
	Previous *geo.Location   `json:"previous,omitempty"`
}

type putItemView struct {
	ID   string `json:"id"`
	Rows int    `json:"rows"`
}

func (a *API) putItem(r *http.Request) (any, error) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		return nil, geo.Invalid("id", nil, "must not be empty")
	}
	var body putItemBody
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		return nil, geo.Invalid("body", nil, err.Error())
	}
	if body.Lat == nil || body.Lon == nil {
		return nil, geo.Invalid("body", nil, "lat and lon are required")
	}
	loc, err := geo.NewLocation(*body.Lat, *body.Lon)
	if err != nil {
		return nil, err
	}
	if body.Previous != nil {
		if _, err := geo.NewLocation(body.Previous.Lat, body.Previous.Lon); err != nil {
			return nil, err
		}
	}

	rows, err := a.writer.Upsert(r.Context(), id, loc, body.Data, body.Previous)
	if err != nil {
		return nil, err
	}
	return putItemView{ID: id, Rows: rows}, nil
}
