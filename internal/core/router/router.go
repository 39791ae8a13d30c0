// Package router exposes codecs, coverings and spatial queries over HTTP.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/mohammed-shakir/spatial-index/internal/core/observability"
	"github.com/mohammed-shakir/spatial-index/internal/covering"
	"github.com/mohammed-shakir/spatial-index/internal/geo"
	"github.com/mohammed-shakir/spatial-index/internal/mapper"
	"github.com/mohammed-shakir/spatial-index/internal/mapper/registry"
	"github.com/mohammed-shakir/spatial-index/internal/query"
	"github.com/mohammed-shakir/spatial-index/internal/store"
)

// errNotConfigured is returned for an index kind the server does not serve.
var errNotConfigured = errors.New("index kind not configured")

// Writer indexes one item under every configured index.
type Writer interface {
	Upsert(ctx context.Context, id string, loc geo.Location, data json.RawMessage, prev *geo.Location) (int, error)
}

type Deps struct {
	// Queries holds one orchestrator per served kind. The first is the
	// default when a request names no kind.
	Queries []*query.Orchestrator
	// Coverers overrides the uncached coverer used by /v1/cover.
	Coverers map[mapper.Kind]covering.Interface
	// Writer enables PUT /v1/items/{id} when set.
	Writer       Writer
	QueryTimeout time.Duration
	MaxCells     int
}

type API struct {
	logger   *slog.Logger
	mappers  map[mapper.Kind]mapper.Interface
	coverers map[mapper.Kind]covering.Interface
	queries  map[mapper.Kind]*query.Orchestrator
	primary  mapper.Kind
	writer   Writer
	timeout  time.Duration
	maxCells int
}

func New(logger *slog.Logger, d Deps) *API {
	if logger == nil {
		logger = slog.Default()
	}
	a := &API{
		logger:   logger,
		mappers:  lo.KeyBy(registry.All(), func(m mapper.Interface) mapper.Kind { return m.Kind() }),
		coverers: make(map[mapper.Kind]covering.Interface),
		queries:  lo.KeyBy(d.Queries, func(q *query.Orchestrator) mapper.Kind { return q.Kind() }),
		writer:   d.Writer,
		timeout:  d.QueryTimeout,
		maxCells: d.MaxCells,
		primary:  mapper.H3,
	}
	if len(d.Queries) > 0 {
		a.primary = d.Queries[0].Kind()
	}
	if a.maxCells <= 0 {
		a.maxCells = query.DefaultMaxCells
	}
	for k, m := range a.mappers {
		if cov, ok := d.Coverers[k]; ok && cov != nil {
			a.coverers[k] = cov
			continue
		}
		a.coverers[k] = covering.New(m, covering.WithLogger(logger))
	}
	return a
}

// Mount registers the /v1 routes on r.
func (a *API) Mount(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/{kind}/encode", a.handle("/v1/{kind}/encode", a.encode))
		r.Get("/{kind}/cells/{cell}", a.handle("/v1/{kind}/cells/{cell}", a.cell))
		r.Get("/{kind}/cells/{cell}/neighbors", a.handle("/v1/{kind}/cells/{cell}/neighbors", a.neighbors))
		r.Get("/{kind}/cells/{cell}/parent", a.handle("/v1/{kind}/cells/{cell}/parent", a.parent))
		r.Get("/{kind}/cells/{cell}/children", a.handle("/v1/{kind}/cells/{cell}/children", a.children))
		r.Get("/cover", a.handle("/v1/cover", a.cover))
		r.Get("/query/radius", a.handle("/v1/query/radius", a.queryRadius))
		r.Get("/query/box", a.handle("/v1/query/box", a.queryBox))
		if a.writer != nil {
			r.Put("/items/{id}", a.handle("/v1/items/{id}", a.putItem))
		}
	})
}

type apiFunc func(r *http.Request) (any, error)

// handle writes fn's result as JSON and records the request under route.
func (a *API) handle(route string, fn apiFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}

		out, err := fn(r)
		if err != nil {
			a.writeError(sw, r, err)
		} else {
			writeJSON(sw, http.StatusOK, out)
		}
		observability.ObserveHTTP(r.Method, route, sw.code, time.Since(start).Seconds())
	}
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
	Param string `json:"param,omitempty"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, geo.ErrInvalidArgument),
		errors.Is(err, query.ErrInvalidCursor),
		errors.Is(err, query.ErrCursorOutOfRange),
		errors.Is(err, store.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, covering.ErrTooManySamples):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errNotConfigured),
		errors.Is(err, mapper.ErrNoParent),
		errors.Is(err, mapper.ErrNoChildren):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	body := errorBody{Error: err.Error()}
	var ve *geo.ValidationError
	if errors.As(err, &ve) {
		body.Param = ve.Param
	}
	if code >= http.StatusInternalServerError {
		a.logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path, "status", code, "err", err)
		if code == http.StatusInternalServerError {
			body.Error = "internal error"
		}
	}
	writeJSON(w, code, body)
}

func (a *API) mapperFor(raw string) (mapper.Interface, error) {
	k, err := mapper.ParseKind(raw)
	if err != nil {
		return nil, err
	}
	return a.mappers[k], nil
}

// queryFor resolves the optional kind parameter to a served index.
func (a *API) queryFor(r *http.Request) (*query.Orchestrator, error) {
	k := a.primary
	if raw := r.URL.Query().Get("kind"); raw != "" {
		var err error
		if k, err = mapper.ParseKind(raw); err != nil {
			return nil, err
		}
	}
	q, ok := a.queries[k]
	if !ok {
		served := lo.Map(lo.Keys(a.queries), func(k mapper.Kind, _ int) string { return k.String() })
		return nil, fmt.Errorf("%s (serving %v): %w", k, served, errNotConfigured)
	}
	return q, nil
}

func (a *API) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}
