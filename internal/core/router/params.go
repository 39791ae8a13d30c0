package router

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/mohammed-shakir/spatial-index/internal/geo"
)

const (
	defaultLimit = 50
	maxLimit     = 1000
)

func parseFloat(v string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("parse float: %w", err)
	}
	return f, nil
}

func requiredFloat(r *http.Request, name string) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, geo.Invalid(name, nil, "is required")
	}
	f, err := parseFloat(raw)
	if err != nil {
		return 0, geo.Invalid(name, raw, "must be a number")
	}
	return f, nil
}

// optionalInt returns def when the parameter is absent.
func optionalInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, geo.Invalid(name, raw, "must be an integer")
	}
	return n, nil
}

func parseLocation(r *http.Request) (geo.Location, error) {
	lat, err := requiredFloat(r, "lat")
	if err != nil {
		return geo.Location{}, err
	}
	lon, err := requiredFloat(r, "lon")
	if err != nil {
		return geo.Location{}, err
	}
	return geo.NewLocation(lat, lon)
}

func parseLimit(r *http.Request) (int, error) {
	n, err := optionalInt(r, "limit", defaultLimit)
	if err != nil {
		return 0, err
	}
	if n < 1 || n > maxLimit {
		return 0, geo.Invalid("limit", n, fmt.Sprintf("must be 1..%d", maxLimit))
	}
	return n, nil
}

// parseBBOX reads west,south,east,north with an optional trailing
// EPSG:4326. A west edge greater than the east edge crosses the date line.
func parseBBOX(bboxParam string) (geo.BoundingBox, error) {
	parts := strings.Split(bboxParam, ",")
	if len(parts) != 4 && len(parts) != 5 {
		return geo.BoundingBox{}, errors.New("expected 4 or 5 comma-separated values: west,south,east,north[,EPSG:4326]")
	}
	var v [4]float64
	for i, name := range []string{"west", "south", "east", "north"} {
		f, err := parseFloat(parts[i])
		if err != nil {
			return geo.BoundingBox{}, fmt.Errorf("%s: %w", name, err)
		}
		v[i] = f
	}
	if len(parts) == 5 {
		srid := strings.ToUpper(strings.TrimSpace(parts[4]))
		if srid != "EPSG:4326" {
			return geo.BoundingBox{}, fmt.Errorf("only EPSG:4326 is supported (got %q)", srid)
		}
	}
	return geo.BoxFromEdges(v[1], v[0], v[3], v[2])
}

func requiredBBOX(r *http.Request) (geo.BoundingBox, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("bbox"))
	if raw == "" {
		return geo.BoundingBox{}, geo.Invalid("bbox", nil, "is required")
	}
	box, err := parseBBOX(raw)
	if err != nil {
		if errors.Is(err, geo.ErrInvalidArgument) {
			return geo.BoundingBox{}, err
		}
		return geo.BoundingBox{}, geo.Invalid("bbox", raw, err.Error())
	}
	return box, nil
}
