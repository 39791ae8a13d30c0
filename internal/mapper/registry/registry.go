// Package registry resolves an index kind to its codec.
package registry

import (
	"fmt"

	"github.com/mohammed-shakir/spatial-index/internal/mapper"
	geohashmapper "github.com/mohammed-shakir/spatial-index/internal/mapper/geohash"
	h3mapper "github.com/mohammed-shakir/spatial-index/internal/mapper/h3"
	s2mapper "github.com/mohammed-shakir/spatial-index/internal/mapper/s2"
)

func New(kind mapper.Kind) (mapper.Interface, error) {
	switch kind {
	case mapper.GeoHash:
		return geohashmapper.New(), nil
	case mapper.S2:
		return s2mapper.New(), nil
	case mapper.H3:
		return h3mapper.New(), nil
	default:
		return nil, fmt.Errorf("unknown index kind %q", kind)
	}
}

// All returns one codec per supported kind, in a fixed order.
func All() []mapper.Interface {
	return []mapper.Interface{geohashmapper.New(), s2mapper.New(), h3mapper.New()}
}
