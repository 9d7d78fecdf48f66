package main

import (
	"errors"
	"fmt"
	"math"

	"github.com/umahmood/haversine"
)

// ErrInvalidArgument reports a query parameter outside its domain.
var ErrInvalidArgument = errors.New("invalid argument")

// Locatable is anything with a position on the map.
type Locatable interface {
	Location() Point
}

// DistanceMiles returns the great-circle distance between two points using the
// haversine formula on a sphere of radius 3958 miles. It ignores the Earth's
// flattening, so results can differ from an ellipsoidal geodesic by up to about
// half a percent.
func DistanceMiles(p, q Point) float64 {
	mi, _ := haversine.Distance(
		haversine.Coord{Lat: p.Lat, Lon: p.Lon},
		haversine.Coord{Lat: q.Lat, Lon: q.Lon},
	)
	return mi
}

// WithinRadius keeps the candidates no more than radius miles from origin, in
// their original order. Every candidate is measured; there is no pruning.
func WithinRadius[T Locatable](origin Point, radius float64, candidates []T) ([]T, error) {
	if math.IsNaN(radius) || radius < 0 {
		return nil, fmt.Errorf("radius must be a non-negative number of miles, got %v: %w", radius, ErrInvalidArgument)
	}

	nearby := make([]T, 0, len(candidates))
	for _, c := range candidates {
		if DistanceMiles(origin, c.Location()) <= radius {
			nearby = append(nearby, c)
		}
	}

	return nearby, nil
}
