package search

import (
	"context"
	"fmt"
	"math"

	"github.com/avives/mall-dining-rag/models"
	"github.com/avives/mall-dining-rag/store"
)

const (
	metersPerDegreeLat = 111320.0
	// Walking speed calibrated for indoor mall conditions, meters per minute.
	walkingSpeed = 69.0
)

// WalkingTime estimates the walking minutes between two restaurants,
// rounded to one decimal. Restaurants without a known location resolve to
// store.ErrNotFound, as do unknown names.
func (s *Search) WalkingTime(ctx context.Context, fromName, toName string) (float64, error) {
	from, err := s.restaurants.GetByName(ctx, fromName)
	if err != nil {
		return 0, fmt.Errorf("restaurant %q: %w", fromName, err)
	}
	to, err := s.restaurants.GetByName(ctx, toName)
	if err != nil {
		return 0, fmt.Errorf("restaurant %q: %w", toName, err)
	}

	if from.Location.IsZero() {
		return 0, fmt.Errorf("restaurant %q has no location: %w", fromName, store.ErrNotFound)
	}
	if to.Location.IsZero() {
		return 0, fmt.Errorf("restaurant %q has no location: %w", toName, store.ErrNotFound)
	}

	minutes := planarMeters(from.Location, to.Location) / walkingSpeed

	return math.Round(minutes*10) / 10, nil
}

// planarMeters is a flat-earth approximation of the distance between two
// points: latitude degrees scaled to meters, longitude degrees scaled by the
// cosine of the mean latitude, combined euclideanly. Only valid at the scale
// of a single building; switch to a geodesic formula before reusing this for
// anything larger.
func planarMeters(from, to models.Location) float64 {
	avgLat := (from.Lat + to.Lat) / 2 * math.Pi / 180
	latMeters := (to.Lat - from.Lat) * metersPerDegreeLat
	lonMeters := (to.Lon - from.Lon) * metersPerDegreeLat * math.Cos(avgLat)

	return math.Hypot(latMeters, lonMeters)
}
