package trip

import (
	"errors"

	"github.com/sarag5/Trip-tracker-backend/internal/geo"
)

// ErrOutOfOrderPoint rejects points older than the trip's last recorded
// point. The point is dropped, never queued or reordered.
var ErrOutOfOrderPoint = errors.New("point is older than the trip's last recorded point")

// applyPoint folds a new point into an active trip: validates timestamp
// order against the last recorded point, computes the haversine delta and
// returns the trip with the accumulated distance. Equal timestamps are
// accepted so a stop can reuse the triggering update's point.
func applyPoint(t Trip, last Point, p Point) (Trip, float64, error) {
	if p.Timestamp.Before(last.Timestamp) {
		return t, 0, ErrOutOfOrderPoint
	}
	delta := geo.HaversineKm(last.Latitude, last.Longitude, p.Latitude, p.Longitude)
	t.TotalDistanceKm += delta
	return t, delta, nil
}

// startBaseline is the aggregation baseline for a trip with no recorded
// points yet: the trip's own start coordinates and time.
func startBaseline(t Trip) Point {
	return Point{
		TripID:    t.ID,
		Latitude:  t.StartLatitude,
		Longitude: t.StartLongitude,
		Timestamp: t.StartTime,
	}
}
