package geofence

import "github.com/sarag5/Trip-tracker-backend/internal/geo"

// Evaluate checks a point against a user's geofences and reports every
// firing in input order. Inactive fences never fire. When several stop
// fences fire at once the caller takes the first one; that first-fired-wins
// policy lives with the caller, not here.
func Evaluate(lat, lng float64, fences []Geofence) []Firing {
	firings := make([]Firing, 0, len(fences))
	for _, f := range fences {
		fired := f.IsActive && geo.WithinRadius(lat, lng, f.Latitude, f.Longitude, f.RadiusM)
		firings = append(firings, Firing{Geofence: f, Fired: fired})
	}
	return firings
}

// FirstFired returns the first fired geofence requesting the given action.
func FirstFired(firings []Firing, action string) (Geofence, bool) {
	for _, fr := range firings {
		if fr.Fired && fr.Geofence.Action == action {
			return fr.Geofence, true
		}
	}
	return Geofence{}, false
}
