package trip

import "time"

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

type Trip struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Title           string     `json:"title,omitempty"`
	Description     string     `json:"description,omitempty"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	StartLatitude   float64    `json:"start_latitude"`
	StartLongitude  float64    `json:"start_longitude"`
	EndLatitude     *float64   `json:"end_latitude,omitempty"`
	EndLongitude    *float64   `json:"end_longitude,omitempty"`
	TotalDistanceKm float64    `json:"total_distance"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Point is one recorded GPS sample of a trip. Altitude, speed and accuracy
// are informational and never enter the distance computation.
type Point struct {
	ID        int64     `json:"id"`
	TripID    string    `json:"trip_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Altitude  float64   `json:"altitude,omitempty"`
	Speed     float64   `json:"speed,omitempty"`
	Accuracy  float64   `json:"accuracy,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type StartInput struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
}

type PointInput struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Altitude  float64   `json:"altitude"`
	Speed     float64   `json:"speed"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

type StopInput struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

// UpdateResult reports the trip state after a location update and whether a
// stop geofence ended the trip as part of the same call.
type UpdateResult struct {
	Trip        Trip   `json:"trip"`
	AutoStopped bool   `json:"auto_stopped"`
	StoppedBy   string `json:"stopped_by,omitempty"`
}
