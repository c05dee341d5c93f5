package geofence

import "time"

// Actions a geofence can request when a trip point enters it.
const (
	ActionStop   = "stop"
	ActionStart  = "start"
	ActionNotify = "notify"
)

type Geofence struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	RadiusM     float64   `json:"radius_m"`
	Action      string    `json:"action"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Firing is one evaluator result: a geofence and whether the point fell
// inside it.
type Firing struct {
	Geofence Geofence `json:"geofence"`
	Fired    bool     `json:"fired"`
}
