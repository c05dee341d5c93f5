package settings

// Sync methods the mobile client can pick from. Only stored here; actual
// sync is handled by the client.
const (
	SyncCloud  = "cloud"
	SyncLAN    = "lan"
	SyncManual = "manual"
)

type Settings struct {
	UserID                    string  `json:"user_id"`
	AutoStartTrips            bool    `json:"auto_start_trips"`
	AutoStopAtGeofences       bool    `json:"auto_stop_at_geofences"`
	LocationUpdateIntervalSec int     `json:"location_update_interval"`
	DistanceThresholdKm       float64 `json:"distance_threshold"`
	EnableNotifications       bool    `json:"enable_notifications"`
	SyncMethod                string  `json:"sync_method"`
}

// Defaults mirrors the row created for every new user at registration.
func Defaults(userID string) Settings {
	return Settings{
		UserID:                    userID,
		AutoStartTrips:            false,
		AutoStopAtGeofences:       true,
		LocationUpdateIntervalSec: 30,
		DistanceThresholdKm:       0.01,
		EnableNotifications:       true,
		SyncMethod:                SyncCloud,
	}
}
