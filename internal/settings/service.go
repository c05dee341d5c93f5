package settings

import (
	"context"
	"errors"

	"github.com/sarag5/Trip-tracker-backend/internal/db"

	"github.com/jackc/pgx/v5"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// CreateDefaults inserts the default settings row for a new user. Safe to
// call again; an existing row is left alone.
func (s *Service) CreateDefaults(ctx context.Context, userID string) (Settings, error) {
	def := Defaults(userID)
	_, err := s.db.Exec(ctx, `
		INSERT INTO user_settings (user_id, auto_start_trips, auto_stop_at_geofences, location_update_interval, distance_threshold, enable_notifications, sync_method)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (user_id) DO NOTHING
	`, def.UserID, def.AutoStartTrips, def.AutoStopAtGeofences, def.LocationUpdateIntervalSec, def.DistanceThresholdKm, def.EnableNotifications, def.SyncMethod)
	if err != nil {
		return Settings{}, db.StorageErr(err)
	}
	return def, nil
}

// Get returns the user's settings, falling back to defaults when no row
// exists yet.
func (s *Service) Get(ctx context.Context, userID string) (Settings, error) {
	row := s.db.QueryRow(ctx, `
		SELECT user_id, auto_start_trips, auto_stop_at_geofences, location_update_interval, distance_threshold, enable_notifications, sync_method
		FROM user_settings WHERE user_id=$1
	`, userID)

	var st Settings
	err := row.Scan(&st.UserID, &st.AutoStartTrips, &st.AutoStopAtGeofences, &st.LocationUpdateIntervalSec, &st.DistanceThresholdKm, &st.EnableNotifications, &st.SyncMethod)
	if errors.Is(err, pgx.ErrNoRows) {
		return Defaults(userID), nil
	}
	if err != nil {
		return Settings{}, db.StorageErr(err)
	}
	return st, nil
}

func (s *Service) Update(ctx context.Context, input Settings) (Settings, error) {
	if input.SyncMethod == "" {
		input.SyncMethod = SyncCloud
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO user_settings (user_id, auto_start_trips, auto_stop_at_geofences, location_update_interval, distance_threshold, enable_notifications, sync_method)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (user_id) DO UPDATE SET
			auto_start_trips=EXCLUDED.auto_start_trips,
			auto_stop_at_geofences=EXCLUDED.auto_stop_at_geofences,
			location_update_interval=EXCLUDED.location_update_interval,
			distance_threshold=EXCLUDED.distance_threshold,
			enable_notifications=EXCLUDED.enable_notifications,
			sync_method=EXCLUDED.sync_method
	`, input.UserID, input.AutoStartTrips, input.AutoStopAtGeofences, input.LocationUpdateIntervalSec, input.DistanceThresholdKm, input.EnableNotifications, input.SyncMethod)
	if err != nil {
		return Settings{}, db.StorageErr(err)
	}
	return input, nil
}
