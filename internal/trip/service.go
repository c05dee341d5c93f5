package trip

import (
	"context"
	"errors"
	"time"

	"github.com/sarag5/Trip-tracker-backend/internal/db"
	"github.com/sarag5/Trip-tracker-backend/internal/geofence"
	"github.com/sarag5/Trip-tracker-backend/internal/lock"
	"github.com/sarag5/Trip-tracker-backend/internal/settings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrTripAlreadyActive = errors.New("user already has an active trip")
	ErrNoActiveTrip      = errors.New("no active trip found")
	ErrNotFound          = errors.New("trip not found")
	ErrInvalidPoint      = errors.New("invalid coordinates")
)

// Service is the trip lifecycle manager. Start, Update and Stop each run
// under the per-user lock so at most one trip is active per user and
// distance accumulation stays monotonic under concurrent requests. Their
// writes run in a single transaction so a failed operation leaves no
// partial state behind.
type Service struct {
	db       db.Querier
	fences   *geofence.Service
	settings *settings.Service
	locks    lock.Locker
}

func NewService(q db.Querier, fences *geofence.Service, st *settings.Service, locks lock.Locker) *Service {
	return &Service{db: q, fences: fences, settings: st, locks: locks}
}

func validCoords(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func (s *Service) Start(ctx context.Context, userID string, in StartInput) (Trip, error) {
	if !validCoords(in.Latitude, in.Longitude) {
		return Trip{}, ErrInvalidPoint
	}

	release, err := s.locks.Acquire(ctx, userID)
	if err != nil {
		return Trip{}, err
	}
	defer release()

	_, err = s.activeTrip(ctx, userID)
	if err == nil {
		return Trip{}, ErrTripAlreadyActive
	}
	if !errors.Is(err, ErrNoActiveTrip) {
		return Trip{}, err
	}

	now := time.Now().UTC()
	t := Trip{
		ID:             uuid.NewString(),
		UserID:         userID,
		Title:          in.Title,
		Description:    in.Description,
		StartTime:      now,
		StartLatitude:  in.Latitude,
		StartLongitude: in.Longitude,
		Status:         StatusActive,
	}

	err = s.inTx(ctx, func(q db.Executor) error {
		row := q.QueryRow(ctx, `
			INSERT INTO trips (id, user_id, title, description, start_time, start_latitude, start_longitude, total_distance_km, status)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			RETURNING created_at
		`, t.ID, t.UserID, t.Title, t.Description, t.StartTime, t.StartLatitude, t.StartLongitude, t.TotalDistanceKm, t.Status)
		if err := row.Scan(&t.CreatedAt); err != nil {
			return db.StorageErr(err)
		}
		_, err := insertPoint(ctx, q, Point{
			TripID:    t.ID,
			Latitude:  in.Latitude,
			Longitude: in.Longitude,
			Timestamp: now,
		})
		return err
	})
	if err != nil {
		return Trip{}, err
	}
	return t, nil
}

func (s *Service) Update(ctx context.Context, userID string, in PointInput) (UpdateResult, error) {
	if !validCoords(in.Latitude, in.Longitude) {
		return UpdateResult{}, ErrInvalidPoint
	}
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now().UTC()
	}

	release, err := s.locks.Acquire(ctx, userID)
	if err != nil {
		return UpdateResult{}, err
	}
	defer release()

	t, err := s.activeTrip(ctx, userID)
	if err != nil {
		return UpdateResult{}, err
	}

	last, err := s.lastPoint(ctx, t.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		last = startBaseline(t)
	} else if err != nil {
		return UpdateResult{}, err
	}

	p := Point{
		TripID:    t.ID,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Altitude:  in.Altitude,
		Speed:     in.Speed,
		Accuracy:  in.Accuracy,
		Timestamp: in.Timestamp,
	}

	updated, _, err := applyPoint(t, last, p)
	if err != nil {
		return UpdateResult{}, err
	}

	fences, err := s.fences.ListActive(ctx, userID)
	if err != nil {
		return UpdateResult{}, err
	}
	firings := geofence.Evaluate(p.Latitude, p.Longitude, fences)

	st, err := s.settings.Get(ctx, userID)
	if err != nil {
		return UpdateResult{}, err
	}

	var stopFence geofence.Geofence
	var autoStop bool
	if st.AutoStopAtGeofences {
		stopFence, autoStop = geofence.FirstFired(firings, geofence.ActionStop)
	}

	err = s.inTx(ctx, func(q db.Executor) error {
		if _, err := insertPoint(ctx, q, p); err != nil {
			return err
		}
		if autoStop {
			// The triggering point doubles as the end point; one update
			// seals distance, end fields and status together.
			stopped, err := complete(ctx, q, updated, p.Latitude, p.Longitude, p.Timestamp)
			if err != nil {
				return err
			}
			updated = stopped
			return nil
		}
		if _, err := q.Exec(ctx, `UPDATE trips SET total_distance_km=$2 WHERE id=$1`, updated.ID, updated.TotalDistanceKm); err != nil {
			return db.StorageErr(err)
		}
		return nil
	})
	if err != nil {
		return UpdateResult{}, err
	}

	if autoStop {
		return UpdateResult{Trip: updated, AutoStopped: true, StoppedBy: stopFence.Name}, nil
	}
	return UpdateResult{Trip: updated}, nil
}

func (s *Service) Stop(ctx context.Context, userID string, in StopInput) (Trip, error) {
	if !validCoords(in.Latitude, in.Longitude) {
		return Trip{}, ErrInvalidPoint
	}
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now().UTC()
	}

	release, err := s.locks.Acquire(ctx, userID)
	if err != nil {
		return Trip{}, err
	}
	defer release()

	t, err := s.activeTrip(ctx, userID)
	if err != nil {
		return Trip{}, err
	}

	last, err := s.lastPoint(ctx, t.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		last = startBaseline(t)
	} else if err != nil {
		return Trip{}, err
	}

	final := Point{
		TripID:    t.ID,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Timestamp: in.Timestamp,
	}

	updated, _, err := applyPoint(t, last, final)
	if err != nil {
		return Trip{}, err
	}

	err = s.inTx(ctx, func(q db.Executor) error {
		if _, err := insertPoint(ctx, q, final); err != nil {
			return err
		}
		stopped, err := complete(ctx, q, updated, final.Latitude, final.Longitude, final.Timestamp)
		if err != nil {
			return err
		}
		updated = stopped
		return nil
	})
	if err != nil {
		return Trip{}, err
	}
	return updated, nil
}

// inTx runs fn inside a transaction and commits only when every write
// succeeded, so a failed lifecycle operation leaves no trace.
func (s *Service) inTx(ctx context.Context, fn func(q db.Executor) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return db.StorageErr(err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return db.StorageErr(err)
	}
	return nil
}

// complete seals a trip with its end point. The end point must already be
// recorded and counted by the caller, within the same transaction.
func complete(ctx context.Context, q db.Executor, t Trip, lat, lng float64, at time.Time) (Trip, error) {
	t.Status = StatusCompleted
	t.EndTime = &at
	t.EndLatitude = &lat
	t.EndLongitude = &lng

	_, err := q.Exec(ctx, `
		UPDATE trips
		SET total_distance_km=$2, end_time=$3, end_latitude=$4, end_longitude=$5, status=$6
		WHERE id=$1
	`, t.ID, t.TotalDistanceKm, *t.EndTime, *t.EndLatitude, *t.EndLongitude, t.Status)
	if err != nil {
		return Trip{}, db.StorageErr(err)
	}
	return t, nil
}

// Active returns the user's active trip or ErrNoActiveTrip.
func (s *Service) Active(ctx context.Context, userID string) (Trip, error) {
	return s.activeTrip(ctx, userID)
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Trip, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.Query(ctx, tripColumns+`
		FROM trips WHERE user_id=$1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, db.StorageErr(err)
	}
	defer rows.Close()

	var trips []Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, db.StorageErr(err)
		}
		trips = append(trips, t)
	}
	return trips, nil
}

func (s *Service) Get(ctx context.Context, userID, tripID string) (Trip, error) {
	row := s.db.QueryRow(ctx, tripColumns+`
		FROM trips WHERE id=$1 AND user_id=$2
	`, tripID, userID)
	t, err := scanTrip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Trip{}, ErrNotFound
	}
	if err != nil {
		return Trip{}, db.StorageErr(err)
	}
	return t, nil
}

func (s *Service) Points(ctx context.Context, userID, tripID string) ([]Point, error) {
	if _, err := s.Get(ctx, userID, tripID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, trip_id, latitude, longitude, COALESCE(altitude,0), COALESCE(speed,0), COALESCE(accuracy,0), recorded_at
		FROM trip_points WHERE trip_id=$1
		ORDER BY recorded_at, id
	`, tripID)
	if err != nil {
		return nil, db.StorageErr(err)
	}
	defer rows.Close()

	var points []Point
	for rows.Next() {
		var p Point
		if err := rows.Scan(&p.ID, &p.TripID, &p.Latitude, &p.Longitude, &p.Altitude, &p.Speed, &p.Accuracy, &p.Timestamp); err != nil {
			return nil, db.StorageErr(err)
		}
		points = append(points, p)
	}
	return points, nil
}

const tripColumns = `
		SELECT id, user_id, COALESCE(title,''), COALESCE(description,''), start_time, end_time,
		       start_latitude, start_longitude, end_latitude, end_longitude, total_distance_km, status, created_at`

func scanTrip(row pgx.Row) (Trip, error) {
	var t Trip
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.StartTime, &t.EndTime,
		&t.StartLatitude, &t.StartLongitude, &t.EndLatitude, &t.EndLongitude, &t.TotalDistanceKm, &t.Status, &t.CreatedAt)
	return t, err
}

func (s *Service) activeTrip(ctx context.Context, userID string) (Trip, error) {
	row := s.db.QueryRow(ctx, tripColumns+`
		FROM trips WHERE user_id=$1 AND status=$2
	`, userID, StatusActive)
	t, err := scanTrip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Trip{}, ErrNoActiveTrip
	}
	if err != nil {
		return Trip{}, db.StorageErr(err)
	}
	return t, nil
}

func (s *Service) lastPoint(ctx context.Context, tripID string) (Point, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, trip_id, latitude, longitude, COALESCE(altitude,0), COALESCE(speed,0), COALESCE(accuracy,0), recorded_at
		FROM trip_points WHERE trip_id=$1
		ORDER BY recorded_at DESC, id DESC
		LIMIT 1
	`, tripID)
	var p Point
	if err := row.Scan(&p.ID, &p.TripID, &p.Latitude, &p.Longitude, &p.Altitude, &p.Speed, &p.Accuracy, &p.Timestamp); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Point{}, err
		}
		return Point{}, db.StorageErr(err)
	}
	return p, nil
}

func insertPoint(ctx context.Context, q db.Executor, p Point) (Point, error) {
	row := q.QueryRow(ctx, `
		INSERT INTO trip_points (trip_id, latitude, longitude, altitude, speed, accuracy, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`, p.TripID, p.Latitude, p.Longitude, p.Altitude, p.Speed, p.Accuracy, p.Timestamp)
	if err := row.Scan(&p.ID); err != nil {
		return Point{}, db.StorageErr(err)
	}
	return p, nil
}
