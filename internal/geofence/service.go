package geofence

import (
	"context"
	"errors"

	"github.com/sarag5/Trip-tracker-backend/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrInvalidGeofence rejects non-positive radii, out-of-range coordinates
// and unknown actions before anything is written.
var ErrInvalidGeofence = errors.New("invalid geofence")

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func validate(g Geofence) error {
	if g.Name == "" {
		return ErrInvalidGeofence
	}
	if g.RadiusM <= 0 {
		return ErrInvalidGeofence
	}
	if g.Latitude < -90 || g.Latitude > 90 || g.Longitude < -180 || g.Longitude > 180 {
		return ErrInvalidGeofence
	}
	switch g.Action {
	case ActionStop, ActionStart, ActionNotify:
	default:
		return ErrInvalidGeofence
	}
	return nil
}

func (s *Service) Create(ctx context.Context, input Geofence) (Geofence, error) {
	if input.Action == "" {
		input.Action = ActionStop
	}
	if err := validate(input); err != nil {
		return Geofence{}, err
	}

	input.ID = uuid.NewString()
	input.IsActive = true
	row := s.db.QueryRow(ctx, `
		INSERT INTO geofences (id, user_id, name, description, latitude, longitude, radius_m, action, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at
	`, input.ID, input.UserID, input.Name, input.Description, input.Latitude, input.Longitude, input.RadiusM, input.Action, input.IsActive)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Geofence{}, db.StorageErr(err)
	}
	return input, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (Geofence, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, name, description, latitude, longitude, radius_m, action, is_active, created_at
		FROM geofences WHERE id=$1 AND user_id=$2
	`, id, userID)
	var g Geofence
	err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.Description, &g.Latitude, &g.Longitude, &g.RadiusM, &g.Action, &g.IsActive, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Geofence{}, ErrNotFound
	}
	if err != nil {
		return Geofence{}, db.StorageErr(err)
	}
	return g, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Geofence, error) {
	return s.list(ctx, `
		SELECT id, user_id, name, description, latitude, longitude, radius_m, action, is_active, created_at
		FROM geofences WHERE user_id=$1
		ORDER BY created_at DESC
	`, userID)
}

// ListActive returns the fences the trip lifecycle evaluates on every
// location update, oldest first so evaluation order is stable.
func (s *Service) ListActive(ctx context.Context, userID string) ([]Geofence, error) {
	return s.list(ctx, `
		SELECT id, user_id, name, description, latitude, longitude, radius_m, action, is_active, created_at
		FROM geofences WHERE user_id=$1 AND is_active=TRUE
		ORDER BY created_at
	`, userID)
}

func (s *Service) list(ctx context.Context, query, userID string) ([]Geofence, error) {
	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, db.StorageErr(err)
	}
	defer rows.Close()

	var fences []Geofence
	for rows.Next() {
		var g Geofence
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Description, &g.Latitude, &g.Longitude, &g.RadiusM, &g.Action, &g.IsActive, &g.CreatedAt); err != nil {
			return nil, db.StorageErr(err)
		}
		fences = append(fences, g)
	}
	return fences, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM geofences WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return db.StorageErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ErrNotFound is returned for ids that do not exist or belong to another user.
var ErrNotFound = errors.New("geofence not found")
