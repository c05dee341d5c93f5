package geofence

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

func testAuth(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	}
}

func TestGeofenceHandlers(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO geofences`).
		WithArgs(pgxmock.AnyArg(), "user-1", "Home", "", 37.7749, -122.4194, 100.0, "stop", true).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	app := fiber.New()
	RegisterRoutes(app.Group("/geofences"), NewService(mock), testAuth("user-1"))

	body, _ := json.Marshal(Geofence{Name: "Home", Latitude: 37.7749, Longitude: -122.4194, RadiusM: 100, Action: "stop"})
	req := httptest.NewRequest(http.MethodPost, "/geofences/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status: %v %v", resp.StatusCode, err)
	}

	mock.ExpectQuery(`SELECT id, user_id, name, description`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "name", "description", "latitude", "longitude", "radius_m", "action", "is_active", "created_at"}).
			AddRow("fence-1", "user-1", "Home", "", 37.7749, -122.4194, 100.0, "stop", true, time.Now()))

	req = httptest.NewRequest(http.MethodGet, "/geofences/", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("list status: %v %v", resp.StatusCode, err)
	}
}

func TestGeofenceHandlersInvalid(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/geofences"), NewService(nil), testAuth("user-1"))

	body, _ := json.Marshal(Geofence{Name: "Bad", RadiusM: -1})
	req := httptest.NewRequest(http.MethodPost, "/geofences/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %v", resp.StatusCode)
	}
}

func TestGeofenceHandlersParseError(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/geofences"), NewService(nil), testAuth("user-1"))

	req := httptest.NewRequest(http.MethodPost, "/geofences/", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %v", resp.StatusCode)
	}
}

func TestGeofenceHandlersGetNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, user_id, name, description`).
		WithArgs("fence-404", "user-1").
		WillReturnError(pgx.ErrNoRows)

	app := fiber.New()
	RegisterRoutes(app.Group("/geofences"), NewService(mock), testAuth("user-1"))

	req := httptest.NewRequest(http.MethodGet, "/geofences/fence-404", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", resp.StatusCode)
	}
}

func TestGeofenceHandlersDelete(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM geofences`).
		WithArgs("fence-1", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	app := fiber.New()
	RegisterRoutes(app.Group("/geofences"), NewService(mock), testAuth("user-1"))

	req := httptest.NewRequest(http.MethodDelete, "/geofences/fence-1", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status: %v %v", resp.StatusCode, err)
	}

	mock.ExpectExec(`DELETE FROM geofences`).
		WithArgs("fence-404", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	req = httptest.NewRequest(http.MethodDelete, "/geofences/fence-404", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected not found, got %v", resp.StatusCode)
	}
}
