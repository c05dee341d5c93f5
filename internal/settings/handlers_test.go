package settings

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

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

func TestSettingsHandlers(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT user_id, auto_start_trips`).
		WithArgs("user-1").
		WillReturnError(pgx.ErrNoRows)

	app := fiber.New()
	RegisterRoutes(app.Group("/settings"), NewService(mock), testAuth("user-1"))

	req := httptest.NewRequest(http.MethodGet, "/settings/", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("get status: %v %v", resp.StatusCode, err)
	}

	var st Settings
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !st.AutoStopAtGeofences {
		t.Fatalf("expected default auto-stop enabled")
	}

	mock.ExpectExec(`INSERT INTO user_settings`).
		WithArgs("user-1", false, false, 10, 0.01, false, "manual").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	body, _ := json.Marshal(Settings{LocationUpdateIntervalSec: 10, DistanceThresholdKm: 0.01, SyncMethod: SyncManual})
	putReq := httptest.NewRequest(http.MethodPut, "/settings/", bytes.NewReader(body))
	putReq.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(putReq)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("put status: %v %v", resp.StatusCode, err)
	}
}

func TestSettingsHandlersParseError(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/settings"), NewService(nil), testAuth("user-1"))

	req := httptest.NewRequest(http.MethodPut, "/settings/", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %v", resp.StatusCode)
	}
}
