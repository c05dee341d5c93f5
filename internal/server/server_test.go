package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sarag5/Trip-tracker-backend/internal/config"
)

func TestHealthRoute(t *testing.T) {
	srv := NewServer(config.Config{JWTSecret: "test-secret", LockWaitMs: 100}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := srv.App.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("health status: %v %v", resp.StatusCode, err)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("unexpected health payload: %v", body)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	srv := NewServer(config.Config{JWTSecret: "test-secret", LockWaitMs: 100}, nil, nil)

	paths := []string{"/api/v1/trips/active", "/api/v1/geofences/", "/api/v1/settings/"}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := srv.App.Test(req)
		if err != nil || resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %v", path, resp.StatusCode)
		}
	}
}
