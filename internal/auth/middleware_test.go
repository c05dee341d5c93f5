package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func protectedApp(secret string) *fiber.App {
	app := fiber.New()
	app.Get("/protected", JWTMiddleware(secret), func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		return c.JSON(fiber.Map{"user_id": userID})
	})
	return app
}

func protectedRequest(t *testing.T, app *fiber.App, authorization string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return resp
}

func TestJWTMiddleware(t *testing.T) {
	svc := NewService("test-secret", nil, nil)
	token, err := svc.signToken("user-1", accessTokenTTL)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	app := protectedApp("test-secret")
	resp := protectedRequest(t, app, "Bearer "+token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %v", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["user_id"] != "user-1" {
		t.Fatalf("expected user id in locals, got %q", body["user_id"])
	}
}

func TestJWTMiddlewareSchemeCaseInsensitive(t *testing.T) {
	svc := NewService("test-secret", nil, nil)
	token, err := svc.signToken("user-1", accessTokenTTL)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	resp := protectedRequest(t, protectedApp("test-secret"), "bearer "+token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("lowercase scheme should be accepted, got %v", resp.StatusCode)
	}
}

func TestJWTMiddlewareMissingToken(t *testing.T) {
	resp := protectedRequest(t, protectedApp("test-secret"), "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", resp.StatusCode)
	}
}

func TestJWTMiddlewareWrongScheme(t *testing.T) {
	app := protectedApp("test-secret")

	for _, header := range []string{"Basic abc", "Bearer", "Bearer "} {
		resp := protectedRequest(t, app, header)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%q: expected 401, got %v", header, resp.StatusCode)
		}
	}
}

func TestJWTMiddlewareWrongSecret(t *testing.T) {
	svc := NewService("other-secret", nil, nil)
	token, err := svc.signToken("user-1", accessTokenTTL)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	resp := protectedRequest(t, protectedApp("test-secret"), "Bearer "+token)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", resp.StatusCode)
	}
}
