package routes

import (
	"net/http/httptest"
	"testing"
	"time"

	"creatorhub/internal/delivery/http/handler"
	"creatorhub/internal/delivery/http/middleware"
	v1 "creatorhub/internal/delivery/http/routes/v1"
	"creatorhub/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
)

func newTestApp() *fiber.App {
	tokens := jwt.NewHMACService("access", "refresh", time.Minute, time.Hour)

	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(nil).Middleware())
	NewRegistry(handler.NewHealthHandler(nil, nil, nil), v1.Handlers{
		Jobs:     handler.NewJobsHandler(nil),
		Profiles: handler.NewProfileHandler(nil),
		AuthMW:   middleware.NewAuthMiddleware(tokens, nil),
	}).Register(app)
	return app
}

func TestRegistry_ProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		method string
		path   string
	}{
		{fiber.MethodPost, "/api/v1/jobs"},
		{fiber.MethodPut, "/api/v1/jobs/6f1c2a52-1f8e-4d3b-9a57-0b4a1f3c2d10"},
		{fiber.MethodDelete, "/api/v1/jobs/6f1c2a52-1f8e-4d3b-9a57-0b4a1f3c2d10"},
		{fiber.MethodPost, "/api/v1/jobs/6f1c2a52-1f8e-4d3b-9a57-0b4a1f3c2d10/save"},
		{fiber.MethodDelete, "/api/v1/jobs/6f1c2a52-1f8e-4d3b-9a57-0b4a1f3c2d10/save"},
		{fiber.MethodPost, "/api/v1/jobs/6f1c2a52-1f8e-4d3b-9a57-0b4a1f3c2d10/apply"},
		{fiber.MethodGet, "/api/v1/profiles/me"},
		{fiber.MethodPut, "/api/v1/profiles/me"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			res, err := app.Test(httptest.NewRequest(tt.method, tt.path, nil))
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			res.Body.Close()
			if res.StatusCode != fiber.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", res.StatusCode)
			}
		})
	}
}

func TestRegistry_OptionalAuthRejectsBadToken(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/jobs", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-token")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for a malformed token, got %d", res.StatusCode)
	}
}

func TestRegistry_HealthMounted(t *testing.T) {
	res, err := newTestApp().Test(httptest.NewRequest(fiber.MethodGet, "/health", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	res.Body.Close()
	// no database configured
	if res.StatusCode != fiber.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", res.StatusCode)
	}
}
