package app

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"creatorhub/internal/config"
	"creatorhub/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func TestListenAddr(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "8080", want: ":8080"},
		{in: " :9000 ", want: ":9000"},
		{in: "", wantErr: true},
		{in: "   ", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ListenAddr(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ListenAddr(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ListenAddr(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNew_MountsMiddlewareAndHealth(t *testing.T) {
	c := &Container{Health: handler.NewHealthHandler(nil, nil, nil)}
	a := New(config.Config{App: config.AppConfig{AppName: "creatorhub"}}, c)

	res, err := a.Fiber.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer res.Body.Close()
	if res.Header.Get("X-Request-ID") == "" {
		t.Fatal("access log middleware must set a request id")
	}

	res, err = a.Fiber.Test(httptest.NewRequest(fiber.MethodGet, "/nope", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	if res.StatusCode != fiber.StatusNotFound || !strings.Contains(string(body), `"status":404`) {
		t.Fatalf("unknown routes must render the JSON envelope, got %d %s", res.StatusCode, body)
	}
}

func TestContainer_CloseNil(t *testing.T) {
	var c *Container
	if err := c.Close(); err != nil {
		t.Fatalf("nil container close: %v", err)
	}
	if err := (&Container{}).Close(); err != nil {
		t.Fatalf("empty container close: %v", err)
	}
}
