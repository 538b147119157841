package handler

import (
	"context"
	"testing"
	"time"

	"creatorhub/internal/delivery/http/dto"
	"creatorhub/internal/domain/user"
	"creatorhub/internal/pkg/jwt"
	ucauth "creatorhub/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type fakeAuth struct {
	err         error
	lastCreds   ucauth.Credentials
	lastRefresh string
}

func (f *fakeAuth) session(email string) ucauth.Session {
	return ucauth.Session{
		User:   user.User{ID: uuid.New(), Email: email, CreatedAt: time.Now()},
		Tokens: jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh"},
	}
}

func (f *fakeAuth) Register(_ context.Context, in ucauth.Credentials) (ucauth.Session, error) {
	f.lastCreds = in
	if f.err != nil {
		return ucauth.Session{}, f.err
	}
	return f.session(in.Email), nil
}

func (f *fakeAuth) Login(_ context.Context, in ucauth.Credentials) (ucauth.Session, error) {
	f.lastCreds = in
	if f.err != nil {
		return ucauth.Session{}, f.err
	}
	return f.session(in.Email), nil
}

func (f *fakeAuth) Refresh(_ context.Context, token string) (ucauth.Session, error) {
	f.lastRefresh = token
	if f.err != nil {
		return ucauth.Session{}, f.err
	}
	return f.session("a@b.co"), nil
}

func authApp(uc ucauth.Usecase) *fiber.App {
	app := newApp()
	NewAuthHandler(uc).RegisterRoutes(app.Group("/auth"))
	return app
}

func TestAuthHandler_RegisterAndLogin(t *testing.T) {
	uc := &fakeAuth{}
	app := authApp(uc)

	status, env := call(t, app, fiber.MethodPost, "/auth/register", dto.CredentialsRequest{Email: "mei@example.com", Password: "hunter22"})
	if status != fiber.StatusCreated {
		t.Fatalf("register: %d", status)
	}
	out := decode[dto.AuthResponse](t, env.Data)
	if out.User.Email != "mei@example.com" || out.AccessToken != "access" || out.RefreshToken != "refresh" {
		t.Fatalf("unexpected response %+v", out)
	}

	if status, _ := call(t, app, fiber.MethodPost, "/auth/login", dto.CredentialsRequest{Email: "mei@example.com", Password: "hunter22"}); status != fiber.StatusOK {
		t.Fatalf("login: %d", status)
	}
	if uc.lastCreds.Password != "hunter22" {
		t.Fatal("credentials not forwarded")
	}
}

func TestAuthHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{ucauth.ErrEmailAlreadyRegistered, fiber.StatusConflict},
		{ucauth.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{ucauth.ErrInvalidInput, fiber.StatusBadRequest},
		{ucauth.ErrInternal, fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			app := authApp(&fakeAuth{err: tt.err})
			if status, _ := call(t, app, fiber.MethodPost, "/auth/login", dto.CredentialsRequest{Email: "x@y.z", Password: "12345678"}); status != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, status)
			}
		})
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	uc := &fakeAuth{}
	app := authApp(uc)

	if status, _ := call(t, app, fiber.MethodPost, "/auth/refresh", dto.RefreshRequest{RefreshToken: "from-body"}); status != fiber.StatusOK {
		t.Fatalf("refresh: %d", status)
	}
	if uc.lastRefresh != "from-body" {
		t.Fatalf("expected body token, got %q", uc.lastRefresh)
	}

	if status, _ := call(t, app, fiber.MethodPost, "/auth/refresh", nil); status != fiber.StatusUnauthorized {
		t.Fatalf("missing token: expected 401, got %d", status)
	}

	bad := authApp(&fakeAuth{err: ucauth.ErrInvalidRefreshToken})
	if status, _ := call(t, bad, fiber.MethodPost, "/auth/refresh", dto.RefreshRequest{RefreshToken: "stale"}); status != fiber.StatusUnauthorized {
		t.Fatalf("invalid token: expected 401, got %d", status)
	}
}
