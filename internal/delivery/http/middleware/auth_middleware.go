package middleware

import (
	"context"
	"errors"
	"strings"

	"creatorhub/internal/pkg/jwt"
	"creatorhub/internal/session"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	CtxUserIDKey = "user_id"
	CtxViewerKey = "viewer"
)

// ViewerResolver turns an authenticated user id into the identity listing
// operations run as.
type ViewerResolver interface {
	Viewer(ctx context.Context, userID uuid.UUID) (session.Viewer, error)
}

type AuthMiddleware struct {
	jwt     jwt.Service
	viewers ViewerResolver
}

func NewAuthMiddleware(jwtSvc jwt.Service, viewers ViewerResolver) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc, viewers: viewers}
}

// Middleware rejects requests without a valid access token.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		return m.authenticate(c, token)
	}
}

// Optional authenticates when a bearer token is present and lets anonymous
// requests through. A present but invalid token is still rejected.
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return c.Next()
		}
		return m.authenticate(c, token)
	}
}

func (m *AuthMiddleware) authenticate(c fiber.Ctx, token string) error {
	claims, err := m.jwt.ParseAccess(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
		}
		return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
	}

	c.Locals(CtxUserIDKey, claims.UserID)

	if m.viewers != nil {
		v, err := m.viewers.Viewer(c.Context(), claims.UserID)
		if err != nil {
			return NewAppError(fiber.StatusInternalServerError, "", nil, err)
		}
		c.Locals(CtxViewerKey, &v)
	}

	return c.Next()
}

// UserID returns the authenticated user, if any.
func UserID(c fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(CtxUserIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// Viewer returns the request's viewer, or nil for anonymous requests.
func Viewer(c fiber.Ctx) *session.Viewer {
	v, _ := c.Locals(CtxViewerKey).(*session.Viewer)
	return v
}

func BearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
