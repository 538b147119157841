package v1

import (
	"creatorhub/internal/delivery/http/handler"
	"creatorhub/internal/delivery/http/middleware"
	"creatorhub/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Handlers is everything the v1 API mounts. Realtime is served outside the
// /api prefix.
type Handlers struct {
	Auth     *handler.AuthHandler
	Jobs     *handler.JobsHandler
	Profiles *handler.ProfileHandler
	Realtime *ws.Handler

	AuthMW *middleware.AuthMiddleware
}

func Register(r fiber.Router, h Handlers) {
	if r == nil || h.AuthMW == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}

	RegisterJobs(r.Group("/jobs"), h.Jobs, h.AuthMW)
	RegisterProfiles(r, h.Profiles, h.AuthMW)
}
