package v1

import (
	"creatorhub/internal/delivery/http/handler"
	"creatorhub/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

func RegisterProfiles(r fiber.Router, profileHandler *handler.ProfileHandler, authMw *middleware.AuthMiddleware) {
	if r == nil {
		return
	}
	if profileHandler == nil {
		return
	}

	profileHandler.RegisterRoutes(r.Group("/profiles"), authMw.Optional(), authMw.Middleware())
	profileHandler.RegisterDirectoryRoutes(r.Group("/creators"))
}
