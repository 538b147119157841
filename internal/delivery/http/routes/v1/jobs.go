package v1

import (
	"creatorhub/internal/delivery/http/handler"
	"creatorhub/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

func RegisterJobs(r fiber.Router, jobsHandler *handler.JobsHandler, authMw *middleware.AuthMiddleware) {
	if r == nil {
		return
	}
	if jobsHandler == nil {
		return
	}

	jobsHandler.RegisterRoutes(r, authMw.Optional(), authMw.Middleware())
}
