package handler

import (
	"context"
	"time"

	"creatorhub/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const healthCheckTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and the state of each dependency. Only the
// database is required; the cache degrades to pass-through.
type HealthHandler struct {
	db       Pinger
	cache    Pinger
	gatherer prometheus.Gatherer
}

func NewHealthHandler(db, cache Pinger, gatherer prometheus.Gatherer) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, gatherer: gatherer}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
	if h.gatherer != nil {
		r.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), healthCheckTimeout)
	defer cancel()

	status := fiber.StatusOK
	checks := fiber.Map{
		"database": check(ctx, h.db),
		"cache":    check(ctx, h.cache),
	}
	if checks["database"] != "up" {
		status = fiber.StatusServiceUnavailable
	}
	return response.Success(c, status, "", checks)
}

func check(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
