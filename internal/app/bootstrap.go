package app

import (
	"context"
	"fmt"
	"strings"

	"creatorhub/internal/config"
	"creatorhub/internal/delivery/http/middleware"
	"creatorhub/internal/delivery/http/routes"
	"creatorhub/internal/telemetry"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(cfg config.Config, c *Container) *App {
	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	routes.NewRegistry(c.Health, c.Handlers).Register(f)

	return &App{Fiber: f, Container: c}
}

// Bootstrap builds the server. The returned cleanup stops background work
// and releases connections; it is safe to call after a failed Listen.
func Bootstrap(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, func(context.Context) error, error) {
	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.App.AppName, cfg.Telemetry.CollectorURL)
	if err != nil {
		return nil, nil, fmt.Errorf("init tracer: %w", err)
	}

	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		_ = shutdownTracer(ctx)
		return nil, nil, err
	}

	cleanup := func(ctx context.Context) error {
		cerr := c.Close()
		if terr := shutdownTracer(ctx); terr != nil && cerr == nil {
			cerr = terr
		}
		return cerr
	}
	return New(cfg, c), cleanup, nil
}

func NewLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func registerGlobalMiddleware(app *fiber.App, logger *zap.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
