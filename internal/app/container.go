package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"creatorhub/internal/config"
	"creatorhub/internal/database"
	"creatorhub/internal/database/migration"
	dbpostgres "creatorhub/internal/database/postgres"
	"creatorhub/internal/delivery/http/handler"
	"creatorhub/internal/delivery/http/middleware"
	v1 "creatorhub/internal/delivery/http/routes/v1"
	"creatorhub/internal/infrastructure/cache"
	"creatorhub/internal/infrastructure/messaging"
	"creatorhub/internal/infrastructure/persistence/postgres"
	"creatorhub/internal/listing"
	"creatorhub/internal/metrics"
	"creatorhub/internal/pkg/jwt"
	"creatorhub/internal/repository"
	ucauth "creatorhub/internal/usecase/auth"
	ucprofile "creatorhub/internal/usecase/profile"
	"creatorhub/internal/ws"
	"creatorhub/migrations"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const startupTimeout = 15 * time.Second

// Container owns every long-lived dependency of the server. Close releases
// them in reverse order of construction.
type Container struct {
	Config config.Config
	Logger *zap.Logger

	DB       database.DB
	Cache    *cache.Redis
	Users    *postgres.UserRepository
	Hub      *ws.Hub
	NATS     *messaging.NATSPublisher
	Registry *prometheus.Registry

	Listings *listing.Service
	Auth     *ucauth.Service
	Profiles *ucprofile.Service

	Health   *handler.HealthHandler
	Handlers v1.Handlers

	stopHub context.CancelFunc
}

func NewContainer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Container{Config: cfg, Logger: logger}

	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	db, err := dbpostgres.Connect(startCtx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	c.DB = db

	if cfg.Database.RunMigrations {
		runner := migration.Runner{FS: migrations.FS, Logger: logger}
		if err := runner.Run(startCtx, db.SQLDB()); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	users, err := postgres.NewUserRepository(startCtx, db)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Users = users

	c.Cache = cache.NewRedis(startCtx, cfg.Redis, logger)

	hubCtx, stopHub := context.WithCancel(context.Background())
	c.Hub = ws.NewHub(logger)
	c.stopHub = stopHub
	go c.Hub.Run(hubCtx)

	notifiers := listing.Notifiers{c.Hub}
	if strings.TrimSpace(cfg.NATS.URL) != "" {
		pub, err := messaging.NewNATSPublisher(cfg.NATS, logger)
		if err != nil {
			logger.Warn("nats unavailable, posting events stay in-process", zap.Error(err))
		} else {
			c.NATS = pub
			notifiers = append(notifiers, pub)
		}
	}

	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	sink := metrics.NewPrometheusSink(c.Registry, logger)

	tokens := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	postings := repository.NewPostgresPostingRepository(db)
	profiles := repository.NewPostgresProfileRepository(db)

	c.Listings = listing.NewService(postings, c.Cache, notifiers, sink, logger, cfg.Redis.TTL)
	c.Auth = ucauth.NewService(users, tokens, logger)
	c.Profiles = ucprofile.NewService(profiles, logger).WithPosterListener(c.Listings)

	var cachePinger handler.Pinger
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		cachePinger = c.Cache
	}
	c.Health = handler.NewHealthHandler(db, cachePinger, c.Registry)
	c.Handlers = v1.Handlers{
		Auth:     handler.NewAuthHandler(c.Auth),
		Jobs:     handler.NewJobsHandler(c.Listings),
		Profiles: handler.NewProfileHandler(c.Profiles),
		Realtime: ws.NewHandler(c.Hub, logger),
		AuthMW:   middleware.NewAuthMiddleware(tokens, c.Profiles),
	}

	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	var errs []error
	if c.stopHub != nil {
		c.stopHub()
	}
	if c.NATS != nil {
		c.NATS.Close()
	}
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.Users != nil {
		errs = append(errs, c.Users.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
