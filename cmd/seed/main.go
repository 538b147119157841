package main

import (
	"context"
	"flag"
	"log"
	"time"

	"creatorhub/internal/app"
	"creatorhub/internal/config"
	"creatorhub/internal/database/migration"
	dbpostgres "creatorhub/internal/database/postgres"
	"creatorhub/internal/database/seeder"
	"creatorhub/migrations"

	"go.uber.org/zap"
)

func main() {
	password := flag.String("password", "creatorhub-demo", "password for every demo account")
	migrate := flag.Bool("migrate", true, "apply pending migrations before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	if *migrate {
		r := migration.Runner{FS: migrations.FS, Logger: logger}
		if err := r.Run(ctx, db.SQLDB()); err != nil {
			logger.Fatal("migration failed", zap.Error(err))
		}
	}

	r := seeder.Runner{Seeders: seeder.Defaults(*password), Logger: logger}
	if err := r.Run(ctx, db); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Info("demo data ready")
}
