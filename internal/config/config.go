package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	NATS      NATSConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost        string
	DBPort        string
	DBName        string
	DBUser        string
	DBPassword    string
	DBSSLMode     string
	PoolMaxConns  int32
	RunMigrations bool
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NATSConfig is optional; an empty URL disables event publishing.
type NATSConfig struct {
	URL         string
	ConnTimeout time.Duration
}

type TelemetryConfig struct {
	CollectorURL string
}

const (
	defaultAccessExpiresIn  = 15 * time.Minute
	defaultRefreshExpiresIn = 7 * 24 * time.Hour
	defaultRedisTTL         = 600 * time.Second
	defaultNATSConnTimeout  = 10 * time.Second
)

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:        opt("DB_HOST"),
		DBPort:        opt("DB_PORT"),
		DBName:        opt("DB_NAME"),
		DBUser:        opt("DB_USER"),
		DBPassword:    opt("DB_PASSWORD"),
		DBSSLMode:     opt("DB_SSL_MODE"),
		PoolMaxConns:  int32(intOr(opt("DB_POOL_MAX_CONNS"), 0)),
		RunMigrations: boolOr(opt("DB_RUN_MIGRATIONS"), true),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  durationOr(opt("JWT_ACCESS_EXPIRES_IN"), defaultAccessExpiresIn),
		RefreshExpiresIn: durationOr(opt("JWT_REFRESH_EXPIRES_IN"), defaultRefreshExpiresIn),
	}

	cfg.Redis = RedisConfig{
		Addr:     opt("REDIS_ADDR"),
		Password: opt("REDIS_PASSWORD"),
		DB:       intOr(opt("REDIS_DB"), 0),
		TTL:      secondsOr(opt("REDIS_TTL"), defaultRedisTTL),
	}

	cfg.NATS = NATSConfig{
		URL:         opt("NATS_URL"),
		ConnTimeout: durationOr(opt("NATS_CONN_TIMEOUT"), defaultNATSConnTimeout),
	}

	cfg.Telemetry = TelemetryConfig{
		CollectorURL: opt("OTEL_COLLECTOR_URL"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// IsDevelopment reports whether the app runs with APP_ENV=development.
func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.App.Environment, "development")
}

func intOr(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func boolOr(raw string, def bool) bool {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func durationOr(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// secondsOr accepts a bare number of seconds (REDIS_TTL=600) or a Go duration.
func secondsOr(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	if v, err := strconv.Atoi(raw); err == nil {
		if v <= 0 {
			return def
		}
		return time.Duration(v) * time.Second
	}
	return durationOr(raw, def)
}
