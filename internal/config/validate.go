package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError is a single invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found by Validate.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:", len(e))
	for _, err := range e {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Validate checks values that Load cannot reject on presence alone.
func Validate(cfg Config) error {
	var errs ValidationErrors

	port := strings.TrimPrefix(strings.TrimSpace(cfg.App.HTTPPort), ":")
	if p, err := strconv.Atoi(port); err != nil || p < 0 || p > 65535 {
		errs = append(errs, ValidationError{Field: "HTTP_PORT", Message: "must be a port number"})
	}

	if cfg.JWT.AccessSecret != "" && cfg.JWT.AccessSecret == cfg.JWT.RefreshSecret {
		errs = append(errs, ValidationError{Field: "JWT_REFRESH_SECRET", Message: "must differ from JWT_ACCESS_SECRET"})
	}
	if cfg.JWT.AccessExpiresIn >= cfg.JWT.RefreshExpiresIn {
		errs = append(errs, ValidationError{Field: "JWT_ACCESS_EXPIRES_IN", Message: "must be shorter than JWT_REFRESH_EXPIRES_IN"})
	}

	if cfg.Database.PoolMaxConns < 0 {
		errs = append(errs, ValidationError{Field: "DB_POOL_MAX_CONNS", Message: "must not be negative"})
	}

	if cfg.Redis.DB < 0 {
		errs = append(errs, ValidationError{Field: "REDIS_DB", Message: "must not be negative"})
	}

	if cfg.NATS.URL != "" && !strings.HasPrefix(cfg.NATS.URL, "nats://") && !strings.HasPrefix(cfg.NATS.URL, "tls://") {
		errs = append(errs, ValidationError{Field: "NATS_URL", Message: "must use nats:// or tls:// scheme"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
