package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("profile not found")
	ErrUsernameTaken = errors.New("username already taken")
)

type DirectoryFilter struct {
	Query   string
	Country string
	Limit   int
	Offset  int
}

type Repository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (Profile, error)
	GetByUsername(ctx context.Context, username string) (Profile, error)
	UsernameExists(ctx context.Context, username string, exceptUserID uuid.UUID) (bool, error)
	Upsert(ctx context.Context, p Profile) (Profile, error)
	ListCreators(ctx context.Context, f DirectoryFilter) ([]Profile, error)
}
