package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"creatorhub/internal/domain/user"
	"creatorhub/internal/pkg/jwt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidRefreshToken    = errors.New("invalid refresh token")
	ErrInternal               = errors.New("internal error")
)

type Credentials struct {
	Email    string
	Password string
}

// Session is what a successful register, login or refresh hands back.
type Session struct {
	User   user.User
	Tokens jwt.TokenPair
}

type Usecase interface {
	Register(ctx context.Context, in Credentials) (Session, error)
	Login(ctx context.Context, in Credentials) (Session, error)
	Refresh(ctx context.Context, refreshToken string) (Session, error)
}

type Service struct {
	users  user.Repository
	tokens jwt.Service
	logger *zap.Logger

	hashCost int
}

var _ Usecase = (*Service)(nil)

func NewService(users user.Repository, tokens jwt.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{users: users, tokens: tokens, logger: logger, hashCost: bcrypt.DefaultCost}
}

func (s *Service) Register(ctx context.Context, in Credentials) (Session, error) {
	email := normalizeEmail(in.Email)
	if email == "" || len(strings.TrimSpace(in.Password)) < minPasswordLen {
		return Session{}, ErrInvalidInput
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return Session{}, s.internal("check email", err)
	}
	if exists {
		return Session{}, ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return Session{}, s.internal("hash password", err)
	}

	u := user.User{ID: uuid.New(), Email: email, PasswordHash: string(hash)}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return Session{}, ErrEmailAlreadyRegistered
		}
		return Session{}, s.internal("create user", err)
	}

	created, err := s.users.GetUserByID(ctx, u.ID)
	if err != nil {
		return Session{}, s.internal("reload user", err)
	}

	s.logger.Info("user registered", zap.String("user_id", created.ID.String()))
	return s.issue(created)
}

func (s *Service) Login(ctx context.Context, in Credentials) (Session, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return Session{}, ErrInvalidCredentials
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, s.internal("load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	return s.issue(u)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	claims, err := s.tokens.ParseRefresh(strings.TrimSpace(refreshToken))
	if err != nil {
		return Session{}, ErrInvalidRefreshToken
	}

	u, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Session{}, ErrInvalidRefreshToken
		}
		return Session{}, s.internal("load user", err)
	}

	return s.issue(u)
}

func (s *Service) issue(u user.User) (Session, error) {
	pair, err := s.tokens.Issue(u.ID)
	if err != nil {
		return Session{}, s.internal("issue tokens", err)
	}
	u.PasswordHash = ""
	return Session{User: u, Tokens: pair}, nil
}

func (s *Service) internal(op string, err error) error {
	s.logger.Error("auth failure", zap.String("op", op), zap.Error(err))
	return ErrInternal
}

func normalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ""
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ""
	}
	return email
}
