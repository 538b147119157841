package profile

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"creatorhub/internal/domain/profile"
	"creatorhub/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxNameLen = 80
	maxBioLen  = 2000
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidUsername = errors.New("username must be 3-30 characters of a-z, 0-9, '_' or '.'")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrKindImmutable   = errors.New("account kind cannot be changed")
	ErrNotFound        = errors.New("profile not found")
	ErrInternal        = errors.New("internal error")
)

var usernameRe = regexp.MustCompile(`^[a-z0-9_.]{3,30}$`)

type SetupInput struct {
	Username    string
	FirstName   string
	LastName    string
	PhotoURL    string
	City        string
	Country     string
	Bio         string
	AccountKind profile.AccountKind
}

// PosterListener hears about saved profiles. Postings embed poster attributes,
// so anything holding joined rows must drop them.
type PosterListener interface {
	PostersChanged(ctx context.Context)
}

type Service struct {
	profiles profile.Repository
	posters  PosterListener
	logger   *zap.Logger
}

func NewService(profiles profile.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{profiles: profiles, logger: logger}
}

// WithPosterListener registers l to be told after every successful Setup.
func (s *Service) WithPosterListener(l PosterListener) *Service {
	s.posters = l
	return s
}

// NormalizeUsername lowercases and trims; it does not validate.
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func ValidUsername(s string) bool {
	return usernameRe.MatchString(s)
}

// UsernameAvailable backs the onboarding check. The caller's own username
// counts as available.
func (s *Service) UsernameAvailable(ctx context.Context, username string, callerID uuid.UUID) (bool, error) {
	username = NormalizeUsername(username)
	if !ValidUsername(username) {
		return false, ErrInvalidUsername
	}
	exists, err := s.profiles.UsernameExists(ctx, username, callerID)
	if err != nil {
		return false, s.internal("username exists", err)
	}
	return !exists, nil
}

// Setup creates the caller's profile or updates it. The account kind chosen
// the first time sticks.
func (s *Service) Setup(ctx context.Context, userID uuid.UUID, in SetupInput) (profile.Profile, error) {
	p, err := normalizeSetup(in)
	if err != nil {
		return profile.Profile{}, err
	}
	p.UserID = userID

	existing, err := s.profiles.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		if existing.AccountKind != p.AccountKind {
			return profile.Profile{}, ErrKindImmutable
		}
	case errors.Is(err, profile.ErrNotFound):
	default:
		return profile.Profile{}, s.internal("load profile", err)
	}

	taken, err := s.profiles.UsernameExists(ctx, p.Username, userID)
	if err != nil {
		return profile.Profile{}, s.internal("username exists", err)
	}
	if taken {
		return profile.Profile{}, ErrUsernameTaken
	}

	saved, err := s.profiles.Upsert(ctx, p)
	if err != nil {
		if errors.Is(err, profile.ErrUsernameTaken) {
			return profile.Profile{}, ErrUsernameTaken
		}
		return profile.Profile{}, s.internal("upsert profile", err)
	}

	if s.posters != nil {
		s.posters.PostersChanged(ctx)
	}

	s.logger.Info("profile saved",
		zap.String("user_id", userID.String()),
		zap.String("username", saved.Username),
		zap.String("kind", string(saved.AccountKind)))
	return saved, nil
}

func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	return s.get(s.profiles.GetByUserID(ctx, userID))
}

func (s *Service) GetByUsername(ctx context.Context, username string) (profile.Profile, error) {
	username = NormalizeUsername(username)
	if username == "" {
		return profile.Profile{}, ErrNotFound
	}
	return s.get(s.profiles.GetByUsername(ctx, username))
}

func (s *Service) ListCreators(ctx context.Context, f profile.DirectoryFilter) ([]profile.Profile, error) {
	out, err := s.profiles.ListCreators(ctx, f)
	if err != nil {
		return nil, s.internal("list creators", err)
	}
	return out, nil
}

// Viewer resolves the identity used by listing operations. A user who has not
// finished onboarding gets a viewer without a profile.
func (s *Service) Viewer(ctx context.Context, userID uuid.UUID) (session.Viewer, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return session.Viewer{UserID: userID}, nil
		}
		return session.Viewer{}, s.internal("load viewer", err)
	}
	return session.FromProfile(p), nil
}

func (s *Service) get(p profile.Profile, err error) (profile.Profile, error) {
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return profile.Profile{}, ErrNotFound
		}
		return profile.Profile{}, s.internal("load profile", err)
	}
	return p, nil
}

func (s *Service) internal(op string, err error) error {
	s.logger.Error("profile failure", zap.String("op", op), zap.Error(err))
	return ErrInternal
}

func normalizeSetup(in SetupInput) (profile.Profile, error) {
	p := profile.Profile{
		Username:    NormalizeUsername(in.Username),
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		PhotoURL:    strings.TrimSpace(in.PhotoURL),
		City:        strings.TrimSpace(in.City),
		Country:     strings.TrimSpace(in.Country),
		Bio:         strings.TrimSpace(in.Bio),
		AccountKind: in.AccountKind,
	}

	if !ValidUsername(p.Username) {
		return profile.Profile{}, ErrInvalidUsername
	}
	if !p.AccountKind.Valid() {
		return profile.Profile{}, ErrInvalidInput
	}
	if p.FirstName == "" || p.Country == "" {
		return profile.Profile{}, ErrInvalidInput
	}
	for _, v := range []string{p.FirstName, p.LastName, p.City, p.Country} {
		if utf8.RuneCountInString(v) > maxNameLen {
			return profile.Profile{}, ErrInvalidInput
		}
	}
	if utf8.RuneCountInString(p.Bio) > maxBioLen {
		return profile.Profile{}, ErrInvalidInput
	}
	if p.PhotoURL != "" && !validPhotoURL(p.PhotoURL) {
		return profile.Profile{}, ErrInvalidInput
	}
	return p, nil
}

func validPhotoURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "https" || u.Scheme == "http"
}
