package handler

import (
	"context"
	"strconv"

	"creatorhub/internal/delivery/http/dto"
	"creatorhub/internal/delivery/http/middleware"
	"creatorhub/internal/domain/profile"
	"creatorhub/internal/pkg/response"
	ucprofile "creatorhub/internal/usecase/profile"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ProfileUsecase interface {
	UsernameAvailable(ctx context.Context, username string, callerID uuid.UUID) (bool, error)
	Setup(ctx context.Context, userID uuid.UUID, in ucprofile.SetupInput) (profile.Profile, error)
	GetMe(ctx context.Context, userID uuid.UUID) (profile.Profile, error)
	GetByUsername(ctx context.Context, username string) (profile.Profile, error)
	ListCreators(ctx context.Context, f profile.DirectoryFilter) ([]profile.Profile, error)
}

type ProfileHandler struct {
	uc ProfileUsecase
}

func NewProfileHandler(uc ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// RegisterRoutes mounts /profiles on r.
func (h *ProfileHandler) RegisterRoutes(r fiber.Router, optionalAuth, requireAuth fiber.Handler) {
	if r == nil {
		return
	}
	r.Get("/username-available", optionalAuth, h.UsernameAvailable)
	r.Get("/me", requireAuth, h.GetMe)
	r.Put("/me", requireAuth, h.PutMe)
	r.Get("/:username", h.GetByUsername)
}

// RegisterDirectoryRoutes mounts the public creator directory on r.
func (h *ProfileHandler) RegisterDirectoryRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.ListCreators)
}

func (h *ProfileHandler) UsernameAvailable(c fiber.Ctx) error {
	username := ucprofile.NormalizeUsername(c.Query("username"))
	caller, _ := middleware.UserID(c)

	ok, err := h.uc.UsernameAvailable(c.Context(), username, caller)
	if err != nil {
		return mapProfileError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.UsernameAvailabilityResponse{Username: username, Available: ok})
}

func (h *ProfileHandler) GetMe(c fiber.Ctx) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	p, err := h.uc.GetMe(c.Context(), uid)
	if err != nil {
		return mapProfileError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(p))
}

func (h *ProfileHandler) PutMe(c fiber.Ctx) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req dto.ProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	p, err := h.uc.Setup(c.Context(), uid, req.Input())
	if err != nil {
		return mapProfileError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(p))
}

func (h *ProfileHandler) GetByUsername(c fiber.Ctx) error {
	p, err := h.uc.GetByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return mapProfileError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(p))
}

func (h *ProfileHandler) ListCreators(c fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit", 0)
	if err != nil {
		return err
	}
	offset, err := parseQueryInt(c, "offset", 0)
	if err != nil {
		return err
	}

	out, err := h.uc.ListCreators(c.Context(), profile.DirectoryFilter{
		Query:   c.Query("q"),
		Country: c.Query("country"),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return mapProfileError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileListResponse(out))
}

func parseQueryInt(c fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, middleware.NewAppError(fiber.StatusBadRequest, "invalid "+key+" parameter", nil, err)
	}
	return v, nil
}
