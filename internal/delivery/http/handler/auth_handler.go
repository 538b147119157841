package handler

import (
	"strings"

	"creatorhub/internal/delivery/http/dto"
	"creatorhub/internal/delivery/http/middleware"
	"creatorhub/internal/pkg/response"
	ucauth "creatorhub/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

type AuthHandler struct {
	uc ucauth.Usecase
}

func NewAuthHandler(uc ucauth.Usecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
}

func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req dto.CredentialsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	s, err := h.uc.Register(c.Context(), ucauth.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		return mapAuthError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewAuthResponse(s))
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.CredentialsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	s, err := h.uc.Login(c.Context(), ucauth.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		return mapAuthError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAuthResponse(s))
}

// Refresh takes the refresh token from the body, or from a bearer header when
// the body has none.
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	var req dto.RefreshRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
	}

	token := strings.TrimSpace(req.RefreshToken)
	if token == "" {
		var ok bool
		if token, ok = middleware.BearerToken(c.Get(fiber.HeaderAuthorization)); !ok {
			return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
	}

	s, err := h.uc.Refresh(c.Context(), token)
	if err != nil {
		return mapAuthError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAuthResponse(s))
}
