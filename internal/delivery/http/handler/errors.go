package handler

import (
	"errors"

	"creatorhub/internal/delivery/http/middleware"
	"creatorhub/internal/listing"
	"creatorhub/internal/pkg/response"
	ucauth "creatorhub/internal/usecase/auth"
	ucprofile "creatorhub/internal/usecase/profile"

	"github.com/gofiber/fiber/v3"
)

func mapListingError(err error) error {
	switch {
	case errors.Is(err, listing.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Title and description are required; deadline needs a valid date and time", nil, err)
	case errors.Is(err, listing.ErrUnauthenticated):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Sign in to continue", nil, err)
	case errors.Is(err, listing.ErrWrongAccountKind):
		return middleware.NewAppError(fiber.StatusForbidden, "Your account type cannot do this", nil, err)
	case errors.Is(err, listing.ErrNotOwner):
		return middleware.NewAppError(fiber.StatusForbidden, "Only the poster can change this job", nil, err)
	case errors.Is(err, listing.ErrOwnPosting):
		return middleware.NewAppError(fiber.StatusForbidden, "You cannot save or apply to your own job", nil, err)
	case errors.Is(err, listing.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, listing.ErrExpired):
		return middleware.NewAppError(fiber.StatusConflict, "The deadline for this job has passed", nil, err)
	case errors.Is(err, listing.ErrBusy):
		return middleware.NewAppError(fiber.StatusConflict, "Another action on this job is in progress", nil, err)
	case errors.Is(err, listing.ErrFetchFailed):
		return middleware.NewAppError(fiber.StatusBadGateway, response.MessageBadGateway, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func mapProfileError(err error) error {
	switch {
	case errors.Is(err, ucprofile.ErrInvalidUsername):
		return middleware.NewAppError(fiber.StatusBadRequest, ucprofile.ErrInvalidUsername.Error(), nil, err)
	case errors.Is(err, ucprofile.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, ucprofile.ErrUsernameTaken):
		return middleware.NewAppError(fiber.StatusConflict, "Username already taken", nil, err)
	case errors.Is(err, ucprofile.ErrKindImmutable):
		return middleware.NewAppError(fiber.StatusConflict, "Account type cannot be changed", nil, err)
	case errors.Is(err, ucprofile.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Profile not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func mapAuthError(err error) error {
	switch {
	case errors.Is(err, ucauth.ErrEmailAlreadyRegistered):
		return middleware.NewAppError(fiber.StatusConflict, "Email already registered", nil, err)
	case errors.Is(err, ucauth.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid email or password", nil, err)
	case errors.Is(err, ucauth.ErrInvalidRefreshToken):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid refresh token", nil, err)
	case errors.Is(err, ucauth.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "A valid email and a password of at least 8 characters are required", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
