package handler

import (
	"context"
	"strconv"
	"strings"
	"time"

	"creatorhub/internal/delivery/http/dto"
	"creatorhub/internal/delivery/http/middleware"
	"creatorhub/internal/listing"
	"creatorhub/internal/pkg/response"
	"creatorhub/internal/session"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ListingService interface {
	LoadListings(ctx context.Context, viewer *session.Viewer) ([]listing.Listing, error)
	GetBySlug(ctx context.Context, viewer *session.Viewer, slug string) (listing.Listing, error)
	ToggleSave(ctx context.Context, viewer *session.Viewer, jobID uuid.UUID, currentlySaved bool) error
	Apply(ctx context.Context, viewer *session.Viewer, jobID uuid.UUID) error
	CreateOrUpdate(ctx context.Context, viewer *session.Viewer, form listing.PostingForm, editTarget *uuid.UUID) (listing.Listing, error)
	Delete(ctx context.Context, viewer *session.Viewer, jobID uuid.UUID) error
}

type JobsHandler struct {
	svc ListingService
	now func() time.Time
}

func NewJobsHandler(svc ListingService) *JobsHandler {
	return &JobsHandler{svc: svc, now: time.Now}
}

// RegisterRoutes mounts the job endpoints. Reads run behind optionalAuth,
// writes behind requireAuth.
func (h *JobsHandler) RegisterRoutes(r fiber.Router, optionalAuth, requireAuth fiber.Handler) {
	if r == nil {
		return
	}
	r.Get("/", optionalAuth, h.List)
	r.Get("/:slug", optionalAuth, h.GetBySlug)

	r.Post("/", requireAuth, h.Create)
	r.Put("/:id", requireAuth, h.Update)
	r.Delete("/:id", requireAuth, h.Delete)
	r.Post("/:id/save", requireAuth, h.Save)
	r.Delete("/:id/save", requireAuth, h.Unsave)
	r.Post("/:id/apply", requireAuth, h.Apply)
}

// List returns every posting that passes the query filters, most recent
// first, with the caller's per-item flags.
func (h *JobsHandler) List(c fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return err
	}

	viewer := middleware.Viewer(c)
	if (f.SavedOnly || f.MineOnly) && viewer == nil {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Sign in to filter by saved or own postings", nil, nil)
	}

	all, err := h.svc.LoadListings(c.Context(), viewer)
	if err != nil {
		return mapListingError(err)
	}

	visible := listing.ApplyFilters(all, f)
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobListResponse(visible, len(all), h.now()))
}

func (h *JobsHandler) GetBySlug(c fiber.Ctx) error {
	l, err := h.svc.GetBySlug(c.Context(), middleware.Viewer(c), c.Params("slug"))
	if err != nil {
		return mapListingError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(l, h.now()))
}

func (h *JobsHandler) Create(c fiber.Ctx) error {
	form, err := bindJobForm(c)
	if err != nil {
		return err
	}

	l, err := h.svc.CreateOrUpdate(c.Context(), middleware.Viewer(c), form, nil)
	if err != nil {
		return mapListingError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewJobResponse(l, h.now()))
}

func (h *JobsHandler) Update(c fiber.Ctx) error {
	id, err := parseJobID(c)
	if err != nil {
		return err
	}
	form, err := bindJobForm(c)
	if err != nil {
		return err
	}

	l, err := h.svc.CreateOrUpdate(c.Context(), middleware.Viewer(c), form, &id)
	if err != nil {
		return mapListingError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(l, h.now()))
}

func (h *JobsHandler) Delete(c fiber.Ctx) error {
	return h.act(c, func(ctx context.Context, v *session.Viewer, id uuid.UUID) error {
		return h.svc.Delete(ctx, v, id)
	})
}

func (h *JobsHandler) Save(c fiber.Ctx) error {
	return h.act(c, func(ctx context.Context, v *session.Viewer, id uuid.UUID) error {
		return h.svc.ToggleSave(ctx, v, id, false)
	})
}

func (h *JobsHandler) Unsave(c fiber.Ctx) error {
	return h.act(c, func(ctx context.Context, v *session.Viewer, id uuid.UUID) error {
		return h.svc.ToggleSave(ctx, v, id, true)
	})
}

func (h *JobsHandler) Apply(c fiber.Ctx) error {
	return h.act(c, func(ctx context.Context, v *session.Viewer, id uuid.UUID) error {
		return h.svc.Apply(ctx, v, id)
	})
}

func (h *JobsHandler) act(c fiber.Ctx, fn func(ctx context.Context, v *session.Viewer, id uuid.UUID) error) error {
	id, err := parseJobID(c)
	if err != nil {
		return err
	}
	if err := fn(c.Context(), middleware.Viewer(c), id); err != nil {
		return mapListingError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"id": id.String()})
}

func parseFilter(c fiber.Ctx) (listing.FilterState, error) {
	saved, err := parseQueryBool(c, "saved")
	if err != nil {
		return listing.FilterState{}, err
	}
	mine, err := parseQueryBool(c, "mine")
	if err != nil {
		return listing.FilterState{}, err
	}
	if saved && mine {
		return listing.FilterState{}, middleware.NewAppError(fiber.StatusBadRequest, "saved and mine cannot be combined", nil, nil)
	}

	f := listing.FilterState{}.
		WithQuery(c.Query("q")).
		WithCountry(c.Query("country")).
		WithSavedOnly(saved).
		WithMineOnly(mine)
	return f, nil
}

func parseQueryBool(c fiber.Ctx, key string) (bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, middleware.NewAppError(fiber.StatusBadRequest, "invalid "+key+" parameter", nil, err)
	}
	return v, nil
}

func parseJobID(c fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "invalid job id", nil, err)
	}
	return id, nil
}

func bindJobForm(c fiber.Ctx) (listing.PostingForm, error) {
	var req dto.JobRequest
	if err := c.Bind().Body(&req); err != nil {
		return listing.PostingForm{}, middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	form, err := req.Form()
	if err != nil {
		return listing.PostingForm{}, mapListingError(err)
	}
	return form, nil
}
