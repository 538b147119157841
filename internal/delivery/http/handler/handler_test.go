package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"creatorhub/internal/delivery/http/middleware"
	"creatorhub/internal/domain/profile"
	"creatorhub/internal/listing"
	"creatorhub/internal/session"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// withViewer stands in for the auth middleware: it installs v when set and
// otherwise behaves like the anonymous path.
func withViewer(v *session.Viewer) fiber.Handler {
	return func(c fiber.Ctx) error {
		if v != nil {
			c.Locals(middleware.CtxUserIDKey, v.UserID)
			c.Locals(middleware.CtxViewerKey, v)
		}
		return c.Next()
	}
}

func requireViewer(v *session.Viewer) fiber.Handler {
	return func(c fiber.Ctx) error {
		if v == nil {
			return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		return withViewer(v)(c)
	}
}

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(nil).Middleware())
	return app
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func call(t *testing.T, app *fiber.App, method, path string, body any) (int, envelope) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(res.Body)
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode %s %s: %v (%s)", method, path, err, raw)
	}
	return res.StatusCode, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode data: %v (%s)", err, raw)
	}
	return out
}

type fakeListings struct {
	items []listing.Listing
	err   error

	lastViewer *session.Viewer
	saveCalls  []bool
	applied    []uuid.UUID
	deleted    []uuid.UUID
	edits      []*uuid.UUID
	lastForm   listing.PostingForm
}

func (f *fakeListings) LoadListings(_ context.Context, v *session.Viewer) ([]listing.Listing, error) {
	f.lastViewer = v
	if f.err != nil {
		return nil, f.err
	}
	return append([]listing.Listing(nil), f.items...), nil
}

func (f *fakeListings) GetBySlug(_ context.Context, v *session.Viewer, slug string) (listing.Listing, error) {
	f.lastViewer = v
	for _, l := range f.items {
		if l.Slug == slug {
			return l, nil
		}
	}
	return listing.Listing{}, listing.ErrNotFound
}

func (f *fakeListings) ToggleSave(_ context.Context, _ *session.Viewer, _ uuid.UUID, currentlySaved bool) error {
	f.saveCalls = append(f.saveCalls, currentlySaved)
	return f.err
}

func (f *fakeListings) Apply(_ context.Context, _ *session.Viewer, id uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.applied = append(f.applied, id)
	return nil
}

func (f *fakeListings) CreateOrUpdate(_ context.Context, _ *session.Viewer, form listing.PostingForm, edit *uuid.UUID) (listing.Listing, error) {
	f.edits = append(f.edits, edit)
	f.lastForm = form
	if f.err != nil {
		return listing.Listing{}, f.err
	}
	l := listing.Listing{ID: uuid.New(), Slug: "reel-abc123", Title: form.Title, Description: form.Description}
	if edit != nil {
		l.ID = *edit
	}
	return l, nil
}

func (f *fakeListings) Delete(_ context.Context, _ *session.Viewer, id uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func jobsApp(svc ListingService, v *session.Viewer) *fiber.App {
	app := newApp()
	h := NewJobsHandler(svc)
	h.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	h.RegisterRoutes(app.Group("/jobs"), withViewer(v), requireViewer(v))
	return app
}

func creatorViewer() *session.Viewer {
	return &session.Viewer{UserID: uuid.New(), ProfileID: uuid.New(), Username: "mei", Kind: profile.KindContentCreator}
}
