package handler

import (
	"errors"
	"testing"
	"time"

	"creatorhub/internal/delivery/http/dto"
	"creatorhub/internal/listing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func boardItems() []listing.Listing {
	closed := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	return []listing.Listing{
		{ID: uuid.New(), Slug: "reel-aaaaaa", Title: "Reel", Description: "Short", Country: "Taiwan", IsSaved: true},
		{ID: uuid.New(), Slug: "logo-bbbbbb", Title: "Logo", Description: "Brand", Country: "Germany", IsOwner: true},
		{ID: uuid.New(), Slug: "vlog-cccccc", Title: "Vlog", Description: "Travel", Country: "Taiwan", HasDeadline: true, DeadlineDate: &closed, DeadlineTime: "09:00:00"},
	}
}

func TestJobsHandler_ListFilters(t *testing.T) {
	items := boardItems()
	svc := &fakeListings{items: items}
	app := jobsApp(svc, creatorViewer())

	tests := []struct {
		name string
		path string
		want []string
	}{
		{name: "all", path: "/jobs", want: []string{items[0].ID.String(), items[1].ID.String(), items[2].ID.String()}},
		{name: "country", path: "/jobs?country=Taiwan", want: []string{items[0].ID.String(), items[2].ID.String()}},
		{name: "query", path: "/jobs?q=BRAND", want: []string{items[1].ID.String()}},
		{name: "saved", path: "/jobs?saved=true", want: []string{items[0].ID.String()}},
		{name: "mine", path: "/jobs?mine=1", want: []string{items[1].ID.String()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := call(t, app, fiber.MethodGet, tt.path, nil)
			if status != fiber.StatusOK {
				t.Fatalf("status %d", status)
			}
			out := decode[dto.JobListResponse](t, env.Data)
			if out.Matched != len(items) || out.Total != len(tt.want) {
				t.Fatalf("unexpected counts %d/%d", out.Total, out.Matched)
			}
			for i, id := range tt.want {
				if out.Items[i].ID != id {
					t.Fatalf("item %d: got %s want %s", i, out.Items[i].ID, id)
				}
			}
		})
	}
}

func TestJobsHandler_ListMarksExpired(t *testing.T) {
	app := jobsApp(&fakeListings{items: boardItems()}, nil)
	_, env := call(t, app, fiber.MethodGet, "/jobs", nil)
	out := decode[dto.JobListResponse](t, env.Data)
	if out.Items[0].IsExpired || !out.Items[2].IsExpired {
		t.Fatal("only the posting with a past deadline is expired")
	}
	if out.Items[2].DeadlineDate == nil || *out.Items[2].DeadlineDate != "2025-05-01" {
		t.Fatalf("unexpected deadline date %v", out.Items[2].DeadlineDate)
	}
}

func TestJobsHandler_ListBadRequests(t *testing.T) {
	app := jobsApp(&fakeListings{items: boardItems()}, creatorViewer())
	for _, path := range []string{"/jobs?saved=yes", "/jobs?saved=true&mine=true"} {
		if status, _ := call(t, app, fiber.MethodGet, path, nil); status != fiber.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, status)
		}
	}

	anon := jobsApp(&fakeListings{items: boardItems()}, nil)
	if status, _ := call(t, anon, fiber.MethodGet, "/jobs?saved=true", nil); status != fiber.StatusUnauthorized {
		t.Fatalf("anonymous saved filter: expected 401, got %d", status)
	}
}

func TestJobsHandler_ListFetchFailure(t *testing.T) {
	svc := &fakeListings{err: errors.Join(listing.ErrFetchFailed, errors.New("conn refused"))}
	status, env := call(t, jobsApp(svc, nil), fiber.MethodGet, "/jobs", nil)
	if status != fiber.StatusBadGateway {
		t.Fatalf("expected 502, got %d", status)
	}
	if env.Message == "" || env.Message == "conn refused" {
		t.Fatalf("cause must not leak: %q", env.Message)
	}
}

func TestJobsHandler_GetBySlug(t *testing.T) {
	items := boardItems()
	app := jobsApp(&fakeListings{items: items}, nil)

	status, env := call(t, app, fiber.MethodGet, "/jobs/logo-bbbbbb", nil)
	if status != fiber.StatusOK || decode[dto.JobResponse](t, env.Data).ID != items[1].ID.String() {
		t.Fatalf("unexpected %d %s", status, env.Data)
	}
	if status, _ := call(t, app, fiber.MethodGet, "/jobs/missing", nil); status != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

func TestJobsHandler_Writes(t *testing.T) {
	svc := &fakeListings{items: boardItems()}
	app := jobsApp(svc, creatorViewer())
	id := uuid.New()

	status, env := call(t, app, fiber.MethodPost, "/jobs", dto.JobRequest{Title: "Reel", Description: "30s", HasDeadline: true, DeadlineDate: "2025-07-01", DeadlineTime: "18:00"})
	if status != fiber.StatusCreated {
		t.Fatalf("create: %d %s", status, env.Message)
	}
	if svc.edits[0] != nil || svc.lastForm.DeadlineDate == nil || svc.lastForm.DeadlineTime != "18:00" {
		t.Fatalf("unexpected create form %+v", svc.lastForm)
	}

	status, _ = call(t, app, fiber.MethodPut, "/jobs/"+id.String(), dto.JobRequest{Title: "Reel 2", Description: "45s"})
	if status != fiber.StatusOK || svc.edits[1] == nil || *svc.edits[1] != id {
		t.Fatalf("update: %d", status)
	}

	if status, _ := call(t, app, fiber.MethodPost, "/jobs/"+id.String()+"/save", nil); status != fiber.StatusOK {
		t.Fatalf("save: %d", status)
	}
	if status, _ := call(t, app, fiber.MethodDelete, "/jobs/"+id.String()+"/save", nil); status != fiber.StatusOK {
		t.Fatalf("unsave: %d", status)
	}
	if len(svc.saveCalls) != 2 || svc.saveCalls[0] || !svc.saveCalls[1] {
		t.Fatalf("save must pass currentlySaved=false, unsave true: %v", svc.saveCalls)
	}

	if status, _ := call(t, app, fiber.MethodPost, "/jobs/"+id.String()+"/apply", nil); status != fiber.StatusOK || len(svc.applied) != 1 {
		t.Fatalf("apply: %d", status)
	}
	if status, _ := call(t, app, fiber.MethodDelete, "/jobs/"+id.String(), nil); status != fiber.StatusOK || len(svc.deleted) != 1 {
		t.Fatalf("delete: %d", status)
	}
}

func TestJobsHandler_WriteValidation(t *testing.T) {
	svc := &fakeListings{}
	app := jobsApp(svc, creatorViewer())

	if status, _ := call(t, app, fiber.MethodPost, "/jobs/not-a-uuid/apply", nil); status != fiber.StatusBadRequest {
		t.Fatalf("bad id: expected 400, got %d", status)
	}
	if status, _ := call(t, app, fiber.MethodPost, "/jobs", dto.JobRequest{Title: "x", Description: "y", DeadlineDate: "01/07/2025"}); status != fiber.StatusBadRequest {
		t.Fatalf("bad date: expected 400, got %d", status)
	}
	if len(svc.edits) != 0 {
		t.Fatal("service must not be called for malformed input")
	}
}

func TestJobsHandler_WriteRequiresAuth(t *testing.T) {
	svc := &fakeListings{}
	app := jobsApp(svc, nil)
	if status, _ := call(t, app, fiber.MethodPost, "/jobs/"+uuid.NewString()+"/save", nil); status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	if len(svc.saveCalls) != 0 {
		t.Fatal("anonymous write reached the service")
	}
}

func TestJobsHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{listing.ErrUnauthenticated, fiber.StatusUnauthorized},
		{listing.ErrWrongAccountKind, fiber.StatusForbidden},
		{listing.ErrNotOwner, fiber.StatusForbidden},
		{listing.ErrOwnPosting, fiber.StatusForbidden},
		{listing.ErrNotFound, fiber.StatusNotFound},
		{listing.ErrExpired, fiber.StatusConflict},
		{listing.ErrBusy, fiber.StatusConflict},
		{listing.ErrInvalidInput, fiber.StatusBadRequest},
		{listing.ErrMutationFailed, fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			app := jobsApp(&fakeListings{err: tt.err}, creatorViewer())
			if status, _ := call(t, app, fiber.MethodPost, "/jobs/"+uuid.NewString()+"/apply", nil); status != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, status)
			}
		})
	}
}
