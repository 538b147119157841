package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"creatorhub/internal/metrics"
	"creatorhub/internal/session"
	"creatorhub/internal/telemetry"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("creatorhub/listing")

// Service is stateless and safe for concurrent use. Every guard runs before
// the gateway sees a write.
type Service struct {
	gw       Gateway
	cache    Cache
	notifier Notifier
	metrics  metrics.Sink
	logger   *zap.Logger
	cacheTTL time.Duration

	now     func() time.Time
	newSlug func(title string) (string, error)
}

func NewService(gw Gateway, cache Cache, notifier Notifier, sink metrics.Sink, logger *zap.Logger, cacheTTL time.Duration) *Service {
	if sink == nil {
		sink = metrics.NoopSink{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		gw:       gw,
		cache:    cache,
		notifier: notifier,
		metrics:  sink,
		logger:   logger,
		cacheTTL: cacheTTL,
		now:      time.Now,
		newSlug:  GenerateSlug,
	}
}

// LoadListings returns every posting, most recent first, annotated for viewer.
// viewer may be nil.
func (s *Service) LoadListings(ctx context.Context, viewer *session.Viewer) ([]Listing, error) {
	ctx, span := tracer.Start(ctx, "listing.LoadListings")
	defer span.End()

	start := time.Now()
	rows, err := s.postingRows(ctx)
	if err != nil {
		s.metrics.ListingsLoaded(time.Since(start), 0, err)
		return nil, s.fetchFailed(span, "list postings", err)
	}

	out := make([]Listing, 0, len(rows))
	for _, r := range rows {
		out = append(out, toListing(r))
	}

	if err := s.annotate(ctx, viewer, out); err != nil {
		s.metrics.ListingsLoaded(time.Since(start), 0, err)
		return nil, s.fetchFailed(span, "annotate postings", err)
	}

	span.SetAttributes(telemetry.Int("listing.count", len(out)))
	s.metrics.ListingsLoaded(time.Since(start), len(out), nil)
	return out, nil
}

// GetBySlug resolves a direct link. A stale slug yields ErrNotFound.
func (s *Service) GetBySlug(ctx context.Context, viewer *session.Viewer, slug string) (Listing, error) {
	ctx, span := tracer.Start(ctx, "listing.GetBySlug")
	defer span.End()

	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Listing{}, ErrNotFound
	}
	span.SetAttributes(telemetry.String("listing.slug", slug))

	row, err := s.gw.GetPostingBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Listing{}, ErrNotFound
		}
		return Listing{}, s.fetchFailed(span, "get posting by slug", err)
	}

	items := []Listing{toListing(row)}
	if err := s.annotate(ctx, viewer, items); err != nil {
		return Listing{}, s.fetchFailed(span, "annotate posting", err)
	}
	return items[0], nil
}

// ToggleSave removes the saved pair when currentlySaved, otherwise adds it.
func (s *Service) ToggleSave(ctx context.Context, viewer *session.Viewer, jobID uuid.UUID, currentlySaved bool) error {
	action := metrics.ActionSave
	if currentlySaved {
		action = metrics.ActionUnsave
	}
	ctx, span := tracer.Start(ctx, "listing.ToggleSave", trace.WithAttributes(
		telemetry.String("listing.job_id", jobID.String()),
		telemetry.Bool("listing.currently_saved", currentlySaved),
	))
	defer span.End()

	if _, err := s.creatorTarget(ctx, viewer, jobID); err != nil {
		return s.guardFailed(span, action, err)
	}

	pair := SavedJob{ProfileID: viewer.ProfileID, JobID: jobID}
	var err error
	if currentlySaved {
		err = s.gw.DeleteSavedJob(ctx, pair)
	} else {
		err = s.gw.InsertSavedJob(ctx, pair)
	}
	if err != nil {
		return s.mutationFailed(span, action, jobID, err)
	}

	s.metrics.InteractionCompleted(action, metrics.OutcomeSuccess)
	return nil
}

// Apply records an application. Repeated applications are absorbed by the
// gateway.
func (s *Service) Apply(ctx context.Context, viewer *session.Viewer, jobID uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "listing.Apply", trace.WithAttributes(
		telemetry.String("listing.job_id", jobID.String()),
	))
	defer span.End()

	target, err := s.creatorTarget(ctx, viewer, jobID)
	if err != nil {
		return s.guardFailed(span, metrics.ActionApply, err)
	}
	if target.Expired(s.now()) {
		return s.guardFailed(span, metrics.ActionApply, ErrExpired)
	}

	if err := s.gw.InsertApplication(ctx, Application{ProfileID: viewer.ProfileID, JobID: jobID}); err != nil {
		return s.mutationFailed(span, metrics.ActionApply, jobID, err)
	}

	s.metrics.InteractionCompleted(metrics.ActionApply, metrics.OutcomeSuccess)
	return nil
}

// CreateOrUpdate inserts a new posting owned by viewer, or edits editTarget
// when it is non-nil. Edits never change owner, slug or created_at.
func (s *Service) CreateOrUpdate(ctx context.Context, viewer *session.Viewer, form PostingForm, editTarget *uuid.UUID) (Listing, error) {
	if editTarget != nil {
		return s.update(ctx, viewer, *editTarget, form)
	}
	return s.create(ctx, viewer, form)
}

func (s *Service) create(ctx context.Context, viewer *session.Viewer, form PostingForm) (Listing, error) {
	ctx, span := tracer.Start(ctx, "listing.Create")
	defer span.End()

	if viewer == nil {
		return Listing{}, s.guardFailed(span, metrics.ActionCreate, ErrUnauthenticated)
	}
	if !viewer.IsBusinessOwner() {
		return Listing{}, s.guardFailed(span, metrics.ActionCreate, ErrWrongAccountKind)
	}
	form, err := normalizeForm(form)
	if err != nil {
		return Listing{}, s.guardFailed(span, metrics.ActionCreate, err)
	}

	slug, err := s.newSlug(form.Title)
	if err != nil {
		return Listing{}, s.mutationFailed(span, metrics.ActionCreate, uuid.Nil, err)
	}

	row, err := s.gw.InsertPosting(ctx, NewPosting{
		Slug:         slug,
		ProfileID:    viewer.ProfileID,
		Title:        form.Title,
		Description:  form.Description,
		HasDeadline:  form.HasDeadline,
		DeadlineDate: form.DeadlineDate,
		DeadlineTime: form.DeadlineTime,
	})
	if err != nil {
		return Listing{}, s.mutationFailed(span, metrics.ActionCreate, uuid.Nil, err)
	}

	s.metrics.InteractionCompleted(metrics.ActionCreate, metrics.OutcomeSuccess)
	s.postingChanged(ctx, EventPostingCreated, row)

	l := toListing(row)
	l.IsOwner = true
	return l, nil
}

func (s *Service) update(ctx context.Context, viewer *session.Viewer, jobID uuid.UUID, form PostingForm) (Listing, error) {
	ctx, span := tracer.Start(ctx, "listing.Update", trace.WithAttributes(
		telemetry.String("listing.job_id", jobID.String()),
	))
	defer span.End()

	if _, err := s.ownedTarget(ctx, viewer, jobID); err != nil {
		return Listing{}, s.guardFailed(span, metrics.ActionUpdate, err)
	}
	form, err := normalizeForm(form)
	if err != nil {
		return Listing{}, s.guardFailed(span, metrics.ActionUpdate, err)
	}

	err = s.gw.UpdatePosting(ctx, jobID, viewer.ProfileID, PostingPatch{
		Title:        form.Title,
		Description:  form.Description,
		HasDeadline:  form.HasDeadline,
		DeadlineDate: form.DeadlineDate,
		DeadlineTime: form.DeadlineTime,
	})
	if err != nil {
		return Listing{}, s.mutationFailed(span, metrics.ActionUpdate, jobID, err)
	}

	row, err := s.gw.GetPostingByID(ctx, jobID)
	if err != nil {
		return Listing{}, s.mutationFailed(span, metrics.ActionUpdate, jobID, err)
	}

	s.metrics.InteractionCompleted(metrics.ActionUpdate, metrics.OutcomeSuccess)
	s.postingChanged(ctx, EventPostingUpdated, row)

	l := toListing(row)
	l.IsOwner = true
	return l, nil
}

// Delete hard-deletes a posting. Callers confirm with the user first; saved
// and application rows go with it.
func (s *Service) Delete(ctx context.Context, viewer *session.Viewer, jobID uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "listing.Delete", trace.WithAttributes(
		telemetry.String("listing.job_id", jobID.String()),
	))
	defer span.End()

	row, err := s.ownedTarget(ctx, viewer, jobID)
	if err != nil {
		return s.guardFailed(span, metrics.ActionDelete, err)
	}

	if err := s.gw.DeletePosting(ctx, jobID, viewer.ProfileID); err != nil {
		return s.mutationFailed(span, metrics.ActionDelete, jobID, err)
	}

	s.metrics.InteractionCompleted(metrics.ActionDelete, metrics.OutcomeSuccess)
	s.postingChanged(ctx, EventPostingDeleted, row)
	return nil
}

// creatorTarget loads a posting a content creator wants to save or apply to.
func (s *Service) creatorTarget(ctx context.Context, viewer *session.Viewer, jobID uuid.UUID) (Listing, error) {
	if viewer == nil {
		return Listing{}, ErrUnauthenticated
	}
	if !viewer.IsCreator() {
		return Listing{}, ErrWrongAccountKind
	}
	row, err := s.lookup(ctx, jobID)
	if err != nil {
		return Listing{}, err
	}
	if row.Poster.ProfileID == viewer.ProfileID {
		return Listing{}, ErrOwnPosting
	}
	return toListing(row), nil
}

func (s *Service) ownedTarget(ctx context.Context, viewer *session.Viewer, jobID uuid.UUID) (PostingRow, error) {
	if viewer == nil {
		return PostingRow{}, ErrUnauthenticated
	}
	if !viewer.HasProfile() {
		return PostingRow{}, ErrNotOwner
	}
	row, err := s.lookup(ctx, jobID)
	if err != nil {
		return PostingRow{}, err
	}
	if row.Poster.ProfileID != viewer.ProfileID {
		return PostingRow{}, ErrNotOwner
	}
	return row, nil
}

func (s *Service) lookup(ctx context.Context, jobID uuid.UUID) (PostingRow, error) {
	if jobID == uuid.Nil {
		return PostingRow{}, ErrNotFound
	}
	row, err := s.gw.GetPostingByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return PostingRow{}, ErrNotFound
		}
		return PostingRow{}, fmt.Errorf("%w: %w", ErrMutationFailed, err)
	}
	return row, nil
}

func (s *Service) postingRows(ctx context.Context) ([]PostingRow, error) {
	if s.cache != nil {
		var cached []PostingRow
		hit, err := s.cache.GetJSON(ctx, postingsCacheKey, &cached)
		if err == nil && hit {
			s.metrics.CacheLookup(true)
			s.logger.Debug("listing cache hit", zap.String("key", postingsCacheKey))
			return cached, nil
		}
		s.metrics.CacheLookup(false)
	}

	rows, err := s.gw.ListPostings(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, postingsCacheKey, rows, s.cacheTTL); err != nil {
			s.logger.Warn("listing cache set failed", zap.String("key", postingsCacheKey), zap.Error(err))
		}
	}
	return rows, nil
}

func (s *Service) annotate(ctx context.Context, viewer *session.Viewer, items []Listing) error {
	if !viewer.HasProfile() {
		return nil
	}
	for i := range items {
		items[i].IsOwner = items[i].OwnerID == viewer.ProfileID
	}
	if !viewer.IsCreator() {
		return nil
	}

	savedIDs, err := s.gw.ListSavedJobIDs(ctx, viewer.ProfileID)
	if err != nil {
		return err
	}
	appliedIDs, err := s.gw.ListAppliedJobIDs(ctx, viewer.ProfileID)
	if err != nil {
		return err
	}

	saved := idSet(savedIDs)
	applied := idSet(appliedIDs)
	for i := range items {
		_, items[i].IsSaved = saved[items[i].ID]
		_, items[i].IsApplied = applied[items[i].ID]
	}
	return nil
}

// PostersChanged drops cached rows after a poster's profile attributes change,
// so the next load joins the current name, city and country.
func (s *Service) PostersChanged(ctx context.Context) {
	s.invalidate(ctx)
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, postingsCacheKey); err != nil {
		s.logger.Warn("listing cache invalidation failed", zap.String("key", postingsCacheKey), zap.Error(err))
	}
}

func (s *Service) postingChanged(ctx context.Context, typ EventType, row PostingRow) {
	s.invalidate(ctx)
	if s.notifier == nil {
		return
	}

	evt := Event{
		Type:      typ,
		JobID:     row.ID,
		Slug:      row.Slug,
		OwnerID:   row.Poster.ProfileID,
		Timestamp: s.now().UTC(),
	}
	err := s.notifier.Notify(ctx, evt)
	s.metrics.EventPublished(string(typ), err)
	if err != nil {
		s.logger.Warn("posting event not delivered",
			zap.String("type", string(typ)),
			zap.String("job_id", row.ID.String()),
			zap.Error(err))
	}
}

func (s *Service) fetchFailed(span trace.Span, what string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, what)
	s.logger.Error("listing fetch failed", zap.String("op", what), zap.Error(err))
	if errors.Is(err, ErrFetchFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrFetchFailed, err)
}

func (s *Service) guardFailed(span trace.Span, action string, err error) error {
	if errors.Is(err, ErrMutationFailed) {
		return s.mutationFailed(span, action, uuid.Nil, err)
	}
	span.SetAttributes(telemetry.String("listing.rejected", err.Error()))
	s.metrics.InteractionCompleted(action, metrics.OutcomeRejected)
	s.logger.Info("listing action rejected", zap.String("action", action), zap.Error(err))
	return err
}

func (s *Service) mutationFailed(span trace.Span, action string, jobID uuid.UUID, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, action)
	s.metrics.InteractionCompleted(action, metrics.OutcomeFailed)
	s.logger.Error("listing action failed",
		zap.String("action", action),
		zap.String("job_id", jobID.String()),
		zap.Error(err))
	if errors.Is(err, ErrMutationFailed) || errors.Is(err, ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrMutationFailed, err)
}

func normalizeForm(f PostingForm) (PostingForm, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.DeadlineTime = strings.TrimSpace(f.DeadlineTime)

	if f.Title == "" || f.Description == "" {
		return PostingForm{}, ErrInvalidInput
	}
	if !f.HasDeadline {
		f.DeadlineDate = nil
		f.DeadlineTime = ""
		return f, nil
	}
	if f.DeadlineDate == nil {
		return PostingForm{}, ErrInvalidInput
	}
	if !ValidClock(f.DeadlineTime) {
		return PostingForm{}, ErrInvalidInput
	}
	return f, nil
}

func idSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	out := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
