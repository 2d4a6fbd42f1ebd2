package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"rentwise/internal/profile/cache"
	"rentwise/internal/profile/events"
	"rentwise/internal/profile/membership"
	"rentwise/internal/profile/metrics"
	"rentwise/internal/profile/models"
	"rentwise/internal/profile/store"
	dErrors "rentwise/pkg/domain-errors"
	"rentwise/pkg/platform/sentinel"
	"rentwise/pkg/requestcontext"
)

// ProfileStore persists profiles. Implementations enforce one profile per
// (owner, type) and one primary per owner, returning store.ErrDuplicateType
// and store.ErrDuplicatePrimary. Update is optimistic on Version and never
// writes the isPrimary/isActive flags.
type ProfileStore interface {
	Create(ctx context.Context, p *models.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	FindByOwnerAndType(ctx context.Context, ownerID string, t models.ProfileType) (*models.Profile, error)
	FindPrimary(ctx context.Context, ownerID string) (*models.Profile, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Profile, error)
	Update(ctx context.Context, p *models.Profile) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetPrimary(ctx context.Context, ownerID string, id uuid.UUID, now time.Time) error
	ActivateExclusive(ctx context.Context, ownerID string, id uuid.UUID, now time.Time) error
	Deactivate(ctx context.Context, id uuid.UUID, now time.Time) error
}

// ProfileCache is the lookaside cache for an owner's primary and trust-score
// views.
type ProfileCache interface {
	Get(ctx context.Context, ownerID string, view cache.View) ([]byte, bool, error)
	Set(ctx context.Context, ownerID string, view cache.View, data []byte) error
	Clear(ctx context.Context, ownerID string, views ...cache.View) error
}

type EventPublisher interface {
	Publish(ctx context.Context, evt events.Event) error
}

const (
	maxWriteAttempts      = 3
	maxInvalidateAttempts = 3
)

// Service is the only entry point to profile state. Every successful write
// goes through invalidate before it returns.
type Service struct {
	profiles ProfileStore
	cache    ProfileCache
	members  *membership.Manager
	events   EventPublisher
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	primary  singleflight.Group
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithEventPublisher(p EventPublisher) Option {
	return func(s *Service) {
		s.events = p
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New constructs a Service. A nil cache falls back to a process-local
// memory cache with the default TTL.
func New(profiles ProfileStore, c ProfileCache, opts ...Option) *Service {
	s := &Service{
		profiles: profiles,
		cache:    c,
		members:  membership.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = cache.NewMemory(cache.DefaultTTL)
	}
	if s.events == nil {
		s.events = events.Discard{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("rentwise/internal/profile/service")
	}
	return s
}

func requireOwner(ownerID string) error {
	if ownerID == "" {
		return dErrors.New(dErrors.CodeAuthenticationRequired, "authentication required")
	}
	return nil
}

// startOp opens a span for a service operation. The returned func closes it
// and records the outcome.
func (s *Service) startOp(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "profile."+op, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		s.metrics.ObserveOperation(op, start)
	}
}

// invalidate clears every cached view of the owner. A clear that keeps
// failing is surfaced so the caller never reports success over a stale
// cache.
func (s *Service) invalidate(ctx context.Context, ownerID string) error {
	var err error
	for attempt := 1; attempt <= maxInvalidateAttempts; attempt++ {
		if err = s.cache.Clear(ctx, ownerID, cache.Views...); err == nil {
			return nil
		}
		s.logger.WarnContext(ctx, "profile cache invalidation failed",
			"owner_id", ownerID,
			"attempt", attempt,
			"error", err,
		)
	}
	s.metrics.IncrementInvalidationFailures()
	s.logger.ErrorContext(ctx, "profile cache invalidation exhausted retries",
		"owner_id", ownerID,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to invalidate profile cache")
}

// invalidateAfter clears the owner's views after a write that failed part
// way through. A failed invalidation takes precedence over cause.
func (s *Service) invalidateAfter(ctx context.Context, ownerID string, cause error) error {
	if err := s.invalidate(ctx, ownerID); err != nil {
		return err
	}
	return cause
}

func (s *Service) readCache(ctx context.Context, ownerID string, view cache.View, dst any) bool {
	data, hit, err := s.cache.Get(ctx, ownerID, view)
	s.metrics.ObserveCacheLookup(string(view), hit, err)
	if err != nil {
		s.logger.WarnContext(ctx, "profile cache read failed", "owner_id", ownerID, "view", string(view), "error", err)
		return false
	}
	if !hit {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.WarnContext(ctx, "discarding undecodable cache entry", "owner_id", ownerID, "view", string(view), "error", err)
		return false
	}
	return true
}

func (s *Service) writeCache(ctx context.Context, ownerID string, view cache.View, v any) {
	data, err := json.Marshal(v)
	if err == nil {
		err = s.cache.Set(ctx, ownerID, view, data)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "profile cache write failed", "owner_id", ownerID, "view", string(view), "error", err)
	}
}

// publish is best effort. Failures are logged and counted.
func (s *Service) publish(ctx context.Context, t events.Type, p *models.Profile, payload map[string]any) {
	evt := events.New(t, p.OwnerID, p.ID, string(p.Type), requestcontext.Now(ctx), payload)
	if err := s.events.Publish(ctx, evt); err != nil {
		s.metrics.IncrementEventPublishFailures(string(t))
		s.logger.WarnContext(ctx, "failed to publish profile event",
			"event_type", string(t),
			"profile_id", p.ID.String(),
			"error", err,
		)
	}
}

// mutate runs a read-change-write cycle against the store, retrying when a
// concurrent writer bumped the version in between. change receives a copy
// and may return an error to abort without writing.
func (s *Service) mutate(ctx context.Context, load func(context.Context) (*models.Profile, error), change func(*models.Profile) error) (*models.Profile, error) {
	for attempt := 1; ; attempt++ {
		current, err := load(ctx)
		if err != nil {
			return nil, err
		}
		next := current.Clone()
		if err := change(next); err != nil {
			return nil, err
		}
		next.UpdatedAt = requestcontext.Now(ctx)
		err = s.profiles.Update(ctx, next)
		if err == nil {
			return next, nil
		}
		if errors.Is(err, store.ErrVersionConflict) {
			if attempt < maxWriteAttempts {
				continue
			}
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "profile was modified concurrently, retry the request")
		}
		return nil, storeError(err, "failed to update profile")
	}
}

func (s *Service) loadByID(id uuid.UUID) func(context.Context) (*models.Profile, error) {
	return func(ctx context.Context) (*models.Profile, error) {
		p, err := s.profiles.FindByID(ctx, id)
		if err != nil {
			return nil, storeError(err, "failed to load profile")
		}
		return p, nil
	}
}

func (s *Service) loadPrimary(ownerID string) func(context.Context) (*models.Profile, error) {
	return func(ctx context.Context) (*models.Profile, error) {
		p, err := s.profiles.FindPrimary(ctx, ownerID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeProfileNotFound, "primary profile not found")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load primary profile")
		}
		return p, nil
	}
}

// storeError translates store sentinels into coded errors.
func storeError(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeProfileNotFound, "profile not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
