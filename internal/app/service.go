// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"

	repository "github.com/mergington/activities/internal/adapters/repository"
	"github.com/mergington/activities/internal/domain/model"
	"github.com/mergington/activities/internal/domain/seed"
	"github.com/mergington/activities/pkg/logger"
	"github.com/mergington/activities/pkg/metrics"
)

// Service owns the activity registry and exposes the list, signup and
// unregister operations used by the HTTP layer.
type Service struct {
	mu sync.RWMutex

	store    repository.Store
	initial  map[string]model.Activity
	catalog  map[string]model.Activity
	enforce  bool
	external bool

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCatalog replaces the built-in seed catalogue.
func WithCatalog(activities map[string]model.Activity) Option {
	return func(s *Service) {
		if len(activities) > 0 {
			s.catalog = model.CloneAll(activities)
		}
	}
}

// WithCapacityEnforcement turns max_participants into a hard limit.
func WithCapacityEnforcement(enabled bool) Option {
	return func(s *Service) {
		s.enforce = enabled
	}
}

// WithStore injects a prebuilt store. Catalog and capacity options are then
// the store's business.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
			s.external = true
		}
	}
}

// New constructs a Service. Without WithStore it builds an in-memory store
// seeded from the catalogue, so every call yields an independent registry.
func New(opts ...Option) *Service {
	s := &Service{
		catalog: seed.Default(),
		logger:  logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if !s.external {
		s.store = repository.NewInMemoryStore(
			repository.WithSeed(s.catalog),
			repository.WithCapacityEnforcement(s.enforce),
		)
	}
	if snap, ok := s.store.(repository.Snapshotter); ok {
		s.initial = snap.Snapshot(context.Background())
	}
	return s
}

// Start marks the service as running and publishes initial gauges.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	all, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	metrics.UpdateActivities(len(all))
	for name, a := range all {
		metrics.UpdateParticipants(name, len(a.Participants))
	}

	s.started = true
	s.logger.Info(ctx, "activities service started",
		logger.Int("activities", len(all)),
		logger.Bool("enforceCapacity", s.enforce),
	)
	return nil
}

// Stop marks the service as stopped. The registry is kept in memory.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "activities service stopped")
}

// ListActivities returns every activity keyed by name.
func (s *Service) ListActivities(ctx context.Context) (map[string]model.Activity, error) {
	return s.store.List(ctx)
}

// Signup adds email to the named activity.
func (s *Service) Signup(ctx context.Context, name, email string) error {
	err := s.store.Signup(ctx, name, email)
	s.record(ctx, metrics.OpSignup, name, email, err)
	return err
}

// Unregister removes email from the named activity.
func (s *Service) Unregister(ctx context.Context, name, email string) error {
	err := s.store.Unregister(ctx, name, email)
	s.record(ctx, metrics.OpUnregister, name, email, err)
	return err
}

// Reset restores the registry to the state captured at construction.
// Stores that cannot snapshot are left untouched.
func (s *Service) Reset(ctx context.Context) {
	snap, ok := s.store.(repository.Snapshotter)
	if !ok || s.initial == nil {
		return
	}
	snap.Restore(ctx, s.initial)
	s.logger.Info(ctx, "registry reset to initial catalogue")
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"enforceCapacity": s.enforce,
		"activities":      s.store.Count(ctx),
	}

	if all, err := s.store.List(ctx); err == nil {
		total := 0
		for _, a := range all {
			total += len(a.Participants)
		}
		stats["participants"] = total
	}
	return stats
}

func (s *Service) record(ctx context.Context, op, name, email string, err error) {
	outcome := outcomeOf(err)
	if mErr := metrics.RecordOperation(op, outcome); mErr != nil {
		s.logger.Warn(ctx, "metrics rejected outcome", logger.Error(mErr))
	}

	fields := []logger.Field{
		logger.String("op", op),
		logger.String("activity", name),
		logger.String("email", email),
		logger.String("outcome", outcome),
	}
	if err != nil {
		s.logger.Debug(ctx, "registry operation rejected", append(fields, logger.Error(err))...)
		return
	}
	s.logger.Info(ctx, "registry operation applied", fields...)

	if a, gErr := s.store.Get(ctx, name); gErr == nil {
		metrics.UpdateParticipants(name, len(a.Participants))
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, repository.ErrActivityNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, repository.ErrAlreadySignedUp):
		return metrics.OutcomeDuplicate
	case errors.Is(err, repository.ErrParticipantNotFound):
		return metrics.OutcomeParticipantGone
	case errors.Is(err, repository.ErrActivityFull):
		return metrics.OutcomeCapacityExceeded
	default:
		return metrics.OutcomeInvalid
	}
}
