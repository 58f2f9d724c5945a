// Package service is the graph and interaction layer: every mutation that
// writes a relation row adjusts the matching denormalized counters inside the
// same store transaction.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Tetsu-is/social-graph/internal/cache"
	"github.com/Tetsu-is/social-graph/internal/events"
	"github.com/Tetsu-is/social-graph/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultFeedLimit         = 20
	DefaultExploreLimit      = 30
	DefaultNotificationLimit = 50
)

type Service struct {
	store        repository.Store
	cache        cache.Cache
	publisher    events.Publisher
	logger       *zap.Logger
	now          func() time.Time
	newID        func() (string, error)
	passwordCost int

	comparePassword func(hash, password []byte) error
	dummyOnce       sync.Once
	dummyHash       []byte
}

type Option func(*Service)

func WithCache(c cache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock replaces time.Now. Story expiry is evaluated against this clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(newID func() (string, error)) Option {
	return func(s *Service) { s.newID = newID }
}

func WithPasswordCost(cost int) Option {
	return func(s *Service) { s.passwordCost = cost }
}

func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:        store,
		cache:        cache.Nop{},
		publisher:    events.Nop{},
		logger:       zap.NewNop(),
		now:          time.Now,
		newID:        newUUIDv7,
		passwordCost: bcrypt.DefaultCost,

		comparePassword: bcrypt.CompareHashAndPassword,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// clock returns the current time truncated to microseconds, the resolution
// PostgreSQL stores.
func (s *Service) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// invalidate drops cached reads after a committed mutation. Failures are
// logged only.
func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Error(err))
	}
}

// cacheKey scopes key to the current cache generation. It must be called
// before the store read whose result is cached. When the generation cannot be
// read the caller bypasses the cache.
func (s *Service) cacheKey(ctx context.Context, key string) (string, bool) {
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		s.logger.Warn("cache generation read failed", zap.Error(err))
		return "", false
	}
	return cache.Versioned(gen, key), true
}

func (s *Service) cacheGet(ctx context.Context, key string, dst any) bool {
	err := s.cache.Get(ctx, key, dst)
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	return err == nil
}

func (s *Service) cacheSet(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) publish(ctx context.Context, evts ...events.Event) {
	for _, e := range evts {
		if err := s.publisher.Publish(ctx, e); err != nil {
			s.logger.Warn("publish event failed",
				zap.String("subject", e.Subject()),
				zap.Error(err),
			)
		}
	}
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return limit
}
