package janitor

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type StoryCleaner interface {
	CleanupExpiredStories(ctx context.Context) (int, error)
}

// Sweeper purges expired stories on a fixed interval.
type Sweeper struct {
	cleaner  StoryCleaner
	interval time.Duration
	logger   *zap.Logger
}

func NewSweeper(cleaner StoryCleaner, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{cleaner: cleaner, interval: interval, logger: logger}
}

// Run sweeps once immediately and then on every tick until ctx is done.
// A failed sweep is logged and retried on the next tick.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("story sweeper started", zap.Duration("interval", s.interval))
	for {
		s.sweep(ctx)

		select {
		case <-ctx.Done():
			s.logger.Info("story sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}

// Start runs the sweeper in a goroutine. The returned stop cancels it and
// blocks until any sweep in progress has returned, so the store behind the
// cleaner can be closed right after.
func (s *Sweeper) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	purged, err := s.cleaner.CleanupExpiredStories(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("story cleanup failed", zap.Int("purged", purged), zap.Error(err))
		}
		return
	}
	s.logger.Debug("story cleanup finished", zap.Int("purged", purged))
}
