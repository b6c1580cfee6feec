package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ExpiredTokenDeleter removes refresh tokens that expired before the given time
type ExpiredTokenDeleter interface {
	DeleteExpiredRefreshTokens(before time.Time) (int64, error)
}

// TokenCleanupScheduler periodically purges expired refresh tokens
type TokenCleanupScheduler struct {
	repo     ExpiredTokenDeleter
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewTokenCleanupScheduler creates a new scheduler
func NewTokenCleanupScheduler(repo ExpiredTokenDeleter, interval time.Duration, logger *zap.Logger) *TokenCleanupScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenCleanupScheduler{
		repo:     repo,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Run sweeps once immediately and then on every tick until ctx is done
func (s *TokenCleanupScheduler) Run(ctx context.Context) {
	s.logger.Info("token cleanup scheduler started", zap.Duration("interval", s.interval))

	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-ctx.Done():
			s.logger.Info("token cleanup scheduler stopped")
			return
		}
	}
}

func (s *TokenCleanupScheduler) sweep() {
	deleted, err := s.repo.DeleteExpiredRefreshTokens(s.now())
	if err != nil {
		s.logger.Error("failed to delete expired refresh tokens", zap.Error(err))
		return
	}
	if deleted > 0 {
		s.logger.Info("deleted expired refresh tokens", zap.Int64("count", deleted))
	}
}
