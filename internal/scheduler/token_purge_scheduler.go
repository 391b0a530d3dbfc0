package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/foodgram-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// DefaultPurgeSpec runs the purge at minute 0 of every hour.
const DefaultPurgeSpec = "0 * * * *"

// ExpiredTokenPurger drops revocation entries whose tokens have expired.
type ExpiredTokenPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// TokenPurgeScheduler periodically cleans the revoked-token store.
type TokenPurgeScheduler struct {
	cron    *cron.Cron
	purger  ExpiredTokenPurger
	spec    string
	timeout time.Duration
}

func NewTokenPurgeScheduler(purger ExpiredTokenPurger, spec string) *TokenPurgeScheduler {
	if spec == "" {
		spec = DefaultPurgeSpec
	}
	return &TokenPurgeScheduler{
		cron:    cron.New(),
		purger:  purger,
		spec:    spec,
		timeout: time.Minute,
	}
}

func (s *TokenPurgeScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		logger.Error("Failed to add cron job for revoked token purge", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Revoked token purge scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// RunOnce performs a single purge.
func (s *TokenPurgeScheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	purged, err := s.purger.PurgeExpired(ctx)
	if err != nil {
		logger.Error("Failed to purge expired revoked tokens", err)
		return
	}
	if purged > 0 {
		logger.Info("Purged expired revoked tokens", map[string]interface{}{
			"count": purged,
		})
	}
}

// Stop waits for a running purge to finish.
func (s *TokenPurgeScheduler) Stop() {
	logger.Info("Stopping revoked token purge scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Revoked token purge scheduler stopped", nil)
}
