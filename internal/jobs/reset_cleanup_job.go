package jobs

import (
	"context"
	"time"

	"github.com/goliatone/go-enroll/auth"
)

// ResetTokenStore is the part of the identity store the cleanup job needs
type ResetTokenStore interface {
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

// ResetCleanupJob clears reset hash/expiry pairs that can no longer be redeemed
type ResetCleanupJob struct {
	store   ResetTokenStore
	logger  auth.Logger
	now     func() time.Time
	timeout time.Duration
}

func NewResetCleanupJob(store ResetTokenStore, logger auth.Logger) *ResetCleanupJob {
	return &ResetCleanupJob{
		store:   store,
		logger:  logger,
		now:     time.Now,
		timeout: 30 * time.Second,
	}
}

// Run implements cron.Job
func (j *ResetCleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if _, err := j.RunOnce(ctx); err != nil {
		j.logger.Warn("reset cleanup failed: %v", err)
	}
}

// RunOnce clears expired reset tokens and returns how many were cleared
func (j *ResetCleanupJob) RunOnce(ctx context.Context) (int64, error) {
	n, err := j.store.ClearExpiredResetTokens(ctx, j.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		j.logger.Debug("cleared %d expired password resets", n)
	}
	return n, nil
}
