package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/kimocks-netizen/caro-backend/pkg/logger"
	"github.com/kimocks-netizen/caro-backend/pkg/metrics"
)

const verificationRetentionJobName = "verification-retention"

type staleCodeDeleter interface {
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// VerificationRetentionJob removes used or long-expired verification
// codes. Redemption never depends on this sweep; it only bounds table
// growth.
type VerificationRetentionJob struct {
	repo      staleCodeDeleter
	logg      *logger.Logger
	metrics   *metrics.CronJobMetrics
	retention time.Duration
	now       func() time.Time
}

// NewVerificationRetentionJob builds the retention sweep.
func NewVerificationRetentionJob(repo staleCodeDeleter, logg *logger.Logger, m *metrics.CronJobMetrics, retention time.Duration) (*VerificationRetentionJob, error) {
	if repo == nil {
		return nil, fmt.Errorf("verification repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	return &VerificationRetentionJob{
		repo:      repo,
		logg:      logg,
		metrics:   m,
		retention: retention,
		now:       time.Now,
	}, nil
}

// Name implements Job.
func (j *VerificationRetentionJob) Name() string {
	return verificationRetentionJobName
}

// Run implements Job.
func (j *VerificationRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	purged, err := j.repo.DeleteStale(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete stale verification codes: %w", err)
	}
	j.metrics.AddPurged(verificationRetentionJobName, purged)
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"purged": purged,
		"cutoff": cutoff.Format(time.RFC3339),
	}), "verification code sweep complete")
	return nil
}
