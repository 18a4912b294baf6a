package job

import (
	"context"
	"log/slog"
	"time"
)

const runTimeout = time.Minute

type resetTokenClearer interface {
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

// ClearExpiredResetTokensJob drops password-reset tokens whose expiry has passed.
type ClearExpiredResetTokensJob struct {
	users resetTokenClearer
	now   func() time.Time
}

func NewClearExpiredResetTokensJob(users resetTokenClearer) *ClearExpiredResetTokensJob {
	return &ClearExpiredResetTokensJob{users: users, now: time.Now}
}

func (j *ClearExpiredResetTokensJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	cleared, err := j.users.ClearExpiredResetTokens(ctx, j.now().UTC())
	if err != nil {
		slog.Error("clear expired reset tokens failed", "error", err)
		return
	}
	if cleared > 0 {
		slog.Info("cleared expired reset tokens", "count", cleared)
	}
}

type bannerExpirer interface {
	ExpireBanners(ctx context.Context) (int64, error)
}

// ExpireBannersJob deactivates banners whose end date has passed.
type ExpireBannersJob struct {
	banners bannerExpirer
}

func NewExpireBannersJob(banners bannerExpirer) *ExpireBannersJob {
	return &ExpireBannersJob{banners: banners}
}

func (j *ExpireBannersJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	expired, err := j.banners.ExpireBanners(ctx)
	if err != nil {
		slog.Error("expire banners failed", "error", err)
		return
	}
	if expired > 0 {
		slog.Info("deactivated expired banners", "count", expired)
	}
}
