package job

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClearer struct {
	calledWith time.Time
	err        error
}

func (f *fakeClearer) ClearExpiredResetTokens(_ context.Context, now time.Time) (int64, error) {
	f.calledWith = now
	return 2, f.err
}

type fakeExpirer struct {
	calls int
	err   error
}

func (f *fakeExpirer) ExpireBanners(context.Context) (int64, error) {
	f.calls++
	return 1, f.err
}

func TestClearExpiredResetTokensJobUsesClock(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	users := &fakeClearer{}
	j := NewClearExpiredResetTokensJob(users)
	j.now = func() time.Time { return fixed }

	j.Run()

	assert.True(t, users.calledWith.Equal(fixed))
	assert.Equal(t, time.UTC, users.calledWith.Location())
}

func TestJobsSwallowErrors(t *testing.T) {
	banners := &fakeExpirer{err: errors.New("db down")}
	assert.NotPanics(t, NewExpireBannersJob(banners).Run)
	assert.Equal(t, 1, banners.calls)

	assert.NotPanics(t, NewClearExpiredResetTokensJob(&fakeClearer{err: errors.New("db down")}).Run)
}

type countingJob struct{ runs atomic.Int32 }

func (c *countingJob) Run() { c.runs.Add(1) }

type panickingJob struct{}

func (panickingJob) Run() { panic("boom") }

func TestSchedulerRejectsBadSpec(t *testing.T) {
	s := NewScheduler()
	err := s.Add("every now and then", "noop", &countingJob{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "noop")
}

func TestSchedulerRunsJobs(t *testing.T) {
	s := NewScheduler()
	counter := &countingJob{}
	require.NoError(t, s.Add("@every 1s", "counter", counter))
	require.NoError(t, s.Add("@every 1s", "panics", panickingJob{}))

	s.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s.Stop(ctx)
	}()

	require.Eventually(t, func() bool { return counter.runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}
