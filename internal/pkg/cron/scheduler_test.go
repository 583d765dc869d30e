package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRoller struct {
	called time.Time
	err    error
}

func (s *stubRoller) RollRecurring(_ context.Context, today time.Time) (int, error) {
	s.called = today
	return 2, s.err
}

type stubSweeper struct{ calls int }

func (s *stubSweeper) SweepRevoked(context.Context) (int64, error) {
	s.calls++
	return 0, nil
}

func TestScheduler_RejectsBadSpec(t *testing.T) {
	s := NewScheduler()
	err := s.AddJob("bad", "every tuesday", func(context.Context) error { return nil })
	assert.Error(t, err)
	assert.Empty(t, s.Jobs())
}

func TestMaintenanceJobs_RunOnce(t *testing.T) {
	roller := &stubRoller{}
	sweeper := &stubSweeper{}
	jobs := NewMaintenanceJobs(roller, sweeper)
	fixed := time.Date(2024, 3, 1, 0, 5, 0, 0, time.UTC)
	jobs.now = func() time.Time { return fixed }

	s := NewScheduler()
	require.NoError(t, jobs.RegisterJobs(s, "@daily", "@hourly"))
	assert.Len(t, s.Jobs(), 2)

	s.RunOnce(context.Background())
	assert.Equal(t, fixed, roller.called)
	assert.Equal(t, 1, sweeper.calls)
}

func TestMaintenanceJobs_RollError(t *testing.T) {
	jobs := NewMaintenanceJobs(&stubRoller{err: errors.New("db down")}, &stubSweeper{})
	assert.Error(t, jobs.RollRecurringLetters(context.Background()))
}
