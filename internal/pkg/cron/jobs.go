package cron

import (
	"context"
	"log/slog"
	"time"
)

type LetterRoller interface {
	RollRecurring(ctx context.Context, today time.Time) (int, error)
}

type TokenSweeper interface {
	SweepRevoked(ctx context.Context) (int64, error)
}

type MaintenanceJobs struct {
	letters LetterRoller
	tokens  TokenSweeper
	now     func() time.Time
}

func NewMaintenanceJobs(letters LetterRoller, tokens TokenSweeper) *MaintenanceJobs {
	return &MaintenanceJobs{letters: letters, tokens: tokens, now: time.Now}
}

func (j *MaintenanceJobs) RegisterJobs(scheduler *Scheduler, letterSpec, tokenSpec string) error {
	if err := scheduler.AddJob("roll_recurring_letters", letterSpec, j.RollRecurringLetters); err != nil {
		return err
	}
	return scheduler.AddJob("sweep_revoked_tokens", tokenSpec, j.SweepRevokedTokens)
}

// RollRecurringLetters advances every recurring letter whose next due date has arrived.
func (j *MaintenanceJobs) RollRecurringLetters(ctx context.Context) error {
	rolled, err := j.letters.RollRecurring(ctx, j.now())
	if err != nil {
		return err
	}
	if rolled > 0 {
		slog.Info("Cron: recurring letters rolled forward", "count", rolled)
	}
	return nil
}

func (j *MaintenanceJobs) SweepRevokedTokens(ctx context.Context) error {
	removed, err := j.tokens.SweepRevoked(ctx)
	if err != nil {
		return err
	}
	slog.Debug("Cron: revoked tokens swept", "count", removed)
	return nil
}
