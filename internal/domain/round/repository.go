package round

import (
	"context"
	"time"
)

// Repository persists rounds together with their matches.
type Repository interface {
	GetByID(ctx context.Context, roundID string) (Round, bool, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Round, error)
	ListByStatus(ctx context.Context, statuses ...string) ([]Round, error)
	Save(ctx context.Context, r *Round) error
	SetLastReminderAt(ctx context.Context, roundID string, at time.Time) error
	HasPredictions(ctx context.Context, matchID string) (bool, error)
}
