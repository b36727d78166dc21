package boost

import (
	"context"
	"errors"
)

// ErrUsageExists is returned by InsertUsage when the (user, league, round,
// code) row already exists. Callers report it as "already used".
var ErrUsageExists = errors.New("boost usage already recorded")

type Repository interface {
	GetRule(ctx context.Context, leagueID, code string) (Rule, bool, error)
	ListRules(ctx context.Context, leagueID string) ([]Rule, error)
	ListUsagesByUser(ctx context.Context, leagueID, userID, code string) ([]Usage, error)
	ListUsagesByRound(ctx context.Context, leagueID, roundID string) ([]Usage, error)
	InsertUsage(ctx context.Context, usage Usage) error
	DeleteUsage(ctx context.Context, leagueID, userID, roundID, code string) error
}
