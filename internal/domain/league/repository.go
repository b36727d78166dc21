package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	ListBySeason(ctx context.Context, seasonID string) ([]League, error)
	ListMembers(ctx context.Context, leagueID string) ([]Member, error)
}

// ResultRepository persists per-(league, round, user) point aggregates.
type ResultRepository interface {
	ListByLeagueRound(ctx context.Context, leagueID, roundID string) ([]RoundResult, error)
	ListByLeagueRounds(ctx context.Context, leagueID string, roundIDs []string) ([]RoundResult, error)
	Upsert(ctx context.Context, results []RoundResult) error
}
