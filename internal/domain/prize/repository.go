package prize

import "context"

type SettingRepository interface {
	ListByLeague(ctx context.Context, leagueID string) ([]Setting, error)
	Replace(ctx context.Context, leagueID string, settings []Setting) error
}

// WinningRepository persists payout rows. ReplaceForCategory deletes the rows
// matching (league, category, qualifier) before inserting, which is what makes
// every distribution strategy idempotent.
type WinningRepository interface {
	ListByLeague(ctx context.Context, leagueID string) ([]Winning, error)
	ReplaceForCategory(ctx context.Context, leagueID, category string, roundID, month *string, winnings []Winning) error
}
