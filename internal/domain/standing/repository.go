package standing

import "context"

type Repository interface {
	ListByLeague(ctx context.Context, leagueID string, live bool) ([]Row, error)
	ReplaceByLeague(ctx context.Context, leagueID string, live bool, rows []Row) error
	// InsertSnapshots records round-start ranks; rows for an already
	// snapshotted (round, user) pair are silently skipped.
	InsertSnapshots(ctx context.Context, snapshots []Snapshot) error
	ListSnapshots(ctx context.Context, roundID, leagueID string) ([]Snapshot, error)
}
