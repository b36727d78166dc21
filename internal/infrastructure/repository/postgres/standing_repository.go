package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/matchpulse/predictor-league/internal/domain/standing"
	qb "github.com/matchpulse/predictor-league/internal/platform/querybuilder"
)

type standingTableModel struct {
	LeagueID      string    `db:"league_id"`
	UserID        string    `db:"user_id"`
	IsLive        bool      `db:"is_live"`
	Position      int       `db:"position"`
	Points        int       `db:"points"`
	ExactScores   int       `db:"exact_scores"`
	RoundsCounted int       `db:"rounds_counted"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type snapshotTableModel struct {
	RoundID     string    `db:"round_id"`
	LeagueID    string    `db:"league_id"`
	UserID      string    `db:"user_id"`
	OverallRank int       `db:"overall_rank"`
	MonthlyRank int       `db:"monthly_rank"`
	CapturedAt  time.Time `db:"captured_at"`
}

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

func (r *StandingRepository) ListByLeague(ctx context.Context, leagueID string, live bool) ([]standing.Row, error) {
	query, args, err := qb.Select("*").From("league_standings").
		Where(qb.Eq("league_id", leagueID), qb.Eq("is_live", live)).
		OrderBy("position", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list standings query: %w", err)
	}

	var rows []standingTableModel
	if err := querier(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}

	out := make([]standing.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, standing.Row{
			LeagueID:      row.LeagueID,
			UserID:        row.UserID,
			Live:          row.IsLive,
			Position:      row.Position,
			Points:        row.Points,
			ExactScores:   row.ExactScores,
			RoundsCounted: row.RoundsCounted,
			UpdatedAt:     row.UpdatedAt,
		})
	}
	return out, nil
}

func (r *StandingRepository) ReplaceByLeague(ctx context.Context, leagueID string, live bool, rows []standing.Row) error {
	return runAtomic(ctx, r.db, func(ctx context.Context, q dbtx) error {
		clearQuery, clearArgs, err := qb.DeleteFrom("league_standings").
			Where(qb.Eq("league_id", leagueID), qb.Eq("is_live", live)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build clear standings query: %w", err)
		}
		if _, err := q.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
			return fmt.Errorf("clear standings: %w", err)
		}

		for _, row := range rows {
			insert := standingTableModel{
				LeagueID:      leagueID,
				UserID:        row.UserID,
				IsLive:        live,
				Position:      row.Position,
				Points:        row.Points,
				ExactScores:   row.ExactScores,
				RoundsCounted: row.RoundsCounted,
				UpdatedAt:     row.UpdatedAt,
			}
			query, args, err := qb.InsertModel("league_standings", insert, "")
			if err != nil {
				return fmt.Errorf("build insert standing query: %w", err)
			}
			if _, err := q.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert standing user=%s: %w", row.UserID, err)
			}
		}
		return nil
	})
}

// InsertSnapshots relies on ON CONFLICT DO NOTHING against the (round_id,
// league_id, user_id) key: a round's first capture wins and later attempts
// are ignored.
func (r *StandingRepository) InsertSnapshots(ctx context.Context, snapshots []standing.Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	return runAtomic(ctx, r.db, func(ctx context.Context, q dbtx) error {
		for _, snap := range snapshots {
			insert := snapshotTableModel{
				RoundID:     snap.RoundID,
				LeagueID:    snap.LeagueID,
				UserID:      snap.UserID,
				OverallRank: snap.OverallRank,
				MonthlyRank: snap.MonthlyRank,
				CapturedAt:  snap.CapturedAt,
			}
			query, args, err := qb.InsertModel("round_rank_snapshots", insert, "ON CONFLICT (round_id, league_id, user_id) DO NOTHING")
			if err != nil {
				return fmt.Errorf("build insert snapshot query: %w", err)
			}
			if _, err := q.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert snapshot user=%s: %w", snap.UserID, err)
			}
		}
		return nil
	})
}

func (r *StandingRepository) ListSnapshots(ctx context.Context, roundID, leagueID string) ([]standing.Snapshot, error) {
	query, args, err := qb.Select("*").From("round_rank_snapshots").
		Where(qb.Eq("round_id", roundID), qb.Eq("league_id", leagueID)).
		OrderBy("overall_rank", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list snapshots query: %w", err)
	}

	var rows []snapshotTableModel
	if err := querier(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	out := make([]standing.Snapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, standing.Snapshot{
			RoundID:     row.RoundID,
			LeagueID:    row.LeagueID,
			UserID:      row.UserID,
			OverallRank: row.OverallRank,
			MonthlyRank: row.MonthlyRank,
			CapturedAt:  row.CapturedAt,
		})
	}
	return out, nil
}
