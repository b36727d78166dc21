package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchpulse/predictor-league/internal/domain/league"
	qb "github.com/matchpulse/predictor-league/internal/platform/querybuilder"
)

type LeagueResultRepository struct {
	db *sqlx.DB
}

func NewLeagueResultRepository(db *sqlx.DB) *LeagueResultRepository {
	return &LeagueResultRepository{db: db}
}

func (r *LeagueResultRepository) ListByLeagueRound(ctx context.Context, leagueID, roundID string) ([]league.RoundResult, error) {
	query, args, err := qb.Select("*").From("league_round_results").
		Where(qb.Eq("league_id", leagueID), qb.Eq("round_id", roundID)).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list round results query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *LeagueResultRepository) ListByLeagueRounds(ctx context.Context, leagueID string, roundIDs []string) ([]league.RoundResult, error) {
	values := make([]any, 0, len(roundIDs))
	for _, id := range roundIDs {
		values = append(values, id)
	}
	query, args, err := qb.Select("*").From("league_round_results").
		Where(qb.Eq("league_id", leagueID), qb.In("round_id", values)).
		OrderBy("round_id", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list rounds results query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *LeagueResultRepository) list(ctx context.Context, query string, args []any) ([]league.RoundResult, error) {
	var rows []roundResultTableModel
	if err := querier(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list round results: %w", err)
	}

	out := make([]league.RoundResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *LeagueResultRepository) Upsert(ctx context.Context, results []league.RoundResult) error {
	if len(results) == 0 {
		return nil
	}
	return runAtomic(ctx, r.db, func(ctx context.Context, q dbtx) error {
		for _, res := range results {
			insert := roundResultTableModel{
				LeagueID:      res.LeagueID,
				RoundID:       res.RoundID,
				UserID:        res.UserID,
				BasePoints:    res.BasePoints,
				BoostedPoints: res.BoostedPoints,
				HasBoost:      res.HasBoost,
				UpdatedAt:     res.UpdatedAt,
			}
			query, args, err := qb.InsertModel("league_round_results", insert, `ON CONFLICT (league_id, round_id, user_id)
DO UPDATE SET
    base_points = EXCLUDED.base_points,
    boosted_points = EXCLUDED.boosted_points,
    has_boost = EXCLUDED.has_boost,
    updated_at = EXCLUDED.updated_at`)
			if err != nil {
				return fmt.Errorf("build upsert round result query: %w", err)
			}
			if _, err := q.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("upsert round result user=%s: %w", res.UserID, err)
			}
		}
		return nil
	})
}
