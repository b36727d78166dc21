package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/matchpulse/predictor-league/internal/domain/round"
	qb "github.com/matchpulse/predictor-league/internal/platform/querybuilder"
)

type RoundRepository struct {
	db *sqlx.DB
}

func NewRoundRepository(db *sqlx.DB) *RoundRepository {
	return &RoundRepository{db: db}
}

func (r *RoundRepository) GetByID(ctx context.Context, roundID string) (round.Round, bool, error) {
	query, args, err := qb.Select("*").From("rounds").
		Where(qb.Eq("id", roundID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return round.Round{}, false, fmt.Errorf("build get round query: %w", err)
	}

	var row roundTableModel
	if err := querier(ctx, r.db).GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return round.Round{}, false, nil
		}
		return round.Round{}, false, fmt.Errorf("get round: %w", err)
	}

	matches, err := r.listMatches(ctx, []string{row.ID})
	if err != nil {
		return round.Round{}, false, err
	}
	return row.toDomain(matches[row.ID]), true, nil
}

func (r *RoundRepository) ListBySeason(ctx context.Context, seasonID string) ([]round.Round, error) {
	query, args, err := qb.Select("*").From("rounds").
		Where(qb.Eq("season_id", seasonID), qb.IsNull("deleted_at")).
		OrderBy("number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list season rounds query: %w", err)
	}
	return r.listRounds(ctx, query, args)
}

func (r *RoundRepository) ListByStatus(ctx context.Context, statuses ...string) ([]round.Round, error) {
	values := make([]any, 0, len(statuses))
	for _, status := range statuses {
		values = append(values, status)
	}
	query, args, err := qb.Select("*").From("rounds").
		Where(qb.In("status", values), qb.IsNull("deleted_at")).
		OrderBy("starts_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list rounds by status query: %w", err)
	}
	return r.listRounds(ctx, query, args)
}

func (r *RoundRepository) listRounds(ctx context.Context, query string, args []any) ([]round.Round, error) {
	var rows []roundTableModel
	if err := querier(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	roundIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		roundIDs = append(roundIDs, row.ID)
	}
	matches, err := r.listMatches(ctx, roundIDs)
	if err != nil {
		return nil, err
	}

	out := make([]round.Round, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain(matches[row.ID]))
	}
	return out, nil
}

func (r *RoundRepository) listMatches(ctx context.Context, roundIDs []string) (map[string][]round.Match, error) {
	values := make([]any, 0, len(roundIDs))
	for _, id := range roundIDs {
		values = append(values, id)
	}
	query, args, err := qb.Select("*").From("matches").
		Where(qb.In("round_id", values), qb.IsNull("deleted_at")).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := querier(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make(map[string][]round.Match, len(roundIDs))
	for _, row := range rows {
		out[row.RoundID] = append(out[row.RoundID], row.toDomain())
	}
	return out, nil
}

// Save upserts the round row and reconciles its match list: missing matches
// are inserted, changed ones updated, and matches dropped from the round are
// soft deleted.
func (r *RoundRepository) Save(ctx context.Context, item *round.Round) error {
	return runAtomic(ctx, r.db, func(ctx context.Context, q dbtx) error {
		insert := roundInsertModel{
			ID:                 item.ID,
			SeasonID:           item.SeasonID,
			Number:             item.Number,
			StartsAt:           item.StartsAt,
			PredictionDeadline: item.PredictionDeadline,
			Status:             item.Status,
			LastReminderAt:     item.LastReminderAt,
		}
		query, args, err := qb.InsertModel("rounds", insert, `ON CONFLICT (id)
DO UPDATE SET
    season_id = EXCLUDED.season_id,
    number = EXCLUDED.number,
    starts_at = EXCLUDED.starts_at,
    prediction_deadline = EXCLUDED.prediction_deadline,
    status = EXCLUDED.status,
    last_reminder_at = EXCLUDED.last_reminder_at,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert round query: %w", err)
		}
		if _, err := q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert round: %w", err)
		}

		keep := make([]any, 0, len(item.Matches))
		for _, m := range item.Matches {
			keep = append(keep, m.ID)
		}
		if len(keep) > 0 {
			clearQuery, clearArgs, err := qb.Update("matches").
				SetExpr("deleted_at", "NOW()").
				Where(
					qb.Eq("round_id", item.ID),
					qb.Expr("id NOT IN ("+inPlaceholders(len(keep))+")", keep...),
					qb.IsNull("deleted_at"),
				).
				ToSQL()
			if err != nil {
				return fmt.Errorf("build clear removed matches query: %w", err)
			}
			if _, err := q.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
				return fmt.Errorf("clear removed matches: %w", err)
			}
		} else {
			clearQuery, clearArgs, err := qb.Update("matches").
				SetExpr("deleted_at", "NOW()").
				Where(qb.Eq("round_id", item.ID), qb.IsNull("deleted_at")).
				ToSQL()
			if err != nil {
				return fmt.Errorf("build clear matches query: %w", err)
			}
			if _, err := q.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
				return fmt.Errorf("clear matches: %w", err)
			}
		}

		for _, m := range item.Matches {
			insertMatch := matchInsertModel{
				ID:          m.ID,
				RoundID:     item.ID,
				HomeTeamID:  m.HomeTeamID,
				AwayTeamID:  m.AwayTeamID,
				KickoffAt:   m.KickoffAt,
				ExternalRef: m.ExternalRef,
				HomeScore:   m.HomeScore,
				AwayScore:   m.AwayScore,
				Status:      m.Status,
			}
			query, args, err := qb.InsertModel("matches", insertMatch, `ON CONFLICT (id)
DO UPDATE SET
    round_id = EXCLUDED.round_id,
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    kickoff_at = EXCLUDED.kickoff_at,
    external_ref = EXCLUDED.external_ref,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    status = EXCLUDED.status,
    updated_at = NOW(),
    deleted_at = NULL`)
			if err != nil {
				return fmt.Errorf("build upsert match query: %w", err)
			}
			if _, err := q.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("upsert match %s: %w", m.ID, err)
			}
		}
		return nil
	})
}

func (r *RoundRepository) SetLastReminderAt(ctx context.Context, roundID string, at time.Time) error {
	query, args, err := qb.Update("rounds").
		Set("last_reminder_at", at).
		Where(qb.Eq("id", roundID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set last reminder query: %w", err)
	}
	if _, err := querier(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set last reminder: %w", err)
	}
	return nil
}

func (r *RoundRepository) HasPredictions(ctx context.Context, matchID string) (bool, error) {
	query, args, err := qb.Select("1").From("predictions").
		Where(qb.Eq("match_id", matchID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build has predictions query: %w", err)
	}

	var one int
	if err := querier(ctx, r.db).GetContext(ctx, &one, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("check predictions: %w", err)
	}
	return true, nil
}

func inPlaceholders(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			out += ", "
		}
		out += "?"
	}
	return out
}
