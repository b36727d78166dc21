package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/matchpulse/predictor-league/internal/domain/prediction"
	qb "github.com/matchpulse/predictor-league/internal/platform/querybuilder"
)

type predictionTableModel struct {
	ID         string       `db:"id"`
	UserID     string       `db:"user_id"`
	MatchID    string       `db:"match_id"`
	HomeGoals  int          `db:"home_goals"`
	AwayGoals  int          `db:"away_goals"`
	Outcome    string       `db:"outcome"`
	ComputedAt sql.NullTime `db:"computed_at"`
	CreatedAt  time.Time    `db:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at"`
}

func (m predictionTableModel) toDomain() prediction.Prediction {
	return prediction.Prediction{
		ID:         m.ID,
		UserID:     m.UserID,
		MatchID:    m.MatchID,
		HomeGoals:  m.HomeGoals,
		AwayGoals:  m.AwayGoals,
		Outcome:    m.Outcome,
		ComputedAt: nullTimeToTimePtr(m.ComputedAt),
	}
}

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) ListByMatchIDs(ctx context.Context, matchIDs []string) ([]prediction.Prediction, error) {
	values := make([]any, 0, len(matchIDs))
	for _, id := range matchIDs {
		values = append(values, id)
	}
	query, args, err := qb.Select("*").From("predictions").
		Where(qb.In("match_id", values)).
		OrderBy("match_id", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := querier(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PredictionRepository) SaveOutcomes(ctx context.Context, predictions []prediction.Prediction) error {
	if len(predictions) == 0 {
		return nil
	}
	return runAtomic(ctx, r.db, func(ctx context.Context, q dbtx) error {
		for _, p := range predictions {
			builder := qb.Update("predictions").
				Set("outcome", p.Outcome).
				SetExpr("updated_at", "NOW()")
			if p.ComputedAt != nil {
				builder.Set("computed_at", *p.ComputedAt)
			} else {
				builder.SetExpr("computed_at", "NULL")
			}
			query, args, err := builder.Where(qb.Eq("id", p.ID)).ToSQL()
			if err != nil {
				return fmt.Errorf("build save outcome query: %w", err)
			}
			if _, err := q.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("save outcome prediction=%s: %w", p.ID, err)
			}
		}
		return nil
	})
}
