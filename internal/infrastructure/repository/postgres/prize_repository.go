package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/matchpulse/predictor-league/internal/domain/prize"
	qb "github.com/matchpulse/predictor-league/internal/platform/querybuilder"
)

type prizeSettingTableModel struct {
	ID          string     `db:"id"`
	LeagueID    string     `db:"league_id"`
	Category    string     `db:"category"`
	AmountPence int64      `db:"amount_pence"`
	Rank        int        `db:"rank"`
	CreatedAt   time.Time  `db:"created_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type prizeWinningTableModel struct {
	ID          string         `db:"id"`
	LeagueID    string         `db:"league_id"`
	SettingID   string         `db:"setting_id"`
	UserID      string         `db:"user_id"`
	AmountPence int64          `db:"amount_pence"`
	RoundID     sql.NullString `db:"round_id"`
	Month       sql.NullString `db:"month"`
	Category    string         `db:"category"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (m prizeWinningTableModel) toDomain() prize.Winning {
	return prize.Winning{
		ID:          m.ID,
		LeagueID:    m.LeagueID,
		SettingID:   m.SettingID,
		UserID:      m.UserID,
		AmountPence: m.AmountPence,
		RoundID:     nullStringToStringPtr(m.RoundID),
		Month:       nullStringToStringPtr(m.Month),
		CreatedAt:   m.CreatedAt,
	}
}

type PrizeSettingRepository struct {
	db *sqlx.DB
}

func NewPrizeSettingRepository(db *sqlx.DB) *PrizeSettingRepository {
	return &PrizeSettingRepository{db: db}
}

func (r *PrizeSettingRepository) ListByLeague(ctx context.Context, leagueID string) ([]prize.Setting, error) {
	query, args, err := qb.Select("*").From("prize_settings").
		Where(qb.Eq("league_id", leagueID), qb.IsNull("deleted_at")).
		OrderBy("category", "rank").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list prize settings query: %w", err)
	}

	var rows []prizeSettingTableModel
	if err := querier(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list prize settings: %w", err)
	}

	out := make([]prize.Setting, 0, len(rows))
	for _, row := range rows {
		out = append(out, prize.Setting{
			ID:          row.ID,
			LeagueID:    row.LeagueID,
			Category:    row.Category,
			AmountPence: row.AmountPence,
			Rank:        row.Rank,
		})
	}
	return out, nil
}

func (r *PrizeSettingRepository) Replace(ctx context.Context, leagueID string, settings []prize.Setting) error {
	return runAtomic(ctx, r.db, func(ctx context.Context, q dbtx) error {
		clearQuery, clearArgs, err := qb.Update("prize_settings").
			SetExpr("deleted_at", "NOW()").
			Where(qb.Eq("league_id", leagueID), qb.IsNull("deleted_at")).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build clear prize settings query: %w", err)
		}
		if _, err := q.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
			return fmt.Errorf("clear prize settings: %w", err)
		}

		for _, setting := range settings {
			insert := struct {
				ID          string `db:"id"`
				LeagueID    string `db:"league_id"`
				Category    string `db:"category"`
				AmountPence int64  `db:"amount_pence"`
				Rank        int    `db:"rank"`
			}{
				ID:          setting.ID,
				LeagueID:    leagueID,
				Category:    setting.Category,
				AmountPence: setting.AmountPence,
				Rank:        setting.Rank,
			}
			query, args, err := qb.InsertModel("prize_settings", insert, "")
			if err != nil {
				return fmt.Errorf("build insert prize setting query: %w", err)
			}
			if _, err := q.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert prize setting %s: %w", setting.Category, err)
			}
		}
		return nil
	})
}

type PrizeWinningRepository struct {
	db *sqlx.DB
}

func NewPrizeWinningRepository(db *sqlx.DB) *PrizeWinningRepository {
	return &PrizeWinningRepository{db: db}
}

func (r *PrizeWinningRepository) ListByLeague(ctx context.Context, leagueID string) ([]prize.Winning, error) {
	query, args, err := qb.Select("*").From("prize_winnings").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list prize winnings query: %w", err)
	}

	var rows []prizeWinningTableModel
	if err := querier(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list prize winnings: %w", err)
	}

	out := make([]prize.Winning, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// ReplaceForCategory deletes the rows matching (league, category, qualifier)
// and inserts the fresh payout in one transaction, so re-running a prize
// strategy replaces its previous output instead of stacking on it.
func (r *PrizeWinningRepository) ReplaceForCategory(ctx context.Context, leagueID, category string, roundID, month *string, winnings []prize.Winning) error {
	return runAtomic(ctx, r.db, func(ctx context.Context, q dbtx) error {
		conditions := []qb.Condition{
			qb.Eq("league_id", leagueID),
			qb.Eq("category", category),
		}
		if roundID != nil {
			conditions = append(conditions, qb.Eq("round_id", *roundID))
		} else {
			conditions = append(conditions, qb.IsNull("round_id"))
		}
		if month != nil {
			conditions = append(conditions, qb.Eq("month", *month))
		} else {
			conditions = append(conditions, qb.IsNull("month"))
		}

		clearQuery, clearArgs, err := qb.DeleteFrom("prize_winnings").Where(conditions...).ToSQL()
		if err != nil {
			return fmt.Errorf("build clear prize winnings query: %w", err)
		}
		if _, err := q.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
			return fmt.Errorf("clear prize winnings: %w", err)
		}

		for _, w := range winnings {
			insert := struct {
				ID          string    `db:"id"`
				LeagueID    string    `db:"league_id"`
				SettingID   string    `db:"setting_id"`
				UserID      string    `db:"user_id"`
				AmountPence int64     `db:"amount_pence"`
				RoundID     *string   `db:"round_id"`
				Month       *string   `db:"month"`
				Category    string    `db:"category"`
				CreatedAt   time.Time `db:"created_at"`
			}{
				ID:          w.ID,
				LeagueID:    w.LeagueID,
				SettingID:   w.SettingID,
				UserID:      w.UserID,
				AmountPence: w.AmountPence,
				RoundID:     w.RoundID,
				Month:       w.Month,
				Category:    category,
				CreatedAt:   w.CreatedAt,
			}
			query, args, err := qb.InsertModel("prize_winnings", insert, "")
			if err != nil {
				return fmt.Errorf("build insert prize winning query: %w", err)
			}
			if _, err := q.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert prize winning user=%s: %w", w.UserID, err)
			}
		}
		return nil
	})
}
