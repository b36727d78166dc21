package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/matchpulse/predictor-league/internal/domain/boost"
	qb "github.com/matchpulse/predictor-league/internal/platform/querybuilder"
)

type boostRuleTableModel struct {
	LeagueID      string `db:"league_id"`
	Code          string `db:"code"`
	IsEnabled     bool   `db:"is_enabled"`
	UsesPerSeason int    `db:"uses_per_season"`
	Multiplier    int    `db:"multiplier"`
}

type boostWindowTableModel struct {
	LeagueID  string `db:"league_id"`
	Code      string `db:"code"`
	FromRound int    `db:"from_round"`
	ToRound   int    `db:"to_round"`
	MaxUses   int    `db:"max_uses"`
}

type boostUsageTableModel struct {
	UserID      string    `db:"user_id"`
	LeagueID    string    `db:"league_id"`
	RoundID     string    `db:"round_id"`
	RoundNumber int       `db:"round_number"`
	Code        string    `db:"code"`
	CreatedAt   time.Time `db:"created_at"`
}

func (m boostUsageTableModel) toDomain() boost.Usage {
	return boost.Usage{
		UserID:      m.UserID,
		LeagueID:    m.LeagueID,
		RoundID:     m.RoundID,
		RoundNumber: m.RoundNumber,
		Code:        m.Code,
		CreatedAt:   m.CreatedAt,
	}
}

type BoostRepository struct {
	db *sqlx.DB
}

func NewBoostRepository(db *sqlx.DB) *BoostRepository {
	return &BoostRepository{db: db}
}

func (r *BoostRepository) GetRule(ctx context.Context, leagueID, code string) (boost.Rule, bool, error) {
	query, args, err := qb.Select("*").From("boost_rules").
		Where(qb.Eq("league_id", leagueID), qb.Eq("code", code)).
		ToSQL()
	if err != nil {
		return boost.Rule{}, false, fmt.Errorf("build get boost rule query: %w", err)
	}

	var row boostRuleTableModel
	if err := querier(ctx, r.db).GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return boost.Rule{}, false, nil
		}
		return boost.Rule{}, false, fmt.Errorf("get boost rule: %w", err)
	}

	windows, err := r.listWindows(ctx, leagueID, code)
	if err != nil {
		return boost.Rule{}, false, err
	}
	return boost.Rule{
		LeagueID:      row.LeagueID,
		Code:          row.Code,
		Enabled:       row.IsEnabled,
		UsesPerSeason: row.UsesPerSeason,
		Multiplier:    row.Multiplier,
		Windows:       windows,
	}, true, nil
}

func (r *BoostRepository) ListRules(ctx context.Context, leagueID string) ([]boost.Rule, error) {
	query, args, err := qb.Select("*").From("boost_rules").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("code").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list boost rules query: %w", err)
	}

	var rows []boostRuleTableModel
	if err := querier(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list boost rules: %w", err)
	}

	out := make([]boost.Rule, 0, len(rows))
	for _, row := range rows {
		windows, err := r.listWindows(ctx, row.LeagueID, row.Code)
		if err != nil {
			return nil, err
		}
		out = append(out, boost.Rule{
			LeagueID:      row.LeagueID,
			Code:          row.Code,
			Enabled:       row.IsEnabled,
			UsesPerSeason: row.UsesPerSeason,
			Multiplier:    row.Multiplier,
			Windows:       windows,
		})
	}
	return out, nil
}

func (r *BoostRepository) listWindows(ctx context.Context, leagueID, code string) ([]boost.Window, error) {
	query, args, err := qb.Select("*").From("boost_windows").
		Where(qb.Eq("league_id", leagueID), qb.Eq("code", code)).
		OrderBy("from_round").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list boost windows query: %w", err)
	}

	var rows []boostWindowTableModel
	if err := querier(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list boost windows: %w", err)
	}

	out := make([]boost.Window, 0, len(rows))
	for _, row := range rows {
		out = append(out, boost.Window{FromRound: row.FromRound, ToRound: row.ToRound, MaxUses: row.MaxUses})
	}
	return out, nil
}

func (r *BoostRepository) ListUsagesByUser(ctx context.Context, leagueID, userID, code string) ([]boost.Usage, error) {
	query, args, err := qb.Select("*").From("boost_usages").
		Where(qb.Eq("league_id", leagueID), qb.Eq("user_id", userID), qb.Eq("code", code)).
		OrderBy("created_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list user boost usages query: %w", err)
	}
	return r.listUsages(ctx, query, args)
}

func (r *BoostRepository) ListUsagesByRound(ctx context.Context, leagueID, roundID string) ([]boost.Usage, error) {
	query, args, err := qb.Select("*").From("boost_usages").
		Where(qb.Eq("league_id", leagueID), qb.Eq("round_id", roundID)).
		OrderBy("created_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list round boost usages query: %w", err)
	}
	return r.listUsages(ctx, query, args)
}

func (r *BoostRepository) listUsages(ctx context.Context, query string, args []any) ([]boost.Usage, error) {
	var rows []boostUsageTableModel
	if err := querier(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list boost usages: %w", err)
	}

	out := make([]boost.Usage, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// InsertUsage is the concurrency gate for applying a boost: the table's
// unique index on (user_id, league_id, round_id, code) arbitrates racing
// requests and the loser gets boost.ErrUsageExists.
func (r *BoostRepository) InsertUsage(ctx context.Context, usage boost.Usage) error {
	insert := boostUsageTableModel{
		UserID:      usage.UserID,
		LeagueID:    usage.LeagueID,
		RoundID:     usage.RoundID,
		RoundNumber: usage.RoundNumber,
		Code:        usage.Code,
		CreatedAt:   usage.CreatedAt,
	}
	query, args, err := qb.InsertModel("boost_usages", insert, "")
	if err != nil {
		return fmt.Errorf("build insert boost usage query: %w", err)
	}
	if _, err := querier(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return boost.ErrUsageExists
		}
		return fmt.Errorf("insert boost usage: %w", err)
	}
	return nil
}

func (r *BoostRepository) DeleteUsage(ctx context.Context, leagueID, userID, roundID, code string) error {
	query, args, err := qb.DeleteFrom("boost_usages").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("user_id", userID),
			qb.Eq("round_id", roundID),
			qb.Eq("code", code),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete boost usage query: %w", err)
	}
	if _, err := querier(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete boost usage: %w", err)
	}
	return nil
}
