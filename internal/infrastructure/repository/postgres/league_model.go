package postgres

import (
	"time"

	"github.com/matchpulse/predictor-league/internal/domain/league"
)

type leagueTableModel struct {
	ID                  string     `db:"id"`
	SeasonID            string     `db:"season_id"`
	Name                string     `db:"name"`
	EntryFeePence       int64      `db:"entry_fee_pence"`
	PrizePotPence       int64      `db:"prize_pot_pence"`
	PointsExactScore    int        `db:"points_exact_score"`
	PointsCorrectResult int        `db:"points_correct_result"`
	EntryDeadline       time.Time  `db:"entry_deadline"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
	DeletedAt           *time.Time `db:"deleted_at"`
}

func (m leagueTableModel) toDomain() league.League {
	return league.League{
		ID:                  m.ID,
		SeasonID:            m.SeasonID,
		Name:                m.Name,
		EntryFeePence:       m.EntryFeePence,
		PrizePotPence:       m.PrizePotPence,
		PointsExactScore:    m.PointsExactScore,
		PointsCorrectResult: m.PointsCorrectResult,
		EntryDeadline:       m.EntryDeadline,
	}
}

type leagueMemberTableModel struct {
	LeagueID   string    `db:"league_id"`
	UserID     string    `db:"user_id"`
	IsApproved bool      `db:"is_approved"`
	JoinedAt   time.Time `db:"joined_at"`
}

func (m leagueMemberTableModel) toDomain() league.Member {
	return league.Member{
		LeagueID: m.LeagueID,
		UserID:   m.UserID,
		Approved: m.IsApproved,
		JoinedAt: m.JoinedAt,
	}
}

type roundResultTableModel struct {
	LeagueID      string    `db:"league_id"`
	RoundID       string    `db:"round_id"`
	UserID        string    `db:"user_id"`
	BasePoints    int       `db:"base_points"`
	BoostedPoints int       `db:"boosted_points"`
	HasBoost      bool      `db:"has_boost"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (m roundResultTableModel) toDomain() league.RoundResult {
	return league.RoundResult{
		LeagueID:      m.LeagueID,
		RoundID:       m.RoundID,
		UserID:        m.UserID,
		BasePoints:    m.BasePoints,
		BoostedPoints: m.BoostedPoints,
		HasBoost:      m.HasBoost,
		UpdatedAt:     m.UpdatedAt,
	}
}
