package postgres

import (
	"database/sql"
	"time"

	"github.com/matchpulse/predictor-league/internal/domain/round"
)

type roundTableModel struct {
	ID                 string       `db:"id"`
	SeasonID           string       `db:"season_id"`
	Number             int          `db:"number"`
	StartsAt           time.Time    `db:"starts_at"`
	PredictionDeadline time.Time    `db:"prediction_deadline"`
	Status             string       `db:"status"`
	LastReminderAt     sql.NullTime `db:"last_reminder_at"`
	CreatedAt          time.Time    `db:"created_at"`
	UpdatedAt          time.Time    `db:"updated_at"`
	DeletedAt          *time.Time   `db:"deleted_at"`
}

type roundInsertModel struct {
	ID                 string     `db:"id"`
	SeasonID           string     `db:"season_id"`
	Number             int        `db:"number"`
	StartsAt           time.Time  `db:"starts_at"`
	PredictionDeadline time.Time  `db:"prediction_deadline"`
	Status             string     `db:"status"`
	LastReminderAt     *time.Time `db:"last_reminder_at"`
}

type matchTableModel struct {
	ID          string        `db:"id"`
	RoundID     string        `db:"round_id"`
	HomeTeamID  string        `db:"home_team_id"`
	AwayTeamID  string        `db:"away_team_id"`
	KickoffAt   time.Time     `db:"kickoff_at"`
	ExternalRef int64         `db:"external_ref"`
	HomeScore   sql.NullInt64 `db:"home_score"`
	AwayScore   sql.NullInt64 `db:"away_score"`
	Status      string        `db:"status"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
	DeletedAt   *time.Time    `db:"deleted_at"`
}

type matchInsertModel struct {
	ID          string    `db:"id"`
	RoundID     string    `db:"round_id"`
	HomeTeamID  string    `db:"home_team_id"`
	AwayTeamID  string    `db:"away_team_id"`
	KickoffAt   time.Time `db:"kickoff_at"`
	ExternalRef int64     `db:"external_ref"`
	HomeScore   *int      `db:"home_score"`
	AwayScore   *int      `db:"away_score"`
	Status      string    `db:"status"`
}

func (m roundTableModel) toDomain(matches []round.Match) round.Round {
	return round.Round{
		ID:                 m.ID,
		SeasonID:           m.SeasonID,
		Number:             m.Number,
		StartsAt:           m.StartsAt,
		PredictionDeadline: m.PredictionDeadline,
		Status:             m.Status,
		LastReminderAt:     nullTimeToTimePtr(m.LastReminderAt),
		Matches:            matches,
	}
}

func (m matchTableModel) toDomain() round.Match {
	return round.Match{
		ID:          m.ID,
		RoundID:     m.RoundID,
		HomeTeamID:  m.HomeTeamID,
		AwayTeamID:  m.AwayTeamID,
		KickoffAt:   m.KickoffAt,
		ExternalRef: m.ExternalRef,
		HomeScore:   nullIntToIntPtr(m.HomeScore),
		AwayScore:   nullIntToIntPtr(m.AwayScore),
		Status:      m.Status,
	}
}
