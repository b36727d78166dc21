package league

import (
	"fmt"
	"time"

	"github.com/matchpulse/predictor-league/internal/domain/prediction"
)

// League is one competition instance scoped to a single season. Scoring
// weights and the prize pot are fixed per league.
type League struct {
	ID                  string
	SeasonID            string
	Name                string
	EntryFeePence       int64
	PrizePotPence       int64
	PointsExactScore    int
	PointsCorrectResult int
	EntryDeadline       time.Time
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.SeasonID == "" {
		return fmt.Errorf("league season id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.PointsExactScore < l.PointsCorrectResult {
		return fmt.Errorf("exact score weight must not be below correct result weight")
	}

	return nil
}

type Member struct {
	LeagueID string
	UserID   string
	Approved bool
	JoinedAt time.Time
}

// RoundResult aggregates one user's points for one round in one league.
// BasePoints is derived from completed matches only; BoostedPoints carries the
// multiplied value when a boost usage is recorded for the round.
type RoundResult struct {
	LeagueID      string
	RoundID       string
	UserID        string
	BasePoints    int
	BoostedPoints int
	HasBoost      bool
	UpdatedAt     time.Time
}

// Points is the value that counts towards standings and prizes.
func (r RoundResult) Points() int {
	if r.HasBoost {
		return r.BoostedPoints
	}
	return r.BasePoints
}

// PointsFor returns the league's weight for a prediction outcome. Pending and
// incorrect outcomes score zero.
func (l League) PointsFor(outcome string) int {
	switch outcome {
	case prediction.OutcomeExactScore:
		return l.PointsExactScore
	case prediction.OutcomeCorrectResult:
		return l.PointsCorrectResult
	default:
		return 0
	}
}
