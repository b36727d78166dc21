package standing

import (
	"sort"
	"time"
)

// Row is one user's line in a league table. Live rows include provisional
// points from in-progress matches; stable rows only move when a match
// completes.
type Row struct {
	LeagueID      string
	UserID        string
	Live          bool
	Position      int
	Points        int
	ExactScores   int
	RoundsCounted int
	UpdatedAt     time.Time
}

// Snapshot freezes a user's ranks at the moment a round kicks off, so rank
// movement can be shown while the round runs. Write-once per (round, user).
type Snapshot struct {
	RoundID     string
	LeagueID    string
	UserID      string
	OverallRank int
	MonthlyRank int
	CapturedAt  time.Time
}

// Rank orders rows by points then exact-score count and assigns shared
// positions to ties: users equal on both keys hold the same position, and the
// next distinct user is pushed down by the size of the tied group.
func Rank(rows []Row) []Row {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].ExactScores != rows[j].ExactScores {
			return rows[i].ExactScores > rows[j].ExactScores
		}
		return rows[i].UserID < rows[j].UserID
	})

	for i := range rows {
		if i > 0 && rows[i].Points == rows[i-1].Points && rows[i].ExactScores == rows[i-1].ExactScores {
			rows[i].Position = rows[i-1].Position
			continue
		}
		rows[i].Position = i + 1
	}

	return rows
}
