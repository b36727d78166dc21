package memory

import (
	"time"

	"github.com/matchpulse/predictor-league/internal/domain/boost"
	"github.com/matchpulse/predictor-league/internal/domain/league"
	"github.com/matchpulse/predictor-league/internal/domain/prediction"
	"github.com/matchpulse/predictor-league/internal/domain/prize"
	"github.com/matchpulse/predictor-league/internal/domain/round"
	"github.com/matchpulse/predictor-league/internal/domain/season"
)

const (
	SeasonID2026       = "epl-2026"
	LeagueIDOffice     = "office-league-2026"
	RoundIDOpeningWeek = "epl-2026-r1"
)

func SeedSeasons() []season.Season {
	return []season.Season{
		{
			ID:       SeasonID2026,
			Name:     "Premier League 2026/27",
			StartsAt: time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC),
			EndsAt:   time.Date(2027, time.May, 23, 0, 0, 0, 0, time.UTC),
			Active:   true,
		},
	}
}

func SeedLeagues() []league.League {
	return []league.League{
		{
			ID:                  LeagueIDOffice,
			SeasonID:            SeasonID2026,
			Name:                "Office Predictions",
			EntryFeePence:       1000,
			PrizePotPence:       5000,
			PointsExactScore:    5,
			PointsCorrectResult: 2,
			EntryDeadline:       time.Date(2026, time.August, 14, 18, 0, 0, 0, time.UTC),
		},
	}
}

func SeedMembers() []league.Member {
	joined := time.Date(2026, time.August, 1, 9, 0, 0, 0, time.UTC)
	return []league.Member{
		{LeagueID: LeagueIDOffice, UserID: "user-alice", Approved: true, JoinedAt: joined},
		{LeagueID: LeagueIDOffice, UserID: "user-bob", Approved: true, JoinedAt: joined.Add(time.Hour)},
		{LeagueID: LeagueIDOffice, UserID: "user-cara", Approved: true, JoinedAt: joined.Add(2 * time.Hour)},
	}
}

func SeedRounds() []round.Round {
	starts := time.Date(2026, time.August, 15, 15, 0, 0, 0, time.UTC)
	return []round.Round{
		{
			ID:                 RoundIDOpeningWeek,
			SeasonID:           SeasonID2026,
			Number:             1,
			StartsAt:           starts,
			PredictionDeadline: starts.Add(-time.Hour),
			Status:             round.StatusPublished,
			Matches: []round.Match{
				{ID: "epl-2026-r1-m1", RoundID: RoundIDOpeningWeek, HomeTeamID: "team-ars", AwayTeamID: "team-che", KickoffAt: starts, ExternalRef: 900101, Status: round.MatchScheduled},
				{ID: "epl-2026-r1-m2", RoundID: RoundIDOpeningWeek, HomeTeamID: "team-liv", AwayTeamID: "team-mci", KickoffAt: starts.Add(2 * time.Hour), ExternalRef: 900102, Status: round.MatchScheduled},
				{ID: "epl-2026-r1-m3", RoundID: RoundIDOpeningWeek, HomeTeamID: "team-tot", AwayTeamID: "team-mun", KickoffAt: starts.Add(4 * time.Hour), ExternalRef: 900103, Status: round.MatchScheduled},
			},
		},
	}
}

func SeedPredictions() []prediction.Prediction {
	return []prediction.Prediction{
		{ID: "pred-001", UserID: "user-alice", MatchID: "epl-2026-r1-m1", HomeGoals: 2, AwayGoals: 1, Outcome: prediction.OutcomePending},
		{ID: "pred-002", UserID: "user-alice", MatchID: "epl-2026-r1-m2", HomeGoals: 1, AwayGoals: 1, Outcome: prediction.OutcomePending},
		{ID: "pred-003", UserID: "user-alice", MatchID: "epl-2026-r1-m3", HomeGoals: 0, AwayGoals: 2, Outcome: prediction.OutcomePending},
		{ID: "pred-004", UserID: "user-bob", MatchID: "epl-2026-r1-m1", HomeGoals: 1, AwayGoals: 0, Outcome: prediction.OutcomePending},
		{ID: "pred-005", UserID: "user-bob", MatchID: "epl-2026-r1-m2", HomeGoals: 2, AwayGoals: 0, Outcome: prediction.OutcomePending},
		{ID: "pred-006", UserID: "user-cara", MatchID: "epl-2026-r1-m1", HomeGoals: 0, AwayGoals: 0, Outcome: prediction.OutcomePending},
	}
}

func SeedBoostRules() []boost.Rule {
	return []boost.Rule{
		{
			LeagueID:      LeagueIDOffice,
			Code:          "DOUBLE",
			Enabled:       true,
			UsesPerSeason: 2,
			Multiplier:    2,
			Windows: []boost.Window{
				{FromRound: 1, ToRound: 19, MaxUses: 1},
				{FromRound: 20, ToRound: 38, MaxUses: 1},
			},
		},
	}
}

func SeedPrizeSettings() []prize.Setting {
	return []prize.Setting{
		{ID: "prize-round", LeagueID: LeagueIDOffice, Category: prize.CategoryRound, AmountPence: 500},
		{ID: "prize-overall-1", LeagueID: LeagueIDOffice, Category: prize.CategoryOverall, AmountPence: 2500, Rank: 1},
		{ID: "prize-overall-2", LeagueID: LeagueIDOffice, Category: prize.CategoryOverall, AmountPence: 1000, Rank: 2},
		{ID: "prize-exact", LeagueID: LeagueIDOffice, Category: prize.CategoryMostExact, AmountPence: 1000},
	}
}
