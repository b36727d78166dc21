package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/matchpulse/predictor-league/internal/domain/league"
	"github.com/matchpulse/predictor-league/internal/domain/round"
)

func TestStandingsService_Refresh_LiveCountsProvisionalPoints(t *testing.T) {
	t.Parallel()

	f := newSettlementFixture(t)
	ctx := context.Background()

	// First match finished 2-1, second still being played at 1-1.
	err := f.settlement.SubmitResults(ctx, "r1", []MatchResult{
		{MatchID: "m1", HomeGoals: 2, AwayGoals: 1, Status: round.MatchCompleted},
		{MatchID: "m2", HomeGoals: 1, AwayGoals: 1, Status: round.MatchInProgress},
	})
	if err != nil {
		t.Fatalf("SubmitResults: %v", err)
	}

	live, err := f.standings.List(ctx, "lg1", true)
	if err != nil {
		t.Fatalf("List live: %v", err)
	}
	points := make(map[string]int, len(live))
	for _, row := range live {
		points[row.UserID] = row.Points
	}
	// alice: 5 from m1 plus a provisional 5 for her 1-1 call on m2.
	if points["alice"] != 10 || points["bob"] != 2 || points["cara"] != 5 {
		t.Fatalf("unexpected live points: %v", points)
	}

	stable, err := f.standings.List(ctx, "lg1", false)
	if err != nil {
		t.Fatalf("List stable: %v", err)
	}
	for _, row := range stable {
		if row.Points != 0 || row.RoundsCounted != 0 {
			t.Fatalf("stable table must ignore in-progress rounds: %+v", row)
		}
	}
}

func TestStandingsService_Refresh_StableCountsCompletedRounds(t *testing.T) {
	t.Parallel()

	f := newSettlementFixture(t)
	ctx := context.Background()

	err := f.settlement.SubmitResults(ctx, "r1", []MatchResult{
		{MatchID: "m1", HomeGoals: 2, AwayGoals: 1, Status: round.MatchCompleted},
		{MatchID: "m2", HomeGoals: 1, AwayGoals: 1, Status: round.MatchCompleted},
	})
	if err != nil {
		t.Fatalf("SubmitResults: %v", err)
	}

	stable, err := f.standings.List(ctx, "lg1", false)
	if err != nil {
		t.Fatalf("List stable: %v", err)
	}
	if len(stable) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(stable))
	}
	if stable[0].UserID != "alice" || stable[0].Points != 10 || stable[0].ExactScores != 2 || stable[0].RoundsCounted != 1 {
		t.Fatalf("unexpected leader: %+v", stable[0])
	}
	if stable[1].UserID != "cara" || stable[1].Position != 2 {
		t.Fatalf("unexpected runner-up: %+v", stable[1])
	}
}

func TestStandingsService_CaptureRoundStartSnapshot_WriteOnce(t *testing.T) {
	t.Parallel()

	f := newSettlementFixture(t)
	ctx := context.Background()
	lg, _, _ := f.leagueRepo.GetByID(ctx, "lg1")
	r, _, _ := f.roundRepo.GetByID(ctx, "r1")

	if err := f.standings.CaptureRoundStartSnapshot(ctx, lg, r); err != nil {
		t.Fatalf("first capture: %v", err)
	}
	first, _ := f.standingRepo.ListSnapshots(ctx, "r1", "lg1")
	if len(first) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(first))
	}

	// Move the table, capture again: stored ranks must not change.
	if err := f.resultRepo.Upsert(ctx, []league.RoundResult{
		{LeagueID: "lg1", RoundID: "r1", UserID: "bob", BasePoints: 50, BoostedPoints: 50},
	}); err != nil {
		t.Fatalf("seed results: %v", err)
	}
	if err := f.standings.CaptureRoundStartSnapshot(ctx, lg, r); err != nil {
		t.Fatalf("second capture: %v", err)
	}

	second, _ := f.standingRepo.ListSnapshots(ctx, "r1", "lg1")
	firstByUser := make(map[string]int, len(first))
	for _, snap := range first {
		firstByUser[snap.UserID] = snap.OverallRank
	}
	for _, snap := range second {
		if snap.OverallRank != firstByUser[snap.UserID] {
			t.Fatalf("snapshot for %s was overwritten", snap.UserID)
		}
	}
}

func TestMonthKey(t *testing.T) {
	t.Parallel()

	got := MonthKey(time.Date(2026, time.March, 31, 23, 30, 0, 0, time.FixedZone("CET", 3600)))
	if got != "2026-03" {
		t.Fatalf("MonthKey: got=%s want=2026-03", got)
	}
}
