package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/matchpulse/predictor-league/internal/domain/league"
	"github.com/matchpulse/predictor-league/internal/domain/round"
	"github.com/matchpulse/predictor-league/internal/platform/logging"
)

func TestRecalcService_RecalculateSeason_RepairsTamperedAggregates(t *testing.T) {
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

	// Corrupt an aggregate, then re-derive the season.
	if err := f.resultRepo.Upsert(ctx, []league.RoundResult{
		{LeagueID: "lg1", RoundID: "r1", UserID: "alice", BasePoints: 999, BoostedPoints: 999},
	}); err != nil {
		t.Fatalf("tamper: %v", err)
	}

	svc := NewRecalcService(f.seasonRepo, f.leagueRepo, f.roundRepo, f.settlement, f.boosts, f.standings, f.prizes, 2, logging.NewNop())
	if err := svc.RecalculateSeason(ctx, "s1"); err != nil {
		t.Fatalf("RecalculateSeason: %v", err)
	}

	res, ok := f.resultRepo.get("lg1", "r1", "alice")
	if !ok {
		t.Fatal("round result for alice missing")
	}
	if res.BasePoints != 10 {
		t.Fatalf("aggregate not repaired: %+v", res)
	}

	rows, _ := f.standingRepo.ListByLeague(ctx, "lg1", false)
	if len(rows) == 0 || rows[0].UserID != "alice" || rows[0].Points != 10 {
		t.Fatalf("standings not rebuilt: %+v", rows)
	}
}

func TestRecalcService_RecalculateSeason_UnknownSeason(t *testing.T) {
	t.Parallel()

	f := newSettlementFixture(t)
	svc := NewRecalcService(f.seasonRepo, f.leagueRepo, f.roundRepo, f.settlement, f.boosts, f.standings, f.prizes, 2, logging.NewNop())

	err := svc.RecalculateSeason(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
