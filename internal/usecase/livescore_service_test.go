package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matchpulse/predictor-league/internal/domain/round"
	"github.com/matchpulse/predictor-league/internal/platform/logging"
)

func TestLiveScoreService_Sweep_AppliesFeedScores(t *testing.T) {
	t.Parallel()

	f := newSettlementFixture(t)
	feed := &stubResultsFeed{
		scores: map[int64]FeedResult{
			101: {Code: "FT", HomeGoals: 2, AwayGoals: 1},
			102: {Code: "1H", HomeGoals: 1, AwayGoals: 1},
		},
	}

	svc := NewLiveScoreService(f.seasonRepo, f.roundRepo, f.settlement, feed, 2, logging.NewNop())
	svc.now = func() time.Time {
		return time.Date(2026, time.March, 7, 18, 0, 0, 0, time.UTC)
	}

	updated, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if updated != 1 {
		t.Fatalf("expected 1 round updated, got %d", updated)
	}

	r, _, _ := f.roundRepo.GetByID(context.Background(), "r1")
	if r.Status != round.StatusInProgress {
		t.Fatalf("round status: got=%s want=%s", r.Status, round.StatusInProgress)
	}
	m1, _ := r.MatchByID("m1")
	if m1.Status != round.MatchCompleted || *m1.HomeScore != 2 || *m1.AwayScore != 1 {
		t.Fatalf("unexpected m1 state: %+v", m1)
	}
	m2, _ := r.MatchByID("m2")
	if m2.Status != round.MatchInProgress || *m2.HomeScore != 1 {
		t.Fatalf("unexpected m2 state: %+v", m2)
	}
}

func TestLiveScoreService_Sweep_SkipsFeedOutage(t *testing.T) {
	t.Parallel()

	f := newSettlementFixture(t)
	feed := &stubResultsFeed{err: errors.New("upstream 503")}

	svc := NewLiveScoreService(f.seasonRepo, f.roundRepo, f.settlement, feed, 2, logging.NewNop())
	svc.now = func() time.Time {
		return time.Date(2026, time.March, 7, 18, 0, 0, 0, time.UTC)
	}

	updated, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("a feed outage must not fail the sweep: %v", err)
	}
	if updated != 0 {
		t.Fatalf("expected no updates during outage, got %d", updated)
	}

	r, _, _ := f.roundRepo.GetByID(context.Background(), "r1")
	if r.Status != round.StatusPublished {
		t.Fatalf("round must be untouched: %s", r.Status)
	}
}

func TestLiveScoreService_Sweep_IgnoresFutureMatches(t *testing.T) {
	t.Parallel()

	f := newSettlementFixture(t)
	feed := &stubResultsFeed{scores: map[int64]FeedResult{}}

	svc := NewLiveScoreService(f.seasonRepo, f.roundRepo, f.settlement, feed, 2, logging.NewNop())
	svc.now = func() time.Time {
		// A day before kickoff, nothing is due.
		return time.Date(2026, time.March, 6, 12, 0, 0, 0, time.UTC)
	}

	updated, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if updated != 0 || feed.fetches != 0 {
		t.Fatalf("expected no fetch before kickoff, updated=%d fetches=%d", updated, feed.fetches)
	}
}
