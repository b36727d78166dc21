package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/matchpulse/predictor-league/internal/domain/round"
	"github.com/matchpulse/predictor-league/internal/platform/logging"
)

func TestSchedulerService_PublishSweep(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	soon := now.Add(10 * 24 * time.Hour)
	far := now.Add(40 * 24 * time.Hour)

	repo := newStubRoundRepository(
		round.Round{ID: "due", SeasonID: "s1", Number: 2, StartsAt: soon, PredictionDeadline: soon.Add(-time.Hour), Status: round.StatusDraft,
			Matches: []round.Match{{ID: "m-due", RoundID: "due", HomeTeamID: "a", AwayTeamID: "b", Status: round.MatchScheduled}}},
		round.Round{ID: "far", SeasonID: "s1", Number: 3, StartsAt: far, PredictionDeadline: far.Add(-time.Hour), Status: round.StatusDraft,
			Matches: []round.Match{{ID: "m-far", RoundID: "far", HomeTeamID: "a", AwayTeamID: "b", Status: round.MatchScheduled}}},
		round.Round{ID: "empty", SeasonID: "s1", Number: 4, StartsAt: soon, PredictionDeadline: soon.Add(-time.Hour), Status: round.StatusDraft},
		round.Round{ID: "pushed", SeasonID: "s1", Number: 5, StartsAt: far, PredictionDeadline: far.Add(-time.Hour), Status: round.StatusPublished,
			Matches: []round.Match{{ID: "m-pushed", RoundID: "pushed", HomeTeamID: "a", AwayTeamID: "b", Status: round.MatchScheduled}}},
	)

	svc := NewSchedulerService(repo, &stubLeagueRepository{}, &stubPredictionRepository{}, &stubNotifier{}, 0, logging.NewNop())
	svc.now = func() time.Time { return now }

	published, err := svc.PublishSweep(context.Background())
	if err != nil {
		t.Fatalf("PublishSweep: %v", err)
	}
	if published != 1 {
		t.Fatalf("expected 1 round published, got %d", published)
	}

	for id, want := range map[string]string{
		"due":    round.StatusPublished,
		"far":    round.StatusDraft,
		"empty":  round.StatusDraft,
		"pushed": round.StatusDraft,
	} {
		r, _, _ := repo.GetByID(context.Background(), id)
		if r.Status != want {
			t.Fatalf("round %s status: got=%s want=%s", id, r.Status, want)
		}
	}
}

func TestSchedulerService_SendReminders(t *testing.T) {
	t.Parallel()

	f := newSettlementFixture(t)
	ctx := context.Background()

	// bob loses his second prediction, so only he is chased.
	kept := f.predictionRepo.preds[:0]
	for _, p := range f.predictionRepo.preds {
		if p.ID == "p4" {
			continue
		}
		kept = append(kept, p)
	}
	f.predictionRepo.preds = kept

	notifier := &stubNotifier{}
	svc := NewSchedulerService(f.roundRepo, f.leagueRepo, f.predictionRepo, notifier, 24*time.Hour, logging.NewNop())
	svc.now = func() time.Time {
		// Inside the 24h window before the 14:00 deadline.
		return time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)
	}

	sent, err := svc.SendReminders(ctx)
	if err != nil {
		t.Fatalf("SendReminders: %v", err)
	}
	if sent != 1 || len(notifier.sent) != 1 || notifier.sent[0] != "bob" {
		t.Fatalf("expected one reminder to bob, got sent=%d %v", sent, notifier.sent)
	}

	// The round is marked and not chased twice.
	sent, err = svc.SendReminders(ctx)
	if err != nil {
		t.Fatalf("second SendReminders: %v", err)
	}
	if sent != 0 {
		t.Fatalf("expected no repeat reminders, got %d", sent)
	}
}

func TestSchedulerService_SendReminders_OutsideWindow(t *testing.T) {
	t.Parallel()

	f := newSettlementFixture(t)
	notifier := &stubNotifier{}
	svc := NewSchedulerService(f.roundRepo, f.leagueRepo, f.predictionRepo, notifier, 24*time.Hour, logging.NewNop())
	svc.now = func() time.Time {
		// Two days before the deadline, still too early.
		return time.Date(2026, time.March, 5, 14, 0, 0, 0, time.UTC)
	}

	sent, err := svc.SendReminders(context.Background())
	if err != nil {
		t.Fatalf("SendReminders: %v", err)
	}
	if sent != 0 || len(notifier.sent) != 0 {
		t.Fatalf("expected no reminders outside the window, got %d", sent)
	}
}
