package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matchpulse/predictor-league/internal/domain/round"
	"github.com/matchpulse/predictor-league/internal/domain/user"
	"github.com/matchpulse/predictor-league/internal/platform/logging"
)

var admin = user.Principal{UserID: "admin", IsAdmin: true}

func adminRoundInput() RoundInput {
	starts := time.Date(2026, time.April, 11, 15, 0, 0, 0, time.UTC)
	return RoundInput{
		SeasonID:           "s1",
		Number:             2,
		StartsAt:           starts,
		PredictionDeadline: starts.Add(-time.Hour),
		Matches: []MatchInput{
			{HomeTeamID: "t-ars", AwayTeamID: "t-che", KickoffAt: starts, ExternalRef: 201},
			{HomeTeamID: "t-liv", AwayTeamID: "t-mun", KickoffAt: starts.Add(2 * time.Hour), ExternalRef: 202},
		},
	}
}

func newRoundAdminService() (*RoundAdminService, *stubRoundRepository) {
	repo := newStubRoundRepository()
	return NewRoundAdminService(repo, &sequenceIDGenerator{}, logging.NewNop()), repo
}

func TestRoundAdminService_Create(t *testing.T) {
	t.Parallel()

	svc, repo := newRoundAdminService()
	ctx := context.Background()

	r, err := svc.Create(ctx, admin, adminRoundInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.Status != round.StatusDraft || len(r.Matches) != 2 {
		t.Fatalf("unexpected round: %+v", r)
	}

	stored, ok, _ := repo.GetByID(ctx, r.ID)
	if !ok || len(stored.Matches) != 2 {
		t.Fatalf("round not persisted: %+v", stored)
	}
}

func TestRoundAdminService_Create_RequiresAdmin(t *testing.T) {
	t.Parallel()

	svc, _ := newRoundAdminService()
	_, err := svc.Create(context.Background(), user.Principal{UserID: "alice"}, adminRoundInput())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRoundAdminService_Create_Validation(t *testing.T) {
	t.Parallel()

	svc, _ := newRoundAdminService()
	ctx := context.Background()

	in := adminRoundInput()
	in.PredictionDeadline = in.StartsAt.Add(time.Hour)
	if _, err := svc.Create(ctx, admin, in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("deadline after start: got %v", err)
	}

	in = adminRoundInput()
	in.Matches[0].AwayTeamID = in.Matches[0].HomeTeamID
	if _, err := svc.Create(ctx, admin, in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("team playing itself: got %v", err)
	}
}

func TestRoundAdminService_Update_BlocksRemovingPredictedMatch(t *testing.T) {
	t.Parallel()

	svc, repo := newRoundAdminService()
	ctx := context.Background()

	r, err := svc.Create(ctx, admin, adminRoundInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.SetStatus(ctx, admin, r.ID, round.StatusPublished); err != nil {
		t.Fatalf("publish: %v", err)
	}
	repo.hasPredictions[r.Matches[0].ID] = true

	in := adminRoundInput()
	in.Matches = []MatchInput{{
		ID:         r.Matches[1].ID,
		HomeTeamID: "t-liv", AwayTeamID: "t-mun",
		KickoffAt: r.Matches[1].KickoffAt, ExternalRef: 202,
	}}
	_, err = svc.Update(ctx, admin, r.ID, in)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict removing a predicted match, got %v", err)
	}

	// Dropping the unpredicted match is fine.
	in = adminRoundInput()
	in.Matches = []MatchInput{{
		ID:         r.Matches[0].ID,
		HomeTeamID: "t-ars", AwayTeamID: "t-che",
		KickoffAt: r.Matches[0].KickoffAt, ExternalRef: 201,
	}}
	updated, err := svc.Update(ctx, admin, r.ID, in)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(updated.Matches) != 1 || updated.Matches[0].ID != r.Matches[0].ID {
		t.Fatalf("unexpected matches after update: %+v", updated.Matches)
	}
}

func TestRoundAdminService_SetStatus_Transitions(t *testing.T) {
	t.Parallel()

	svc, _ := newRoundAdminService()
	ctx := context.Background()

	r, err := svc.Create(ctx, admin, adminRoundInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Draft cannot jump straight to in-progress.
	if _, err := svc.SetStatus(ctx, admin, r.ID, round.StatusInProgress); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	if _, err := svc.SetStatus(ctx, admin, r.ID, round.StatusPublished); err != nil {
		t.Fatalf("publish: %v", err)
	}
	// Published can be pulled back to draft.
	got, err := svc.SetStatus(ctx, admin, r.ID, round.StatusDraft)
	if err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	if got.Status != round.StatusDraft {
		t.Fatalf("status after unpublish: %s", got.Status)
	}

	if _, err := svc.SetStatus(ctx, admin, r.ID, "CANCELLED"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown status: got %v", err)
	}
}
