package round

import (
	"fmt"
	"testing"
	"time"
)

func draftRound(matchStatuses ...string) Round {
	r := Round{
		ID:       "r1",
		SeasonID: "s1",
		Number:   1,
		StartsAt: time.Date(2026, 3, 7, 15, 0, 0, 0, time.UTC),
		Status:   StatusDraft,
	}
	for i, status := range matchStatuses {
		r.Matches = append(r.Matches, Match{
			ID:      fmt.Sprintf("m%d", i+1),
			RoundID: r.ID,
			Status:  status,
		})
	}
	return r
}

func TestRound_TransitionEdges(t *testing.T) {
	t.Parallel()

	r := draftRound(MatchScheduled)
	if err := r.Publish(); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := r.Publish(); err == nil {
		t.Fatal("expected error publishing an already published round")
	}
	if err := r.Unpublish(); err != nil {
		t.Fatalf("Unpublish: %v", err)
	}
	if r.Status != StatusDraft {
		t.Fatalf("unexpected status after unpublish: %s", r.Status)
	}

	_ = r.Publish()
	if err := r.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := r.Complete(); err == nil {
		t.Fatal("expected error completing a round with unfinished matches")
	}

	r.Matches[0].Status = MatchCompleted
	if err := r.Complete(); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if r.Status != StatusCompleted {
		t.Fatalf("unexpected status: %s", r.Status)
	}
}

func TestRound_CannotJumpDraftToCompleted(t *testing.T) {
	t.Parallel()

	r := draftRound(MatchCompleted)
	if err := r.Begin(); err == nil {
		t.Fatal("expected error beginning a draft round")
	}
	if err := r.Complete(); err == nil {
		t.Fatal("expected error completing a draft round")
	}
}

func TestMatch_ApplyResult(t *testing.T) {
	t.Parallel()

	m := Match{ID: "m1", Status: MatchScheduled}

	if changed := m.ApplyResult(1, 0, MatchInProgress); !changed {
		t.Fatal("expected first result to be a change")
	}
	if m.HomeScore == nil || *m.HomeScore != 1 || m.AwayScore == nil || *m.AwayScore != 0 {
		t.Fatalf("unexpected scores: %+v", m)
	}

	if changed := m.ApplyResult(1, 0, MatchInProgress); changed {
		t.Fatal("identical result must be a no-op")
	}

	if changed := m.ApplyResult(2, 0, MatchCompleted); !changed {
		t.Fatal("expected score/status change to be detected")
	}
	if m.Status != MatchCompleted {
		t.Fatalf("unexpected status: %s", m.Status)
	}

	if changed := m.ApplyResult(0, 0, MatchScheduled); !changed {
		t.Fatal("expected regression to scheduled to be a change")
	}
	if m.HomeScore != nil || m.AwayScore != nil {
		t.Fatal("scores must be cleared for a scheduled match")
	}

	if changed := m.ApplyResult(1, 1, "ABANDONED"); changed {
		t.Fatal("unknown status must be ignored")
	}
}

func TestStatusFromFeedCode(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"FT":      MatchCompleted,
		"ft":      MatchCompleted,
		"AET":     MatchCompleted,
		"HT":      MatchInProgress,
		"1H":      MatchInProgress,
		"2H":      MatchInProgress,
		"NS":      MatchScheduled,
		"":        MatchScheduled,
		"POSTP":   MatchScheduled,
		"UNKNOWN": MatchScheduled,
	}
	for code, want := range cases {
		if got := StatusFromFeedCode(code); got != want {
			t.Errorf("StatusFromFeedCode(%q) = %s, want %s", code, got, want)
		}
	}
}

func TestRound_AddRemoveMatch(t *testing.T) {
	t.Parallel()

	r := draftRound()
	if err := r.AddMatch(Match{ID: "m1"}); err != nil {
		t.Fatalf("AddMatch: %v", err)
	}
	if err := r.AddMatch(Match{ID: "m1"}); err == nil {
		t.Fatal("expected duplicate match id to be rejected")
	}
	if r.Matches[0].Status != MatchScheduled {
		t.Fatalf("new match must default to scheduled, got %s", r.Matches[0].Status)
	}
	if !r.RemoveMatch("m1") {
		t.Fatal("expected match to be removed")
	}
	if r.RemoveMatch("m1") {
		t.Fatal("removing a missing match must report false")
	}
}
