package cache

import (
	"context"
	"testing"
	"time"

	"github.com/matchpulse/predictor-league/internal/domain/league"
	"github.com/matchpulse/predictor-league/internal/domain/season"
	basecache "github.com/matchpulse/predictor-league/internal/platform/cache"
)

type countingLeagueRepository struct {
	leagues map[string]league.League
	members map[string][]league.Member
	calls   int
}

func (r *countingLeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.calls++
	lg, ok := r.leagues[leagueID]
	return lg, ok, nil
}

func (r *countingLeagueRepository) ListBySeason(_ context.Context, seasonID string) ([]league.League, error) {
	r.calls++
	var out []league.League
	for _, lg := range r.leagues {
		if lg.SeasonID == seasonID {
			out = append(out, lg)
		}
	}
	return out, nil
}

func (r *countingLeagueRepository) ListMembers(_ context.Context, leagueID string) ([]league.Member, error) {
	r.calls++
	return r.members[leagueID], nil
}

type countingSeasonRepository struct {
	seasons map[string]season.Season
	calls   int
}

func (r *countingSeasonRepository) GetByID(_ context.Context, seasonID string) (season.Season, bool, error) {
	r.calls++
	s, ok := r.seasons[seasonID]
	return s, ok, nil
}

func (r *countingSeasonRepository) ListActive(_ context.Context) ([]season.Season, error) {
	r.calls++
	var out []season.Season
	for _, s := range r.seasons {
		if s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

func TestLeagueRepositoryCachesReads(t *testing.T) {
	t.Parallel()

	next := &countingLeagueRepository{
		leagues: map[string]league.League{
			"lg-1": {ID: "lg-1", SeasonID: "s-1", Name: "Office"},
		},
		members: map[string][]league.Member{
			"lg-1": {{LeagueID: "lg-1", UserID: "alice", Approved: true}},
		},
	}
	repo := NewLeagueRepository(next, basecache.NewStore(time.Minute))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		lg, ok, err := repo.GetByID(ctx, "lg-1")
		if err != nil {
			t.Fatalf("get league: %v", err)
		}
		if !ok || lg.Name != "Office" {
			t.Fatalf("unexpected league: %+v exists=%v", lg, ok)
		}
	}
	if next.calls != 1 {
		t.Fatalf("expected one backing call, got %d", next.calls)
	}

	members, err := repo.ListMembers(ctx, "lg-1")
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 1 || members[0].UserID != "alice" {
		t.Fatalf("unexpected members: %+v", members)
	}

	// Mutating the returned slice must not poison the cached copy.
	members[0].UserID = "mallory"
	again, err := repo.ListMembers(ctx, "lg-1")
	if err != nil {
		t.Fatalf("list members again: %v", err)
	}
	if again[0].UserID != "alice" {
		t.Fatalf("cached members mutated: %+v", again)
	}
}

func TestLeagueRepositoryCachesMisses(t *testing.T) {
	t.Parallel()

	next := &countingLeagueRepository{leagues: map[string]league.League{}}
	repo := NewLeagueRepository(next, basecache.NewStore(time.Minute))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, ok, err := repo.GetByID(ctx, "missing")
		if err != nil {
			t.Fatalf("get league: %v", err)
		}
		if ok {
			t.Fatal("expected miss")
		}
	}
	if next.calls != 1 {
		t.Fatalf("expected one backing call, got %d", next.calls)
	}
}

func TestSeasonRepositoryCachesActiveList(t *testing.T) {
	t.Parallel()

	next := &countingSeasonRepository{
		seasons: map[string]season.Season{
			"s-1": {ID: "s-1", Name: "2026", Active: true},
			"s-0": {ID: "s-0", Name: "2025"},
		},
	}
	repo := NewSeasonRepository(next, basecache.NewStore(time.Minute))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		active, err := repo.ListActive(ctx)
		if err != nil {
			t.Fatalf("list active: %v", err)
		}
		if len(active) != 1 || active[0].ID != "s-1" {
			t.Fatalf("unexpected active seasons: %+v", active)
		}
	}
	if next.calls != 1 {
		t.Fatalf("expected one backing call, got %d", next.calls)
	}
}
