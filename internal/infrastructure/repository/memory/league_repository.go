package memory

import (
	"context"
	"sync"

	"github.com/matchpulse/predictor-league/internal/domain/league"
)

type LeagueRepository struct {
	mu      sync.RWMutex
	items   map[string]league.League
	orders  []string
	members map[string][]league.Member
}

func NewLeagueRepository(leagues []league.League, members []league.Member) *LeagueRepository {
	items := make(map[string]league.League, len(leagues))
	orders := make([]string, 0, len(leagues))
	for _, l := range leagues {
		items[l.ID] = l
		orders = append(orders, l.ID)
	}

	byLeague := make(map[string][]league.Member)
	for _, m := range members {
		byLeague[m.LeagueID] = append(byLeague[m.LeagueID], m)
	}

	return &LeagueRepository{
		items:   items,
		orders:  orders,
		members: byLeague,
	}
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[leagueID]
	if !ok {
		return league.League{}, false, nil
	}
	return l, true, nil
}

func (r *LeagueRepository) ListBySeason(_ context.Context, seasonID string) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []league.League
	for _, id := range r.orders {
		if l := r.items[id]; l.SeasonID == seasonID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *LeagueRepository) ListMembers(_ context.Context, leagueID string) ([]league.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]league.Member(nil), r.members[leagueID]...), nil
}
