package memory

import (
	"context"
	"sync"

	"github.com/matchpulse/predictor-league/internal/domain/league"
)

type LeagueResultRepository struct {
	mu    sync.RWMutex
	items map[string]league.RoundResult
}

func NewLeagueResultRepository() *LeagueResultRepository {
	return &LeagueResultRepository{items: make(map[string]league.RoundResult)}
}

func resultKey(leagueID, roundID, userID string) string {
	return leagueID + "|" + roundID + "|" + userID
}

func (r *LeagueResultRepository) ListByLeagueRound(_ context.Context, leagueID, roundID string) ([]league.RoundResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []league.RoundResult
	for _, res := range r.items {
		if res.LeagueID == leagueID && res.RoundID == roundID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *LeagueResultRepository) ListByLeagueRounds(_ context.Context, leagueID string, roundIDs []string) ([]league.RoundResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]struct{}, len(roundIDs))
	for _, id := range roundIDs {
		wanted[id] = struct{}{}
	}

	var out []league.RoundResult
	for _, res := range r.items {
		if res.LeagueID != leagueID {
			continue
		}
		if _, ok := wanted[res.RoundID]; ok {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *LeagueResultRepository) Upsert(_ context.Context, results []league.RoundResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, res := range results {
		r.items[resultKey(res.LeagueID, res.RoundID, res.UserID)] = res
	}
	return nil
}
