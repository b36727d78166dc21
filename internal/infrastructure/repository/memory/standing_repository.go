package memory

import (
	"context"
	"sync"

	"github.com/matchpulse/predictor-league/internal/domain/standing"
)

type StandingRepository struct {
	mu        sync.RWMutex
	rows      map[string][]standing.Row
	snapshots map[string]standing.Snapshot
}

func NewStandingRepository() *StandingRepository {
	return &StandingRepository{
		rows:      make(map[string][]standing.Row),
		snapshots: make(map[string]standing.Snapshot),
	}
}

func standingsKey(leagueID string, live bool) string {
	if live {
		return leagueID + "|live"
	}
	return leagueID + "|stable"
}

func (r *StandingRepository) ListByLeague(_ context.Context, leagueID string, live bool) ([]standing.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]standing.Row(nil), r.rows[standingsKey(leagueID, live)]...), nil
}

func (r *StandingRepository) ReplaceByLeague(_ context.Context, leagueID string, live bool, rows []standing.Row) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[standingsKey(leagueID, live)] = append([]standing.Row(nil), rows...)
	return nil
}

func (r *StandingRepository) InsertSnapshots(_ context.Context, snapshots []standing.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, snap := range snapshots {
		key := snap.RoundID + "|" + snap.LeagueID + "|" + snap.UserID
		if _, exists := r.snapshots[key]; exists {
			continue
		}
		r.snapshots[key] = snap
	}
	return nil
}

func (r *StandingRepository) ListSnapshots(_ context.Context, roundID, leagueID string) ([]standing.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []standing.Snapshot
	for _, snap := range r.snapshots {
		if snap.RoundID == roundID && snap.LeagueID == leagueID {
			out = append(out, snap)
		}
	}
	return out, nil
}
