package memory

import (
	"context"
	"sync"
	"time"

	"github.com/matchpulse/predictor-league/internal/domain/round"
)

type RoundRepository struct {
	mu             sync.RWMutex
	items          map[string]round.Round
	orders         []string
	hasPredictions map[string]bool
}

func NewRoundRepository(rounds []round.Round) *RoundRepository {
	items := make(map[string]round.Round, len(rounds))
	orders := make([]string, 0, len(rounds))
	for _, r := range rounds {
		items[r.ID] = cloneRound(r)
		orders = append(orders, r.ID)
	}

	return &RoundRepository{
		items:          items,
		orders:         orders,
		hasPredictions: make(map[string]bool),
	}
}

func cloneRound(r round.Round) round.Round {
	matches := make([]round.Match, len(r.Matches))
	copy(matches, r.Matches)
	r.Matches = matches
	return r
}

func (r *RoundRepository) GetByID(_ context.Context, roundID string) (round.Round, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[roundID]
	if !ok {
		return round.Round{}, false, nil
	}
	return cloneRound(item), true, nil
}

func (r *RoundRepository) ListBySeason(_ context.Context, seasonID string) ([]round.Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []round.Round
	for _, id := range r.orders {
		if item := r.items[id]; item.SeasonID == seasonID {
			out = append(out, cloneRound(item))
		}
	}
	return out, nil
}

func (r *RoundRepository) ListByStatus(_ context.Context, statuses ...string) ([]round.Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []round.Round
	for _, id := range r.orders {
		item := r.items[id]
		for _, status := range statuses {
			if item.Status == status {
				out = append(out, cloneRound(item))
				break
			}
		}
	}
	return out, nil
}

func (r *RoundRepository) Save(_ context.Context, item *round.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; !exists {
		r.orders = append(r.orders, item.ID)
	}
	r.items[item.ID] = cloneRound(*item)
	return nil
}

func (r *RoundRepository) SetLastReminderAt(_ context.Context, roundID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[roundID]
	if !ok {
		return nil
	}
	item.LastReminderAt = &at
	r.items[roundID] = item
	return nil
}

func (r *RoundRepository) HasPredictions(_ context.Context, matchID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hasPredictions[matchID], nil
}

// MarkPredicted flags a match as having predictions, mirroring what the
// postgres backend derives from the predictions table.
func (r *RoundRepository) MarkPredicted(matchID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hasPredictions[matchID] = true
}
