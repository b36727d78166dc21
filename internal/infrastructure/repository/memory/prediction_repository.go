package memory

import (
	"context"
	"sync"

	"github.com/matchpulse/predictor-league/internal/domain/prediction"
)

type PredictionRepository struct {
	mu    sync.RWMutex
	items []prediction.Prediction
}

func NewPredictionRepository(predictions []prediction.Prediction) *PredictionRepository {
	return &PredictionRepository{items: append([]prediction.Prediction(nil), predictions...)}
}

func (r *PredictionRepository) ListByMatchIDs(_ context.Context, matchIDs []string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]struct{}, len(matchIDs))
	for _, id := range matchIDs {
		wanted[id] = struct{}{}
	}

	var out []prediction.Prediction
	for _, p := range r.items {
		if _, ok := wanted[p.MatchID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *PredictionRepository) SaveOutcomes(_ context.Context, predictions []prediction.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, updated := range predictions {
		for i := range r.items {
			if r.items[i].ID == updated.ID {
				r.items[i] = updated
				break
			}
		}
	}
	return nil
}
