package memory

import (
	"context"
	"sync"

	"github.com/matchpulse/predictor-league/internal/domain/prize"
)

type PrizeSettingRepository struct {
	mu    sync.RWMutex
	items map[string][]prize.Setting
}

func NewPrizeSettingRepository(settings []prize.Setting) *PrizeSettingRepository {
	byLeague := make(map[string][]prize.Setting)
	for _, s := range settings {
		byLeague[s.LeagueID] = append(byLeague[s.LeagueID], s)
	}
	return &PrizeSettingRepository{items: byLeague}
}

func (r *PrizeSettingRepository) ListByLeague(_ context.Context, leagueID string) ([]prize.Setting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]prize.Setting(nil), r.items[leagueID]...), nil
}

func (r *PrizeSettingRepository) Replace(_ context.Context, leagueID string, settings []prize.Setting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[leagueID] = append([]prize.Setting(nil), settings...)
	return nil
}

type winningRecord struct {
	winning  prize.Winning
	category string
}

type PrizeWinningRepository struct {
	mu    sync.RWMutex
	items []winningRecord
}

func NewPrizeWinningRepository() *PrizeWinningRepository {
	return &PrizeWinningRepository{}
}

func (r *PrizeWinningRepository) ListByLeague(_ context.Context, leagueID string) ([]prize.Winning, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []prize.Winning
	for _, rec := range r.items {
		if rec.winning.LeagueID == leagueID {
			out = append(out, rec.winning)
		}
	}
	return out, nil
}

func (r *PrizeWinningRepository) ReplaceForCategory(_ context.Context, leagueID, category string, roundID, month *string, winnings []prize.Winning) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.items[:0]
	for _, rec := range r.items {
		if rec.winning.LeagueID == leagueID && rec.category == category &&
			stringPtrEqual(rec.winning.RoundID, roundID) && stringPtrEqual(rec.winning.Month, month) {
			continue
		}
		kept = append(kept, rec)
	}
	r.items = kept
	for _, w := range winnings {
		r.items = append(r.items, winningRecord{winning: w, category: category})
	}
	return nil
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
