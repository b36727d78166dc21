package memory

import (
	"context"
	"sync"

	"github.com/matchpulse/predictor-league/internal/domain/boost"
)

type BoostRepository struct {
	mu     sync.RWMutex
	rules  map[string]boost.Rule
	usages []boost.Usage
}

func NewBoostRepository(rules []boost.Rule) *BoostRepository {
	byKey := make(map[string]boost.Rule, len(rules))
	for _, rule := range rules {
		byKey[rule.LeagueID+"|"+rule.Code] = rule
	}
	return &BoostRepository{rules: byKey}
}

func (r *BoostRepository) GetRule(_ context.Context, leagueID, code string) (boost.Rule, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, ok := r.rules[leagueID+"|"+code]
	return rule, ok, nil
}

func (r *BoostRepository) ListRules(_ context.Context, leagueID string) ([]boost.Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []boost.Rule
	for _, rule := range r.rules {
		if rule.LeagueID == leagueID {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (r *BoostRepository) ListUsagesByUser(_ context.Context, leagueID, userID, code string) ([]boost.Usage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []boost.Usage
	for _, u := range r.usages {
		if u.LeagueID == leagueID && u.UserID == userID && u.Code == code {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *BoostRepository) ListUsagesByRound(_ context.Context, leagueID, roundID string) ([]boost.Usage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []boost.Usage
	for _, u := range r.usages {
		if u.LeagueID == leagueID && u.RoundID == roundID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *BoostRepository) InsertUsage(_ context.Context, usage boost.Usage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.usages {
		if u.LeagueID == usage.LeagueID && u.UserID == usage.UserID && u.RoundID == usage.RoundID && u.Code == usage.Code {
			return boost.ErrUsageExists
		}
	}
	r.usages = append(r.usages, usage)
	return nil
}

func (r *BoostRepository) DeleteUsage(_ context.Context, leagueID, userID, roundID, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, u := range r.usages {
		if u.LeagueID == leagueID && u.UserID == userID && u.RoundID == roundID && u.Code == code {
			r.usages = append(r.usages[:i], r.usages[i+1:]...)
			return nil
		}
	}
	return nil
}
