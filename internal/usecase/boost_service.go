package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matchpulse/predictor-league/internal/domain/boost"
	"github.com/matchpulse/predictor-league/internal/domain/league"
	"github.com/matchpulse/predictor-league/internal/domain/round"
	"github.com/matchpulse/predictor-league/internal/platform/logging"
)

// BoostService answers eligibility questions and records boost usage. The
// eligibility rules themselves live in the boost domain package; this service
// assembles the counters and owns the concurrency story around applying.
type BoostService struct {
	boostRepo  boost.Repository
	leagueRepo league.Repository
	roundRepo  round.Repository
	resultRepo league.ResultRepository
	logger     *logging.Logger
	now        func() time.Time
}

func NewBoostService(
	boostRepo boost.Repository,
	leagueRepo league.Repository,
	roundRepo round.Repository,
	resultRepo league.ResultRepository,
	logger *logging.Logger,
) *BoostService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BoostService{
		boostRepo:  boostRepo,
		leagueRepo: leagueRepo,
		roundRepo:  roundRepo,
		resultRepo: resultRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// Eligibility evaluates whether userID may play the given boost on the given
// round. It is a pure read; Apply performs the same evaluation again under
// the usage table's unique constraint.
func (s *BoostService) Eligibility(ctx context.Context, leagueID, userID, roundID, code string) (boost.Eligibility, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoostService.Eligibility")
	defer span.End()

	in, _, err := s.buildInput(ctx, leagueID, userID, roundID, code)
	if err != nil {
		return boost.Eligibility{}, err
	}
	return boost.Evaluate(in), nil
}

// Apply records a boost usage for the round. The insert relies on the
// (user, league, round, code) uniqueness of the usage store, so two racing
// calls cannot both succeed; the loser reports the boost as already used.
func (s *BoostService) Apply(ctx context.Context, leagueID, userID, roundID, code string) (boost.Eligibility, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoostService.Apply")
	defer span.End()

	in, r, err := s.buildInput(ctx, leagueID, userID, roundID, code)
	if err != nil {
		return boost.Eligibility{}, err
	}
	elig := boost.Evaluate(in)
	if elig.AlreadyUsed {
		return elig, nil
	}
	if !elig.Allowed {
		return elig, fmt.Errorf("%w: %s", ErrInvalidInput, elig.Reason)
	}
	if r.Status != round.StatusPublished {
		return boost.Eligibility{}, fmt.Errorf("%w: boosts can only be applied before the round starts", ErrInvalidInput)
	}

	usage := boost.Usage{
		UserID:      userID,
		LeagueID:    leagueID,
		RoundID:     roundID,
		RoundNumber: r.Number,
		Code:        code,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.boostRepo.InsertUsage(ctx, usage); err != nil {
		if errors.Is(err, boost.ErrUsageExists) {
			return boost.Eligibility{AlreadyUsed: true, Reason: boost.ReasonAlreadyUsed}, nil
		}
		return boost.Eligibility{}, fmt.Errorf("insert boost usage: %w", err)
	}

	s.logger.InfoContext(ctx, "boost applied",
		"league_id", leagueID, "user_id", userID, "round_id", roundID, "code", code)
	return elig, nil
}

// Revoke removes a pending usage. Only allowed while the round has not
// started, mirroring Apply's window.
func (s *BoostService) Revoke(ctx context.Context, leagueID, userID, roundID, code string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoostService.Revoke")
	defer span.End()

	r, ok, err := s.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		return fmt.Errorf("load round: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
	}
	if r.Status != round.StatusPublished && r.Status != round.StatusDraft {
		return fmt.Errorf("%w: boost cannot be revoked once the round has started", ErrInvalidInput)
	}
	if err := s.boostRepo.DeleteUsage(ctx, leagueID, userID, roundID, code); err != nil {
		return fmt.Errorf("delete boost usage: %w", err)
	}
	return nil
}

// ApplyRoundBoosts rewrites the boosted points of every (league, round, user)
// aggregate that has a recorded usage. It runs after base points are rebuilt,
// so calling it repeatedly converges on the same rows.
func (s *BoostService) ApplyRoundBoosts(ctx context.Context, lg league.League, r round.Round) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoostService.ApplyRoundBoosts")
	defer span.End()

	usages, err := s.boostRepo.ListUsagesByRound(ctx, lg.ID, r.ID)
	if err != nil {
		return fmt.Errorf("list round boost usages: %w", err)
	}
	if len(usages) == 0 {
		return nil
	}

	results, err := s.resultRepo.ListByLeagueRound(ctx, lg.ID, r.ID)
	if err != nil {
		return fmt.Errorf("list round results: %w", err)
	}
	byUser := make(map[string]int, len(results))
	for i, res := range results {
		byUser[res.UserID] = i
	}

	rules := make(map[string]boost.Rule)
	boosted := make([]league.RoundResult, 0, len(usages))
	now := s.now().UTC()
	for _, u := range usages {
		idx, ok := byUser[u.UserID]
		if !ok {
			continue
		}
		rule, cached := rules[u.Code]
		if !cached {
			loaded, found, err := s.boostRepo.GetRule(ctx, lg.ID, u.Code)
			if err != nil {
				return fmt.Errorf("load boost rule %s: %w", u.Code, err)
			}
			if !found {
				continue
			}
			rules[u.Code] = loaded
			rule = loaded
		}
		if rule.Multiplier <= 1 {
			continue
		}
		res := results[idx]
		res.BoostedPoints = res.BasePoints * rule.Multiplier
		res.HasBoost = true
		res.UpdatedAt = now
		boosted = append(boosted, res)
	}
	if len(boosted) == 0 {
		return nil
	}
	if err := s.resultRepo.Upsert(ctx, boosted); err != nil {
		return fmt.Errorf("upsert boosted results: %w", err)
	}
	return nil
}

func (s *BoostService) buildInput(ctx context.Context, leagueID, userID, roundID, code string) (boost.EvaluateInput, round.Round, error) {
	leagueID = strings.TrimSpace(leagueID)
	userID = strings.TrimSpace(userID)
	roundID = strings.TrimSpace(roundID)
	code = strings.ToUpper(strings.TrimSpace(code))
	if leagueID == "" || userID == "" || roundID == "" || code == "" {
		return boost.EvaluateInput{}, round.Round{}, fmt.Errorf("%w: league, user, round and boost code are required", ErrInvalidInput)
	}

	lg, ok, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return boost.EvaluateInput{}, round.Round{}, fmt.Errorf("load league: %w", err)
	}
	if !ok {
		return boost.EvaluateInput{}, round.Round{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	r, ok, err := s.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		return boost.EvaluateInput{}, round.Round{}, fmt.Errorf("load round: %w", err)
	}
	if !ok {
		return boost.EvaluateInput{}, round.Round{}, fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
	}

	members, err := s.leagueRepo.ListMembers(ctx, leagueID)
	if err != nil {
		return boost.EvaluateInput{}, round.Round{}, fmt.Errorf("list league members: %w", err)
	}
	isMember := false
	for _, m := range members {
		if m.UserID == userID && m.Approved {
			isMember = true
			break
		}
	}

	rule, ruleFound, err := s.boostRepo.GetRule(ctx, leagueID, code)
	if err != nil {
		return boost.EvaluateInput{}, round.Round{}, fmt.Errorf("load boost rule: %w", err)
	}

	usages, err := s.boostRepo.ListUsagesByUser(ctx, leagueID, userID, code)
	if err != nil {
		return boost.EvaluateInput{}, round.Round{}, fmt.Errorf("list boost usages: %w", err)
	}

	usedThisRound := false
	windowUses := 0
	window, inWindow := rule.WindowFor(r.Number)
	for _, u := range usages {
		if u.RoundID == roundID {
			usedThisRound = true
		}
		if inWindow && window.Contains(u.RoundNumber) {
			windowUses++
		}
	}

	in := boost.EvaluateInput{
		RoundInSeason: r.SeasonID == lg.SeasonID,
		IsMember:      isMember,
		Enabled:       ruleFound && rule.Enabled,
		UsesPerSeason: rule.UsesPerSeason,
		SeasonUses:    len(usages),
		WindowUses:    windowUses,
		UsedThisRound: usedThisRound,
		RoundNumber:   r.Number,
		Windows:       rule.Windows,
	}
	return in, r, nil
}
