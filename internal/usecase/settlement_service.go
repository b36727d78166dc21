package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matchpulse/predictor-league/internal/domain/league"
	"github.com/matchpulse/predictor-league/internal/domain/prediction"
	"github.com/matchpulse/predictor-league/internal/domain/round"
	"github.com/matchpulse/predictor-league/internal/platform/logging"
)

// MatchResult is one submitted score line, either from the external feed or
// from manual admin entry.
type MatchResult struct {
	MatchID   string
	HomeGoals int
	AwayGoals int
	Status    string
}

// SettlementService sequences the whole round-settlement pipeline: match
// updates, round transitions, outcome recomputation, league aggregates,
// boosts, standings and prize distribution. It holds no state between calls;
// everything it needs is reloaded inside the transaction.
type SettlementService struct {
	roundRepo      round.Repository
	leagueRepo     league.Repository
	resultRepo     league.ResultRepository
	predictionRepo prediction.Repository
	boosts         *BoostService
	standings      *StandingsService
	prizes         *PrizeService
	tx             TxRunner
	logger         *logging.Logger
	now            func() time.Time
}

func NewSettlementService(
	roundRepo round.Repository,
	leagueRepo league.Repository,
	resultRepo league.ResultRepository,
	predictionRepo prediction.Repository,
	boosts *BoostService,
	standings *StandingsService,
	prizes *PrizeService,
	tx TxRunner,
	logger *logging.Logger,
) *SettlementService {
	if logger == nil {
		logger = logging.Default()
	}
	if tx == nil {
		tx = NewNoopTxRunner()
	}
	return &SettlementService{
		roundRepo:      roundRepo,
		leagueRepo:     leagueRepo,
		resultRepo:     resultRepo,
		predictionRepo: predictionRepo,
		boosts:         boosts,
		standings:      standings,
		prizes:         prizes,
		tx:             tx,
		logger:         logger,
		now:            time.Now,
	}
}

// SubmitResults applies a batch of match results to a round and runs every
// downstream settlement step. Re-submitting an already processed batch is a
// no-op: no match changes, so the pipeline stops before any derived write.
func (s *SettlementService) SubmitResults(ctx context.Context, roundID string, results []MatchResult) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.SubmitResults")
	defer span.End()

	roundID = strings.TrimSpace(roundID)
	if roundID == "" {
		return fmt.Errorf("%w: round id is required", ErrInvalidInput)
	}
	for _, res := range results {
		switch res.Status {
		case round.MatchScheduled, round.MatchInProgress, round.MatchCompleted:
		default:
			return fmt.Errorf("%w: unknown match status %q", ErrInvalidInput, res.Status)
		}
		if res.HomeGoals < 0 || res.AwayGoals < 0 {
			return fmt.Errorf("%w: goals must not be negative", ErrInvalidInput)
		}
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.settle(ctx, roundID, results)
	})
}

func (s *SettlementService) settle(ctx context.Context, roundID string, results []MatchResult) error {
	r, ok, err := s.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		return fmt.Errorf("load round: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
	}

	// "Before" snapshot: which matches were already completed, and whether
	// the round still counts as not started.
	wasPublished := r.Status == round.StatusPublished
	completedBefore := make(map[string]struct{})
	for _, m := range r.Matches {
		if m.Status == round.MatchCompleted {
			completedBefore[m.ID] = struct{}{}
		}
	}

	changed := make([]string, 0, len(results))
	for _, res := range results {
		m, found := r.MatchByID(res.MatchID)
		if !found {
			// Unknown ids are skipped, not an error: partial feed payloads
			// routinely reference matches outside this round.
			continue
		}
		if m.ApplyResult(res.HomeGoals, res.AwayGoals, res.Status) {
			changed = append(changed, m.ID)
		}
	}
	if len(changed) == 0 {
		s.logger.DebugContext(ctx, "settlement no-op, no match changed", "round_id", roundID)
		return nil
	}

	leagues, err := s.leagueRepo.ListBySeason(ctx, r.SeasonID)
	if err != nil {
		return fmt.Errorf("list leagues for season: %w", err)
	}

	anyStarted := false
	for _, id := range changed {
		if m, found := r.MatchByID(id); found && m.Status != round.MatchScheduled {
			anyStarted = true
			break
		}
	}

	// The round-start snapshot must be taken before any aggregate for this
	// round is written, so it reflects the pre-kickoff table.
	if wasPublished && anyStarted {
		if err := r.Begin(); err != nil {
			return err
		}
		for _, lg := range leagues {
			if err := s.standings.CaptureRoundStartSnapshot(ctx, lg, r); err != nil {
				return fmt.Errorf("capture round snapshot league=%s: %w", lg.ID, err)
			}
		}
	}

	if err := s.roundRepo.Save(ctx, &r); err != nil {
		return fmt.Errorf("save round: %w", err)
	}

	if err := s.recomputeOutcomes(ctx, r, changed); err != nil {
		return err
	}

	for _, lg := range leagues {
		if err := s.RecomputeRoundAggregate(ctx, lg, r); err != nil {
			return fmt.Errorf("recompute aggregate league=%s: %w", lg.ID, err)
		}
		if err := s.boosts.ApplyRoundBoosts(ctx, lg, r); err != nil {
			return fmt.Errorf("apply boosts league=%s: %w", lg.ID, err)
		}
	}

	newlyCompleted := false
	for _, id := range changed {
		if _, before := completedBefore[id]; before {
			continue
		}
		if m, found := r.MatchByID(id); found && m.Status == round.MatchCompleted {
			newlyCompleted = true
			break
		}
	}

	for _, lg := range leagues {
		if newlyCompleted {
			if err := s.standings.Refresh(ctx, lg, false); err != nil {
				return fmt.Errorf("refresh stable standings league=%s: %w", lg.ID, err)
			}
		}
		if err := s.standings.Refresh(ctx, lg, true); err != nil {
			return fmt.Errorf("refresh live standings league=%s: %w", lg.ID, err)
		}
	}

	if r.Status == round.StatusInProgress && r.AllMatchesCompleted() {
		if err := r.Complete(); err != nil {
			return err
		}
		if err := s.roundRepo.Save(ctx, &r); err != nil {
			return fmt.Errorf("save completed round: %w", err)
		}
		for _, lg := range leagues {
			if err := s.prizes.DistributeOnRoundCompletion(ctx, lg, r); err != nil {
				return fmt.Errorf("distribute prizes league=%s: %w", lg.ID, err)
			}
		}
		s.logger.InfoContext(ctx, "round completed and settled",
			"round_id", r.ID, "season_id", r.SeasonID, "leagues", len(leagues))
	}

	return nil
}

// recomputeOutcomes regrades every prediction that references a changed
// match. Predictions on matches that are not completed go back to pending.
func (s *SettlementService) recomputeOutcomes(ctx context.Context, r round.Round, changed []string) error {
	preds, err := s.predictionRepo.ListByMatchIDs(ctx, changed)
	if err != nil {
		return fmt.Errorf("list predictions for changed matches: %w", err)
	}
	if len(preds) == 0 {
		return nil
	}

	now := s.now().UTC()
	for i := range preds {
		m, found := r.MatchByID(preds[i].MatchID)
		if !found {
			continue
		}
		if m.Status == round.MatchCompleted && m.HasResult() {
			preds[i].Outcome = prediction.Classify(preds[i].HomeGoals, preds[i].AwayGoals, *m.HomeScore, *m.AwayScore)
			preds[i].ComputedAt = &now
		} else {
			preds[i].Outcome = prediction.OutcomePending
			preds[i].ComputedAt = nil
		}
	}

	if err := s.predictionRepo.SaveOutcomes(ctx, preds); err != nil {
		return fmt.Errorf("save prediction outcomes: %w", err)
	}
	return nil
}

// RecomputeRoundAggregate rebuilds the (league, round, user) base points from
// scratch off the round's completed matches. Boost flags are reset here and
// re-applied by ApplyRoundBoosts, which keeps the pair idempotent.
func (s *SettlementService) RecomputeRoundAggregate(ctx context.Context, lg league.League, r round.Round) error {
	members, err := s.leagueRepo.ListMembers(ctx, lg.ID)
	if err != nil {
		return fmt.Errorf("list league members: %w", err)
	}
	approved := make(map[string]struct{}, len(members))
	for _, m := range members {
		if m.Approved {
			approved[m.UserID] = struct{}{}
		}
	}
	if len(approved) == 0 {
		return nil
	}

	matchIDs := make([]string, 0, len(r.Matches))
	for _, m := range r.Matches {
		matchIDs = append(matchIDs, m.ID)
	}
	preds, err := s.predictionRepo.ListByMatchIDs(ctx, matchIDs)
	if err != nil {
		return fmt.Errorf("list round predictions: %w", err)
	}

	points := make(map[string]int, len(approved))
	for _, p := range preds {
		if _, ok := approved[p.UserID]; !ok {
			continue
		}
		m, found := r.MatchByID(p.MatchID)
		if !found || m.Status != round.MatchCompleted || !m.HasResult() {
			continue
		}
		outcome := prediction.Classify(p.HomeGoals, p.AwayGoals, *m.HomeScore, *m.AwayScore)
		points[p.UserID] += lg.PointsFor(outcome)
	}

	now := s.now().UTC()
	results := make([]league.RoundResult, 0, len(approved))
	for userID := range approved {
		base := points[userID]
		results = append(results, league.RoundResult{
			LeagueID:      lg.ID,
			RoundID:       r.ID,
			UserID:        userID,
			BasePoints:    base,
			BoostedPoints: base,
			HasBoost:      false,
			UpdatedAt:     now,
		})
	}

	if err := s.resultRepo.Upsert(ctx, results); err != nil {
		return fmt.Errorf("upsert round results: %w", err)
	}
	return nil
}
