package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/matchpulse/predictor-league/internal/domain/league"
	"github.com/matchpulse/predictor-league/internal/domain/round"
	"github.com/matchpulse/predictor-league/internal/domain/season"
	"github.com/matchpulse/predictor-league/internal/platform/logging"
)

// RecalcService rebuilds every derived table of a season from the stored
// predictions and match results. It exists for operational recovery: after a
// manual data correction the whole season can be re-derived instead of
// patched by hand.
type RecalcService struct {
	seasonRepo season.Repository
	leagueRepo league.Repository
	roundRepo  round.Repository
	settlement *SettlementService
	boosts     *BoostService
	standings  *StandingsService
	prizes     *PrizeService
	workers    int
	logger     *logging.Logger
}

func NewRecalcService(
	seasonRepo season.Repository,
	leagueRepo league.Repository,
	roundRepo round.Repository,
	settlement *SettlementService,
	boosts *BoostService,
	standings *StandingsService,
	prizes *PrizeService,
	workers int,
	logger *logging.Logger,
) *RecalcService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = 4
	}
	return &RecalcService{
		seasonRepo: seasonRepo,
		leagueRepo: leagueRepo,
		roundRepo:  roundRepo,
		settlement: settlement,
		boosts:     boosts,
		standings:  standings,
		prizes:     prizes,
		workers:    workers,
		logger:     logger,
	}
}

// RecalculateSeason re-derives aggregates, boosts, standings and prizes for
// every league in the season. Leagues are independent, so they are processed
// on a bounded worker pool.
func (s *RecalcService) RecalculateSeason(ctx context.Context, seasonID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecalcService.RecalculateSeason")
	defer span.End()

	if _, ok, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		return fmt.Errorf("load season: %w", err)
	} else if !ok {
		return fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
	}

	rounds, err := s.roundRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return fmt.Errorf("list season rounds: %w", err)
	}
	leagues, err := s.leagueRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return fmt.Errorf("list season leagues: %w", err)
	}
	if len(leagues) == 0 {
		return nil
	}

	p, err := ants.NewPool(s.workers)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer p.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	started := time.Now()
	for _, lg := range leagues {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			if err := s.recalcLeague(ctx, lg, rounds); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("recalculate league=%s: %w", lg.ID, err)
				}
				mu.Unlock()
			}
		}
		if err := p.Submit(task); err != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("submit recalc task: %w", err)
			}
			mu.Unlock()
		}
	}
	wg.Wait()
	if firstErr != nil {
		return firstErr
	}

	s.logger.InfoContext(ctx, "season recalculated",
		"season_id", seasonID, "leagues", len(leagues), "took", time.Since(started).String())
	return nil
}

func (s *RecalcService) recalcLeague(ctx context.Context, lg league.League, rounds []round.Round) error {
	for _, r := range rounds {
		if r.Status != round.StatusInProgress && r.Status != round.StatusCompleted {
			continue
		}
		if err := s.settlement.RecomputeRoundAggregate(ctx, lg, r); err != nil {
			return err
		}
		if err := s.boosts.ApplyRoundBoosts(ctx, lg, r); err != nil {
			return err
		}
	}

	if err := s.standings.Refresh(ctx, lg, false); err != nil {
		return err
	}
	if err := s.standings.Refresh(ctx, lg, true); err != nil {
		return err
	}

	for _, r := range rounds {
		if r.Status != round.StatusCompleted {
			continue
		}
		if err := s.prizes.DistributeOnRoundCompletion(ctx, lg, r); err != nil {
			return err
		}
	}
	return nil
}
