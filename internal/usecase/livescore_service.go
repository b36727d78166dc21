package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/matchpulse/predictor-league/internal/domain/round"
	"github.com/matchpulse/predictor-league/internal/domain/season"
	"github.com/matchpulse/predictor-league/internal/platform/logging"
)

// FeedResult is one score line from the external results provider, keyed by
// the provider's own fixture reference.
type FeedResult struct {
	Code      string
	HomeGoals int
	AwayGoals int
}

// ResultsFeed fetches current scores for a set of provider fixture refs.
// Implementations are expected to be safe for concurrent use.
type ResultsFeed interface {
	FetchResults(ctx context.Context, refs []int64) (map[int64]FeedResult, error)
}

// LiveScoreService polls the results feed for every active season and pushes
// fresh scores through the settlement pipeline.
type LiveScoreService struct {
	seasonRepo season.Repository
	roundRepo  round.Repository
	settlement *SettlementService
	feed       ResultsFeed
	workers    int
	logger     *logging.Logger
	now        func() time.Time
}

func NewLiveScoreService(
	seasonRepo season.Repository,
	roundRepo round.Repository,
	settlement *SettlementService,
	feed ResultsFeed,
	workers int,
	logger *logging.Logger,
) *LiveScoreService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = 4
	}
	return &LiveScoreService{
		seasonRepo: seasonRepo,
		roundRepo:  roundRepo,
		settlement: settlement,
		feed:       feed,
		workers:    workers,
		logger:     logger,
		now:        time.Now,
	}
}

// Sweep fans out across active seasons and returns how many rounds received
// fresh results. A feed outage for one season is logged and skipped so the
// remaining seasons still settle.
func (s *LiveScoreService) Sweep(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LiveScoreService.Sweep")
	defer span.End()

	if s.feed == nil {
		return 0, fmt.Errorf("results feed not configured: %w", ErrDependencyUnavailable)
	}

	seasons, err := s.seasonRepo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active seasons: %w", err)
	}
	if len(seasons) == 0 {
		return 0, nil
	}

	var updated atomic.Int64
	p := pool.New().WithContext(ctx).WithMaxGoroutines(s.workers)
	for _, sn := range seasons {
		p.Go(func(ctx context.Context) error {
			n, err := s.sweepSeason(ctx, sn)
			if err != nil {
				return err
			}
			updated.Add(int64(n))
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return int(updated.Load()), err
	}
	return int(updated.Load()), nil
}

func (s *LiveScoreService) sweepSeason(ctx context.Context, sn season.Season) (int, error) {
	rounds, err := s.roundRepo.ListBySeason(ctx, sn.ID)
	if err != nil {
		return 0, fmt.Errorf("list rounds season=%s: %w", sn.ID, err)
	}

	now := s.now().UTC()
	due := make([]round.Round, 0, len(rounds))
	refs := make([]int64, 0)
	for _, r := range rounds {
		if r.Status != round.StatusPublished && r.Status != round.StatusInProgress {
			continue
		}
		wanted := false
		for _, m := range r.Matches {
			if m.Status == round.MatchCompleted || m.ExternalRef == 0 {
				continue
			}
			if m.Status == round.MatchInProgress || !m.KickoffAt.After(now) {
				refs = append(refs, m.ExternalRef)
				wanted = true
			}
		}
		if wanted {
			due = append(due, r)
		}
	}
	if len(refs) == 0 {
		return 0, nil
	}

	scores, err := s.feed.FetchResults(ctx, refs)
	if err != nil {
		// Feed hiccups are expected; the next sweep catches up.
		s.logger.WarnContext(ctx, "results feed unavailable, skipping season",
			"season_id", sn.ID, "error", err)
		return 0, nil
	}

	updated := 0
	for _, r := range due {
		results := make([]MatchResult, 0, len(r.Matches))
		for _, m := range r.Matches {
			score, ok := scores[m.ExternalRef]
			if !ok {
				continue
			}
			results = append(results, MatchResult{
				MatchID:   m.ID,
				HomeGoals: score.HomeGoals,
				AwayGoals: score.AwayGoals,
				Status:    round.StatusFromFeedCode(score.Code),
			})
		}
		if len(results) == 0 {
			continue
		}
		if err := s.settlement.SubmitResults(ctx, r.ID, results); err != nil {
			return updated, fmt.Errorf("submit results round=%s: %w", r.ID, err)
		}
		updated++
	}
	return updated, nil
}
