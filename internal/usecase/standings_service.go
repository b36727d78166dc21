package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/matchpulse/predictor-league/internal/domain/league"
	"github.com/matchpulse/predictor-league/internal/domain/prediction"
	"github.com/matchpulse/predictor-league/internal/domain/round"
	"github.com/matchpulse/predictor-league/internal/domain/standing"
	"github.com/matchpulse/predictor-league/internal/platform/logging"
)

// StandingsService maintains the two league tables. The stable table only
// moves when a round completes; the live table additionally counts finished
// matches of in-progress rounds plus provisional points for matches still
// being played.
type StandingsService struct {
	standingRepo   standing.Repository
	resultRepo     league.ResultRepository
	roundRepo      round.Repository
	leagueRepo     league.Repository
	predictionRepo prediction.Repository
	logger         *logging.Logger
	now            func() time.Time
}

func NewStandingsService(
	standingRepo standing.Repository,
	resultRepo league.ResultRepository,
	roundRepo round.Repository,
	leagueRepo league.Repository,
	predictionRepo prediction.Repository,
	logger *logging.Logger,
) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingsService{
		standingRepo:   standingRepo,
		resultRepo:     resultRepo,
		roundRepo:      roundRepo,
		leagueRepo:     leagueRepo,
		predictionRepo: predictionRepo,
		logger:         logger,
		now:            time.Now,
	}
}

// List returns the current table for a league, live or stable.
func (s *StandingsService) List(ctx context.Context, leagueID string, live bool) ([]standing.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.List")
	defer span.End()

	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if _, ok, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return nil, fmt.Errorf("load league: %w", err)
	} else if !ok {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	return s.standingRepo.ListByLeague(ctx, leagueID, live)
}

// Refresh rebuilds one league table from scratch and replaces the stored
// rows. The rebuild is a pure function of the season's rounds and stored
// aggregates, so concurrent refreshes converge.
func (s *StandingsService) Refresh(ctx context.Context, lg league.League, live bool) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Refresh")
	defer span.End()

	rows, err := s.computeRows(ctx, lg, live, nil)
	if err != nil {
		return err
	}
	if err := s.standingRepo.ReplaceByLeague(ctx, lg.ID, live, rows); err != nil {
		return fmt.Errorf("replace standings: %w", err)
	}
	return nil
}

// CaptureRoundStartSnapshot records each member's overall and monthly rank as
// of the moment the round's first match kicks off. The store skips users
// already snapshotted for the round, so a re-run cannot overwrite the
// original capture.
func (s *StandingsService) CaptureRoundStartSnapshot(ctx context.Context, lg league.League, r round.Round) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.CaptureRoundStartSnapshot")
	defer span.End()

	overall, err := s.computeRows(ctx, lg, false, nil)
	if err != nil {
		return err
	}
	month := MonthKey(r.StartsAt)
	monthly, err := s.computeRows(ctx, lg, false, &month)
	if err != nil {
		return err
	}

	monthlyRank := make(map[string]int, len(monthly))
	for _, row := range monthly {
		monthlyRank[row.UserID] = row.Position
	}

	capturedAt := s.now().UTC()
	snapshots := make([]standing.Snapshot, 0, len(overall))
	for _, row := range overall {
		snapshots = append(snapshots, standing.Snapshot{
			RoundID:     r.ID,
			LeagueID:    lg.ID,
			UserID:      row.UserID,
			OverallRank: row.Position,
			MonthlyRank: monthlyRank[row.UserID],
			CapturedAt:  capturedAt,
		})
	}
	if len(snapshots) == 0 {
		return nil
	}
	if err := s.standingRepo.InsertSnapshots(ctx, snapshots); err != nil {
		return fmt.Errorf("insert round snapshots: %w", err)
	}
	s.logger.InfoContext(ctx, "round start snapshot captured",
		"league_id", lg.ID, "round_id", r.ID, "users", len(snapshots))
	return nil
}

// computeRows builds the ranked table. month, when set, restricts the rounds
// counted to those starting in that calendar month (used by monthly prizes
// and snapshots).
func (s *StandingsService) computeRows(ctx context.Context, lg league.League, live bool, month *string) ([]standing.Row, error) {
	rounds, err := s.roundRepo.ListBySeason(ctx, lg.SeasonID)
	if err != nil {
		return nil, fmt.Errorf("list season rounds: %w", err)
	}

	members, err := s.leagueRepo.ListMembers(ctx, lg.ID)
	if err != nil {
		return nil, fmt.Errorf("list league members: %w", err)
	}
	approved := make(map[string]struct{}, len(members))
	for _, m := range members {
		if m.Approved {
			approved[m.UserID] = struct{}{}
		}
	}

	counted := make([]round.Round, 0, len(rounds))
	for _, r := range rounds {
		if month != nil && MonthKey(r.StartsAt) != *month {
			continue
		}
		switch r.Status {
		case round.StatusCompleted:
			counted = append(counted, r)
		case round.StatusInProgress:
			if live {
				counted = append(counted, r)
			}
		}
	}

	type acc struct {
		points        int
		exactScores   int
		roundsCounted int
	}
	totals := make(map[string]*acc, len(approved))
	for userID := range approved {
		totals[userID] = &acc{}
	}

	roundIDs := make([]string, 0, len(counted))
	for _, r := range counted {
		roundIDs = append(roundIDs, r.ID)
	}
	results, err := s.resultRepo.ListByLeagueRounds(ctx, lg.ID, roundIDs)
	if err != nil {
		return nil, fmt.Errorf("list round results: %w", err)
	}
	for _, res := range results {
		t, ok := totals[res.UserID]
		if !ok {
			continue
		}
		t.points += res.Points()
		t.roundsCounted++
	}

	for _, r := range counted {
		if err := s.addMatchDetail(ctx, r, live, approved, func(userID string, outcome string) {
			if outcome == prediction.OutcomeExactScore {
				totals[userID].exactScores++
			}
		}, func(userID string, provisional int) {
			totals[userID].points += provisional
		}, lg); err != nil {
			return nil, err
		}
	}

	rows := make([]standing.Row, 0, len(totals))
	updatedAt := s.now().UTC()
	for userID, t := range totals {
		rows = append(rows, standing.Row{
			LeagueID:      lg.ID,
			UserID:        userID,
			Live:          live,
			Points:        t.points,
			ExactScores:   t.exactScores,
			RoundsCounted: t.roundsCounted,
			UpdatedAt:     updatedAt,
		})
	}
	return standing.Rank(rows), nil
}

// addMatchDetail walks one round's predictions. Completed matches feed exact
// score tallies; for live tables, in-progress matches with a current score
// also contribute provisional, never boosted, points.
func (s *StandingsService) addMatchDetail(
	ctx context.Context,
	r round.Round,
	live bool,
	approved map[string]struct{},
	onOutcome func(userID, outcome string),
	onProvisional func(userID string, points int),
	lg league.League,
) error {
	matchIDs := make([]string, 0, len(r.Matches))
	for _, m := range r.Matches {
		matchIDs = append(matchIDs, m.ID)
	}
	preds, err := s.predictionRepo.ListByMatchIDs(ctx, matchIDs)
	if err != nil {
		return fmt.Errorf("list predictions round=%s: %w", r.ID, err)
	}
	for _, p := range preds {
		if _, ok := approved[p.UserID]; !ok {
			continue
		}
		m, found := r.MatchByID(p.MatchID)
		if !found || !m.HasResult() {
			continue
		}
		outcome := prediction.Classify(p.HomeGoals, p.AwayGoals, *m.HomeScore, *m.AwayScore)
		switch m.Status {
		case round.MatchCompleted:
			onOutcome(p.UserID, outcome)
		case round.MatchInProgress:
			if live {
				onProvisional(p.UserID, lg.PointsFor(outcome))
			}
		}
	}
	return nil
}

// MonthKey buckets a round into its calendar month, UTC.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}
