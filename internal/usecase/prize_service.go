package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/matchpulse/predictor-league/internal/domain/league"
	"github.com/matchpulse/predictor-league/internal/domain/prize"
	"github.com/matchpulse/predictor-league/internal/domain/round"
	"github.com/matchpulse/predictor-league/internal/domain/standing"
	"github.com/matchpulse/predictor-league/internal/platform/id"
	"github.com/matchpulse/predictor-league/internal/platform/logging"
)

// prizeStrategy computes and stores the winnings of one category. Every
// strategy deletes its own category's rows before reinserting, so running a
// strategy twice for the same qualifier leaves the same payout behind.
type prizeStrategy func(ctx context.Context, lg league.League, r round.Round, settings []prize.Setting) error

// PrizeService distributes league prize pots. Which categories fire on a given
// round completion depends on the round's place in the season: round prizes
// always, monthly prizes when the round closes its calendar month, overall and
// most-exact-scores prizes when it closes the season.
type PrizeService struct {
	settingRepo  prize.SettingRepository
	winningRepo  prize.WinningRepository
	resultRepo   league.ResultRepository
	roundRepo    round.Repository
	standingRepo standing.Repository
	idGen        id.Generator
	logger       *logging.Logger
	now          func() time.Time

	strategies map[string]prizeStrategy

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewPrizeService(
	settingRepo prize.SettingRepository,
	winningRepo prize.WinningRepository,
	resultRepo league.ResultRepository,
	roundRepo round.Repository,
	standingRepo standing.Repository,
	idGen id.Generator,
	logger *logging.Logger,
) *PrizeService {
	if logger == nil {
		logger = logging.Default()
	}
	s := &PrizeService{
		settingRepo:  settingRepo,
		winningRepo:  winningRepo,
		resultRepo:   resultRepo,
		roundRepo:    roundRepo,
		standingRepo: standingRepo,
		idGen:        idGen,
		logger:       logger,
		now:          time.Now,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.strategies = map[string]prizeStrategy{
		prize.CategoryRound:     s.distributeRound,
		prize.CategoryMonthly:   s.distributeMonthly,
		prize.CategoryOverall:   s.distributeOverall,
		prize.CategoryMostExact: s.distributeMostExact,
	}
	return s
}

// ReplaceSettings validates and stores a league's prize configuration. The
// configured amounts must exhaust the pot exactly.
func (s *PrizeService) ReplaceSettings(ctx context.Context, lg league.League, settings []prize.Setting) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PrizeService.ReplaceSettings")
	defer span.End()

	if err := prize.ValidateSettings(settings, lg.PrizePotPence); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	for i := range settings {
		settings[i].LeagueID = lg.ID
		if settings[i].ID == "" {
			newID, err := s.idGen.NewID()
			if err != nil {
				return fmt.Errorf("generate setting id: %w", err)
			}
			settings[i].ID = newID
		}
	}
	if err := s.settingRepo.Replace(ctx, lg.ID, settings); err != nil {
		return fmt.Errorf("replace prize settings: %w", err)
	}
	return nil
}

// ListWinnings returns every stored payout row for a league.
func (s *PrizeService) ListWinnings(ctx context.Context, leagueID string) ([]prize.Winning, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PrizeService.ListWinnings")
	defer span.End()
	return s.winningRepo.ListByLeague(ctx, leagueID)
}

// DistributeOnRoundCompletion runs every strategy whose trigger condition the
// completed round satisfies.
func (s *PrizeService) DistributeOnRoundCompletion(ctx context.Context, lg league.League, r round.Round) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PrizeService.DistributeOnRoundCompletion")
	defer span.End()

	settings, err := s.settingRepo.ListByLeague(ctx, lg.ID)
	if err != nil {
		return fmt.Errorf("list prize settings: %w", err)
	}
	if len(settings) == 0 {
		return nil
	}
	byCategory := make(map[string][]prize.Setting)
	for _, st := range settings {
		byCategory[st.Category] = append(byCategory[st.Category], st)
	}

	rounds, err := s.roundRepo.ListBySeason(ctx, r.SeasonID)
	if err != nil {
		return fmt.Errorf("list season rounds: %w", err)
	}

	for _, category := range []string{prize.CategoryRound, prize.CategoryMonthly, prize.CategoryOverall, prize.CategoryMostExact} {
		catSettings := byCategory[category]
		if len(catSettings) == 0 {
			continue
		}
		if !shouldTrigger(category, r, rounds) {
			continue
		}
		if err := s.strategies[category](ctx, lg, r, catSettings); err != nil {
			return fmt.Errorf("distribute %s prizes: %w", category, err)
		}
		s.logger.InfoContext(ctx, "prize category distributed",
			"league_id", lg.ID, "round_id", r.ID, "category", category)
	}
	return nil
}

// shouldTrigger decides whether a category fires when r completes. Monthly
// prizes wait for the last round of r's calendar month; season-wide prizes
// wait for every round of the season to complete.
func shouldTrigger(category string, r round.Round, seasonRounds []round.Round) bool {
	switch category {
	case prize.CategoryRound:
		return true
	case prize.CategoryMonthly:
		month := MonthKey(r.StartsAt)
		for _, other := range seasonRounds {
			if MonthKey(other.StartsAt) != month {
				continue
			}
			if other.ID != r.ID && other.Status != round.StatusCompleted {
				return false
			}
		}
		return true
	case prize.CategoryOverall, prize.CategoryMostExact:
		for _, other := range seasonRounds {
			if other.ID != r.ID && other.Status != round.StatusCompleted {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (s *PrizeService) distributeRound(ctx context.Context, lg league.League, r round.Round, settings []prize.Setting) error {
	results, err := s.resultRepo.ListByLeagueRound(ctx, lg.ID, r.ID)
	if err != nil {
		return fmt.Errorf("list round results: %w", err)
	}
	best := 0
	var winners []string
	for _, res := range results {
		pts := res.Points()
		switch {
		case pts > best:
			best = pts
			winners = winners[:0]
			winners = append(winners, res.UserID)
		case pts == best && pts > 0:
			winners = append(winners, res.UserID)
		}
	}

	roundID := r.ID
	setting := settings[0]
	winnings, err := s.buildWinnings(lg, setting, winners, setting.AmountPence, &roundID, nil)
	if err != nil {
		return err
	}
	return s.winningRepo.ReplaceForCategory(ctx, lg.ID, prize.CategoryRound, &roundID, nil, winnings)
}

func (s *PrizeService) distributeMonthly(ctx context.Context, lg league.League, r round.Round, settings []prize.Setting) error {
	rounds, err := s.roundRepo.ListBySeason(ctx, r.SeasonID)
	if err != nil {
		return fmt.Errorf("list season rounds: %w", err)
	}
	month := MonthKey(r.StartsAt)
	var roundIDs []string
	for _, other := range rounds {
		if MonthKey(other.StartsAt) == month && other.Status == round.StatusCompleted {
			roundIDs = append(roundIDs, other.ID)
		}
	}
	results, err := s.resultRepo.ListByLeagueRounds(ctx, lg.ID, roundIDs)
	if err != nil {
		return fmt.Errorf("list month results: %w", err)
	}
	totals := make(map[string]int)
	for _, res := range results {
		totals[res.UserID] += res.Points()
	}
	best := 0
	var winners []string
	for userID, pts := range totals {
		switch {
		case pts > best:
			best = pts
			winners = winners[:0]
			winners = append(winners, userID)
		case pts == best && pts > 0:
			winners = append(winners, userID)
		}
	}

	setting := settings[0]
	winnings, err := s.buildWinnings(lg, setting, winners, setting.AmountPence, nil, &month)
	if err != nil {
		return err
	}
	return s.winningRepo.ReplaceForCategory(ctx, lg.ID, prize.CategoryMonthly, nil, &month, winnings)
}

// distributeOverall pays configured final-table ranks. Each rank settles
// independently against the stored table's positions: the users holding
// exactly that position split that rank's pot. Positions swallowed by a tie
// above them hold no users, so their pots go unpaid rather than merging into
// the tied group.
func (s *PrizeService) distributeOverall(ctx context.Context, lg league.League, _ round.Round, settings []prize.Setting) error {
	rows, err := s.standingRepo.ListByLeague(ctx, lg.ID, false)
	if err != nil {
		return fmt.Errorf("list stable standings: %w", err)
	}

	usersByPosition := make(map[int][]string)
	for _, row := range rows {
		usersByPosition[row.Position] = append(usersByPosition[row.Position], row.UserID)
	}

	var winnings []prize.Winning
	for _, setting := range settings {
		rows, err := s.buildWinnings(lg, setting, usersByPosition[setting.Rank], setting.AmountPence, nil, nil)
		if err != nil {
			return err
		}
		winnings = append(winnings, rows...)
	}

	return s.winningRepo.ReplaceForCategory(ctx, lg.ID, prize.CategoryOverall, nil, nil, winnings)
}

func (s *PrizeService) distributeMostExact(ctx context.Context, lg league.League, _ round.Round, settings []prize.Setting) error {
	rows, err := s.standingRepo.ListByLeague(ctx, lg.ID, false)
	if err != nil {
		return fmt.Errorf("list stable standings: %w", err)
	}
	best := 0
	var winners []string
	for _, row := range rows {
		switch {
		case row.ExactScores > best:
			best = row.ExactScores
			winners = winners[:0]
			winners = append(winners, row.UserID)
		case row.ExactScores == best && best > 0:
			winners = append(winners, row.UserID)
		}
	}

	setting := settings[0]
	winnings, err := s.buildWinnings(lg, setting, winners, setting.AmountPence, nil, nil)
	if err != nil {
		return err
	}
	return s.winningRepo.ReplaceForCategory(ctx, lg.ID, prize.CategoryMostExact, nil, nil, winnings)
}

// buildWinnings splits a pot fairly across the winners and materializes the
// payout rows. An empty winner set yields no rows, which on replace clears the
// category's previous payout.
func (s *PrizeService) buildWinnings(lg league.League, setting prize.Setting, winners []string, potPence int64, roundID, month *string) ([]prize.Winning, error) {
	if len(winners) == 0 || potPence <= 0 {
		return nil, nil
	}

	s.rngMu.Lock()
	amounts := prize.SplitPence(potPence, len(winners), s.rng)
	s.rngMu.Unlock()

	createdAt := s.now().UTC()
	winnings := make([]prize.Winning, 0, len(winners))
	for i, userID := range winners {
		newID, err := s.idGen.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate winning id: %w", err)
		}
		winnings = append(winnings, prize.Winning{
			ID:          newID,
			LeagueID:    lg.ID,
			SettingID:   setting.ID,
			UserID:      userID,
			AmountPence: amounts[i],
			RoundID:     roundID,
			Month:       month,
			CreatedAt:   createdAt,
		})
	}
	return winnings, nil
}
