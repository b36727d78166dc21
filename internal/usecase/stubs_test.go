package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/matchpulse/predictor-league/internal/domain/boost"
	"github.com/matchpulse/predictor-league/internal/domain/league"
	"github.com/matchpulse/predictor-league/internal/domain/prediction"
	"github.com/matchpulse/predictor-league/internal/domain/prize"
	"github.com/matchpulse/predictor-league/internal/domain/round"
	"github.com/matchpulse/predictor-league/internal/domain/season"
	"github.com/matchpulse/predictor-league/internal/domain/standing"
)

type stubRoundRepository struct {
	mu             sync.Mutex
	byID           map[string]round.Round
	hasPredictions map[string]bool
}

func newStubRoundRepository(rounds ...round.Round) *stubRoundRepository {
	repo := &stubRoundRepository{
		byID:           make(map[string]round.Round),
		hasPredictions: make(map[string]bool),
	}
	for _, r := range rounds {
		repo.byID[r.ID] = cloneRound(r)
	}
	return repo
}

func cloneRound(r round.Round) round.Round {
	matches := make([]round.Match, len(r.Matches))
	copy(matches, r.Matches)
	r.Matches = matches
	return r
}

func (s *stubRoundRepository) GetByID(_ context.Context, roundID string) (round.Round, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[roundID]
	if !ok {
		return round.Round{}, false, nil
	}
	return cloneRound(r), true, nil
}

func (s *stubRoundRepository) ListBySeason(_ context.Context, seasonID string) ([]round.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []round.Round
	for _, r := range s.byID {
		if r.SeasonID == seasonID {
			out = append(out, cloneRound(r))
		}
	}
	return out, nil
}

func (s *stubRoundRepository) ListByStatus(_ context.Context, statuses ...string) ([]round.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []round.Round
	for _, r := range s.byID {
		for _, status := range statuses {
			if r.Status == status {
				out = append(out, cloneRound(r))
				break
			}
		}
	}
	return out, nil
}

func (s *stubRoundRepository) Save(_ context.Context, r *round.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[r.ID] = cloneRound(*r)
	return nil
}

func (s *stubRoundRepository) SetLastReminderAt(_ context.Context, roundID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[roundID]
	if !ok {
		return fmt.Errorf("round %s not found", roundID)
	}
	r.LastReminderAt = &at
	s.byID[roundID] = r
	return nil
}

func (s *stubRoundRepository) HasPredictions(_ context.Context, matchID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasPredictions[matchID], nil
}

type stubLeagueRepository struct {
	byID    map[string]league.League
	members map[string][]league.Member
}

func (s *stubLeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	lg, ok := s.byID[leagueID]
	return lg, ok, nil
}

func (s *stubLeagueRepository) ListBySeason(_ context.Context, seasonID string) ([]league.League, error) {
	var out []league.League
	for _, lg := range s.byID {
		if lg.SeasonID == seasonID {
			out = append(out, lg)
		}
	}
	return out, nil
}

func (s *stubLeagueRepository) ListMembers(_ context.Context, leagueID string) ([]league.Member, error) {
	return s.members[leagueID], nil
}

type stubResultRepository struct {
	mu   sync.Mutex
	rows map[string]league.RoundResult
}

func newStubResultRepository() *stubResultRepository {
	return &stubResultRepository{rows: make(map[string]league.RoundResult)}
}

func resultKey(leagueID, roundID, userID string) string {
	return leagueID + "|" + roundID + "|" + userID
}

func (s *stubResultRepository) ListByLeagueRound(_ context.Context, leagueID, roundID string) ([]league.RoundResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []league.RoundResult
	for _, res := range s.rows {
		if res.LeagueID == leagueID && res.RoundID == roundID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (s *stubResultRepository) ListByLeagueRounds(_ context.Context, leagueID string, roundIDs []string) ([]league.RoundResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[string]struct{}, len(roundIDs))
	for _, id := range roundIDs {
		wanted[id] = struct{}{}
	}
	var out []league.RoundResult
	for _, res := range s.rows {
		if res.LeagueID != leagueID {
			continue
		}
		if _, ok := wanted[res.RoundID]; ok {
			out = append(out, res)
		}
	}
	return out, nil
}

func (s *stubResultRepository) Upsert(_ context.Context, results []league.RoundResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, res := range results {
		s.rows[resultKey(res.LeagueID, res.RoundID, res.UserID)] = res
	}
	return nil
}

func (s *stubResultRepository) get(leagueID, roundID, userID string) (league.RoundResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.rows[resultKey(leagueID, roundID, userID)]
	return res, ok
}

type stubPredictionRepository struct {
	mu    sync.Mutex
	preds []prediction.Prediction
}

func (s *stubPredictionRepository) ListByMatchIDs(_ context.Context, matchIDs []string) ([]prediction.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[string]struct{}, len(matchIDs))
	for _, id := range matchIDs {
		wanted[id] = struct{}{}
	}
	var out []prediction.Prediction
	for _, p := range s.preds {
		if _, ok := wanted[p.MatchID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubPredictionRepository) SaveOutcomes(_ context.Context, predictions []prediction.Prediction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, updated := range predictions {
		for i := range s.preds {
			if s.preds[i].ID == updated.ID {
				s.preds[i] = updated
				break
			}
		}
	}
	return nil
}

func (s *stubPredictionRepository) byID(id string) (prediction.Prediction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.preds {
		if p.ID == id {
			return p, true
		}
	}
	return prediction.Prediction{}, false
}

type stubBoostRepository struct {
	mu     sync.Mutex
	rules  map[string]boost.Rule
	usages []boost.Usage
}

func newStubBoostRepository(rules ...boost.Rule) *stubBoostRepository {
	repo := &stubBoostRepository{rules: make(map[string]boost.Rule)}
	for _, rule := range rules {
		repo.rules[rule.LeagueID+"|"+rule.Code] = rule
	}
	return repo
}

func (s *stubBoostRepository) GetRule(_ context.Context, leagueID, code string) (boost.Rule, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rule, ok := s.rules[leagueID+"|"+code]
	return rule, ok, nil
}

func (s *stubBoostRepository) ListRules(_ context.Context, leagueID string) ([]boost.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []boost.Rule
	for _, rule := range s.rules {
		if rule.LeagueID == leagueID {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (s *stubBoostRepository) ListUsagesByUser(_ context.Context, leagueID, userID, code string) ([]boost.Usage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []boost.Usage
	for _, u := range s.usages {
		if u.LeagueID == leagueID && u.UserID == userID && u.Code == code {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *stubBoostRepository) ListUsagesByRound(_ context.Context, leagueID, roundID string) ([]boost.Usage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []boost.Usage
	for _, u := range s.usages {
		if u.LeagueID == leagueID && u.RoundID == roundID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *stubBoostRepository) InsertUsage(_ context.Context, usage boost.Usage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.usages {
		if u.LeagueID == usage.LeagueID && u.UserID == usage.UserID && u.RoundID == usage.RoundID && u.Code == usage.Code {
			return boost.ErrUsageExists
		}
	}
	s.usages = append(s.usages, usage)
	return nil
}

func (s *stubBoostRepository) DeleteUsage(_ context.Context, leagueID, userID, roundID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.usages {
		if u.LeagueID == leagueID && u.UserID == userID && u.RoundID == roundID && u.Code == code {
			s.usages = append(s.usages[:i], s.usages[i+1:]...)
			return nil
		}
	}
	return nil
}

type stubStandingRepository struct {
	mu        sync.Mutex
	rows      map[string][]standing.Row
	snapshots map[string]standing.Snapshot
}

func newStubStandingRepository() *stubStandingRepository {
	return &stubStandingRepository{
		rows:      make(map[string][]standing.Row),
		snapshots: make(map[string]standing.Snapshot),
	}
}

func standingsKey(leagueID string, live bool) string {
	if live {
		return leagueID + "|live"
	}
	return leagueID + "|stable"
}

func (s *stubStandingRepository) ListByLeague(_ context.Context, leagueID string, live bool) ([]standing.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]standing.Row(nil), s.rows[standingsKey(leagueID, live)]...), nil
}

func (s *stubStandingRepository) ReplaceByLeague(_ context.Context, leagueID string, live bool, rows []standing.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[standingsKey(leagueID, live)] = append([]standing.Row(nil), rows...)
	return nil
}

func (s *stubStandingRepository) InsertSnapshots(_ context.Context, snapshots []standing.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, snap := range snapshots {
		key := snap.RoundID + "|" + snap.UserID
		if _, exists := s.snapshots[key]; exists {
			continue
		}
		s.snapshots[key] = snap
	}
	return nil
}

func (s *stubStandingRepository) ListSnapshots(_ context.Context, roundID, leagueID string) ([]standing.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []standing.Snapshot
	for _, snap := range s.snapshots {
		if snap.RoundID == roundID && snap.LeagueID == leagueID {
			out = append(out, snap)
		}
	}
	return out, nil
}

type stubSeasonRepository struct {
	byID map[string]season.Season
}

func (s *stubSeasonRepository) GetByID(_ context.Context, seasonID string) (season.Season, bool, error) {
	sn, ok := s.byID[seasonID]
	return sn, ok, nil
}

func (s *stubSeasonRepository) ListActive(_ context.Context) ([]season.Season, error) {
	var out []season.Season
	for _, sn := range s.byID {
		if sn.Active {
			out = append(out, sn)
		}
	}
	return out, nil
}

type stubPrizeSettingRepository struct {
	byLeague map[string][]prize.Setting
}

func (s *stubPrizeSettingRepository) ListByLeague(_ context.Context, leagueID string) ([]prize.Setting, error) {
	return s.byLeague[leagueID], nil
}

func (s *stubPrizeSettingRepository) Replace(_ context.Context, leagueID string, settings []prize.Setting) error {
	if s.byLeague == nil {
		s.byLeague = make(map[string][]prize.Setting)
	}
	s.byLeague[leagueID] = append([]prize.Setting(nil), settings...)
	return nil
}

type stubWinningRepository struct {
	mu       sync.Mutex
	winnings []prize.Winning
	// category of each row, parallel to winnings, for replace bookkeeping
	categories []string
}

func (s *stubWinningRepository) ListByLeague(_ context.Context, leagueID string) ([]prize.Winning, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []prize.Winning
	for _, w := range s.winnings {
		if w.LeagueID == leagueID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *stubWinningRepository) ReplaceForCategory(_ context.Context, leagueID, category string, roundID, month *string, winnings []prize.Winning) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.winnings[:0]
	keptCats := s.categories[:0]
	for i, w := range s.winnings {
		if w.LeagueID == leagueID && s.categories[i] == category && ptrEq(w.RoundID, roundID) && ptrEq(w.Month, month) {
			continue
		}
		kept = append(kept, w)
		keptCats = append(keptCats, s.categories[i])
	}
	s.winnings = kept
	s.categories = keptCats
	for _, w := range winnings {
		s.winnings = append(s.winnings, w)
		s.categories = append(s.categories, category)
	}
	return nil
}

func (s *stubWinningRepository) byCategory(category string) []prize.Winning {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []prize.Winning
	for i, w := range s.winnings {
		if s.categories[i] == category {
			out = append(out, w)
		}
	}
	return out
}

func ptrEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type stubNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (s *stubNotifier) SendDeadlineReminder(_ context.Context, userID string, _ round.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, userID)
	return nil
}

type stubResultsFeed struct {
	mu      sync.Mutex
	scores  map[int64]FeedResult
	err     error
	fetches int
}

func (s *stubResultsFeed) FetchResults(_ context.Context, _ []int64) (map[int64]FeedResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	if s.err != nil {
		return nil, s.err
	}
	return s.scores, nil
}

type sequenceIDGenerator struct {
	mu   sync.Mutex
	next int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("id-%04d", g.next), nil
}
