package round

import (
	"fmt"
	"strings"
	"time"
)

const (
	StatusDraft      = "DRAFT"
	StatusPublished  = "PUBLISHED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

const (
	MatchScheduled  = "SCHEDULED"
	MatchInProgress = "IN_PROGRESS"
	MatchCompleted  = "COMPLETED"
)

// PublishHorizon is how far ahead of kickoff the scheduled sweep publishes a draft round.
const PublishHorizon = 28 * 24 * time.Hour

// Round groups the matches of one gameweek under a single prediction deadline.
type Round struct {
	ID                 string
	SeasonID           string
	Number             int
	StartsAt           time.Time
	PredictionDeadline time.Time
	Status             string
	LastReminderAt     *time.Time
	Matches            []Match
}

// Match belongs to exactly one round. Scores are nil until the match has started.
type Match struct {
	ID          string
	RoundID     string
	HomeTeamID  string
	AwayTeamID  string
	KickoffAt   time.Time
	ExternalRef int64
	HomeScore   *int
	AwayScore   *int
	Status      string
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusDraft
	}
	return status
}

// StatusFromFeedCode maps a provider status code onto a match status.
// Unknown codes are treated as not-yet-started.
func StatusFromFeedCode(code string) string {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "FT", "AET", "PEN":
		return MatchCompleted
	case "HT", "1H", "2H", "ET":
		return MatchInProgress
	default:
		return MatchScheduled
	}
}

func (r *Round) Publish() error {
	if r.Status != StatusDraft {
		return fmt.Errorf("round %s cannot be published from status %s", r.ID, r.Status)
	}
	r.Status = StatusPublished
	return nil
}

func (r *Round) Unpublish() error {
	if r.Status != StatusPublished {
		return fmt.Errorf("round %s cannot be unpublished from status %s", r.ID, r.Status)
	}
	r.Status = StatusDraft
	return nil
}

func (r *Round) Begin() error {
	if r.Status != StatusPublished {
		return fmt.Errorf("round %s cannot begin from status %s", r.ID, r.Status)
	}
	r.Status = StatusInProgress
	return nil
}

func (r *Round) Complete() error {
	if r.Status != StatusInProgress {
		return fmt.Errorf("round %s cannot complete from status %s", r.ID, r.Status)
	}
	if !r.AllMatchesCompleted() {
		return fmt.Errorf("round %s still has unfinished matches", r.ID)
	}
	r.Status = StatusCompleted
	return nil
}

func (r *Round) AllMatchesCompleted() bool {
	if len(r.Matches) == 0 {
		return false
	}
	for _, m := range r.Matches {
		if m.Status != MatchCompleted {
			return false
		}
	}
	return true
}

func (r *Round) MatchByID(matchID string) (*Match, bool) {
	for i := range r.Matches {
		if r.Matches[i].ID == matchID {
			return &r.Matches[i], true
		}
	}
	return nil, false
}

func (r *Round) AddMatch(m Match) error {
	if _, exists := r.MatchByID(m.ID); exists {
		return fmt.Errorf("match %s already belongs to round %s", m.ID, r.ID)
	}
	m.RoundID = r.ID
	if m.Status == "" {
		m.Status = MatchScheduled
	}
	r.Matches = append(r.Matches, m)
	return nil
}

func (r *Round) RemoveMatch(matchID string) bool {
	for i := range r.Matches {
		if r.Matches[i].ID == matchID {
			r.Matches = append(r.Matches[:i], r.Matches[i+1:]...)
			return true
		}
	}
	return false
}

// ApplyResult writes a submitted result onto the match and reports whether
// anything actually changed. Scores are only held while the match is live or
// finished; regressing to SCHEDULED clears them.
func (m *Match) ApplyResult(homeGoals, awayGoals int, status string) bool {
	if status != MatchScheduled && status != MatchInProgress && status != MatchCompleted {
		return false
	}

	changed := false
	if status == MatchScheduled {
		if m.Status != MatchScheduled || m.HomeScore != nil || m.AwayScore != nil {
			m.Status = MatchScheduled
			m.HomeScore = nil
			m.AwayScore = nil
			changed = true
		}
		return changed
	}

	if m.Status != status {
		m.Status = status
		changed = true
	}
	if m.HomeScore == nil || *m.HomeScore != homeGoals {
		m.HomeScore = &homeGoals
		changed = true
	}
	if m.AwayScore == nil || *m.AwayScore != awayGoals {
		m.AwayScore = &awayGoals
		changed = true
	}
	return changed
}

func (m *Match) HasResult() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}
