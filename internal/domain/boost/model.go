package boost

import "time"

// Rule configures one boost for one league: a season allowance, a points
// multiplier, and zero or more non-overlapping round-number windows. No
// windows means the whole season is one implicit window.
type Rule struct {
	LeagueID      string
	Code          string
	Enabled       bool
	UsesPerSeason int
	Multiplier    int
	Windows       []Window
}

// Window restricts a boost to a round-number range with its own allowance.
type Window struct {
	FromRound int
	ToRound   int
	MaxUses   int
}

func (w Window) Contains(roundNumber int) bool {
	return roundNumber >= w.FromRound && roundNumber <= w.ToRound
}

// WindowFor returns the window covering a round number, if any.
func (r Rule) WindowFor(roundNumber int) (Window, bool) {
	for _, w := range r.Windows {
		if w.Contains(roundNumber) {
			return w, true
		}
	}
	return Window{}, false
}

// Usage is the atomicity unit for a spent boost: one row per
// (user, league, round, code). Insertion is the only mutation.
type Usage struct {
	UserID      string
	LeagueID    string
	RoundID     string
	RoundNumber int
	Code        string
	CreatedAt   time.Time
}
