package prize

import (
	"fmt"
	"time"
)

const (
	CategoryRound     = "ROUND"
	CategoryMonthly   = "MONTHLY"
	CategoryOverall   = "OVERALL"
	CategoryMostExact = "MOST_EXACT_SCORES"
)

// Setting configures one prize category for a league. Rank is only meaningful
// for the overall category, where each configured rank carries its own pot.
type Setting struct {
	ID          string
	LeagueID    string
	Category    string
	AmountPence int64
	Rank        int
}

// Winning is a derived payout row. Strategies delete and reinsert the rows of
// their own category, so winnings are always recomputable.
type Winning struct {
	ID          string
	LeagueID    string
	SettingID   string
	UserID      string
	AmountPence int64
	RoundID     *string
	Month       *string
	CreatedAt   time.Time
}

// ValidateSettings checks that the configured amounts exhaust the league's
// prize pot exactly.
func ValidateSettings(settings []Setting, potPence int64) error {
	var total int64
	for _, s := range settings {
		if s.AmountPence < 0 {
			return fmt.Errorf("prize amount for %s must not be negative", s.Category)
		}
		total += s.AmountPence
	}
	if total != potPence {
		return fmt.Errorf("prize amounts sum to %d pence, pot is %d pence", total, potPence)
	}
	return nil
}
