package prediction

import "time"

const (
	OutcomePending       = "PENDING"
	OutcomeIncorrect     = "INCORRECT"
	OutcomeCorrectResult = "CORRECT_RESULT"
	OutcomeExactScore    = "EXACT_SCORE"
)

// Prediction is one user's score pick for one match. Unique per (user, match).
type Prediction struct {
	ID         string
	UserID     string
	MatchID    string
	HomeGoals  int
	AwayGoals  int
	Outcome    string
	ComputedAt *time.Time
}

// Classify grades a predicted score against the actual score.
func Classify(predHome, predAway, actualHome, actualAway int) string {
	if predHome == actualHome && predAway == actualAway {
		return OutcomeExactScore
	}
	if resultSign(predHome, predAway) == resultSign(actualHome, actualAway) {
		return OutcomeCorrectResult
	}
	return OutcomeIncorrect
}

func resultSign(home, away int) int {
	switch {
	case home > away:
		return 1
	case home < away:
		return -1
	default:
		return 0
	}
}
