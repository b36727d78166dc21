package boost

// Eligibility is the outcome of evaluating a boost request. AlreadyUsed is a
// distinct state, not a generic denial: callers need to tell "you spent it on
// this round" apart from "you may not spend it".
type Eligibility struct {
	Allowed         bool
	AlreadyUsed     bool
	Reason          string
	RemainingSeason int
	RemainingWindow int
}

const (
	ReasonRoundNotInSeason = "round is not part of this league's season"
	ReasonNotMember        = "user is not an approved league member"
	ReasonDisabled         = "boost is not enabled for this league"
	ReasonAlreadyUsed      = "boost already used for this round"
	ReasonSeasonExhausted  = "season allowance exhausted"
	ReasonOutsideWindows   = "round is outside every configured window"
	ReasonWindowExhausted  = "window allowance exhausted"
)

// EvaluateInput carries every counter the evaluation depends on; Evaluate
// itself is pure so it can be exercised exhaustively in tests.
type EvaluateInput struct {
	RoundInSeason bool
	IsMember      bool
	Enabled       bool
	UsesPerSeason int
	SeasonUses    int
	WindowUses    int
	UsedThisRound bool
	RoundNumber   int
	Windows       []Window
}

// Evaluate applies the eligibility checks in a fixed order; the first failing
// check wins.
func Evaluate(in EvaluateInput) Eligibility {
	if !in.RoundInSeason {
		return denied(ReasonRoundNotInSeason)
	}
	if !in.IsMember {
		return denied(ReasonNotMember)
	}
	if !in.Enabled || in.UsesPerSeason <= 0 {
		return denied(ReasonDisabled)
	}
	if in.UsedThisRound {
		return Eligibility{AlreadyUsed: true, Reason: ReasonAlreadyUsed}
	}

	remainingSeason := in.UsesPerSeason - in.SeasonUses
	if remainingSeason <= 0 {
		return denied(ReasonSeasonExhausted)
	}

	if len(in.Windows) == 0 {
		// No windows configured: the season is one implicit window.
		return Eligibility{
			Allowed:         true,
			RemainingSeason: remainingSeason,
			RemainingWindow: remainingSeason,
		}
	}

	window, ok := windowFor(in.Windows, in.RoundNumber)
	if !ok {
		return denied(ReasonOutsideWindows)
	}
	remainingWindow := window.MaxUses - in.WindowUses
	if window.MaxUses <= 0 || remainingWindow <= 0 {
		return denied(ReasonWindowExhausted)
	}

	return Eligibility{
		Allowed:         true,
		RemainingSeason: remainingSeason,
		RemainingWindow: remainingWindow,
	}
}

func windowFor(windows []Window, roundNumber int) (Window, bool) {
	for _, w := range windows {
		if w.Contains(roundNumber) {
			return w, true
		}
	}
	return Window{}, false
}

func denied(reason string) Eligibility {
	return Eligibility{Reason: reason}
}
