package boost

import "testing"

func allowedInput() EvaluateInput {
	return EvaluateInput{
		RoundInSeason: true,
		IsMember:      true,
		Enabled:       true,
		UsesPerSeason: 3,
		SeasonUses:    1,
		RoundNumber:   5,
	}
}

func TestEvaluate_CheckOrder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		mutate     func(*EvaluateInput)
		wantReason string
	}{
		{"round outside season", func(in *EvaluateInput) { in.RoundInSeason = false }, ReasonRoundNotInSeason},
		{"not a member", func(in *EvaluateInput) { in.IsMember = false }, ReasonNotMember},
		{"disabled", func(in *EvaluateInput) { in.Enabled = false }, ReasonDisabled},
		{"zero allowance", func(in *EvaluateInput) { in.UsesPerSeason = 0 }, ReasonDisabled},
		{"season exhausted", func(in *EvaluateInput) { in.SeasonUses = 3 }, ReasonSeasonExhausted},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			in := allowedInput()
			tc.mutate(&in)
			got := Evaluate(in)
			if got.Allowed || got.AlreadyUsed {
				t.Fatalf("expected denial, got %+v", got)
			}
			if got.Reason != tc.wantReason {
				t.Fatalf("unexpected reason: got %q want %q", got.Reason, tc.wantReason)
			}
		})
	}
}

func TestEvaluate_AlreadyUsedIsDistinct(t *testing.T) {
	t.Parallel()

	in := allowedInput()
	in.UsedThisRound = true

	got := Evaluate(in)
	if got.Allowed {
		t.Fatal("already-used must not be allowed")
	}
	if !got.AlreadyUsed {
		t.Fatal("already-used must be reported distinctly, not as a generic denial")
	}

	// A later failing check must not mask it: used-this-round wins over
	// season exhaustion.
	in.SeasonUses = in.UsesPerSeason
	if got := Evaluate(in); !got.AlreadyUsed {
		t.Fatalf("expected already-used to short-circuit, got %+v", got)
	}
}

func TestEvaluate_NoWindowsMeansFullSeasonWindow(t *testing.T) {
	t.Parallel()

	got := Evaluate(allowedInput())
	if !got.Allowed {
		t.Fatalf("expected allowed, got %+v", got)
	}
	if got.RemainingSeason != 2 {
		t.Fatalf("unexpected remaining season uses: %d", got.RemainingSeason)
	}
	if got.RemainingWindow != got.RemainingSeason {
		t.Fatalf("window remaining must default to season remaining, got %d", got.RemainingWindow)
	}
}

func TestEvaluate_Windows(t *testing.T) {
	t.Parallel()

	in := allowedInput()
	in.Windows = []Window{
		{FromRound: 1, ToRound: 10, MaxUses: 1},
		{FromRound: 11, ToRound: 20, MaxUses: 2},
	}

	got := Evaluate(in)
	if !got.Allowed || got.RemainingWindow != 1 {
		t.Fatalf("expected one remaining use in first window, got %+v", got)
	}

	in.WindowUses = 1
	if got := Evaluate(in); got.Allowed || got.Reason != ReasonWindowExhausted {
		t.Fatalf("expected window exhaustion, got %+v", got)
	}

	in.WindowUses = 0
	in.RoundNumber = 25
	if got := Evaluate(in); got.Allowed || got.Reason != ReasonOutsideWindows {
		t.Fatalf("expected outside-windows denial, got %+v", got)
	}

	in.RoundNumber = 12
	in.WindowUses = 1
	if got := Evaluate(in); !got.Allowed || got.RemainingWindow != 1 {
		t.Fatalf("expected second window to have one use left, got %+v", got)
	}
}

func TestEvaluate_ZeroAllowanceWindow(t *testing.T) {
	t.Parallel()

	in := allowedInput()
	in.Windows = []Window{{FromRound: 1, ToRound: 10, MaxUses: 0}}

	if got := Evaluate(in); got.Allowed || got.Reason != ReasonWindowExhausted {
		t.Fatalf("expected zero-allowance window to deny, got %+v", got)
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	t.Parallel()

	in := allowedInput()
	in.Windows = []Window{{FromRound: 1, ToRound: 38, MaxUses: 2}}

	first := Evaluate(in)
	second := Evaluate(in)
	if first != second {
		t.Fatalf("evaluation must be pure: %+v vs %+v", first, second)
	}
}
