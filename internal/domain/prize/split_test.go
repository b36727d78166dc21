package prize

import (
	"math/rand"
	"testing"
)

func TestSplitPence_SumsExactly(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))

	cases := []struct {
		pot     int64
		winners int
	}{
		{1000, 3},
		{1000, 1},
		{1, 3},
		{0, 4},
		{999999, 7},
		{50, 50},
		{49, 50},
	}

	for _, tc := range cases {
		amounts := SplitPence(tc.pot, tc.winners, rng)
		if len(amounts) != tc.winners {
			t.Fatalf("pot=%d winners=%d: got %d amounts", tc.pot, tc.winners, len(amounts))
		}

		var sum int64
		min, max := amounts[0], amounts[0]
		for _, a := range amounts {
			sum += a
			if a < min {
				min = a
			}
			if a > max {
				max = a
			}
		}
		if sum != tc.pot {
			t.Fatalf("pot=%d winners=%d: amounts sum to %d", tc.pot, tc.winners, sum)
		}
		if max-min > 1 {
			t.Fatalf("pot=%d winners=%d: shares differ by more than one unit (min=%d max=%d)",
				tc.pot, tc.winners, min, max)
		}
		base := tc.pot / int64(tc.winners)
		if min != base && min != base+1 {
			t.Fatalf("pot=%d winners=%d: smallest share %d not within one unit of base %d",
				tc.pot, tc.winners, min, base)
		}
	}
}

func TestSplitPence_ThreeWayExample(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	amounts := SplitPence(1000, 3, rng)

	counts := map[int64]int{}
	for _, a := range amounts {
		counts[a]++
	}
	if counts[333] != 2 || counts[334] != 1 {
		t.Fatalf("expected two 333s and one 334, got %v", amounts)
	}
}

func TestSplitPence_NoWinners(t *testing.T) {
	t.Parallel()

	if got := SplitPence(1000, 0, rand.New(rand.NewSource(1))); got != nil {
		t.Fatalf("expected nil for zero winners, got %v", got)
	}
}

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	settings := []Setting{
		{Category: CategoryRound, AmountPence: 500},
		{Category: CategoryMonthly, AmountPence: 1500},
		{Category: CategoryOverall, AmountPence: 6000, Rank: 1},
		{Category: CategoryOverall, AmountPence: 1500, Rank: 2},
		{Category: CategoryMostExact, AmountPence: 500},
	}

	if err := ValidateSettings(settings, 10000); err != nil {
		t.Fatalf("ValidateSettings: %v", err)
	}
	if err := ValidateSettings(settings, 9999); err == nil {
		t.Fatal("expected mismatching pot to be rejected")
	}

	settings[0].AmountPence = -1
	if err := ValidateSettings(settings, 9499); err == nil {
		t.Fatal("expected negative amount to be rejected")
	}
}
