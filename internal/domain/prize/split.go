package prize

import "math/rand"

// SplitPence divides a pot of minor-currency units across n winners so that
// the amounts sum to the pot exactly and no two shares differ by more than one
// unit. The remainder units go to winners drawn uniformly without replacement;
// which winners get them is intentionally non-deterministic, so callers that
// need reproducibility inject a seeded rand.
func SplitPence(potPence int64, winners int, rng *rand.Rand) []int64 {
	if winners <= 0 {
		return nil
	}

	base := potPence / int64(winners)
	remainder := potPence % int64(winners)

	amounts := make([]int64, winners)
	for i := range amounts {
		amounts[i] = base
	}
	for remainder > 0 {
		i := rng.Intn(winners)
		if amounts[i] > base {
			// Rejection sampling: this winner already holds an extra unit.
			continue
		}
		amounts[i]++
		remainder--
	}

	return amounts
}
