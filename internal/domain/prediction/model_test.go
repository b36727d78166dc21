package prediction

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name                   string
		predHome, predAway     int
		actualHome, actualAway int
		want                   string
	}{
		{"exact home win", 2, 1, 2, 1, OutcomeExactScore},
		{"exact nil draw", 0, 0, 0, 0, OutcomeExactScore},
		{"exact away win", 0, 3, 0, 3, OutcomeExactScore},
		{"home win, wrong score", 2, 1, 3, 0, OutcomeCorrectResult},
		{"away win, wrong score", 0, 1, 1, 4, OutcomeCorrectResult},
		{"draw, wrong score", 1, 1, 2, 2, OutcomeCorrectResult},
		{"predicted home win, actual draw", 2, 1, 1, 1, OutcomeIncorrect},
		{"predicted draw, actual away win", 0, 0, 0, 2, OutcomeIncorrect},
		{"predicted home win, actual away win", 3, 1, 1, 3, OutcomeIncorrect},
		{"predicted away win, actual home win", 0, 2, 2, 0, OutcomeIncorrect},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Classify(tc.predHome, tc.predAway, tc.actualHome, tc.actualAway)
			if got != tc.want {
				t.Fatalf("Classify(%d-%d vs %d-%d) = %s, want %s",
					tc.predHome, tc.predAway, tc.actualHome, tc.actualAway, got, tc.want)
			}
		})
	}
}
