package predict

import (
	"cmp"
	"math"
	"slices"
)

// Ranked is a label with its probability as a percentage.
type Ranked struct {
	Label      string  `json:"label"`
	Percentage float64 `json:"percentage"`
}

// Rank converts d to percentages rounded to two decimals, highest first.
// Equal percentages are ordered by label.
func Rank(d Distribution) []Ranked {
	out := make([]Ranked, len(d))
	for i, lp := range d {
		out[i] = Ranked{Label: lp.Label, Percentage: math.Round(lp.Probability*100*100) / 100}
	}

	slices.SortStableFunc(out, func(a, b Ranked) int {
		if c := cmp.Compare(b.Percentage, a.Percentage); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return out
}
