package aggregate

import (
	"fmt"
	"sort"
)

// Reducer folds a score sequence into one scalar. ok is false when the
// input is empty: empty inputs are excluded from downstream averages
// instead of contributing a zero, so degenerate topics cannot bias the
// overall coherence.
type Reducer func(scores []float64) (value float64, ok bool)

// Mean is the arithmetic mean, the default reducer.
func Mean(scores []float64) (float64, bool) {
	if len(scores) == 0 {
		return 0, false
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores)), true
}

// Median returns the middle score, averaging the two central values for
// even-length input.
func Median(scores []float64) (float64, bool) {
	if len(scores) == 0 {
		return 0, false
	}
	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2, true
}

// WeightedMean builds a reducer weighting scores positionally. Scores
// beyond the weight list fall back to weight 1; a zero total weight reads
// as empty input.
func WeightedMean(weights []float64) Reducer {
	return func(scores []float64) (float64, bool) {
		if len(scores) == 0 {
			return 0, false
		}
		var sum, total float64
		for i, s := range scores {
			w := 1.0
			if i < len(weights) {
				w = weights[i]
			}
			sum += s * w
			total += w
		}
		if total == 0 {
			return 0, false
		}
		return sum / total, true
	}
}

// Parse converts a config-file tag into a reducer. Only mean and median
// have tags; WeightedMean stays programmatic because its weights are
// per-run data, not configuration.
func Parse(tag string) (Reducer, error) {
	switch tag {
	case "mean", "":
		return Mean, nil
	case "median":
		return Median, nil
	}
	return nil, fmt.Errorf("unknown aggregation %q", tag)
}
