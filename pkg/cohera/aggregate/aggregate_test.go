package aggregate

import (
	"math"
	"testing"
)

func TestMean(t *testing.T) {
	got, ok := Mean([]float64{1, 2, 3})
	if !ok || got != 2 {
		t.Errorf("Mean([1 2 3]) = %g, %v", got, ok)
	}
}

func TestMeanEmpty(t *testing.T) {
	if _, ok := Mean(nil); ok {
		t.Error("empty input must report ok=false, not a zero score")
	}
}

func TestMedian(t *testing.T) {
	cases := []struct {
		in   []float64
		want float64
	}{
		{[]float64{3, 1, 2}, 2},
		{[]float64{4, 1, 2, 3}, 2.5},
		{[]float64{7}, 7},
	}
	for _, c := range cases {
		got, ok := Median(c.in)
		if !ok || got != c.want {
			t.Errorf("Median(%v) = %g, %v; want %g", c.in, got, ok, c.want)
		}
	}

	if _, ok := Median(nil); ok {
		t.Error("empty input must report ok=false")
	}
}

func TestMedianDoesNotMutateInput(t *testing.T) {
	in := []float64{3, 1, 2}
	Median(in)
	if in[0] != 3 || in[1] != 1 || in[2] != 2 {
		t.Errorf("Median mutated its input: %v", in)
	}
}

func TestWeightedMean(t *testing.T) {
	r := WeightedMean([]float64{3, 1})
	got, ok := r([]float64{1, 5})
	if !ok || math.Abs(got-2) > 1e-12 {
		t.Errorf("weighted mean = %g, %v; want 2", got, ok)
	}

	// Scores past the weight list get weight 1
	got, ok = r([]float64{1, 5, 6})
	want := (1*3 + 5*1 + 6*1) / 5.0
	if !ok || math.Abs(got-want) > 1e-12 {
		t.Errorf("weighted mean with overflow scores = %g; want %g", got, want)
	}

	if _, ok := WeightedMean([]float64{0})([]float64{9}); ok {
		t.Error("zero total weight must report ok=false")
	}
}

func TestExclusionInvariant(t *testing.T) {
	// Aggregating topic scores with one degenerate topic excluded must
	// equal aggregating the sequence without that topic.
	topicScores := [][]float64{
		{0.2, 0.4},
		{}, // degenerate: no segments
		{0.6},
	}

	var kept []float64
	for _, scores := range topicScores {
		if v, ok := Mean(scores); ok {
			kept = append(kept, v)
		}
	}
	withDegenerate, ok := Mean(kept)
	if !ok {
		t.Fatal("expected a score")
	}

	// The expected value goes through the same Mean calls, so the two
	// paths round identically.
	first, _ := Mean([]float64{0.2, 0.4})
	third, _ := Mean([]float64{0.6})
	withoutDegenerate, _ := Mean([]float64{first, third})
	if withDegenerate != withoutDegenerate {
		t.Errorf("degenerate topic biased the aggregate: %g vs %g", withDegenerate, withoutDegenerate)
	}
}

func TestParse(t *testing.T) {
	if _, err := Parse("mean"); err != nil {
		t.Errorf("mean should parse: %v", err)
	}
	if _, err := Parse(""); err != nil {
		t.Errorf("empty tag should default to mean: %v", err)
	}
	if _, err := Parse("median"); err != nil {
		t.Errorf("median should parse: %v", err)
	}
	if _, err := Parse("harmonic"); err == nil {
		t.Error("unknown tag should be rejected")
	}
}
