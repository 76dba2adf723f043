package confirm

import (
	"fmt"
	"math"

	"github.com/cognicore/cohera/pkg/cohera/internalerr"
	"github.com/cognicore/cohera/pkg/cohera/probability"
	"github.com/cognicore/cohera/pkg/cohera/segment"
)

// Measure selects the confirmation measure applied to each segment.
type Measure int

const (
	// MeasureLogCond is the log conditional probability log(P(W',W*)/P(W*)).
	MeasureLogCond Measure = iota
	// MeasurePMI is smoothed pointwise mutual information.
	MeasurePMI
	// MeasureNPMI is normalized PMI, bounded in [-1, 1].
	MeasureNPMI
	// MeasureCosineNPMI is the cosine similarity between the NPMI context
	// vectors of the segment's two sides.
	MeasureCosineNPMI
)

// String returns the config-file tag for the measure.
func (m Measure) String() string {
	switch m {
	case MeasureLogCond:
		return "log-cond"
	case MeasurePMI:
		return "pmi"
	case MeasureNPMI:
		return "npmi"
	case MeasureCosineNPMI:
		return "cosine-npmi"
	}
	return fmt.Sprintf("measure(%d)", int(m))
}

// ParseMeasure converts a config-file tag into a Measure.
func ParseMeasure(tag string) (Measure, error) {
	switch tag {
	case "log-cond":
		return MeasureLogCond, nil
	case "pmi":
		return MeasurePMI, nil
	case "npmi":
		return MeasureNPMI, nil
	case "cosine-npmi":
		return MeasureCosineNPMI, nil
	}
	return 0, fmt.Errorf("unknown confirmation measure %q", tag)
}

// Direct reports whether the measure scores a term pair directly. Direct
// measures require singleton segments; only the vector-based cosine measure
// handles set-valued segment sides.
func (m Measure) Direct() bool {
	return m != MeasureCosineNPMI
}

// Defaults for the calculator parameters.
const (
	DefaultEpsilon = 1e-12
	DefaultGamma   = 1.0
)

// Calculator computes confirmation scores from a frequency table. All
// outputs are finite for all count inputs, including zeros: the epsilon
// smoothing keeps logs and ratios away from their singularities.
type Calculator struct {
	epsilon float64 // smoothing constant
	gamma   float64 // NPMI exponent for context vectors
}

// NewCalculator creates a calculator. Non-positive epsilon or gamma fall
// back to the defaults.
func NewCalculator(epsilon, gamma float64) *Calculator {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	if gamma <= 0 {
		gamma = DefaultGamma
	}
	return &Calculator{epsilon: epsilon, gamma: gamma}
}

// Score applies the measure to one segment. Context is the topic's full
// term list, used by the vector-based measure; direct measures ignore it.
func (c *Calculator) Score(m Measure, seg segment.Segment, context []string, tbl *probability.Table) (float64, error) {
	if m.Direct() {
		if !seg.Singleton() {
			return 0, fmt.Errorf("measure %s needs singleton segments: %w", m, internalerr.ErrInvalidConfig)
		}
		w, v := seg.Conditioned[0], seg.Condition[0]
		switch m {
		case MeasureLogCond:
			return c.LogCond(w, v, tbl), nil
		case MeasurePMI:
			return c.PMI(w, v, tbl), nil
		case MeasureNPMI:
			return c.NPMI(w, v, tbl), nil
		}
	}
	if m == MeasureCosineNPMI {
		return c.CosineNPMI(seg, context, tbl), nil
	}
	return 0, fmt.Errorf("confirmation measure %v: %w", m, internalerr.ErrInvalidConfig)
}

// LogCond computes log((cooc(w,v) + ε) / occ(v)). A condition term absent
// from every window makes the conditional undefined; the smoothed floor
// log(ε) is returned instead.
func (c *Calculator) LogCond(w, v string, tbl *probability.Table) float64 {
	occ := tbl.Count(v)
	if occ == 0 {
		return math.Log(c.epsilon)
	}
	co := tbl.PairCount(w, v)
	return math.Log((float64(co) + c.epsilon) / float64(occ))
}

// PMI computes log(P(w,v)/(P(w)·P(v)) + ε).
func (c *Calculator) PMI(w, v string, tbl *probability.Table) float64 {
	return math.Log(c.ratio(w, v, tbl) + c.epsilon)
}

// NPMI computes log(P(w,v)/(P(w)·P(v)) + ε) / -log(P(w,v) + ε).
func (c *Calculator) NPMI(w, v string, tbl *probability.Table) float64 {
	if tbl.N == 0 {
		return 0
	}
	pwv := float64(tbl.PairCount(w, v)) / float64(tbl.N)
	num := math.Log(c.ratio(w, v, tbl) + c.epsilon)
	den := -math.Log(pwv + c.epsilon)
	if den <= 0 {
		return 0
	}
	return num / den
}

// ratio returns P(w,v)/(P(w)·P(v)), or 0 when either marginal is zero.
func (c *Calculator) ratio(w, v string, tbl *probability.Table) float64 {
	if tbl.N == 0 {
		return 0
	}
	n := float64(tbl.N)
	pw := float64(tbl.Count(w)) / n
	pv := float64(tbl.Count(v)) / n
	if pw == 0 || pv == 0 {
		return 0
	}
	pwv := float64(tbl.PairCount(w, v)) / n
	return pwv / (pw * pv)
}

// CosineNPMI builds an NPMI^γ context vector over the topic's terms for
// each side of the segment and returns their cosine similarity. A zero
// vector on either side scores 0.
func (c *Calculator) CosineNPMI(seg segment.Segment, context []string, tbl *probability.Table) float64 {
	v1 := c.contextVector(seg.Conditioned, context, tbl)
	v2 := c.contextVector(seg.Condition, context, tbl)
	return cosine(v1, v2)
}

func (c *Calculator) contextVector(terms, context []string, tbl *probability.Table) []float64 {
	vec := make([]float64, len(context))
	for _, w := range terms {
		for j, wj := range context {
			npmi := c.NPMI(w, wj, tbl)
			if c.gamma != 1 {
				npmi = math.Pow(npmi, c.gamma)
				if math.IsNaN(npmi) {
					continue
				}
			}
			vec[j] += npmi
		}
	}
	return vec
}

func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
