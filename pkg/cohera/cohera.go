// Package cohera evaluates topic-model coherence. A pipeline runs four
// stages over a topic's top terms: segmentation, probability estimation
// against a reference corpus, a per-segment confirmation measure, and
// aggregation into per-topic and overall scalars. Pipelines are stateless
// between runs; the only thing that survives is the optional frequency-table
// cache.
package cohera

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/cohera/pkg/cohera/aggregate"
	"github.com/cognicore/cohera/pkg/cohera/confirm"
	"github.com/cognicore/cohera/pkg/cohera/corpus"
	"github.com/cognicore/cohera/pkg/cohera/internalerr"
	"github.com/cognicore/cohera/pkg/cohera/probability"
	"github.com/cognicore/cohera/pkg/cohera/segment"
	"github.com/cognicore/cohera/pkg/cohera/store"
	"github.com/cognicore/cohera/pkg/cohera/topic"
)

// Options configures a Pipeline.
type Options struct {
	Segmentation segment.Policy
	Probability  probability.Mode
	Confirmation confirm.Measure
	Aggregation  aggregate.Reducer // nil means arithmetic mean
	WindowSize   int               // sliding-window span; default 110
	Epsilon      float64           // smoothing constant; default 1e-12
	Gamma        float64           // NPMI exponent for cosine vectors; default 1
	TopN         int               // terms kept per topic; default 10
	Workers      int               // parallel corpus scanners; default NumCPU
	Cache        store.Store       // optional frequency-table cache
}

// Pipeline is a configured coherence computation.
type Pipeline struct {
	opts    Options
	calc    *confirm.Calculator
	reduce  aggregate.Reducer
	entropy *ulid.MonotonicEntropy
}

// New validates the options and creates a pipeline. Unsupported
// combinations fail here, before any corpus scan.
func New(opts Options) (*Pipeline, error) {
	if opts.Confirmation.Direct() && opts.Segmentation == segment.OneSet {
		return nil, fmt.Errorf("measure %s cannot score set-valued %s segments: %w",
			opts.Confirmation, opts.Segmentation, internalerr.ErrInvalidConfig)
	}
	if opts.WindowSize < 0 {
		return nil, fmt.Errorf("window size %d: %w", opts.WindowSize, internalerr.ErrInvalidConfig)
	}
	if opts.TopN <= 0 {
		opts.TopN = topic.DefaultTopN
	}

	reduce := opts.Aggregation
	if reduce == nil {
		reduce = aggregate.Mean
	}

	return &Pipeline{
		opts:    opts,
		calc:    confirm.NewCalculator(opts.Epsilon, opts.Gamma),
		reduce:  reduce,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// NewUMass builds the u_mass pipeline: one-pre segmentation, boolean
// document probabilities, log conditional probability, arithmetic mean.
func NewUMass() *Pipeline {
	p, _ := New(Options{
		Segmentation: segment.OnePre,
		Probability:  probability.BooleanDocument,
		Confirmation: confirm.MeasureLogCond,
	})
	return p
}

// NewCV builds the c_v pipeline: one-set segmentation, boolean sliding
// window of 110, cosine similarity over NPMI context vectors, mean.
func NewCV() *Pipeline {
	p, _ := New(Options{
		Segmentation: segment.OneSet,
		Probability:  probability.BooleanSlidingWindow,
		Confirmation: confirm.MeasureCosineNPMI,
		WindowSize:   110,
	})
	return p
}

// NewCUCI builds the c_uci pipeline: one-one segmentation, boolean sliding
// window of 10, pointwise mutual information, mean.
func NewCUCI() *Pipeline {
	p, _ := New(Options{
		Segmentation: segment.OneOne,
		Probability:  probability.BooleanSlidingWindow,
		Confirmation: confirm.MeasurePMI,
		WindowSize:   10,
	})
	return p
}

// NewCNPMI builds the c_npmi pipeline: one-one segmentation, boolean
// sliding window of 10, normalized PMI, mean.
func NewCNPMI() *Pipeline {
	p, _ := New(Options{
		Segmentation: segment.OneOne,
		Probability:  probability.BooleanSlidingWindow,
		Confirmation: confirm.MeasureNPMI,
		WindowSize:   10,
	})
	return p
}

// TopicScore is one topic's aggregated confirmation score.
type TopicScore struct {
	Index    int
	Score    float64
	Segments int
	Skipped  bool // true when the topic yielded no segments
}

// Result is one coherence run's output. Skipped topics are excluded from
// the overall coherence rather than counted as zero.
type Result struct {
	RunID         string
	Coherence     float64
	PerTopic      []TopicScore
	SkippedTopics int
}

// Score evaluates every topic the model exposes, truncated to the
// pipeline's top-N terms.
func (p *Pipeline) Score(ctx context.Context, m topic.Model, c *corpus.Corpus) (Result, error) {
	if m == nil {
		return Result{}, fmt.Errorf("coherence needs a topic model: %w", internalerr.ErrMissingInput)
	}

	topics := make([][]string, m.TopicCount())
	for i := range topics {
		terms, err := m.TopTerms(i, p.opts.TopN)
		if err != nil {
			return Result{}, fmt.Errorf("top terms for topic %d: %w", i, err)
		}
		topics[i] = topic.Tokens(terms)
	}
	return p.ScoreTopics(ctx, topics, c)
}

// ScoreTopics evaluates already-extracted topic term lists against the
// corpus and returns per-topic scores plus the overall coherence.
func (p *Pipeline) ScoreTopics(ctx context.Context, topics [][]string, c *corpus.Corpus) (Result, error) {
	if c == nil {
		return Result{}, fmt.Errorf("coherence needs a reference corpus: %w", internalerr.ErrMissingInput)
	}

	table, err := p.frequencyTable(ctx, topics, c)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		RunID:    ulid.MustNew(ulid.Now(), p.entropy).String(),
		PerTopic: make([]TopicScore, len(topics)),
	}

	var kept []float64
	for i, terms := range topics {
		segs := segment.Segments(terms, p.opts.Segmentation)
		ts := TopicScore{Index: i, Segments: len(segs)}

		scores := make([]float64, 0, len(segs))
		for _, seg := range segs {
			score, err := p.calc.Score(p.opts.Confirmation, seg, terms, table)
			if err != nil {
				return Result{}, err
			}
			scores = append(scores, score)
		}

		if value, ok := p.reduce(scores); ok {
			ts.Score = value
			kept = append(kept, value)
		} else {
			ts.Skipped = true
			result.SkippedTopics++
		}
		result.PerTopic[i] = ts
	}

	overall, ok := p.reduce(kept)
	if !ok {
		return Result{}, fmt.Errorf("all %d topics degenerate: %w", len(topics), internalerr.ErrNoTopicsScored)
	}
	result.Coherence = overall
	return result, nil
}

// frequencyTable builds the run's frequency table, going through the
// cache when one is configured.
func (p *Pipeline) frequencyTable(ctx context.Context, topics [][]string, c *corpus.Corpus) (*probability.Table, error) {
	relevant := relevantTerms(topics)
	req := probability.Request{
		Corpus:     c,
		Terms:      relevant,
		Mode:       p.opts.Probability,
		WindowSize: p.opts.WindowSize,
		Workers:    p.opts.Workers,
	}

	if p.opts.Cache != nil {
		if table, found, err := p.opts.Cache.GetTable(ctx, req.Key()); err != nil {
			return nil, fmt.Errorf("table cache lookup: %w", err)
		} else if found {
			return table, nil
		}
	}

	table, err := probability.Estimate(ctx, req)
	if err != nil {
		return nil, err
	}

	if p.opts.Cache != nil {
		if err := p.opts.Cache.PutTable(ctx, table); err != nil {
			return nil, fmt.Errorf("table cache write: %w", err)
		}
	}
	return table, nil
}

// relevantTerms collects the union of all topic terms in first-seen order.
func relevantTerms(topics [][]string) []string {
	seen := make(map[string]struct{})
	var terms []string
	for _, list := range topics {
		for _, term := range list {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			terms = append(terms, term)
		}
	}
	return terms
}
