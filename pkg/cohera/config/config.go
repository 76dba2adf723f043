package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/cohera/pkg/cohera"
	"github.com/cognicore/cohera/pkg/cohera/aggregate"
	"github.com/cognicore/cohera/pkg/cohera/confirm"
	"github.com/cognicore/cohera/pkg/cohera/internalerr"
	"github.com/cognicore/cohera/pkg/cohera/probability"
	"github.com/cognicore/cohera/pkg/cohera/segment"
	"github.com/cognicore/cohera/pkg/cohera/topic"
)

// Run is the YAML pipeline configuration. Either name a preset or spell
// out the four stages; explicit stage tags override the preset's.
type Run struct {
	Preset       string  `yaml:"preset"`
	Segmentation string  `yaml:"segmentation"`
	Probability  string  `yaml:"probability"`
	Confirmation string  `yaml:"confirmation"`
	Aggregation  string  `yaml:"aggregation"`
	WindowSize   int     `yaml:"window_size"`
	Epsilon      float64 `yaml:"epsilon"`
	Gamma        float64 `yaml:"gamma"`
	TopN         int     `yaml:"top_n"`
	Workers      int     `yaml:"workers"`
}

// presets are the canonical named coherence measures.
var presets = map[string]Run{
	"u_mass": {
		Segmentation: "one-pre",
		Probability:  "boolean-document",
		Confirmation: "log-cond",
	},
	"c_v": {
		Segmentation: "one-set",
		Probability:  "boolean-sliding-window",
		Confirmation: "cosine-npmi",
		WindowSize:   110,
	},
	"c_uci": {
		Segmentation: "one-one",
		Probability:  "boolean-sliding-window",
		Confirmation: "pmi",
		WindowSize:   10,
	},
	"c_npmi": {
		Segmentation: "one-one",
		Probability:  "boolean-sliding-window",
		Confirmation: "npmi",
		WindowSize:   10,
	},
}

// Presets returns the known preset names.
func Presets() []string {
	return []string{"u_mass", "c_v", "c_uci", "c_npmi"}
}

// LoadRun loads a run configuration from a YAML file.
func LoadRun(path string) (*Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var run Run
	if err := yaml.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &run, nil
}

// Options resolves the configuration into pipeline options. Unknown
// presets or stage tags fail here, before any corpus is touched.
func (r *Run) Options() (cohera.Options, error) {
	resolved := *r
	if r.Preset != "" {
		base, ok := presets[r.Preset]
		if !ok {
			return cohera.Options{}, fmt.Errorf("unknown preset %q: %w", r.Preset, internalerr.ErrInvalidConfig)
		}
		if resolved.Segmentation == "" {
			resolved.Segmentation = base.Segmentation
		}
		if resolved.Probability == "" {
			resolved.Probability = base.Probability
		}
		if resolved.Confirmation == "" {
			resolved.Confirmation = base.Confirmation
		}
		if resolved.WindowSize == 0 {
			resolved.WindowSize = base.WindowSize
		}
	}

	policy, err := segment.ParsePolicy(resolved.Segmentation)
	if err != nil {
		return cohera.Options{}, fmt.Errorf("%v: %w", err, internalerr.ErrInvalidConfig)
	}
	mode, err := probability.ParseMode(resolved.Probability)
	if err != nil {
		return cohera.Options{}, fmt.Errorf("%v: %w", err, internalerr.ErrInvalidConfig)
	}
	measure, err := confirm.ParseMeasure(resolved.Confirmation)
	if err != nil {
		return cohera.Options{}, fmt.Errorf("%v: %w", err, internalerr.ErrInvalidConfig)
	}
	reduce, err := aggregate.Parse(resolved.Aggregation)
	if err != nil {
		return cohera.Options{}, fmt.Errorf("%v: %w", err, internalerr.ErrInvalidConfig)
	}

	return cohera.Options{
		Segmentation: policy,
		Probability:  mode,
		Confirmation: measure,
		Aggregation:  reduce,
		WindowSize:   resolved.WindowSize,
		Epsilon:      resolved.Epsilon,
		Gamma:        resolved.Gamma,
		TopN:         resolved.TopN,
		Workers:      resolved.Workers,
	}, nil
}

// topicsFile is the YAML topics format: per-topic term lists with
// optional weights.
type topicsFile struct {
	Topics []topicEntry `yaml:"topics"`
}

type topicEntry struct {
	Terms   []string  `yaml:"terms"`
	Weights []float64 `yaml:"weights"`
}

// LoadTopics loads a topics file into a static model. Topics without
// weights keep their listed order under truncation.
func LoadTopics(path string) (*topic.StaticModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tf topicsFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	topics := make([][]topic.Term, len(tf.Topics))
	for i, entry := range tf.Topics {
		if len(entry.Weights) > 0 && len(entry.Weights) != len(entry.Terms) {
			return nil, fmt.Errorf("topic %d: %d terms but %d weights: %w",
				i, len(entry.Terms), len(entry.Weights), internalerr.ErrInvalidConfig)
		}
		terms := make([]topic.Term, len(entry.Terms))
		for j, tok := range entry.Terms {
			w := float64(len(entry.Terms) - j)
			if len(entry.Weights) > 0 {
				w = entry.Weights[j]
			}
			terms[j] = topic.Term{Token: tok, Weight: w}
		}
		topics[i] = terms
	}

	return topic.NewStaticModel(topics), nil
}
