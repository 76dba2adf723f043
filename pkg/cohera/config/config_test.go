package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/cohera/pkg/cohera/confirm"
	"github.com/cognicore/cohera/pkg/cohera/internalerr"
	"github.com/cognicore/cohera/pkg/cohera/probability"
	"github.com/cognicore/cohera/pkg/cohera/segment"
	"github.com/cognicore/cohera/pkg/cohera/topic"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRunExplicitStages(t *testing.T) {
	path := write(t, "run.yaml", `
segmentation: one-one
probability: boolean-sliding-window
confirmation: npmi
aggregation: median
window_size: 20
epsilon: 1e-10
top_n: 5
`)

	run, err := LoadRun(path)
	if err != nil {
		t.Fatalf("LoadRun: %v", err)
	}
	opts, err := run.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}

	if opts.Segmentation != segment.OneOne {
		t.Errorf("segmentation = %v", opts.Segmentation)
	}
	if opts.Probability != probability.BooleanSlidingWindow {
		t.Errorf("probability = %v", opts.Probability)
	}
	if opts.Confirmation != confirm.MeasureNPMI {
		t.Errorf("confirmation = %v", opts.Confirmation)
	}
	if opts.WindowSize != 20 || opts.TopN != 5 {
		t.Errorf("window=%d topn=%d", opts.WindowSize, opts.TopN)
	}
	if opts.Aggregation == nil {
		t.Error("aggregation reducer missing")
	}
}

func TestPresetResolution(t *testing.T) {
	run := &Run{Preset: "c_v"}
	opts, err := run.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if opts.Segmentation != segment.OneSet {
		t.Errorf("c_v segmentation = %v", opts.Segmentation)
	}
	if opts.Confirmation != confirm.MeasureCosineNPMI {
		t.Errorf("c_v confirmation = %v", opts.Confirmation)
	}
	if opts.WindowSize != 110 {
		t.Errorf("c_v window = %d", opts.WindowSize)
	}
}

func TestPresetOverride(t *testing.T) {
	run := &Run{Preset: "c_npmi", WindowSize: 50}
	opts, err := run.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.WindowSize != 50 {
		t.Errorf("explicit window should override the preset, got %d", opts.WindowSize)
	}
}

func TestAllPresetsResolve(t *testing.T) {
	for _, name := range Presets() {
		if _, err := (&Run{Preset: name}).Options(); err != nil {
			t.Errorf("preset %s failed to resolve: %v", name, err)
		}
	}
}

func TestUnknownTagsFailFast(t *testing.T) {
	cases := []*Run{
		{Preset: "c_w2v"},
		{Preset: "u_mass", Segmentation: "one-window"},
		{Segmentation: "one-pre", Probability: "word2vec", Confirmation: "log-cond"},
		{Segmentation: "one-pre", Probability: "boolean-document", Confirmation: "jaccard"},
		{Segmentation: "one-pre", Probability: "boolean-document", Confirmation: "log-cond", Aggregation: "harmonic"},
	}
	for i, run := range cases {
		if _, err := run.Options(); !errors.Is(err, internalerr.ErrInvalidConfig) {
			t.Errorf("case %d: expected ErrInvalidConfig, got %v", i, err)
		}
	}
}

func TestLoadRunMalformed(t *testing.T) {
	path := write(t, "bad.yaml", "segmentation: [nested\n")
	if _, err := LoadRun(path); err == nil {
		t.Error("malformed YAML should fail")
	}
}

func TestLoadTopics(t *testing.T) {
	path := write(t, "topics.yaml", `
topics:
  - terms: [human, interface, computer]
  - terms: [graph, trees]
    weights: [0.4, 0.9]
`)

	m, err := LoadTopics(path)
	if err != nil {
		t.Fatalf("LoadTopics: %v", err)
	}
	if m.TopicCount() != 2 {
		t.Fatalf("expected 2 topics, got %d", m.TopicCount())
	}

	// Unweighted topic keeps its listed order
	terms, err := m.TopTerms(0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if terms[0].Token != "human" || terms[1].Token != "interface" {
		t.Errorf("listed order lost: %v", topic.Tokens(terms))
	}

	// Weighted topic sorts by weight
	terms, err = m.TopTerms(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if terms[0].Token != "trees" {
		t.Errorf("weights ignored: %v", topic.Tokens(terms))
	}
}

func TestLoadTopicsWeightMismatch(t *testing.T) {
	path := write(t, "topics.yaml", `
topics:
  - terms: [a, b]
    weights: [0.5]
`)
	if _, err := LoadTopics(path); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("weight/term mismatch should be ErrInvalidConfig, got %v", err)
	}
}
