package topic

import (
	"errors"
	"reflect"
	"testing"

	"github.com/cognicore/cohera/pkg/cohera/internalerr"
	"github.com/cognicore/cohera/pkg/cohera/vocabulary"
)

func TestTruncateTopN(t *testing.T) {
	terms := []Term{
		{Token: "low", Weight: 0.1},
		{Token: "high", Weight: 0.9},
		{Token: "mid", Weight: 0.5},
	}

	got := TruncateTopN(terms, 2)
	if len(got) != 2 || got[0].Token != "high" || got[1].Token != "mid" {
		t.Errorf("unexpected truncation: %v", got)
	}

	// Input must stay untouched
	if terms[0].Token != "low" {
		t.Error("TruncateTopN mutated its input")
	}
}

func TestTruncateTiesKeepOriginalOrder(t *testing.T) {
	terms := []Term{
		{Token: "first", Weight: 0.5},
		{Token: "second", Weight: 0.5},
		{Token: "third", Weight: 0.5},
	}

	got := TruncateTopN(terms, 2)
	if got[0].Token != "first" || got[1].Token != "second" {
		t.Errorf("equal weights should keep original order, got %v", Tokens(got))
	}
}

func TestTruncateNonPositiveNKeepsAll(t *testing.T) {
	terms := []Term{{Token: "a", Weight: 1}, {Token: "b", Weight: 2}}
	if got := TruncateTopN(terms, 0); len(got) != 2 {
		t.Errorf("n=0 should keep all terms, got %d", len(got))
	}
}

func TestStaticModel(t *testing.T) {
	m := NewStaticModel([][]Term{
		{{Token: "a", Weight: 2}, {Token: "b", Weight: 1}},
		{{Token: "c", Weight: 1}},
	})

	if m.TopicCount() != 2 {
		t.Fatalf("expected 2 topics, got %d", m.TopicCount())
	}

	terms, err := m.TopTerms(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(terms) != 1 || terms[0].Token != "a" {
		t.Errorf("unexpected top terms: %v", terms)
	}

	if _, err := m.TopTerms(5, 1); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("out-of-range topic should be ErrNotFound, got %v", err)
	}
}

func TestIDModel(t *testing.T) {
	vocab := vocabulary.FromTexts([][]string{{"graph", "trees", "minors"}})

	m := NewIDModel([][]IDTerm{
		{{ID: 0, Weight: 0.5}, {ID: 2, Weight: 0.9}},
		{{ID: 1, Weight: 1.0}},
	}, vocab)

	if m.TopicCount() != 2 {
		t.Fatalf("expected 2 topics, got %d", m.TopicCount())
	}

	terms, err := m.TopTerms(0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(Tokens(terms), []string{"minors", "graph"}) {
		t.Errorf("unexpected resolved terms: %v", Tokens(terms))
	}

	if _, err := m.TopTerms(-1, 10); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("out-of-range topic should be ErrNotFound, got %v", err)
	}
}

func TestIDModelDropsUnknownIDs(t *testing.T) {
	vocab := vocabulary.FromTexts([][]string{{"graph"}})

	m := NewIDModel([][]IDTerm{
		{{ID: 0, Weight: 1}, {ID: 42, Weight: 2}},
	}, vocab)

	terms, err := m.TopTerms(0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(Tokens(terms), []string{"graph"}) {
		t.Errorf("unknown IDs should be dropped, got %v", Tokens(terms))
	}
}

func TestFromTokensPreservesOrder(t *testing.T) {
	m := FromTokens([][]string{{"x", "y", "z"}})

	terms, err := m.TopTerms(0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(Tokens(terms), []string{"x", "y"}) {
		t.Errorf("token order lost: %v", Tokens(terms))
	}
}
