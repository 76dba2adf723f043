package topic

import (
	"fmt"
	"sort"

	"github.com/cognicore/cohera/pkg/cohera/internalerr"
	"github.com/cognicore/cohera/pkg/cohera/vocabulary"
)

// Term is one topic term with its model-assigned weight.
type Term struct {
	Token  string
	Weight float64
}

// Model is the contract a topic model must satisfy to be scored: the
// top-N terms of topic i, ordered by descending weight. Trained models,
// wrappers around external tooling and fixtures all adapt to this.
type Model interface {
	TopicCount() int
	TopTerms(topic, n int) ([]Term, error)
}

// DefaultTopN is the truncation applied when the caller does not choose one.
const DefaultTopN = 10

// TruncateTopN returns the n heaviest terms. The sort is stable, so terms
// with equal weight keep the model's original order.
func TruncateTopN(terms []Term, n int) []Term {
	sorted := make([]Term, len(terms))
	copy(sorted, terms)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight > sorted[j].Weight
	})
	if n > 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// Tokens projects a term list onto its tokens.
func Tokens(terms []Term) []string {
	tokens := make([]string, len(terms))
	for i, t := range terms {
		tokens[i] = t.Token
	}
	return tokens
}

// StaticModel adapts in-memory term lists to the Model interface. It is
// the adapter for topics loaded from files or produced by tools that only
// expose their final term weights.
type StaticModel struct {
	topics [][]Term
}

// NewStaticModel creates a model over fixed per-topic term lists.
func NewStaticModel(topics [][]Term) *StaticModel {
	return &StaticModel{topics: topics}
}

// TopicCount implements Model.
func (m *StaticModel) TopicCount() int { return len(m.topics) }

// TopTerms implements Model.
func (m *StaticModel) TopTerms(topic, n int) ([]Term, error) {
	if topic < 0 || topic >= len(m.topics) {
		return nil, fmt.Errorf("topic %d of %d: %w", topic, len(m.topics), internalerr.ErrNotFound)
	}
	return TruncateTopN(m.topics[topic], n), nil
}

// IDTerm is one topic term in a model's integer ID space.
type IDTerm struct {
	ID     int
	Weight float64
}

// IDModel adapts a model that speaks term IDs, resolving them against a
// vocabulary. IDs the vocabulary cannot resolve are dropped: downstream
// they would only ever read as zero counts.
type IDModel struct {
	topics [][]IDTerm
	vocab  *vocabulary.Vocabulary
}

// NewIDModel creates a model over per-topic ID/weight lists.
func NewIDModel(topics [][]IDTerm, vocab *vocabulary.Vocabulary) *IDModel {
	return &IDModel{topics: topics, vocab: vocab}
}

// TopicCount implements Model.
func (m *IDModel) TopicCount() int { return len(m.topics) }

// TopTerms implements Model.
func (m *IDModel) TopTerms(topic, n int) ([]Term, error) {
	if topic < 0 || topic >= len(m.topics) {
		return nil, fmt.Errorf("topic %d of %d: %w", topic, len(m.topics), internalerr.ErrNotFound)
	}
	terms := make([]Term, 0, len(m.topics[topic]))
	for _, t := range m.topics[topic] {
		token := m.vocab.Token(t.ID)
		if token == "" {
			continue
		}
		terms = append(terms, Term{Token: token, Weight: t.Weight})
	}
	return TruncateTopN(terms, n), nil
}

// FromTokens builds a static model from bare token lists, assigning
// descending rank weights so list order is preserved under truncation.
func FromTokens(topics [][]string) *StaticModel {
	out := make([][]Term, len(topics))
	for i, tokens := range topics {
		terms := make([]Term, len(tokens))
		for j, tok := range tokens {
			terms[j] = Term{Token: tok, Weight: float64(len(tokens) - j)}
		}
		out[i] = terms
	}
	return NewStaticModel(out)
}
