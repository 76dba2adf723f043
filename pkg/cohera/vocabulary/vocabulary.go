package vocabulary

// Vocabulary maps raw tokens to stable integer term IDs and back. IDs are
// assigned in insertion order, so building a vocabulary from the same token
// stream always yields the same mapping. Not safe for concurrent writes;
// once built it may be shared read-only.
type Vocabulary struct {
	ids    map[string]int
	tokens []string
}

// New creates an empty vocabulary.
func New() *Vocabulary {
	return &Vocabulary{ids: make(map[string]int)}
}

// Add registers a token and returns its ID; an already-known token keeps
// its existing ID.
func (v *Vocabulary) Add(token string) int {
	if id, ok := v.ids[token]; ok {
		return id
	}
	id := len(v.tokens)
	v.ids[token] = id
	v.tokens = append(v.tokens, token)
	return id
}

// ID returns the token's ID, or -1 for a token outside the vocabulary.
// Out-of-vocabulary terms are legal everywhere downstream: they read as
// zero counts, never as errors.
func (v *Vocabulary) ID(token string) int {
	if id, ok := v.ids[token]; ok {
		return id
	}
	return -1
}

// Token returns the token for an ID, or "" if the ID is out of range.
func (v *Vocabulary) Token(id int) string {
	if id < 0 || id >= len(v.tokens) {
		return ""
	}
	return v.tokens[id]
}

// Len returns the number of known tokens.
func (v *Vocabulary) Len() int { return len(v.tokens) }

// Tokens returns all tokens in ID order. The slice is shared; callers must
// not modify it.
func (v *Vocabulary) Tokens() []string { return v.tokens }

// FromTexts builds a vocabulary covering every token in the corpus texts.
func FromTexts(texts [][]string) *Vocabulary {
	v := New()
	for _, doc := range texts {
		for _, tok := range doc {
			v.Add(tok)
		}
	}
	return v
}
