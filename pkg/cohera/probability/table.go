package probability

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// Mode selects the windowing rule used to estimate probabilities.
type Mode int

const (
	// BooleanDocument treats each full document as one window; a term is
	// present if it occurs anywhere in the document, repeats ignored.
	BooleanDocument Mode = iota
	// BooleanSlidingWindow slides a fixed-size token span one position at
	// a time over each document; a term is present in a window if it
	// occurs in the span at least once.
	BooleanSlidingWindow
)

// DefaultWindowSize is the sliding-window span used when none is configured.
const DefaultWindowSize = 110

// String returns the config-file tag for the mode.
func (m Mode) String() string {
	switch m {
	case BooleanDocument:
		return "boolean-document"
	case BooleanSlidingWindow:
		return "boolean-sliding-window"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode converts a config-file tag into a Mode.
func ParseMode(tag string) (Mode, error) {
	switch tag {
	case "boolean-document":
		return BooleanDocument, nil
	case "boolean-sliding-window":
		return BooleanSlidingWindow, nil
	}
	return 0, fmt.Errorf("unknown probability mode %q", tag)
}

// TermPair is an unordered term pair in canonical order (T1 < T2).
type TermPair struct {
	T1, T2 string
}

// NewPair builds the canonical pair for two terms.
func NewPair(t1, t2 string) TermPair {
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	return TermPair{T1: t1, T2: t2}
}

// Key identifies one frequency table for caching. Tables only hold counts
// for the relevant term set, so its digest is part of the identity.
type Key struct {
	CorpusID   string
	Mode       Mode
	WindowSize int
	TermDigest string
}

// TermDigest hashes a term set into a stable hex digest. Order and
// duplicates in the input do not affect the result.
func TermDigest(terms []string) string {
	unique := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		unique = append(unique, t)
	}
	sort.Strings(unique)

	h := sha256.New()
	for _, t := range unique {
		h.Write([]byte(t))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Table holds boolean window statistics for a relevant term set: the total
// window count, per-term occurrence counts and per-pair co-occurrence
// counts. Once built it is immutable and safe to share across goroutines.
type Table struct {
	Key  Key
	N    int64
	Occ  map[string]int64
	Cooc map[TermPair]int64
}

// NewTable creates an empty table for the given key.
func NewTable(key Key) *Table {
	return &Table{
		Key:  key,
		Occ:  make(map[string]int64),
		Cooc: make(map[TermPair]int64),
	}
}

// Count returns the number of windows containing the term. Terms outside
// the vocabulary read as zero.
func (t *Table) Count(term string) int64 {
	return t.Occ[term]
}

// PairCount returns the number of windows containing both terms. The pair
// of a term with itself is its own occurrence count.
func (t *Table) PairCount(t1, t2 string) int64 {
	if t1 == t2 {
		return t.Occ[t1]
	}
	return t.Cooc[NewPair(t1, t2)]
}

// addWindow records one window's present terms. The slice must be sorted
// and free of duplicates.
func (t *Table) addWindow(present []string) {
	t.N++
	for _, term := range present {
		t.Occ[term]++
	}
	for i := 0; i < len(present); i++ {
		for j := i + 1; j < len(present); j++ {
			t.Cooc[TermPair{T1: present[i], T2: present[j]}]++
		}
	}
}

// merge folds another table's counts into this one. Count addition is
// commutative, so merge order does not affect the result.
func (t *Table) merge(o *Table) {
	t.N += o.N
	for term, n := range o.Occ {
		t.Occ[term] += n
	}
	for pair, n := range o.Cooc {
		t.Cooc[pair] += n
	}
}
