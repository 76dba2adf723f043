package probability

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/cognicore/cohera/pkg/cohera/corpus"
	"github.com/cognicore/cohera/pkg/cohera/internalerr"
)

// Request describes one frequency-table build.
type Request struct {
	Corpus     *corpus.Corpus
	Terms      []string // relevant terms; only these are counted
	Mode       Mode
	WindowSize int // sliding window span; DefaultWindowSize when <= 0
	Workers    int // parallel document scanners; NumCPU when <= 0
}

// Key returns the cache key for the table this request would build. The
// window size reads as zero in boolean-document mode, where it is unused.
func (r Request) Key() Key {
	window := r.WindowSize
	if window <= 0 {
		window = DefaultWindowSize
	}
	if r.Mode == BooleanDocument {
		window = 0
	}
	var corpusID string
	if r.Corpus != nil {
		corpusID = r.Corpus.ID()
	}
	return Key{
		CorpusID:   corpusID,
		Mode:       r.Mode,
		WindowSize: window,
		TermDigest: TermDigest(r.Terms),
	}
}

// Estimate scans the corpus exactly once and returns the frequency table
// for the request's relevant term set. Document scans are independent and
// fan out across workers; per-worker tables merge by count addition.
func Estimate(ctx context.Context, req Request) (*Table, error) {
	if req.Corpus == nil {
		return nil, fmt.Errorf("probability estimation needs a corpus: %w", internalerr.ErrMissingInput)
	}

	window := req.WindowSize
	if window <= 0 {
		window = DefaultWindowSize
	}

	relevant := make(map[string]struct{}, len(req.Terms))
	for _, t := range req.Terms {
		relevant[t] = struct{}{}
	}

	key := req.Key()

	var scan func(t *Table, doc int)
	switch req.Mode {
	case BooleanDocument:
		bags := req.Corpus.Bags()
		scan = func(t *Table, doc int) {
			scanBag(t, bags[doc], relevant)
		}
	case BooleanSlidingWindow:
		texts, ok := req.Corpus.Texts()
		if !ok {
			return nil, fmt.Errorf("sliding-window estimation needs tokenized texts, corpus %q has only bags: %w",
				req.Corpus.ID(), internalerr.ErrMissingInput)
		}
		scan = func(t *Table, doc int) {
			scanText(t, texts[doc], relevant, window)
		}
	default:
		return nil, fmt.Errorf("probability mode %v: %w", req.Mode, internalerr.ErrInvalidConfig)
	}

	docs := req.Corpus.Len()
	workers := req.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > docs {
		workers = docs
	}

	table := NewTable(key)
	if docs == 0 {
		return table, nil
	}

	if workers <= 1 {
		for doc := 0; doc < docs; doc++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			scan(table, doc)
		}
		return table, nil
	}

	locals := make([]*Table, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		locals[w] = NewTable(key)
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for doc := w; doc < docs; doc += workers {
				if ctx.Err() != nil {
					return
				}
				scan(locals[w], doc)
			}
		}(w)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, local := range locals {
		table.merge(local)
	}
	return table, nil
}

// scanBag records one bag-of-words document as a single window.
func scanBag(t *Table, bag corpus.Bag, relevant map[string]struct{}) {
	present := make([]string, 0, len(relevant))
	for term := range bag {
		if _, ok := relevant[term]; ok {
			present = append(present, term)
		}
	}
	sort.Strings(present)
	t.addWindow(present)
}

// scanText slides the window over one tokenized document. The in-window
// relevant-term multiset is maintained incrementally: the entering token is
// added and the leaving token removed, the span is never rescanned.
// Documents shorter than the window produce exactly one whole-document
// window, which makes a window at least as long as the document equivalent
// to boolean-document counting.
func scanText(t *Table, tokens []string, relevant map[string]struct{}, window int) {
	if len(tokens) <= window {
		counts := make(map[string]int)
		for _, tok := range tokens {
			if _, ok := relevant[tok]; ok {
				counts[tok]++
			}
		}
		t.addWindow(presentTerms(counts))
		return
	}

	counts := make(map[string]int)
	for i := 0; i < window; i++ {
		if _, ok := relevant[tokens[i]]; ok {
			counts[tokens[i]]++
		}
	}
	t.addWindow(presentTerms(counts))

	for start := 1; start+window <= len(tokens); start++ {
		leaving := tokens[start-1]
		if _, ok := relevant[leaving]; ok {
			counts[leaving]--
			if counts[leaving] == 0 {
				delete(counts, leaving)
			}
		}
		entering := tokens[start+window-1]
		if _, ok := relevant[entering]; ok {
			counts[entering]++
		}
		t.addWindow(presentTerms(counts))
	}
}

func presentTerms(counts map[string]int) []string {
	present := make([]string, 0, len(counts))
	for term := range counts {
		present = append(present, term)
	}
	sort.Strings(present)
	return present
}
