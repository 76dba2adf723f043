package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/cognicore/cohera/pkg/cohera/probability"
	"github.com/cognicore/cohera/pkg/cohera/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	docs   map[string][]store.Doc    // corpus ID -> documents
	urls   map[string]map[string]int // corpus ID -> URL -> index into docs
	tables map[probability.Key]*probability.Table
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		nextID: 1,
		docs:   make(map[string][]store.Doc),
		urls:   make(map[string]map[string]int),
		tables: make(map[probability.Key]*probability.Table),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// UpsertDoc inserts or updates a document.
func (s *Store) UpsertDoc(ctx context.Context, d store.Doc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.URL != "" {
		if byURL, ok := s.urls[d.CorpusID]; ok {
			if idx, exists := byURL[d.URL]; exists {
				d.ID = s.docs[d.CorpusID][idx].ID
				s.docs[d.CorpusID][idx] = copyDoc(d)
				return nil
			}
		}
	}

	d.ID = s.nextID
	s.nextID++
	s.docs[d.CorpusID] = append(s.docs[d.CorpusID], copyDoc(d))
	if d.URL != "" {
		if s.urls[d.CorpusID] == nil {
			s.urls[d.CorpusID] = make(map[string]int)
		}
		s.urls[d.CorpusID][d.URL] = len(s.docs[d.CorpusID]) - 1
	}
	return nil
}

// Docs returns a corpus's documents in insertion order.
func (s *Store) Docs(ctx context.Context, corpusID string) ([]store.Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.docs[corpusID]
	out := make([]store.Doc, len(docs))
	for i, d := range docs {
		out[i] = copyDoc(d)
	}
	return out, nil
}

// Corpora returns the known corpus IDs, sorted.
func (s *Store) Corpora(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// GetTable returns a cached frequency table.
func (s *Store) GetTable(ctx context.Context, key probability.Key) (*probability.Table, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[key]
	if !ok {
		return nil, false, nil
	}
	return copyTable(t), true, nil
}

// PutTable caches a frequency table under its own key.
func (s *Store) PutTable(ctx context.Context, t *probability.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tables[t.Key] = copyTable(t)
	return nil
}

// InvalidateCorpus drops every cached table for the corpus.
func (s *Store) InvalidateCorpus(ctx context.Context, corpusID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.tables {
		if key.CorpusID == corpusID {
			delete(s.tables, key)
		}
	}
	return nil
}

func copyDoc(d store.Doc) store.Doc {
	out := d
	out.Tokens = append([]string(nil), d.Tokens...)
	return out
}

func copyTable(t *probability.Table) *probability.Table {
	out := probability.NewTable(t.Key)
	out.N = t.N
	for term, n := range t.Occ {
		out.Occ[term] = n
	}
	for pair, n := range t.Cooc {
		out.Cooc[pair] = n
	}
	return out
}
