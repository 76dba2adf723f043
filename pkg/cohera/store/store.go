package store

import (
	"context"

	"github.com/cognicore/cohera/pkg/cohera/probability"
)

// Store persists corpora and caches frequency tables between runs. The
// cache is keyed by (corpus ID, mode, window size, relevant-term digest):
// a table only holds counts for the terms the topics mention, so the term
// set is part of its identity.
type Store interface {
	Close() error

	// Corpora
	UpsertDoc(ctx context.Context, d Doc) error
	Docs(ctx context.Context, corpusID string) ([]Doc, error)
	Corpora(ctx context.Context) ([]string, error)

	// Frequency-table cache
	GetTable(ctx context.Context, key probability.Key) (*probability.Table, bool, error)
	PutTable(ctx context.Context, t *probability.Table) error
	InvalidateCorpus(ctx context.Context, corpusID string) error
}

// Doc is one stored corpus document. Documents with a URL are upserted by
// (corpus ID, URL); documents without one always insert.
type Doc struct {
	ID       int64
	CorpusID string
	URL      string
	Title    string
	Tokens   []string
}
