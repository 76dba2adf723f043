package memstore

import (
	"context"
	"testing"

	"github.com/cognicore/cohera/pkg/cohera/probability"
	"github.com/cognicore/cohera/pkg/cohera/store"
)

func TestDocRoundTrip(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	if err := s.UpsertDoc(ctx, store.Doc{CorpusID: "news", Tokens: []string{"a", "b"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertDoc(ctx, store.Doc{CorpusID: "news", Tokens: []string{"c"}}); err != nil {
		t.Fatal(err)
	}

	docs, err := s.Docs(ctx, "news")
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 docs, got %d", len(docs))
	}
	if docs[0].Tokens[0] != "a" || docs[1].Tokens[0] != "c" {
		t.Error("documents should come back in insertion order")
	}
}

func TestUpsertByURL(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	d := store.Doc{CorpusID: "news", URL: "https://example.com/x", Tokens: []string{"old"}}
	if err := s.UpsertDoc(ctx, d); err != nil {
		t.Fatal(err)
	}
	d.Tokens = []string{"new"}
	if err := s.UpsertDoc(ctx, d); err != nil {
		t.Fatal(err)
	}

	docs, _ := s.Docs(ctx, "news")
	if len(docs) != 1 {
		t.Fatalf("same URL should update in place, got %d docs", len(docs))
	}
	if docs[0].Tokens[0] != "new" {
		t.Error("upsert did not replace the document")
	}
}

func TestCorpora(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	s.UpsertDoc(ctx, store.Doc{CorpusID: "b"})
	s.UpsertDoc(ctx, store.Doc{CorpusID: "a"})

	ids, err := s.Corpora(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("expected sorted corpus IDs [a b], got %v", ids)
	}
}

func TestTableCache(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	key := probability.Key{CorpusID: "news", Mode: probability.BooleanSlidingWindow, WindowSize: 10, TermDigest: "d"}
	tbl := probability.NewTable(key)
	tbl.N = 5
	tbl.Occ["a"] = 3
	tbl.Cooc[probability.NewPair("a", "b")] = 2

	if _, found, _ := s.GetTable(ctx, key); found {
		t.Fatal("empty cache should miss")
	}

	if err := s.PutTable(ctx, tbl); err != nil {
		t.Fatal(err)
	}

	got, found, err := s.GetTable(ctx, key)
	if err != nil || !found {
		t.Fatalf("expected a hit, got found=%v err=%v", found, err)
	}
	if got.N != 5 || got.Count("a") != 3 || got.PairCount("b", "a") != 2 {
		t.Errorf("cached table corrupted: %+v", got)
	}

	// Returned table must be isolated from the cache
	got.Occ["a"] = 99
	again, _, _ := s.GetTable(ctx, key)
	if again.Count("a") != 3 {
		t.Error("cache returned a shared table")
	}
}

func TestInvalidateCorpus(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	k1 := probability.Key{CorpusID: "news", TermDigest: "d1"}
	k2 := probability.Key{CorpusID: "other", TermDigest: "d2"}
	s.PutTable(ctx, probability.NewTable(k1))
	s.PutTable(ctx, probability.NewTable(k2))

	if err := s.InvalidateCorpus(ctx, "news"); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := s.GetTable(ctx, k1); found {
		t.Error("invalidated corpus should miss")
	}
	if _, found, _ := s.GetTable(ctx, k2); !found {
		t.Error("other corpus should keep its tables")
	}
}
