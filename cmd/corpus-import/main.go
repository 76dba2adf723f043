package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/cognicore/cohera/pkg/cohera/corpus"
	"github.com/cognicore/cohera/pkg/cohera/store"
	"github.com/cognicore/cohera/pkg/cohera/store/sqlite"
)

func main() {
	var (
		dbPath   = flag.String("db", "", "SQLite store path (required)")
		dataPath = flag.String("data", "", "Input JSONL file (required)")
		corpusID = flag.String("corpus-id", "", "Corpus identity (defaults to the input file name)")
	)
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("--db required")
	}
	if *dataPath == "" {
		log.Fatal("--data required")
	}

	id := *corpusID
	if id == "" {
		id = filepath.Base(*dataPath)
	}

	ctx := context.Background()

	st, err := sqlite.OpenSQLite(ctx, *dbPath)
	if err != nil {
		log.Fatal("Failed to open store:", err)
	}
	defer st.Close()

	f, err := os.Open(*dataPath)
	if err != nil {
		log.Fatal("Failed to open input:", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	imported, line := 0, 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		var doc corpus.Document
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			log.Printf("Skipping line %d: %v", line, err)
			continue
		}

		err := st.UpsertDoc(ctx, store.Doc{
			CorpusID: id,
			URL:      doc.URL,
			Title:    doc.Title,
			Tokens:   doc.Tokens,
		})
		if err != nil {
			log.Fatal("Failed to store document:", err)
		}

		imported++
		if imported%500 == 0 {
			log.Printf("Imported %d documents...", imported)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatal("Failed to read input:", err)
	}

	// The corpus changed, so every cached table for it is stale
	if err := st.InvalidateCorpus(ctx, id); err != nil {
		log.Fatal("Failed to invalidate cached tables:", err)
	}

	log.Printf("Imported %d documents into corpus %q", imported, id)
}
