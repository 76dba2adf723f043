package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/cognicore/cohera/pkg/cohera"
	"github.com/cognicore/cohera/pkg/cohera/config"
	"github.com/cognicore/cohera/pkg/cohera/corpus"
	"github.com/cognicore/cohera/pkg/cohera/store/sqlite"
)

func main() {
	var (
		topicsPath = flag.String("topics", "", "Topics YAML file (required)")
		corpusPath = flag.String("corpus", "", "Tokenized corpus JSONL file")
		configPath = flag.String("config", "", "Run configuration YAML file")
		preset     = flag.String("preset", "u_mass", "Pipeline preset when no config file is given ("+strings.Join(config.Presets(), ", ")+")")
		dbPath     = flag.String("db", "", "SQLite store (corpus source and frequency-table cache)")
		corpusID   = flag.String("corpus-id", "", "Corpus identity (defaults to the corpus file name)")
	)
	flag.Parse()

	if *topicsPath == "" {
		log.Fatal("--topics required")
	}
	if *corpusPath == "" && *dbPath == "" {
		log.Fatal("--corpus or --db required")
	}

	ctx := context.Background()

	var run *config.Run
	if *configPath != "" {
		loaded, err := config.LoadRun(*configPath)
		if err != nil {
			log.Fatal("Failed to load configuration:", err)
		}
		run = loaded
	} else {
		run = &config.Run{Preset: *preset}
	}

	opts, err := run.Options()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	if *dbPath != "" {
		st, err := sqlite.OpenSQLite(ctx, *dbPath)
		if err != nil {
			log.Fatal("Failed to open store:", err)
		}
		defer st.Close()
		opts.Cache = st
	}

	pipeline, err := cohera.New(opts)
	if err != nil {
		log.Fatal("Invalid pipeline:", err)
	}

	model, err := config.LoadTopics(*topicsPath)
	if err != nil {
		log.Fatal("Failed to load topics:", err)
	}

	id := *corpusID
	if id == "" && *corpusPath != "" {
		id = filepath.Base(*corpusPath)
	}

	var ref *corpus.Corpus
	if *corpusPath != "" {
		ref, err = corpus.LoadJSONL(id, *corpusPath)
		if err != nil {
			log.Fatal("Failed to load corpus:", err)
		}
	} else {
		if id == "" {
			log.Fatal("--corpus-id required when reading the corpus from --db")
		}
		docs, err := opts.Cache.Docs(ctx, id)
		if err != nil {
			log.Fatal("Failed to read corpus from store:", err)
		}
		if len(docs) == 0 {
			log.Fatalf("Corpus %q not found in store", id)
		}
		texts := make([][]string, len(docs))
		for i, d := range docs {
			texts[i] = d.Tokens
		}
		ref = corpus.FromTexts(id, texts)
	}

	log.Printf("Scoring %d topics against corpus %q (%d documents)...", model.TopicCount(), id, ref.Len())

	result, err := pipeline.Score(ctx, model, ref)
	if err != nil {
		log.Fatal("Coherence run failed:", err)
	}

	for _, ts := range result.PerTopic {
		if ts.Skipped {
			fmt.Printf("topic %d:\tskipped (no segments)\n", ts.Index)
			continue
		}
		fmt.Printf("topic %d:\t%.6f\t(%d segments)\n", ts.Index, ts.Score, ts.Segments)
	}
	if result.SkippedTopics > 0 {
		fmt.Printf("skipped topics: %d\n", result.SkippedTopics)
	}
	fmt.Printf("coherence:\t%.6f\t(run %s)\n", result.Coherence, result.RunID)
}
