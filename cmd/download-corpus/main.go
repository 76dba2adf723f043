package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/cognicore/cohera/internal/fetch"
	"github.com/cognicore/cohera/pkg/cohera/corpus"
)

func main() {
	var (
		urlsPath = flag.String("urls", "", "File with one URL per line (or pass URLs as arguments)")
		outPath  = flag.String("out", "docs.jsonl", "Output JSONL file")
	)
	flag.Parse()

	urls := flag.Args()
	if *urlsPath != "" {
		fromFile, err := readURLs(*urlsPath)
		if err != nil {
			log.Fatal("Failed to read URL list:", err)
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		log.Fatal("no URLs given: use --urls or pass them as arguments")
	}

	outFile, err := os.Create(*outPath)
	if err != nil {
		log.Fatal("Failed to create output file:", err)
	}
	defer outFile.Close()

	encoder := json.NewEncoder(outFile)
	downloaded := 0

	for _, url := range urls {
		text, err := fetch.Page(url)
		if err != nil {
			log.Printf("Failed to fetch %s: %v", url, err)
			continue
		}

		tokens := corpus.Tokenize(text)
		if len(tokens) == 0 {
			log.Printf("Skipping %s: no text content", url)
			continue
		}

		doc := corpus.Document{URL: url, Tokens: tokens}
		if err := encoder.Encode(doc); err != nil {
			log.Printf("Failed to encode doc: %v", err)
			continue
		}

		downloaded++
		if downloaded%10 == 0 {
			log.Printf("Downloaded %d/%d pages...", downloaded, len(urls))
		}

		// Be nice to the servers
		time.Sleep(50 * time.Millisecond)
	}

	log.Printf("Downloaded %d pages to %s", downloaded, *outPath)
}

func readURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}
