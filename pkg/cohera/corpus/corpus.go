package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// Bag is a bag-of-words document: term -> occurrence count.
type Bag map[string]int

// Corpus is a read-only reference collection the probability estimator
// scans. It carries either bag-of-words documents, ordered token sequences,
// or both; a corpus built from texts answers bag queries by collapsing
// counts, but a bag corpus cannot recover token order.
type Corpus struct {
	id    string
	bags  []Bag
	texts [][]string
}

// FromBags builds a corpus of bag-of-words documents.
func FromBags(id string, bags []Bag) *Corpus {
	return &Corpus{id: id, bags: bags}
}

// FromTexts builds a corpus of ordered token sequences.
func FromTexts(id string, texts [][]string) *Corpus {
	return &Corpus{id: id, texts: texts}
}

// ID identifies the corpus for cache keying. Two corpora with the same ID
// are assumed to hold the same documents.
func (c *Corpus) ID() string { return c.id }

// Len returns the number of documents.
func (c *Corpus) Len() int {
	if c.texts != nil {
		return len(c.texts)
	}
	return len(c.bags)
}

// Texts returns the ordered token sequences, or false if the corpus was
// built from bags and token order is unavailable.
func (c *Corpus) Texts() ([][]string, bool) {
	if c.texts == nil {
		return nil, false
	}
	return c.texts, true
}

// Bags returns the documents as bags of words, deriving them from the
// token sequences when necessary.
func (c *Corpus) Bags() []Bag {
	if c.bags != nil {
		return c.bags
	}
	bags := make([]Bag, len(c.texts))
	for i, tokens := range c.texts {
		bag := make(Bag, len(tokens))
		for _, tok := range tokens {
			bag[tok]++
		}
		bags[i] = bag
	}
	c.bags = bags
	return bags
}

// Document is the JSONL on-disk format shared by the corpus tools.
type Document struct {
	URL    string   `json:"url,omitempty"`
	Title  string   `json:"title,omitempty"`
	Tokens []string `json:"tokens"`
}

// LoadJSONL reads a tokenized corpus from a JSONL file, one Document per
// line. Blank lines are skipped.
func LoadJSONL(id, path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var texts [][]string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var doc Document
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("parse %s line %d: %w", path, line, err)
		}
		texts = append(texts, doc.Tokens)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return FromTexts(id, texts), nil
}

// Tokenize splits text into lowercase tokens. Letters, numbers and hyphens
// are token characters; everything else separates tokens.
func Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()

	return tokens
}
