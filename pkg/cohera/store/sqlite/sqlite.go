package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	_ "modernc.org/sqlite"

	"github.com/cognicore/cohera/pkg/cohera/probability"
	"github.com/cognicore/cohera/pkg/cohera/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS docs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	corpus_id TEXT NOT NULL,
	url TEXT,
	title TEXT,
	tokens TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS docs_corpus ON docs(corpus_id);
CREATE UNIQUE INDEX IF NOT EXISTS docs_corpus_url ON docs(corpus_id, url) WHERE url != '';

CREATE TABLE IF NOT EXISTS freq_tables (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	corpus_id TEXT NOT NULL,
	mode INTEGER NOT NULL,
	window_size INTEGER NOT NULL,
	term_digest TEXT NOT NULL,
	n INTEGER NOT NULL,
	UNIQUE(corpus_id, mode, window_size, term_digest)
);

CREATE TABLE IF NOT EXISTS freq_terms (
	table_id INTEGER NOT NULL,
	term TEXT NOT NULL,
	count INTEGER NOT NULL,
	PRIMARY KEY(table_id, term),
	FOREIGN KEY(table_id) REFERENCES freq_tables(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS freq_pairs (
	table_id INTEGER NOT NULL,
	t1 TEXT NOT NULL,
	t2 TEXT NOT NULL,
	count INTEGER NOT NULL,
	PRIMARY KEY(table_id, t1, t2),
	FOREIGN KEY(table_id) REFERENCES freq_tables(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertDoc inserts or updates a document. Documents with a URL are keyed
// by (corpus, URL); documents without one always insert.
func (s *sqliteStore) UpsertDoc(ctx context.Context, d store.Doc) error {
	tokens, err := json.Marshal(d.Tokens)
	if err != nil {
		return err
	}

	if d.URL == "" {
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO docs (corpus_id, url, title, tokens) VALUES (?, '', ?, ?)`,
			d.CorpusID, d.Title, string(tokens))
		return err
	}

	const stmt = `
INSERT INTO docs (corpus_id, url, title, tokens)
VALUES (?, ?, ?, ?)
ON CONFLICT(corpus_id, url) WHERE url != '' DO UPDATE SET
	title=excluded.title,
	tokens=excluded.tokens;
`
	_, err = s.db.ExecContext(ctx, stmt, d.CorpusID, d.URL, d.Title, string(tokens))
	return err
}

// Docs returns a corpus's documents in insertion order.
func (s *sqliteStore) Docs(ctx context.Context, corpusID string) ([]store.Doc, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, title, tokens FROM docs WHERE corpus_id=? ORDER BY id`, corpusID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []store.Doc
	for rows.Next() {
		d := store.Doc{CorpusID: corpusID}
		var tokens string
		if err := rows.Scan(&d.ID, &d.URL, &d.Title, &tokens); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(tokens), &d.Tokens); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Corpora returns the known corpus IDs, sorted.
func (s *sqliteStore) Corpora(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT corpus_id FROM docs ORDER BY corpus_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetTable returns a cached frequency table.
func (s *sqliteStore) GetTable(ctx context.Context, key probability.Key) (*probability.Table, bool, error) {
	var tableID, n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, n FROM freq_tables WHERE corpus_id=? AND mode=? AND window_size=? AND term_digest=?`,
		key.CorpusID, int(key.Mode), key.WindowSize, key.TermDigest).Scan(&tableID, &n)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	tbl := probability.NewTable(key)
	tbl.N = n

	rows, err := s.db.QueryContext(ctx, `SELECT term, count FROM freq_terms WHERE table_id=?`, tableID)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()
	for rows.Next() {
		var term string
		var count int64
		if err := rows.Scan(&term, &count); err != nil {
			return nil, false, err
		}
		tbl.Occ[term] = count
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	pairRows, err := s.db.QueryContext(ctx, `SELECT t1, t2, count FROM freq_pairs WHERE table_id=?`, tableID)
	if err != nil {
		return nil, false, err
	}
	defer pairRows.Close()
	for pairRows.Next() {
		var t1, t2 string
		var count int64
		if err := pairRows.Scan(&t1, &t2, &count); err != nil {
			return nil, false, err
		}
		tbl.Cooc[probability.TermPair{T1: t1, T2: t2}] = count
	}
	if err := pairRows.Err(); err != nil {
		return nil, false, err
	}

	return tbl, true, nil
}

// PutTable caches a frequency table, replacing any previous table under
// the same key.
func (s *sqliteStore) PutTable(ctx context.Context, t *probability.Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM freq_tables WHERE corpus_id=? AND mode=? AND window_size=? AND term_digest=?`,
		t.Key.CorpusID, int(t.Key.Mode), t.Key.WindowSize, t.Key.TermDigest); err != nil {
		return err
	}

	var tableID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO freq_tables (corpus_id, mode, window_size, term_digest, n) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		t.Key.CorpusID, int(t.Key.Mode), t.Key.WindowSize, t.Key.TermDigest, t.N).Scan(&tableID)
	if err != nil {
		return err
	}

	termStmt, err := tx.PrepareContext(ctx, `INSERT INTO freq_terms (table_id, term, count) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer termStmt.Close()
	for term, count := range t.Occ {
		if _, err := termStmt.ExecContext(ctx, tableID, term, count); err != nil {
			return err
		}
	}

	pairStmt, err := tx.PrepareContext(ctx, `INSERT INTO freq_pairs (table_id, t1, t2, count) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer pairStmt.Close()
	for pair, count := range t.Cooc {
		if _, err := pairStmt.ExecContext(ctx, tableID, pair.T1, pair.T2, count); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// InvalidateCorpus drops every cached table for the corpus.
func (s *sqliteStore) InvalidateCorpus(ctx context.Context, corpusID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM freq_tables WHERE corpus_id=?`, corpusID)
	return err
}
