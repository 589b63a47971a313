package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/gdex/pkg/gdex/internalerr"
	"github.com/cognicore/gdex/pkg/gdex/report"
	"github.com/cognicore/gdex/pkg/gdex/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
		}
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
CREATE TABLE IF NOT EXISTS reports (
	id TEXT PRIMARY KEY,
	lemma TEXT NOT NULL,
	created_at TEXT NOT NULL,
	corpus_size INTEGER NOT NULL,
	matching INTEGER NOT NULL,
	body TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_lemma ON reports(lemma, id);

CREATE TABLE IF NOT EXISTS examples (
	report_id TEXT NOT NULL,
	rank INTEGER NOT NULL,
	sentence TEXT NOT NULL,
	score REAL NOT NULL,
	cluster INTEGER NOT NULL,
	PRIMARY KEY(report_id, rank),
	FOREIGN KEY(report_id) REFERENCES reports(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (s *sqliteStore) SaveReport(ctx context.Context, r report.Report) error {
	if r.ID == "" {
		return fmt.Errorf("save report: empty id: %w", internalerr.ErrInvalidInput)
	}
	body, err := json.Marshal(r)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO reports(id, lemma, created_at, corpus_size, matching, body)
VALUES(?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	lemma=excluded.lemma,
	created_at=excluded.created_at,
	corpus_size=excluded.corpus_size,
	matching=excluded.matching,
	body=excluded.body`,
		r.ID, r.Lemma, r.CreatedAt.Format(time.RFC3339Nano), r.CorpusSize, r.MatchingCount, string(body))
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM examples WHERE report_id = ?`, r.ID); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO examples(report_id, rank, sentence, score, cluster) VALUES(?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, ex := range r.Examples {
		if _, err := stmt.ExecContext(ctx, r.ID, i, ex.Sentence, ex.Score, ex.Cluster); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *sqliteStore) GetReport(ctx context.Context, id string) (report.Report, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM reports WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return report.Report{}, fmt.Errorf("report %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return report.Report{}, err
	}
	return decode(body)
}

func (s *sqliteStore) ListReports(ctx context.Context, lemma string, limit int) ([]report.Report, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT body FROM reports
WHERE ? = '' OR lemma = ?
ORDER BY id DESC
LIMIT ?`, lemma, lemma, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []report.Report
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		r, err := decode(body)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *sqliteStore) TopExamples(ctx context.Context, lemma string, limit int) ([]report.Example, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT e.sentence, MAX(e.score) AS best, e.cluster
FROM examples e
JOIN reports r ON r.id = e.report_id
WHERE r.lemma = ?
GROUP BY e.sentence
ORDER BY best DESC, e.sentence ASC
LIMIT ?`, lemma, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []report.Example
	for rows.Next() {
		ex := report.Example{Lemma: lemma}
		if err := rows.Scan(&ex.Sentence, &ex.Score, &ex.Cluster); err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

func decode(body string) (report.Report, error) {
	var r report.Report
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return report.Report{}, fmt.Errorf("decode report: %w", err)
	}
	return r, nil
}
