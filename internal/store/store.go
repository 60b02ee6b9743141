// Package store is a post-hoc, write-mostly ledger of extraction runs and
// the assets they downloaded — operator-facing history, not a pre-run
// dedup queue (the Navigator's per-run pager history already covers
// within-run dedup; Non-goals explicitly exclude a persistent cross-run
// dedup queue). Grounded on the teacher's internal/storage/db.go: raw
// database/sql against sqlite, hand-written CREATE TABLE/INSERT/SELECT —
// the teacher's dependency stack carries no ORM, so none is introduced
// here either.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Store wraps one sqlite connection holding the extraction_runs and
// downloaded_assets tables.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a sqlite database at path and ensures
// its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set journal mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) createTables() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS extraction_runs (
		id TEXT PRIMARY KEY,
		rule_name TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP,
		error TEXT
	)`)
	if err != nil {
		return fmt.Errorf("store: create extraction_runs: %w", err)
	}

	_, err = s.db.Exec(`
	CREATE TABLE IF NOT EXISTS downloaded_assets (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		rule_name TEXT NOT NULL,
		source_url TEXT NOT NULL,
		local_path TEXT NOT NULL,
		downloaded_at TIMESTAMP NOT NULL,
		FOREIGN KEY (run_id) REFERENCES extraction_runs(id) ON DELETE CASCADE
	)`)
	if err != nil {
		return fmt.Errorf("store: create downloaded_assets: %w", err)
	}

	return nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ExtractionRun is one row of the extraction_runs table.
type ExtractionRun struct {
	ID         string
	RuleName   string
	StartedAt  time.Time
	FinishedAt *time.Time
	Error      string
}

// BeginRun records the start of one extraction rule's run and returns its
// generated ID.
func (s *Store) BeginRun(ruleName string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(`
		INSERT INTO extraction_runs (id, rule_name, started_at)
		VALUES (?, ?, ?)`,
		id, ruleName, time.Now(),
	)
	if err != nil {
		return "", fmt.Errorf("store: begin run: %w", err)
	}
	return id, nil
}

// FinishRun marks a run complete, recording runErr's message if non-nil.
func (s *Store) FinishRun(runID string, runErr error) error {
	message := ""
	if runErr != nil {
		message = runErr.Error()
	}
	_, err := s.db.Exec(`
		UPDATE extraction_runs SET finished_at = ?, error = ? WHERE id = ?`,
		time.Now(), message, runID,
	)
	if err != nil {
		return fmt.Errorf("store: finish run: %w", err)
	}
	return nil
}

// RecordAsset logs one successfully downloaded artifact against runID.
func (s *Store) RecordAsset(runID, ruleName, sourceURL, localPath string) error {
	_, err := s.db.Exec(`
		INSERT INTO downloaded_assets (id, run_id, rule_name, source_url, local_path, downloaded_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), runID, ruleName, sourceURL, localPath, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("store: record asset: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit extraction runs, most recent first.
func (s *Store) RecentRuns(limit int) ([]ExtractionRun, error) {
	rows, err := s.db.Query(`
		SELECT id, rule_name, started_at, finished_at, error
		FROM extraction_runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: recent runs: %w", err)
	}
	defer rows.Close()

	var runs []ExtractionRun
	for rows.Next() {
		var run ExtractionRun
		var finishedAt sql.NullTime
		var errMsg sql.NullString

		if err := rows.Scan(&run.ID, &run.RuleName, &run.StartedAt, &finishedAt, &errMsg); err != nil {
			return nil, fmt.Errorf("store: scan run row: %w", err)
		}
		if finishedAt.Valid {
			run.FinishedAt = &finishedAt.Time
		}
		if errMsg.Valid {
			run.Error = errMsg.String
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
