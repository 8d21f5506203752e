// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists repair runs in a local SQLite database so past
// repairs can be listed and audited.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/docmend/pkg/types"
)

const dbFile = "history.db"

// Run is one recorded repair run.
type Run struct {
	ID         string             `json:"id" yaml:"id"`
	InputPath  string             `json:"input_path" yaml:"input_path"`
	OutputPath string             `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	Status     types.RepairStatus `json:"status" yaml:"status"`
	Author     string             `json:"author,omitempty" yaml:"author,omitempty"`
	Title      string             `json:"title,omitempty" yaml:"title,omitempty"`
	Subject    string             `json:"subject,omitempty" yaml:"subject,omitempty"`
	CreatedAt  time.Time          `json:"created_at" yaml:"created_at"`
}

// Store manages the repair history SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the history database at
// cfg.HistoryDir/history.db, creating the schema if needed.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.HistoryDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.HistoryDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			input_path TEXT NOT NULL,
			output_path TEXT,
			status TEXT NOT NULL,
			author TEXT,
			title TEXT,
			subject TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts a run for the given document. The run ID is generated.
func (s *Store) Record(ctx context.Context, doc *types.Document) (Run, error) {
	run := Run{
		ID:         uuid.New().String(),
		InputPath:  doc.Path,
		OutputPath: doc.OutputPath,
		Status:     doc.RepairStatus,
		Author:     doc.Author,
		Title:      doc.Title,
		Subject:    doc.Subject,
		CreatedAt:  time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, input_path, output_path, status, author, title, subject, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.InputPath, run.OutputPath, string(run.Status),
		run.Author, run.Title, run.Subject, run.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return Run{}, fmt.Errorf("recording run for %s: %w", doc.Path, err)
	}
	return run, nil
}

// List returns the most recent runs, newest first. A non-positive limit
// uses the configured maximum.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input_path, output_path, status, author, title, subject, created_at
		 FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var status, createdAt string
		if err := rows.Scan(&r.ID, &r.InputPath, &r.OutputPath, &status,
			&r.Author, &r.Title, &r.Subject, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Status = types.RepairStatus(status)
		if t, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}
