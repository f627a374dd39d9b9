// Package store keeps an index of finished studies in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/spachava753/webmall-eval/internal/models"
)

// Store is a SQLite backed study index.
type Store struct {
	db *sql.DB
}

// StudyRecord is one indexed study.
type StudyRecord struct {
	ID                string
	Name              string
	Dir               string
	Agent             string
	Cancelled         bool
	StartedAt         time.Time
	EndedAt           time.Time
	NumRuns           int
	AvgTaskCompletion float64
	AvgPrecision      float64
	AvgRecall         float64
	AvgF1             float64
	TotalTokens       int64
	TotalCost         float64
}

// TaskRecord is one indexed task result.
type TaskRecord struct {
	StudyID  string
	TaskID   string
	Category string

	models.Metrics

	NSteps     int
	Truncated  bool
	Terminated bool
	ErrorType  string
}

// Open opens or creates the index at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS studies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		dir TEXT NOT NULL,
		agent TEXT NOT NULL,
		cancelled BOOLEAN NOT NULL DEFAULT FALSE,
		started_at DATETIME NOT NULL,
		ended_at DATETIME NOT NULL,
		num_runs INTEGER NOT NULL DEFAULT 0,
		avg_task_completion REAL NOT NULL DEFAULT 0.0,
		avg_precision REAL NOT NULL DEFAULT 0.0,
		avg_recall REAL NOT NULL DEFAULT 0.0,
		avg_f1 REAL NOT NULL DEFAULT 0.0,
		total_tokens INTEGER NOT NULL DEFAULT 0,
		total_cost REAL NOT NULL DEFAULT 0.0
	);

	CREATE TABLE IF NOT EXISTS task_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		study_id TEXT NOT NULL,
		task_id TEXT NOT NULL,
		category TEXT NOT NULL,
		task_completion REAL NOT NULL,
		precision REAL NOT NULL,
		recall REAL NOT NULL,
		f1 REAL NOT NULL,
		n_steps INTEGER NOT NULL,
		truncated BOOLEAN NOT NULL,
		terminated BOOLEAN NOT NULL,
		error_type TEXT,
		FOREIGN KEY (study_id) REFERENCES studies(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_task_results_study_id ON task_results(study_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// RecordStudy stores a study summary and its task results in one
// transaction.
func (s *Store) RecordStudy(ctx context.Context, summary models.StudySummary, results []models.TaskResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	o := summary.Overall
	_, err = tx.ExecContext(ctx, `
		INSERT INTO studies
		(id, name, dir, agent, cancelled, started_at, ended_at, num_runs,
		 avg_task_completion, avg_precision, avg_recall, avg_f1, total_tokens, total_cost)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, summary.StudyID, summary.Name, summary.Dir, summary.Agent, summary.Cancelled,
		summary.StartedAt, summary.EndedAt, o.NumRuns,
		o.AvgTaskCompletionRate, o.AvgPrecision, o.AvgRecall, o.AvgF1, o.TotalTokens, o.TotalCost)
	if err != nil {
		return fmt.Errorf("inserting study %s: %w", summary.StudyID, err)
	}

	for _, r := range results {
		var errType sql.NullString
		if r.Error != nil {
			errType = sql.NullString{String: string(r.Error.Type), Valid: true}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO task_results
			(study_id, task_id, category, task_completion, precision, recall, f1,
			 n_steps, truncated, terminated, error_type)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, summary.StudyID, r.TaskID, r.Category, r.TaskCompletion, r.Precision, r.Recall, r.F1,
			r.NSteps, r.Truncated, r.Terminated, errType)
		if err != nil {
			return fmt.Errorf("inserting result for task %s: %w", r.TaskID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing study %s: %w", summary.StudyID, err)
	}
	return nil
}

// ListStudies returns indexed studies, most recent first. A positive limit
// caps the number of rows.
func (s *Store) ListStudies(ctx context.Context, limit int) ([]StudyRecord, error) {
	query := `
		SELECT id, name, dir, agent, cancelled, started_at, ended_at, num_runs,
			   avg_task_completion, avg_precision, avg_recall, avg_f1, total_tokens, total_cost
		FROM studies ORDER BY started_at DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying studies: %w", err)
	}
	defer rows.Close()

	var studies []StudyRecord
	for rows.Next() {
		var r StudyRecord
		err := rows.Scan(&r.ID, &r.Name, &r.Dir, &r.Agent, &r.Cancelled, &r.StartedAt, &r.EndedAt, &r.NumRuns,
			&r.AvgTaskCompletion, &r.AvgPrecision, &r.AvgRecall, &r.AvgF1, &r.TotalTokens, &r.TotalCost)
		if err != nil {
			return nil, fmt.Errorf("scanning study: %w", err)
		}
		studies = append(studies, r)
	}
	return studies, rows.Err()
}

// TaskResults returns the indexed task results of a study in insertion
// order.
func (s *Store) TaskResults(ctx context.Context, studyID string) ([]TaskRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT study_id, task_id, category, task_completion, precision, recall, f1,
			   n_steps, truncated, terminated, error_type
		FROM task_results WHERE study_id = ?
		ORDER BY id
	`, studyID)
	if err != nil {
		return nil, fmt.Errorf("querying task results: %w", err)
	}
	defer rows.Close()

	var records []TaskRecord
	for rows.Next() {
		var r TaskRecord
		var errType sql.NullString
		err := rows.Scan(&r.StudyID, &r.TaskID, &r.Category, &r.TaskCompletion, &r.Precision, &r.Recall, &r.F1,
			&r.NSteps, &r.Truncated, &r.Terminated, &errType)
		if err != nil {
			return nil, fmt.Errorf("scanning task result: %w", err)
		}
		if errType.Valid {
			r.ErrorType = errType.String
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
