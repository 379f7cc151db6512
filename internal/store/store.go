// Package store persists problem sessions, submissions and the model-call
// audit trail in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mathtrail/mathtrail/internal/llm"
	"github.com/mathtrail/mathtrail/internal/problems"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed repository.
type Store struct {
	db *sql.DB
}

// Open creates a Store connected to the SQLite database at dsn, applies
// the recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return s, nil
}

// OpenFile creates the parent directory of path if needed and opens the
// database file there.
func OpenFile(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	return Open(path)
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func (s *Store) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS math_problem_sessions (
		id TEXT PRIMARY KEY,
		problem_text TEXT NOT NULL,
		correct_answer REAL NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS math_problem_submissions (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		submitted_answer REAL NOT NULL,
		is_correct INTEGER NOT NULL,
		feedback TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_submissions_session ON math_problem_submissions(session_id);

	CREATE TABLE IF NOT EXISTS llm_requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		success INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertSession persists a generated problem session.
func (s *Store) InsertSession(ctx context.Context, sess problems.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO math_problem_sessions (id, problem_text, correct_answer, created_at)
		 VALUES (?, ?, ?, ?)`,
		sess.ID, sess.ProblemText, sess.CorrectAnswer, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// ListSessions returns every stored session, oldest first. The history
// view joins in-process and imposes no pagination.
func (s *Store) ListSessions(ctx context.Context) ([]problems.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, problem_text, correct_answer FROM math_problem_sessions ORDER BY created_at, rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []problems.Session
	for rows.Next() {
		var sess problems.Session
		if err := rows.Scan(&sess.ID, &sess.ProblemText, &sess.CorrectAnswer); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

// InsertSubmission persists one graded attempt.
func (s *Store) InsertSubmission(ctx context.Context, sub problems.Submission) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO math_problem_submissions (id, session_id, submitted_answer, is_correct, feedback, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.SessionID, sub.SubmittedAnswer, sub.IsCorrect, sub.Feedback, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// ListSubmissions returns every stored submission, oldest first.
func (s *Store) ListSubmissions(ctx context.Context) ([]problems.Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, submitted_answer, is_correct, feedback
		 FROM math_problem_submissions ORDER BY created_at, rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var out []problems.Submission
	for rows.Next() {
		var sub problems.Submission
		if err := rows.Scan(&sub.ID, &sub.SessionID, &sub.SubmittedAnswer, &sub.IsCorrect, &sub.Feedback); err != nil {
			return nil, fmt.Errorf("scan submission row: %w", err)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return out, nil
}

// AppendLLMRequest records one model call in the audit table.
func (s *Store) AppendLLMRequest(ctx context.Context, entry llm.RequestLogEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO llm_requests (provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Provider, entry.Model, entry.Purpose,
		entry.InputTokens, entry.OutputTokens, entry.LatencyMs,
		entry.Success, entry.ErrorMessage, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert llm request: %w", err)
	}
	return nil
}
