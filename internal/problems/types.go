// Package problems holds the domain core: generating word problems through
// the model provider, grading submissions, revealing solutions and
// assembling session history.
package problems

import (
	"context"
	"errors"
	"fmt"
)

// Difficulty gates the prompt sent to the model. Closed three-value set.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ErrInvalidDifficulty reports a difficulty outside the closed set. The
// model is never called for such input.
var ErrInvalidDifficulty = errors.New("difficulty must be one of easy, medium, hard")

// ParseDifficulty validates and converts a raw difficulty string.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s), nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidDifficulty, s)
	}
}

// Session is one generated problem instance. Immutable once created.
type Session struct {
	ID            string
	ProblemText   string
	CorrectAnswer float64
}

// Submission is one graded attempt at a session's problem. Immutable once
// created; a session may accumulate many submissions across re-attempts.
type Submission struct {
	ID              string
	SessionID       string
	SubmittedAnswer float64
	IsCorrect       bool
	Feedback        string
}

// HistoryEntry is the derived read-only view of a session joined with its
// submissions. Never persisted; recomputed on every history fetch.
type HistoryEntry struct {
	Session
	Submissions []Submission
}

// GeneratedProblem is the full generation result returned to the caller,
// solution steps and answer key included. The client is trusted with the
// answer; grading still happens server-side.
type GeneratedProblem struct {
	SessionID          string
	ProblemText        string
	FinalAnswer        float64
	StepByStepSolution []string
}

// GradeResult is the outcome of grading one submission.
type GradeResult struct {
	Feedback  string
	Hint      string
	IsCorrect bool
}

// SubmitInput carries one answer submission. ProblemText and CorrectAnswer
// are echoed by the client alongside the session handle.
type SubmitInput struct {
	SessionID     string
	ProblemText   string
	CorrectAnswer float64
	Answer        float64
}

// SessionStore persists and scans problem sessions.
type SessionStore interface {
	InsertSession(ctx context.Context, sess Session) error
	ListSessions(ctx context.Context) ([]Session, error)
}

// SubmissionStore persists and scans submissions.
type SubmissionStore interface {
	InsertSubmission(ctx context.Context, sub Submission) error
	ListSubmissions(ctx context.Context) ([]Submission, error)
}

// Store is the full persistence surface the service needs.
type Store interface {
	SessionStore
	SubmissionStore
}
