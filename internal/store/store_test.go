package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mathtrail/mathtrail/internal/llm"
	"github.com/mathtrail/mathtrail/internal/problems"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_Ping(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Ping(context.Background()))
}

func TestSessions_InsertAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sess := problems.Session{
		ID:            "abc123",
		ProblemText:   "What is 2 + 3?",
		CorrectAnswer: 5,
	}
	require.NoError(t, s.InsertSession(ctx, sess))

	got, err := s.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, sess, got[0])
}

func TestSessions_DuplicateIDRejected(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sess := problems.Session{ID: "dup", ProblemText: "x", CorrectAnswer: 1}
	require.NoError(t, s.InsertSession(ctx, sess))
	require.Error(t, s.InsertSession(ctx, sess))
}

func TestSubmissions_InsertAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := problems.Submission{
		ID:              "sub-1",
		SessionID:       "sess-1",
		SubmittedAnswer: 4,
		IsCorrect:       false,
		Feedback:        "Close, check your carrying.",
	}
	second := problems.Submission{
		ID:              "sub-2",
		SessionID:       "sess-1",
		SubmittedAnswer: 5,
		IsCorrect:       true,
		Feedback:        "Well done!",
	}
	require.NoError(t, s.InsertSubmission(ctx, first))
	require.NoError(t, s.InsertSubmission(ctx, second))

	got, err := s.ListSubmissions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, first, got[0])
	require.Equal(t, second, got[1])
}

// Submissions with session_ids that reference no stored session are still
// accepted; the history join drops them at read time instead.
func TestSubmissions_OrphanAccepted(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	orphan := problems.Submission{ID: "sub-1", SessionID: "no-such-session", SubmittedAnswer: 1}
	require.NoError(t, s.InsertSubmission(ctx, orphan))

	sessions, err := s.ListSessions(ctx)
	require.NoError(t, err)
	subs, err := s.ListSubmissions(ctx)
	require.NoError(t, err)

	history := problems.BuildHistory(sessions, subs)
	require.Empty(t, history)
}

func TestAppendLLMRequest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.AppendLLMRequest(ctx, llm.RequestLogEntry{
		Provider:     "gemini-2.5-pro",
		Model:        "gemini-2.5-pro",
		Purpose:      "problem-gen",
		InputTokens:  812,
		OutputTokens: 203,
		LatencyMs:    1450,
		Success:      true,
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM llm_requests`).Scan(&count))
	require.Equal(t, 1, count)
}

func TestListSessions_Empty(t *testing.T) {
	s := openTestStore(t)
	got, err := s.ListSessions(context.Background())
	require.NoError(t, err)
	require.Empty(t, got)
}
