package problems

import "testing"

func TestBuildHistory_JoinsBySessionID(t *testing.T) {
	sessions := []Session{
		{ID: "a", ProblemText: "What is 2 + 2?", CorrectAnswer: 4},
		{ID: "b", ProblemText: "What is 9 - 3?", CorrectAnswer: 6},
	}
	submissions := []Submission{
		{ID: "s1", SessionID: "a", SubmittedAnswer: 4, IsCorrect: true},
		{ID: "s2", SessionID: "a", SubmittedAnswer: 5, IsCorrect: false},
		{ID: "s3", SessionID: "x", SubmittedAnswer: 1, IsCorrect: true},
	}

	history := BuildHistory(sessions, submissions)

	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if history[0].ID != "a" || len(history[0].Submissions) != 2 {
		t.Errorf("session a: expected 2 submissions, got %d", len(history[0].Submissions))
	}
	if history[1].ID != "b" || len(history[1].Submissions) != 0 {
		t.Errorf("session b: expected 0 submissions, got %d", len(history[1].Submissions))
	}
	if history[1].Submissions == nil {
		t.Error("empty submission list must be non-nil")
	}
	// The orphaned "x" submission is dropped silently, not an error.
	for _, e := range history {
		for _, sub := range e.Submissions {
			if sub.SessionID == "x" {
				t.Error("orphaned submission leaked into history")
			}
		}
	}
}

func TestBuildHistory_Empty(t *testing.T) {
	history := BuildHistory(nil, nil)
	if history == nil {
		t.Fatal("expected non-nil history")
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(history))
	}
}

func TestBuildHistory_SubmissionsWithoutSessions(t *testing.T) {
	submissions := []Submission{
		{ID: "s1", SessionID: "ghost", IsCorrect: true},
	}
	history := BuildHistory(nil, submissions)
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(history))
	}
}
