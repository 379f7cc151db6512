package problems

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/mathtrail/mathtrail/internal/llm"
)

// fakeStore is an in-memory Store with injectable failures.
type fakeStore struct {
	mu          sync.Mutex
	sessions    []Session
	submissions []Submission

	insertSessionErr    error
	insertSubmissionErr error
	listErr             error
}

func (f *fakeStore) InsertSession(_ context.Context, sess Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertSessionErr != nil {
		return f.insertSessionErr
	}
	f.sessions = append(f.sessions, sess)
	return nil
}

func (f *fakeStore) ListSessions(_ context.Context) ([]Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]Session(nil), f.sessions...), nil
}

func (f *fakeStore) InsertSubmission(_ context.Context, sub Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertSubmissionErr != nil {
		return f.insertSubmissionErr
	}
	f.submissions = append(f.submissions, sub)
	return nil
}

func (f *fakeStore) ListSubmissions(_ context.Context) ([]Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]Submission(nil), f.submissions...), nil
}

func validProblemJSON() json.RawMessage {
	return json.RawMessage(`{
		"problem_text": "A baker sells 345 buns in the morning and 278 in the afternoon. How many buns are sold in total?",
		"final_answer": 623,
		"step_by_step_solution": ["Add the morning and afternoon sales.", "345 + 278 = 623.", "The baker sells 623 buns."]
	}`)
}

func feedbackJSON() json.RawMessage {
	return json.RawMessage(`{
		"feedback": "Nice try! Check your addition in the tens place.",
		"hint": "Add the ones first, then carry over."
	}`)
}

func newTestService(mock *llm.MockProvider, store *fakeStore) *Service {
	return NewService(mock, store, DefaultConfig(), nil)
}

func TestGenerate_Success(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validProblemJSON()})
	store := &fakeStore{}
	svc := newTestService(mock, store)

	got, err := svc.Generate(context.Background(), "easy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SessionID == "" {
		t.Error("expected a session id")
	}
	if len(got.SessionID) != DefaultConfig().SessionIDSize {
		t.Errorf("expected %d-char session id, got %d", DefaultConfig().SessionIDSize, len(got.SessionID))
	}
	if got.FinalAnswer != 623 {
		t.Errorf("expected final answer 623, got %v", got.FinalAnswer)
	}
	if len(got.StepByStepSolution) == 0 {
		t.Error("expected non-empty solution steps")
	}
	if len(store.sessions) != 1 {
		t.Fatalf("expected 1 stored session, got %d", len(store.sessions))
	}
	if store.sessions[0].ID != got.SessionID {
		t.Error("stored session id does not match response")
	}
	if store.sessions[0].CorrectAnswer != 623 {
		t.Errorf("stored answer = %v, want 623", store.sessions[0].CorrectAnswer)
	}
}

func TestGenerate_InvalidDifficulty_NoModelCall(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validProblemJSON()})
	svc := newTestService(mock, &fakeStore{})

	_, err := svc.Generate(context.Background(), "impossible")
	if !errors.Is(err, ErrInvalidDifficulty) {
		t.Fatalf("expected ErrInvalidDifficulty, got: %v", err)
	}
	if mock.CallCount() != 0 {
		t.Fatalf("model must not be called for invalid difficulty, got %d calls", mock.CallCount())
	}
}

func TestGenerate_DifficultyReachesPrompt(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validProblemJSON()})
	svc := newTestService(mock, &fakeStore{})

	if _, err := svc.Generate(context.Background(), "hard"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req := mock.Calls[0]
	if len(req.Messages) != 1 || !strings.Contains(req.Messages[0].Content, "Difficulty: hard") {
		t.Errorf("user message missing difficulty: %q", req.Messages[0].Content)
	}
	if !strings.Contains(req.System, "syllabus") {
		t.Error("system prompt missing syllabus")
	}
	if req.Schema != ProblemSchema {
		t.Error("expected ProblemSchema on the request")
	}
}

func TestGenerate_StoreFailureStillReturnsProblem(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validProblemJSON()})
	store := &fakeStore{insertSessionErr: errors.New("db down")}
	svc := newTestService(mock, store)

	got, err := svc.Generate(context.Background(), "medium")
	if err != nil {
		t.Fatalf("store failure must not abort generation: %v", err)
	}
	if got.ProblemText == "" || got.SessionID == "" {
		t.Error("expected a complete problem despite store failure")
	}
}

func TestGenerate_ModelFailure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrProviderUnavailable{Err: errors.New("boom")},
	})
	svc := newTestService(mock, &fakeStore{})

	_, err := svc.Generate(context.Background(), "easy")
	if err == nil {
		t.Fatal("expected error")
	}
	var unavail *llm.ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestSubmit_CorrectAnswer(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: feedbackJSON()})
	store := &fakeStore{}
	svc := newTestService(mock, store)

	res, err := svc.Submit(context.Background(), SubmitInput{
		SessionID:     "sess-1",
		ProblemText:   "What is 345 + 278?",
		CorrectAnswer: 623,
		Answer:        623,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsCorrect {
		t.Error("expected correct grade")
	}
	if res.Feedback == "" || res.Hint == "" {
		t.Error("expected feedback and hint")
	}
	if len(store.submissions) != 1 {
		t.Fatalf("expected 1 stored submission, got %d", len(store.submissions))
	}
	sub := store.submissions[0]
	if sub.SessionID != "sess-1" || !sub.IsCorrect || sub.SubmittedAnswer != 623 {
		t.Errorf("stored submission mismatch: %+v", sub)
	}
	if sub.ID == "" {
		t.Error("expected a submission id")
	}
}

func TestSubmit_WrongAnswer(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: feedbackJSON()})
	store := &fakeStore{}
	svc := newTestService(mock, store)

	res, err := svc.Submit(context.Background(), SubmitInput{
		SessionID:     "sess-1",
		CorrectAnswer: 623,
		Answer:        632,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsCorrect {
		t.Error("expected incorrect grade")
	}
	// The model is told the grade, it does not decide it.
	if !strings.Contains(mock.Calls[0].Messages[0].Content, "incorrect") {
		t.Error("grading prompt should state the attempt is incorrect")
	}
}

func TestSubmit_RepeatAttemptsBothPersist(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: feedbackJSON()},
		llm.MockResponse{Content: feedbackJSON()},
	)
	store := &fakeStore{}
	svc := newTestService(mock, store)

	in := SubmitInput{SessionID: "sess-1", CorrectAnswer: 10, Answer: 9}
	if _, err := svc.Submit(context.Background(), in); err != nil {
		t.Fatal(err)
	}
	in.Answer = 10
	if _, err := svc.Submit(context.Background(), in); err != nil {
		t.Fatal(err)
	}

	if len(store.submissions) != 2 {
		t.Fatalf("expected 2 stored submissions, got %d", len(store.submissions))
	}
	if store.submissions[0].ID == store.submissions[1].ID {
		t.Error("submissions must have distinct ids")
	}
}

func TestSubmit_StoreFailureStillReturnsGrade(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: feedbackJSON()})
	store := &fakeStore{insertSubmissionErr: errors.New("db down")}
	svc := newTestService(mock, store)

	res, err := svc.Submit(context.Background(), SubmitInput{
		SessionID:     "sess-1",
		CorrectAnswer: 5,
		Answer:        5,
	})
	if err != nil {
		t.Fatalf("store failure must not abort grading: %v", err)
	}
	if !res.IsCorrect {
		t.Error("expected correct grade")
	}
}

func TestSolution_Success(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"step_by_step_solution":["Divide 84 by 7.","84 / 7 = 12.","The answer is 12."]}`),
	})
	svc := newTestService(mock, &fakeStore{})

	steps, err := svc.Solution(context.Background(), "Share 84 sweets among 7 children.", 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(steps))
	}
	if mock.Calls[0].Schema != SolutionSchema {
		t.Error("expected SolutionSchema on the request")
	}
}

func TestHistory_JoinsStoredRows(t *testing.T) {
	store := &fakeStore{
		sessions: []Session{{ID: "a"}, {ID: "b"}},
		submissions: []Submission{
			{ID: "s1", SessionID: "a", IsCorrect: true},
			{ID: "s2", SessionID: "a", IsCorrect: false},
			{ID: "s3", SessionID: "x", IsCorrect: true},
		},
	}
	svc := newTestService(llm.NewMockProvider(), store)

	history, err := svc.History(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if len(history[0].Submissions) != 2 || len(history[1].Submissions) != 0 {
		t.Errorf("join mismatch: %d and %d submissions",
			len(history[0].Submissions), len(history[1].Submissions))
	}
}

func TestHistory_StoreFailure(t *testing.T) {
	store := &fakeStore{listErr: errors.New("db down")}
	svc := newTestService(llm.NewMockProvider(), store)

	if _, err := svc.History(context.Background()); err == nil {
		t.Fatal("expected error when store scan fails")
	}
}

func TestParseDifficulty(t *testing.T) {
	cases := []struct {
		in    string
		want  Difficulty
		valid bool
	}{
		{"easy", DifficultyEasy, true},
		{"medium", DifficultyMedium, true},
		{"hard", DifficultyHard, true},
		{"EASY", "", false},
		{"", "", false},
		{"extreme", "", false},
	}
	for _, tc := range cases {
		got, err := ParseDifficulty(tc.in)
		if tc.valid {
			if err != nil {
				t.Errorf("ParseDifficulty(%q): unexpected error %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("ParseDifficulty(%q) = %q, want %q", tc.in, got, tc.want)
			}
		} else if !errors.Is(err, ErrInvalidDifficulty) {
			t.Errorf("ParseDifficulty(%q): expected ErrInvalidDifficulty, got %v", tc.in, err)
		}
	}
}
