package problems

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/mathtrail/mathtrail/internal/llm"
	"github.com/mathtrail/mathtrail/internal/nanoid"
)

// answerTolerance absorbs float representation noise when comparing a
// submitted answer against the answer key.
const answerTolerance = 1e-9

// Service implements problem generation, grading, solution reveal and
// history assembly on top of a model provider and a store.
type Service struct {
	provider llm.Provider
	store    Store
	cfg      Config
	logger   *slog.Logger
}

// NewService creates a Service. logger may be nil.
func NewService(provider llm.Provider, store Store, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{provider: provider, store: store, cfg: cfg, logger: logger}
}

// problemOutput is the raw model response for generation.
type problemOutput struct {
	ProblemText        string   `json:"problem_text"`
	FinalAnswer        float64  `json:"final_answer"`
	StepByStepSolution []string `json:"step_by_step_solution"`
}

// Generate validates the difficulty, asks the model for a syllabus-bound
// problem and records a new session.
//
// A store failure is logged but does not abort the response: the generated
// problem is worth more to the student than its history record.
func (s *Service) Generate(ctx context.Context, difficulty string) (*GeneratedProblem, error) {
	diff, err := ParseDifficulty(difficulty)
	if err != nil {
		return nil, err
	}

	ctx = llm.WithPurpose(ctx, "problem-gen")

	req := llm.Request{
		System: generationSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildGenerationMessage(diff)},
		},
		Schema:      ProblemSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("problem generation: %w", err)
	}

	var out problemOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse problem response: %w", err)
	}

	sessionID, err := nanoid.New(s.cfg.SessionIDSize)
	if err != nil {
		return nil, fmt.Errorf("session id: %w", err)
	}

	if err := s.store.InsertSession(ctx, Session{
		ID:            sessionID,
		ProblemText:   out.ProblemText,
		CorrectAnswer: out.FinalAnswer,
	}); err != nil {
		s.logger.Warn("session not persisted, returning problem anyway",
			"session_id", sessionID, "error", err)
	}

	return &GeneratedProblem{
		SessionID:          sessionID,
		ProblemText:        out.ProblemText,
		FinalAnswer:        out.FinalAnswer,
		StepByStepSolution: out.StepByStepSolution,
	}, nil
}

// feedbackOutput is the raw model response for grading.
type feedbackOutput struct {
	Feedback string `json:"feedback"`
	Hint     string `json:"hint"`
}

// Submit grades an attempt against the answer key, asks the model for
// feedback prose and records the submission. Correctness is decided here,
// not by the model. Persistence failures are logged, not fatal, matching
// the generation write path.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*GradeResult, error) {
	isCorrect := math.Abs(in.Answer-in.CorrectAnswer) <= answerTolerance

	ctx = llm.WithPurpose(ctx, "grading")

	req := llm.Request{
		System: gradingSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildGradingMessage(in, isCorrect)},
		},
		Schema:      FeedbackSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("grading feedback: %w", err)
	}

	var out feedbackOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse feedback response: %w", err)
	}

	if err := s.store.InsertSubmission(ctx, Submission{
		ID:              uuid.NewString(),
		SessionID:       in.SessionID,
		SubmittedAnswer: in.Answer,
		IsCorrect:       isCorrect,
		Feedback:        out.Feedback,
	}); err != nil {
		s.logger.Warn("submission not persisted, returning grade anyway",
			"session_id", in.SessionID, "error", err)
	}

	return &GradeResult{
		Feedback:  out.Feedback,
		Hint:      out.Hint,
		IsCorrect: isCorrect,
	}, nil
}

// solutionOutput is the raw model response for solution reveal.
type solutionOutput struct {
	StepByStepSolution []string `json:"step_by_step_solution"`
}

// Solution produces a worked solution for an already generated problem.
// Nothing is persisted.
func (s *Service) Solution(ctx context.Context, problemText string, finalAnswer float64) ([]string, error) {
	ctx = llm.WithPurpose(ctx, "solution")

	req := llm.Request{
		System: solutionSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildSolutionMessage(problemText, finalAnswer)},
		},
		Schema:      SolutionSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("solution generation: %w", err)
	}

	var out solutionOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse solution response: %w", err)
	}

	return out.StepByStepSolution, nil
}

// History fetches all sessions and submissions and joins them in-process.
func (s *Service) History(ctx context.Context) ([]HistoryEntry, error) {
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	submissions, err := s.store.ListSubmissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return BuildHistory(sessions, submissions), nil
}
