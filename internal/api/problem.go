package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mathtrail/mathtrail/internal/problems"
)

// ProblemService is the domain surface the handlers consume.
type ProblemService interface {
	Generate(ctx context.Context, difficulty string) (*problems.GeneratedProblem, error)
	Submit(ctx context.Context, in problems.SubmitInput) (*problems.GradeResult, error)
	Solution(ctx context.Context, problemText string, finalAnswer float64) ([]string, error)
	History(ctx context.Context) ([]problems.HistoryEntry, error)
}

// RegisterRoutes registers the problem and history routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/problem", h.GenerateProblem)
	r.Post("/problem/submit", h.SubmitAnswer)
	r.Post("/problem/solution", h.RevealSolution)
	r.Get("/history", h.GetHistory)
}

type generateRequest struct {
	Difficulty string `json:"difficulty"`
}

type generateResponse struct {
	SessionID          string   `json:"sessionId"`
	ProblemText        string   `json:"problem_text"`
	FinalAnswer        float64  `json:"final_answer"`
	StepByStepSolution []string `json:"step_by_step_solution"`
}

// GenerateProblem handles POST /problem.
//
// An out-of-range difficulty is a soft failure: HTTP 200 with
// {"success": false}. Clients check the flag, not the status code.
func (h *Handler) GenerateProblem(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !h.decode(w, r, &req) {
		return
	}

	problem, err := h.svc.Generate(r.Context(), req.Difficulty)
	if err != nil {
		if errors.Is(err, problems.ErrInvalidDifficulty) {
			JSON(w, http.StatusOK, map[string]bool{"success": false})
			return
		}
		h.logger.Error("problem generation failed", "error", err)
		Error(w, http.StatusBadGateway, msgGenerateFailed)
		return
	}

	JSON(w, http.StatusOK, generateResponse{
		SessionID:          problem.SessionID,
		ProblemText:        problem.ProblemText,
		FinalAnswer:        problem.FinalAnswer,
		StepByStepSolution: problem.StepByStepSolution,
	})
}

type submitRequest struct {
	SessionID   string  `json:"sessionId"`
	ProblemText string  `json:"problem_text"`
	FinalAnswer float64 `json:"final_answer"`
	Answer      float64 `json:"answer"`
}

type submitResponse struct {
	Feedback  string `json:"feedback"`
	Hint      string `json:"hint"`
	IsCorrect bool   `json:"isCorrect"`
}

// SubmitAnswer handles POST /problem/submit.
func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.svc.Submit(r.Context(), problems.SubmitInput{
		SessionID:     req.SessionID,
		ProblemText:   req.ProblemText,
		CorrectAnswer: req.FinalAnswer,
		Answer:        req.Answer,
	})
	if err != nil {
		h.logger.Error("answer submission failed", "session_id", req.SessionID, "error", err)
		Error(w, http.StatusBadGateway, msgSubmitFailed)
		return
	}

	JSON(w, http.StatusOK, submitResponse{
		Feedback:  res.Feedback,
		Hint:      res.Hint,
		IsCorrect: res.IsCorrect,
	})
}

type solutionRequest struct {
	ProblemText string  `json:"problem_text"`
	FinalAnswer float64 `json:"final_answer"`
}

type solutionResponse struct {
	StepByStepSolution []string `json:"step_by_step_solution"`
}

// RevealSolution handles POST /problem/solution.
func (h *Handler) RevealSolution(w http.ResponseWriter, r *http.Request) {
	var req solutionRequest
	if !h.decode(w, r, &req) {
		return
	}

	steps, err := h.svc.Solution(r.Context(), req.ProblemText, req.FinalAnswer)
	if err != nil {
		h.logger.Error("solution generation failed", "error", err)
		Error(w, http.StatusBadGateway, msgGenerateFailed)
		return
	}

	JSON(w, http.StatusOK, solutionResponse{StepByStepSolution: steps})
}

type historySubmission struct {
	SubmittedAnswer float64 `json:"submitted_answer"`
	IsCorrect       bool    `json:"is_correct"`
	Feedback        string  `json:"feedback"`
}

type historyEntry struct {
	ID            string              `json:"id"`
	ProblemText   string              `json:"problem_text"`
	CorrectAnswer float64             `json:"correct_answer"`
	Submissions   []historySubmission `json:"submissions"`
}

type historyResponse struct {
	History []historyEntry `json:"history"`
}

// GetHistory handles GET /history.
//
// A store failure at the read path is surfaced silently: the client gets an
// empty history rather than an error payload.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.History(r.Context())
	if err != nil {
		h.logger.Error("history fetch failed", "error", err)
		JSON(w, http.StatusOK, historyResponse{History: []historyEntry{}})
		return
	}

	out := make([]historyEntry, 0, len(entries))
	for _, e := range entries {
		subs := make([]historySubmission, 0, len(e.Submissions))
		for _, sub := range e.Submissions {
			subs = append(subs, historySubmission{
				SubmittedAnswer: sub.SubmittedAnswer,
				IsCorrect:       sub.IsCorrect,
				Feedback:        sub.Feedback,
			})
		}
		out = append(out, historyEntry{
			ID:            e.ID,
			ProblemText:   e.ProblemText,
			CorrectAnswer: e.CorrectAnswer,
			Submissions:   subs,
		})
	}

	JSON(w, http.StatusOK, historyResponse{History: out})
}
