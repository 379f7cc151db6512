package problems

import "github.com/mathtrail/mathtrail/internal/llm"

// ProblemSchema is the structured-output contract for problem generation.
var ProblemSchema = &llm.Schema{
	Name:        "word-problem",
	Description: "A single primary-school math word problem with its answer and worked solution",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"problem_text": map[string]any{
				"type":        "string",
				"description": "The word problem shown to the student, in plain ASCII text",
			},
			"final_answer": map[string]any{
				"type":        "number",
				"description": "The single numeric final answer",
			},
			"step_by_step_solution": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
				},
				"description": "Ordered solution steps a child can follow",
			},
		},
		"required":             []any{"problem_text", "final_answer", "step_by_step_solution"},
		"additionalProperties": false,
	},
}

// FeedbackSchema is the structured-output contract for grading feedback.
var FeedbackSchema = &llm.Schema{
	Name:        "answer-feedback",
	Description: "Encouraging feedback and a hint for a student's attempt",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"feedback": map[string]any{
				"type":        "string",
				"description": "Short age-appropriate feedback on the attempt",
			},
			"hint": map[string]any{
				"type":        "string",
				"description": "A nudge toward the right approach; must not reveal the final answer for wrong attempts",
			},
		},
		"required":             []any{"feedback", "hint"},
		"additionalProperties": false,
	},
}

// SolutionSchema is the structured-output contract for revealed solutions.
var SolutionSchema = &llm.Schema{
	Name:        "worked-solution",
	Description: "An ordered step-by-step solution to a word problem",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"step_by_step_solution": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
				},
				"description": "Ordered solution steps ending with the final answer",
			},
		},
		"required":             []any{"step_by_step_solution"},
		"additionalProperties": false,
	},
}
