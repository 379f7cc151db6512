// Package llm abstracts structured-output calls to generative AI providers.
//
// The rest of the application talks to a single Provider interface; which
// vendor actually serves the request is a configuration concern. Every
// structured response is validated against its JSON schema before it is
// handed back, so callers never see a partially conforming object.
package llm

import (
	"context"
	"encoding/json"
)

// Provider sends prompts to a generative model and returns structured JSON.
type Provider interface {
	// Generate performs one model call. When the request carries a Schema,
	// the returned Content is JSON validated against that schema; a response
	// failing validation is an error, never a partial result.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID reports the model identifier this provider is configured with.
	ModelID() string
}

// Request describes a single model invocation.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation. Problem generation, grading and
	// solution calls are all single-turn: one user message.
	Messages []Message

	// Schema, when set, selects the provider's native structured-output
	// mechanism and the response is validated against it.
	Schema *Schema

	// MaxTokens bounds the response length.
	MaxTokens int

	// Temperature in [0,1]. Zero means deterministic.
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role identifies the message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is the JSON Schema contract for a structured response.
type Schema struct {
	// Name identifies the schema to providers that require one
	// (OpenAI response format name). Kebab-case.
	Name string

	// Description tells the model what the object represents.
	Description string

	// Definition is the JSON Schema as a map.
	Definition map[string]any
}

// Response is the model's output.
type Response struct {
	// Content is schema-validated JSON when the request had a Schema,
	// raw text otherwise.
	Content json.RawMessage

	// Usage reports token consumption.
	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage tracks token consumption for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// resolveModel maps a friendly model name to a provider model ID, passing
// unknown names through so direct IDs keep working.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
