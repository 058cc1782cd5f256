// Package llm talks to hosted language models and returns schema-checked JSON.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one reply per request. When the request carries a
// Schema the reply Content has already been validated against it.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

// Role is the sender of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Request is a single-shot prompt. Question generation never needs more
// than one user turn, but Messages keeps room for a seeded exchange.
type Request struct {
	System   string
	Messages []Message

	// Schema selects the provider's native structured output. Nil means
	// Content comes back as raw text.
	Schema *Schema

	MaxTokens   int
	Temperature float64 // 0 keeps generation deterministic
}

// Schema is a named JSON Schema document. Name keys the compiled-schema
// cache, so two schemas must not share one.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// StopReason is a provider-neutral account of why generation stopped.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string // the model that actually answered
	StopReason StopReason
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total is input plus output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}
