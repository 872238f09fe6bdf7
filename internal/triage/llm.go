// internal/triage/llm.go
package triage

import "context"

// Provider is the interface for any LLM backend. Implementations hold no
// per-call state and are safe for concurrent use.
type Provider interface {
	Send(ctx context.Context, req *LLMRequest) (*LLMResponse, error)
}

// LLMRequest is a single-turn completion request: one user-role prompt plus generation parameters.
type LLMRequest struct {
	MaxTokens   int
	Temperature float64
	Prompt      string
}

// LLMResponse is the text completion returned by the provider, with stop reason and token usage.
type LLMResponse struct {
	Text       string
	Model      string
	StopReason StopReason
	Usage      Usage
}

// StopReason indicates why the LLM stopped generating content.
type StopReason string

const (
	StopEnd       StopReason = "end_turn"
	StopMaxTokens StopReason = "max_tokens"
)

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}
