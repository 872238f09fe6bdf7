// Package llm selects the model provider backend by name.
package llm

import (
	"fmt"

	"github.com/only4dhanvi-ctrl/healthcare-email-backend/internal/llm/claude"
	"github.com/only4dhanvi-ctrl/healthcare-email-backend/internal/llm/openai"
	"github.com/only4dhanvi-ctrl/healthcare-email-backend/internal/triage"
)

// ProviderName identifies an LLM backend.
type ProviderName string

const (
	ProviderClaude ProviderName = "claude"
	ProviderOpenAI ProviderName = "openai"
)

// Providers lists the supported backends.
var Providers = []ProviderName{ProviderClaude, ProviderOpenAI}

// ValidProvider reports whether name is a supported backend.
func ValidProvider(name string) bool {
	for _, p := range Providers {
		if string(p) == name {
			return true
		}
	}
	return false
}

// DefaultModel returns the model used for name when none is configured.
func DefaultModel(name ProviderName) string {
	switch name {
	case ProviderOpenAI:
		return openai.DefaultModel
	default:
		return claude.DefaultModel
	}
}

// NewProvider builds the provider client for name. The client is created once
// and shared by all requests.
func NewProvider(name ProviderName, apiKey, model string) (triage.Provider, error) {
	switch name {
	case ProviderClaude:
		return claude.New(apiKey, model), nil
	case ProviderOpenAI:
		return openai.New(apiKey, model, ""), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q (want one of %v)", name, Providers)
	}
}
