package llm

import (
	"strings"
	"testing"

	"github.com/only4dhanvi-ctrl/healthcare-email-backend/internal/llm/claude"
	"github.com/only4dhanvi-ctrl/healthcare-email-backend/internal/llm/openai"
)

func TestNewProvider(t *testing.T) {
	t.Parallel()

	p, err := NewProvider(ProviderClaude, "sk", "")
	if err != nil {
		t.Fatalf("NewProvider(claude): %v", err)
	}
	if _, ok := p.(*claude.Client); !ok {
		t.Errorf("claude provider type = %T", p)
	}

	p, err = NewProvider(ProviderOpenAI, "sk", "")
	if err != nil {
		t.Fatalf("NewProvider(openai): %v", err)
	}
	if _, ok := p.(*openai.Client); !ok {
		t.Errorf("openai provider type = %T", p)
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	t.Parallel()

	_, err := NewProvider("gemini", "sk", "")
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if !strings.Contains(err.Error(), "gemini") {
		t.Errorf("error = %q, want it to name the provider", err)
	}
}

func TestValidProvider(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"claude", "openai"} {
		if !ValidProvider(name) {
			t.Errorf("ValidProvider(%q) = false", name)
		}
	}
	for _, name := range []string{"", "Claude", "anthropic"} {
		if ValidProvider(name) {
			t.Errorf("ValidProvider(%q) = true", name)
		}
	}
}

func TestDefaultModel(t *testing.T) {
	t.Parallel()

	if DefaultModel(ProviderClaude) != claude.DefaultModel {
		t.Errorf("claude default = %q", DefaultModel(ProviderClaude))
	}
	if DefaultModel(ProviderOpenAI) != openai.DefaultModel {
		t.Errorf("openai default = %q", DefaultModel(ProviderOpenAI))
	}
}
