package cfg

import (
	"errors"
	"flag"
	"fmt"

	"github.com/only4dhanvi-ctrl/healthcare-email-backend/internal/llm"
	"github.com/only4dhanvi-ctrl/healthcare-email-backend/internal/triage"
)

// Config holds the application-specific settings, alongside the
// go-core package configs registered by main
type Config struct {
	DrainSeconds          int
	ShutdownBudgetSeconds int
	APIPort               int
	Provider              string
	ClaudeAPIKey          string
	ClaudeModel           string
	OpenAIAPIKey          string
	OpenAIModel           string
	AnalyzeTimeoutSeconds int
	APIToken              string
	RateLimit             float64
	RateBurst             int
	SlackWebhookURL       string
	NotifyMinUrgency      string
}

// RegisterFlags binds Config fields to the given FlagSet with defaults inline
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.DrainSeconds, "drain-seconds", 5, "seconds to wait for in-flight requests to drain before shutdown (1..300)")
	fs.IntVar(&c.ShutdownBudgetSeconds, "shutdown-budget-seconds", 30, "total seconds for component shutdown after drain (1..300)")
	fs.IntVar(&c.APIPort, "http-port", 8080, "API listen TCP port (1..65535)")
	fs.StringVar(&c.Provider, "provider", string(llm.ProviderClaude), "LLM provider (claude, openai)")
	fs.StringVar(&c.ClaudeAPIKey, "claude-api-key", "", "API key for accessing the Claude LLM provider")
	fs.StringVar(&c.ClaudeModel, "claude-model", llm.DefaultModel(llm.ProviderClaude), "Claude model to use")
	fs.StringVar(&c.OpenAIAPIKey, "openai-api-key", "", "API key for accessing the OpenAI LLM provider")
	fs.StringVar(&c.OpenAIModel, "openai-model", llm.DefaultModel(llm.ProviderOpenAI), "OpenAI model to use")
	fs.IntVar(&c.AnalyzeTimeoutSeconds, "analyze-timeout-seconds", 60, "upper bound on a single analysis in seconds, 0 disables (0..600)")
	fs.StringVar(&c.APIToken, "api-token", "", "bearer token required on POST / (empty = no auth)")
	fs.Float64Var(&c.RateLimit, "rate-limit", 0, "analyze requests per second across all clients (0 = unlimited)")
	fs.IntVar(&c.RateBurst, "rate-burst", 10, "burst size for rate-limit")
	fs.StringVar(&c.SlackWebhookURL, "slack-webhook-url", "", "Slack webhook URL for urgent email notifications")
	fs.StringVar(&c.NotifyMinUrgency, "notify-min-urgency", string(triage.UrgencyHigh), "lowest urgency level that triggers a notification (low, medium, high, critical)")
}

// envFallbacks maps flags to conventional unprefixed environment variables.
var envFallbacks = []struct {
	flag string
	env  string
}{
	{"http-port", "PORT"},
	{"claude-api-key", "ANTHROPIC_API_KEY"},
	{"openai-api-key", "OPENAI_API_KEY"},
}

// ApplyEnvFallbacks fills flags not already set (by cmdline or prefixed env)
// from their conventional unprefixed environment variables.
func ApplyEnvFallbacks(fs *flag.FlagSet, lookup func(string) (string, bool)) error {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	var errs []error
	for _, fb := range envFallbacks {
		f := fs.Lookup(fb.flag)
		if set[fb.flag] || f == nil {
			continue
		}
		v, ok := lookup(fb.env)
		if !ok || v == "" {
			continue
		}
		prev := f.Value.String()
		if err := fs.Set(fb.flag, v); err != nil {
			// flag.Value.Set may clobber the target before failing
			_ = f.Value.Set(prev)
			errs = append(errs, fmt.Errorf("invalid %s %q: %w", fb.env, v, err))
		}
	}
	return errors.Join(errs...)
}

// AnalyzeAPIKey returns the credential for the selected provider.
func (c *Config) AnalyzeAPIKey() string {
	if c.Provider == string(llm.ProviderOpenAI) {
		return c.OpenAIAPIKey
	}
	return c.ClaudeAPIKey
}

// AnalyzeModel returns the model for the selected provider.
func (c *Config) AnalyzeModel() string {
	if c.Provider == string(llm.ProviderOpenAI) {
		return c.OpenAIModel
	}
	return c.ClaudeModel
}

// Validate checks all configuration fields for correctness.
// It returns an error if any field is invalid, or nil if all fields are valid.
func (c *Config) Validate() error {
	var errs []error

	// Drain and shutdown budgets
	if c.DrainSeconds <= 0 || c.DrainSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid DRAIN_SECONDS %d (must be 1..300)", c.DrainSeconds))
	}
	if c.ShutdownBudgetSeconds <= 0 || c.ShutdownBudgetSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid SHUTDOWN_BUDGET_SECONDS %d (must be 1..300)", c.ShutdownBudgetSeconds))
	}

	// Shutdown budget must be greater than drain time
	if c.ShutdownBudgetSeconds <= c.DrainSeconds {
		errs = append(errs, fmt.Errorf("SHUTDOWN_BUDGET_SECONDS %d must be greater than DRAIN_SECONDS %d", c.ShutdownBudgetSeconds, c.DrainSeconds))
	}

	// API port must be valid TCP port number
	if c.APIPort <= 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP_PORT %d (must be 1..65535)", c.APIPort))
	}

	switch llm.ProviderName(c.Provider) {
	case llm.ProviderClaude:
		if c.ClaudeAPIKey == "" {
			errs = append(errs, errors.New("CLAUDE_API_KEY (or ANTHROPIC_API_KEY) is required"))
		}
		if c.ClaudeModel == "" {
			errs = append(errs, errors.New("CLAUDE_MODEL is required"))
		}
	case llm.ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required"))
		}
		if c.OpenAIModel == "" {
			errs = append(errs, errors.New("OPENAI_MODEL is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid PROVIDER %q (must be one of %v)", c.Provider, llm.Providers))
	}

	if c.AnalyzeTimeoutSeconds < 0 || c.AnalyzeTimeoutSeconds > 600 {
		errs = append(errs, fmt.Errorf("invalid ANALYZE_TIMEOUT_SECONDS %d (must be 0..600)", c.AnalyzeTimeoutSeconds))
	}

	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("invalid RATE_LIMIT %v (must be >= 0)", c.RateLimit))
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		errs = append(errs, fmt.Errorf("invalid RATE_BURST %d (must be >= 1 when RATE_LIMIT is set)", c.RateBurst))
	}

	if _, ok := triage.ParseUrgencyLevel(c.NotifyMinUrgency); !ok {
		errs = append(errs, fmt.Errorf("invalid NOTIFY_MIN_URGENCY %q (must be low, medium, high or critical)", c.NotifyMinUrgency))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
