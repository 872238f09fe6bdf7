// internal/triage/engine.go
package triage

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"
)

var tracer = otel.Tracer("github.com/only4dhanvi-ctrl/healthcare-email-backend/internal/triage")

// Hooks receives lifecycle events for instrumentation. Nil fields are skipped.
type Hooks struct {
	OnLLMCall  func(inputTokens, outputTokens int, duration float64, err error)
	OnComplete func(e *CompleteEvent)
	OnNotify   func(err error)
}

// CompleteEvent describes a finished Analyze call, successful or not.
type CompleteEvent struct {
	Outcome   string
	Urgency   UrgencyLevel
	Model     string
	Duration  float64
	TokensIn  int
	TokensOut int
}

// RunResult is what the engine produced for one email.
type RunResult struct {
	Raw        json.RawMessage
	Analysis   *Analysis
	Model      string
	StopReason StopReason
	Usage      Usage
	LLMTime    float64
}

// Engine turns an email into a parsed analysis with exactly one provider call.
// It holds no per-call state and is safe for concurrent use.
type Engine struct {
	provider Provider
	logger   log.Logger
	hooks    Hooks
}

// NewEngine creates a new triage engine around the given provider.
func NewEngine(provider Provider, logger log.Logger, hooks Hooks) *Engine {
	if provider == nil {
		panic(xerrors.New("llm provider is required"))
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Engine{
		provider: provider,
		logger:   logger,
		hooks:    hooks,
	}
}

// Run sends the triage prompt for e to the provider, strips code fences from the
// reply and parses it as JSON. Provider failures are returned as *ProviderError,
// unparseable output as *ParseError. There are no retries.
func (e *Engine) Run(ctx context.Context, email *Email) (*RunResult, error) {
	prompt := buildPrompt(email)

	ctx, span := tracer.Start(ctx, "triage.Engine.Run", trace.WithAttributes(
		attribute.Int("triage.prompt_bytes", len(prompt)),
	))
	defer span.End()

	L := e.logger

	start := time.Now()
	resp, err := e.provider.Send(ctx, &LLMRequest{
		MaxTokens:   ResponseTokens,
		Temperature: Temperature,
		Prompt:      prompt,
	})
	llmTime := time.Since(start).Seconds()

	if e.hooks.OnLLMCall != nil {
		var in, out int
		if resp != nil {
			in, out = resp.Usage.InputTokens, resp.Usage.OutputTokens
		}
		e.hooks.OnLLMCall(in, out, llmTime, err)
	}

	if err != nil {
		L.Error(ctx, err, "llm call failed", "llm_seconds", llmTime)
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider error")
		return nil, &ProviderError{Err: err}
	}

	L.Info(ctx, "llm response",
		"model", resp.Model,
		"stop_reason", resp.StopReason,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"llm_seconds", llmTime,
	)
	if resp.StopReason == StopMaxTokens {
		L.Warn(ctx, "llm response truncated at token cap", "max_tokens", ResponseTokens)
	}

	span.SetAttributes(
		attribute.String("triage.model", resp.Model),
		attribute.Int("triage.tokens_in", resp.Usage.InputTokens),
		attribute.Int("triage.tokens_out", resp.Usage.OutputTokens),
	)

	text := cleanResponse(resp.Text)
	raw, err := parseJSON(text)
	if err != nil {
		L.Error(ctx, err, "llm output is not valid json", "output_bytes", len(text))
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse error")
		return nil, &ParseError{Err: err, Text: text}
	}

	rr := &RunResult{
		Raw:        raw,
		Analysis:   decodeAnalysis(raw),
		Model:      resp.Model,
		StopReason: resp.StopReason,
		Usage:      resp.Usage,
		LLMTime:    llmTime,
	}
	if rr.Analysis != nil {
		span.SetAttributes(attribute.String("triage.urgency", string(rr.Analysis.UrgencyLevel)))
	}
	return rr, nil
}

// parseJSON checks that text is a single well-formed JSON value and returns it as-is.
func parseJSON(text string) (json.RawMessage, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	return json.RawMessage(text), nil
}

// decodeAnalysis returns the typed view of raw, or nil when raw is not a JSON object.
// Fields are decoded independently so a malformed field does not hide the rest,
// in particular urgencyLevel.
func decodeAnalysis(raw json.RawMessage) *Analysis {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil
	}

	var a Analysis
	for key, dst := range map[string]any{
		"summary":        &a.Summary,
		"conditions":     &a.Conditions,
		"patientIntent":  &a.PatientIntent,
		"concerningInfo": &a.ConcerningInfo,
		"urgencyLevel":   &a.UrgencyLevel,
		"urgencyReason":  &a.UrgencyReason,
	} {
		if v, ok := fields[key]; ok {
			_ = json.Unmarshal(v, dst)
		}
	}
	return &a
}
