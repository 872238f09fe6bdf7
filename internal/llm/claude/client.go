// Package claude implements triage.Provider on the Anthropic Messages API.
package claude

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/only4dhanvi-ctrl/healthcare-email-backend/internal/triage"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-sonnet-4-20250514"

// Client implements the triage.Provider interface for the Claude API.
type Client struct {
	sdk   anthropic.Client
	model string
}

// New creates a new Claude API client with the given API key and model name.
// The SDK's automatic retries are disabled: a failed call is reported, not repeated.
func New(apiKey, model string, opts ...option.RequestOption) *Client {
	if model == "" {
		model = DefaultModel
	}
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	return &Client{
		sdk:   anthropic.NewClient(append(base, opts...)...),
		model: model,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Send submits a single user-role prompt and returns the text completion.
func (c *Client) Send(ctx context.Context, req *triage.LLMRequest) (*triage.LLMResponse, error) {
	msg, err := c.sdk.Messages.New(ctx, toSDKParams(c.model, req))
	if err != nil {
		return nil, err
	}
	return fromSDKResponse(msg), nil
}

func toSDKParams(model string, req *triage.LLMRequest) anthropic.MessageNewParams {
	return anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(req.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
}

// fromSDKResponse concatenates the text blocks of msg.
func fromSDKResponse(msg *anthropic.Message) *triage.LLMResponse {
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	var stop triage.StopReason
	switch msg.StopReason {
	case anthropic.StopReasonEndTurn:
		stop = triage.StopEnd
	case anthropic.StopReasonMaxTokens:
		stop = triage.StopMaxTokens
	default:
		stop = triage.StopReason(msg.StopReason)
	}

	return &triage.LLMResponse{
		Text:       b.String(),
		Model:      string(msg.Model),
		StopReason: stop,
		Usage: triage.Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
	}
}
