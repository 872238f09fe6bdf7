// Package openai implements triage.Provider on the OpenAI chat completions API.
package openai

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"

	"github.com/only4dhanvi-ctrl/healthcare-email-backend/internal/triage"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// errNoChoices is returned when the API answers without any completion.
var errNoChoices = errors.New("openai: completion returned no choices")

// Client calls the OpenAI API for triage completions.
type Client struct {
	client *openai.Client
	model  string
}

// New constructs an OpenAI-backed provider. baseURL overrides the API endpoint when non-empty.
func New(apiKey, model, baseURL string) *Client {
	if model == "" {
		model = DefaultModel
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Send submits a single user message and returns the first choice.
func (c *Client) Send(ctx context.Context, req *triage.LLMRequest) (*triage.LLMResponse, error) {
	resp, err := c.client.CreateChatCompletion(ctx, toChatRequest(c.model, req))
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errNoChoices
	}

	choice := resp.Choices[0]
	stop := triage.StopReason(choice.FinishReason)
	switch choice.FinishReason {
	case openai.FinishReasonStop:
		stop = triage.StopEnd
	case openai.FinishReasonLength:
		stop = triage.StopMaxTokens
	}

	model := resp.Model
	if model == "" {
		model = c.model
	}

	return &triage.LLMResponse{
		Text:       choice.Message.Content,
		Model:      model,
		StopReason: stop,
		Usage: triage.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

func toChatRequest(model string, req *triage.LLMRequest) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:       model,
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	}
}
