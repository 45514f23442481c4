// Package openai adapts the OpenAI chat completions API to runner.Provider.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/a2anet/a2anet-go/runner"
)

// DefaultModel is used when neither the client nor the request names one.
const DefaultModel = "gpt-4o"

// Client wraps the OpenAI SDK to implement runner.Provider.
type Client struct {
	client *openai.Client
	model  string
}

// New creates a new OpenAI client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	c := &Client{
		client: &client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientOption configures the OpenAI client.
type ClientOption func(*Client)

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		client := openai.NewClient(option.WithBaseURL(baseURL))
		c.client = &client
	}
}

// Chat executes one model turn.
func (c *Client) Chat(ctx context.Context, req runner.Request) (*runner.Response, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: convertItems(req.System, req.Items),
	}
	if len(req.Tools) > 0 {
		params.Tools = convertTools(req.Tools)
	}
	if req.Schema != nil {
		params.ResponseFormat = schemaResponseFormat(req.Schema)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: response has no choices")
	}

	msg := resp.Choices[0].Message
	out := &runner.Response{Content: msg.Content}
	for _, tc := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, runner.ToolCall{
			CallID:    tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return out, nil
}

var _ runner.Provider = (*Client)(nil)
