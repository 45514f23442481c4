// Package anthropic adapts the Anthropic Messages API to runner.Provider.
package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/a2anet/a2anet-go/runner"
)

// DefaultModel is used when neither the client nor the request names one.
const DefaultModel = "claude-sonnet-4-5"

const defaultMaxTokens = 4096

// Client wraps the Anthropic SDK to implement runner.Provider.
type Client struct {
	client *anthropic.Client
	model  string
}

// New creates a new Anthropic client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	c := &Client{
		client: &client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientOption configures the Anthropic client.
type ClientOption func(*Client)

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// Chat executes one model turn. When the request carries a response schema
// the model is forced through a synthetic tool whose input is the structured
// response; the tool input comes back as Content.
func (c *Client) Chat(ctx context.Context, req runner.Request) (*runner.Response, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	msgs := convertItems(req.Items)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: defaultMaxTokens,
		Messages:  msgs,
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	useJSONTool := req.Schema != nil
	if useJSONTool {
		jsonTool, jsonToolChoice := buildJSONTool(req.Schema)
		params.Tools = append(convertTools(req.Tools), jsonTool)
		params.ToolChoice = jsonToolChoice
	} else if len(req.Tools) > 0 {
		params.Tools = convertTools(req.Tools)
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	out := &runner.Response{}
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			out.Content += block.Text
		case "tool_use":
			if useJSONTool && block.Name == jsonResponseToolName {
				out.Content = string(block.Input)
				continue
			}
			out.ToolCalls = append(out.ToolCalls, runner.ToolCall{
				CallID:    block.ID,
				Name:      block.Name,
				Arguments: string(block.Input),
			})
		}
	}
	return out, nil
}

var _ runner.Provider = (*Client)(nil)
