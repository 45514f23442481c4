package runner

import (
	"context"

	a2anet "github.com/a2anet/a2anet-go"
)

// Request is a single model call: the full transcript so far plus the
// agent's configuration for this turn.
type Request struct {
	// Model names the model to invoke.
	Model string

	// System is the agent's instructions, sent as the system prompt.
	System string

	// Items is the transcript to send, oldest first.
	Items []a2anet.Item

	// Tools are the tool definitions the model may call.
	Tools []a2anet.Tool

	// Schema, when set, constrains the final response to a JSON object
	// matching the schema.
	Schema *a2anet.ResponseSchema
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	// ID is the provider's transcript identifier for the call, if any.
	ID string

	// CallID correlates the call with the result sent back next turn.
	CallID string

	Name      string
	Arguments string
}

// Response is the model's output for one turn. A response carries text,
// tool calls, or both; a response with no tool calls ends the run.
type Response struct {
	Content   string
	ToolCalls []ToolCall
}

// Provider executes one model turn. Implementations live in
// internal/provider and wrap a vendor SDK.
type Provider interface {
	Chat(ctx context.Context, req Request) (*Response, error)
}
