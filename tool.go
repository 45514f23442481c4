package a2anet

import (
	"context"
	"encoding/json"
)

// ToolHandler executes a tool call. Arguments arrive as the raw JSON string
// produced by the model; the handler returns the result content for the model.
type ToolHandler func(ctx context.Context, arguments string) (string, error)

// Tool defines a function the model can invoke during a run.
type Tool struct {
	// Name is the unique identifier for the tool.
	Name string
	// Description explains what the tool does (helps the model decide when to use it).
	Description string
	// Parameters is a JSON Schema object defining the function parameters.
	Parameters json.RawMessage
	// Handler executes the tool. A nil handler marks a tool the runtime
	// cannot execute itself (e.g. hosted or client-side tools).
	Handler ToolHandler
}

// NewTool creates a tool with the given schema and handler.
func NewTool(name, description string, parameters json.RawMessage, handler ToolHandler) Tool {
	return Tool{
		Name:        name,
		Description: description,
		Parameters:  parameters,
		Handler:     handler,
	}
}
