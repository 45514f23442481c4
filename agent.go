package a2anet

import "encoding/json"

// ResponseSchema requests structured output from the model. When set on an
// agent, the runner constrains the final message to match the schema.
type ResponseSchema struct {
	// Name identifies the schema to the provider.
	Name string
	// Description optionally explains the schema's purpose.
	Description string
	// Schema is the JSON Schema object the output must satisfy.
	Schema json.RawMessage
}

// Agent describes an LLM agent: its instructions, model, tools, and optional
// structured output shape. Agents are plain configuration; a Runner executes
// them.
type Agent struct {
	// Name identifies the agent in logs and transcripts.
	Name string
	// Instructions is the system prompt for the agent.
	Instructions string
	// Model selects the provider model. Empty uses the provider default.
	Model string
	// Tools the agent may invoke.
	Tools []Tool
	// OutputSchema, when non-nil, requests structured output for the final
	// message of each run.
	OutputSchema *ResponseSchema
}
