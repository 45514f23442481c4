// Package runner provides the reference a2anet.Runner implementation: a
// bounded tool-calling loop over a Provider.
//
// Each turn sends the transcript to the model. When the model requests tool
// calls the runner executes them through the agent's tool handlers, appends
// the calls and their results to the transcript, and goes around again. A
// response without tool calls ends the run; its content is the final output.
// Runs that exceed the turn limit fail with a2anet.ErrMaxTurns.
//
// Providers adapt vendor SDKs to the single-turn Chat interface; see
// internal/provider for the OpenAI and Anthropic implementations.
package runner
