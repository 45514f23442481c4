package a2anet

import "context"

// StreamEventType identifies the kind of a run stream event.
type StreamEventType string

const (
	// StreamEventRunItem carries a newly produced transcript item.
	StreamEventRunItem StreamEventType = "run_item_stream_event"

	// StreamEventRawResponse carries raw provider output (token deltas).
	StreamEventRawResponse StreamEventType = "raw_response_event"

	// StreamEventAgentUpdated fires when control hands off to another agent.
	StreamEventAgentUpdated StreamEventType = "agent_updated_stream_event"
)

// StreamEvent is one event from a streaming run. Only StreamEventRunItem
// events carry an Item; consumers should ignore types they do not handle.
type StreamEvent struct {
	Type StreamEventType
	// Item is set for StreamEventRunItem events.
	Item Item
	// Delta is set for StreamEventRawResponse events.
	Delta string
	// AgentName is set for StreamEventAgentUpdated events.
	AgentName string
}

// RunResult is the outcome of a completed run.
type RunResult struct {
	// Input is the transcript the run started from.
	Input []Item
	// NewItems are the items the run produced, in order.
	NewItems []Item
	// FinalOutput is the agent's final output. When the agent has an
	// OutputSchema this is the raw JSON string; otherwise it is the text of
	// the final assistant message. Empty when the run produced no output.
	FinalOutput string
}

// History returns the full transcript: input followed by produced items.
func (r *RunResult) History() []Item {
	history := make([]Item, 0, len(r.Input)+len(r.NewItems))
	history = append(history, r.Input...)
	history = append(history, r.NewItems...)
	return history
}

// RunStream is a live view of an in-progress run. Events are delivered in
// production order; the channel closes when the run ends. Result blocks until
// the run completes and reports the outcome or the run's error.
type RunStream interface {
	Events() <-chan StreamEvent
	Result() (*RunResult, error)
}

// Runner drives an agent over an input transcript to completion. The runner
// owns prompt construction, model calls, and tool execution; callers consume
// its item stream and final result.
type Runner interface {
	// Run executes the agent to completion and returns the final result.
	Run(ctx context.Context, agent *Agent, input []Item) (*RunResult, error)

	// RunStream executes the agent, exposing items as they are produced.
	RunStream(ctx context.Context, agent *Agent, input []Item) (RunStream, error)
}
