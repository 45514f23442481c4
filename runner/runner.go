package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	a2anet "github.com/a2anet/a2anet-go"
)

// Runner drives an agent to completion against a Provider: it calls the
// model, executes the tool calls the model requests, feeds the results back,
// and repeats until the model responds without tool calls or the turn limit
// is reached.
type Runner struct {
	provider Provider
	opts     Options
}

// New creates a Runner backed by the given provider.
func New(provider Provider, opts ...Option) *Runner {
	return &Runner{
		provider: provider,
		opts:     applyOptions(opts...),
	}
}

// Run executes the agent to completion and returns the final result.
// This is a blocking call.
func (r *Runner) Run(ctx context.Context, agent *a2anet.Agent, input []a2anet.Item) (*a2anet.RunResult, error) {
	stream, err := r.RunStream(ctx, agent, input)
	if err != nil {
		return nil, err
	}
	for range stream.Events() {
	}
	return stream.Result()
}

// RunStream executes the agent loop in the background and returns a stream
// of items as they are produced. Callers should drain the event channel;
// Result blocks until the run ends.
func (r *Runner) RunStream(ctx context.Context, agent *a2anet.Agent, input []a2anet.Item) (a2anet.RunStream, error) {
	if agent == nil {
		return nil, errors.New("runner: nil agent")
	}

	s := &stream{
		events: make(chan a2anet.StreamEvent, 100),
		done:   make(chan struct{}),
	}

	go r.runLoop(ctx, agent, input, s)

	return s, nil
}

func (r *Runner) runLoop(ctx context.Context, agent *a2anet.Agent, input []a2anet.Item, s *stream) {
	defer close(s.done)
	defer close(s.events)

	result := &a2anet.RunResult{Input: input}

	transcript := make([]a2anet.Item, 0, len(input))
	transcript = append(transcript, input...)

	turn := 0

	for {
		turn++

		if r.opts.MaxTurns > 0 && turn > r.opts.MaxTurns {
			s.err = a2anet.ErrMaxTurns
			return
		}
		if ctx.Err() != nil {
			s.err = ctx.Err()
			return
		}

		response, err := r.provider.Chat(ctx, Request{
			Model:  agent.Model,
			System: agent.Instructions,
			Items:  transcript,
			Tools:  agent.Tools,
			Schema: agent.OutputSchema,
		})
		if err != nil {
			s.err = fmt.Errorf("runner: turn %d: %w", turn, err)
			return
		}

		if response.Content != "" {
			item := a2anet.MessageOutput{
				ID: a2anet.GenerateMessageID(),
				Content: []a2anet.OutputContent{
					{Kind: a2anet.OutputText, Text: response.Content},
				},
			}
			transcript = append(transcript, item)
			result.NewItems = append(result.NewItems, item)
			s.emit(item)
		}

		// No tool calls = natural completion.
		if len(response.ToolCalls) == 0 {
			result.FinalOutput = response.Content
			s.result = result
			return
		}

		for _, pair := range r.executeToolCalls(ctx, agent, response.ToolCalls) {
			transcript = append(transcript, pair.call)
			result.NewItems = append(result.NewItems, pair.call)
			s.emit(pair.call)

			transcript = append(transcript, pair.output)
			result.NewItems = append(result.NewItems, pair.output)
			s.emit(pair.output)
		}
	}
}

type toolCallResult struct {
	call   a2anet.ToolCall
	output a2anet.ToolCallOutput
}

// executeToolCalls runs the turn's tool calls, concurrently when enabled,
// and returns the results in the model's request order.
func (r *Runner) executeToolCalls(ctx context.Context, agent *a2anet.Agent, calls []ToolCall) []toolCallResult {
	results := make([]toolCallResult, len(calls))

	if r.opts.ParallelToolCalls && len(calls) > 1 {
		var wg sync.WaitGroup
		for i, tc := range calls {
			wg.Add(1)
			go func(idx int, call ToolCall) {
				defer wg.Done()
				results[idx].call, results[idx].output = r.executeToolCall(ctx, agent, call)
			}(i, tc)
		}
		wg.Wait()
		return results
	}

	for i, tc := range calls {
		results[i].call, results[i].output = r.executeToolCall(ctx, agent, tc)
	}
	return results
}

func (r *Runner) executeToolCall(ctx context.Context, agent *a2anet.Agent, tc ToolCall) (a2anet.ToolCall, a2anet.ToolCallOutput) {
	callID := tc.CallID
	if callID == "" {
		callID = uuid.New().String()
	}
	itemID := tc.ID
	if itemID == "" {
		itemID = "item-" + uuid.New().String()
	}

	call := a2anet.ToolCall{
		Type:      a2anet.ToolCallFunction,
		ID:        itemID,
		CallID:    callID,
		Name:      tc.Name,
		Arguments: tc.Arguments,
	}

	content, err := r.invokeHandler(ctx, agent, tc)
	if err != nil {
		// Failures go back to the model as the tool's result.
		content = err.Error()
	}

	output := a2anet.ToolCallOutput{
		Type:   a2anet.ToolOutputFunction,
		ID:     "item-" + uuid.New().String(),
		CallID: callID,
		Name:   tc.Name,
		Output: a2anet.ToolOutput{Type: a2anet.ToolOutputText, Text: content},
	}

	return call, output
}

func (r *Runner) invokeHandler(ctx context.Context, agent *a2anet.Agent, tc ToolCall) (string, error) {
	var tool *a2anet.Tool
	for i := range agent.Tools {
		if agent.Tools[i].Name == tc.Name {
			tool = &agent.Tools[i]
			break
		}
	}
	if tool == nil || tool.Handler == nil {
		return "", fmt.Errorf("tool %q not found", tc.Name)
	}

	if r.opts.ToolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.ToolTimeout)
		defer cancel()
	}

	return tool.Handler(ctx, tc.Arguments)
}

// stream implements a2anet.RunStream over a background runLoop.
type stream struct {
	events chan a2anet.StreamEvent
	done   chan struct{}

	// result and err are written by runLoop before done is closed.
	result *a2anet.RunResult
	err    error
}

func (s *stream) emit(item a2anet.Item) {
	s.events <- a2anet.StreamEvent{Type: a2anet.StreamEventRunItem, Item: item}
}

func (s *stream) Events() <-chan a2anet.StreamEvent { return s.events }

func (s *stream) Result() (*a2anet.RunResult, error) {
	<-s.done
	return s.result, s.err
}

var _ a2anet.Runner = (*Runner)(nil)
var _ a2anet.RunStream = (*stream)(nil)
