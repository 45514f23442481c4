package a2a

import (
	"context"
	"errors"
	"testing"
	"time"

	a2anet "github.com/a2anet/a2anet-go"
)

// fakeRunner is a scriptable a2anet.Runner for testing.
type fakeRunner struct {
	runFunc       func(ctx context.Context, agent *a2anet.Agent, input []a2anet.Item) (*a2anet.RunResult, error)
	runStreamFunc func(ctx context.Context, agent *a2anet.Agent, input []a2anet.Item) (a2anet.RunStream, error)
}

func (r *fakeRunner) Run(ctx context.Context, agent *a2anet.Agent, input []a2anet.Item) (*a2anet.RunResult, error) {
	if r.runFunc != nil {
		return r.runFunc(ctx, agent, input)
	}
	return &a2anet.RunResult{Input: input}, nil
}

func (r *fakeRunner) RunStream(ctx context.Context, agent *a2anet.Agent, input []a2anet.Item) (a2anet.RunStream, error) {
	if r.runStreamFunc != nil {
		return r.runStreamFunc(ctx, agent, input)
	}
	return &fakeStream{result: &a2anet.RunResult{Input: input}}, nil
}

// fakeStream replays a fixed item sequence as a run stream.
type fakeStream struct {
	items  []a2anet.Item
	result *a2anet.RunResult
	err    error
}

func (s *fakeStream) Events() <-chan a2anet.StreamEvent {
	ch := make(chan a2anet.StreamEvent, len(s.items)+1)
	for _, it := range s.items {
		ch <- a2anet.StreamEvent{Type: a2anet.StreamEventRunItem, Item: it}
	}
	close(ch)
	return ch
}

func (s *fakeStream) Result() (*a2anet.RunResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.result == nil {
		s.result = &a2anet.RunResult{}
	}
	return s.result, nil
}

// liveStream exposes a caller-owned channel as a run stream, so tests can
// drive a producer goroutine while the executor consumes.
type liveStream struct {
	ch chan a2anet.StreamEvent
}

func (s *liveStream) Events() <-chan a2anet.StreamEvent { return s.ch }

func (s *liveStream) Result() (*a2anet.RunResult, error) { return &a2anet.RunResult{}, nil }

// fakeSession records appended items.
type fakeSession struct {
	items []a2anet.Item
}

func (s *fakeSession) Items(ctx context.Context) ([]a2anet.Item, error) {
	return append([]a2anet.Item{}, s.items...), nil
}

func (s *fakeSession) AddItems(ctx context.Context, items ...a2anet.Item) error {
	s.items = append(s.items, items...)
	return nil
}

// fakeToolServer records lifecycle calls.
type fakeToolServer struct {
	name       string
	connectErr error
	connected  bool
	closed     bool
}

func (f *fakeToolServer) Name() string { return f.name }

func (f *fakeToolServer) Connect(ctx context.Context) error {
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true
	return nil
}

func (f *fakeToolServer) Close() error {
	f.closed = true
	return nil
}

// judgeResult wires a fakeRunner whose Run call (the judge) returns the
// given final output while RunStream (the main agent) replays items.
func runnerWith(items []a2anet.Item, judgeOutput string) *fakeRunner {
	return &fakeRunner{
		runFunc: func(ctx context.Context, agent *a2anet.Agent, input []a2anet.Item) (*a2anet.RunResult, error) {
			return &a2anet.RunResult{Input: input, FinalOutput: judgeOutput}, nil
		},
		runStreamFunc: func(ctx context.Context, agent *a2anet.Agent, input []a2anet.Item) (a2anet.RunStream, error) {
			return &fakeStream{items: items, result: &a2anet.RunResult{Input: input, NewItems: items}}, nil
		},
	}
}

func drain(q *ChannelQueue) []Event {
	var events []Event
	for ev := range q.Events() {
		events = append(events, ev)
	}
	return events
}

func newRequest(text string) RequestContext {
	return RequestContext{
		TaskID:    "task-1",
		ContextID: "ctx-1",
		Message:   NewMessage(MessageRoleUser, NewTextPart(text)),
	}
}

func TestExecutor_Execute(t *testing.T) {
	t.Run("full event sequence for a completed task", func(t *testing.T) {
		items := []a2anet.Item{
			a2anet.ToolCall{
				Type:      a2anet.ToolCallFunction,
				ID:        "item-1",
				CallID:    "call-1",
				Name:      "get_weather",
				Arguments: `{"city":"Oslo"}`,
			},
			a2anet.ToolCallOutput{
				Type:   a2anet.ToolOutputFunction,
				ID:     "item-2",
				CallID: "call-1",
				Name:   "get_weather",
				Output: a2anet.ToolOutput{Type: a2anet.ToolOutputText, Text: `{"temp":18}`},
			},
			a2anet.MessageOutput{
				ID:      "msg-1",
				Content: []a2anet.OutputContent{{Kind: a2anet.OutputText, Text: "It is 18 degrees in Oslo."}},
			},
		}
		judgeOutput := `{"task_state":"completed","artifacts":[{"name":"weather","description":"Weather report","part":{"kind":"text","text":"18 degrees, sunny"}}]}`

		executor := NewExecutor(runnerWith(items, judgeOutput), &a2anet.Agent{Name: "weather"}, &a2anet.Agent{Name: "judge"})
		queue := NewChannelQueue()

		if err := executor.Execute(context.Background(), newRequest("weather in Oslo?"), queue); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		events := drain(queue)
		// task, working, three item updates, one artifact, one terminal
		if len(events) != 7 {
			t.Fatalf("got %d events, want 7: %#v", len(events), events)
		}

		task, ok := events[0].(*Task)
		if !ok {
			t.Fatalf("events[0] = %T, want *Task", events[0])
		}
		if task.Status.State != TaskStateSubmitted {
			t.Errorf("initial task state = %v, want submitted", task.Status.State)
		}

		for i, ev := range events[1:5] {
			update, ok := ev.(TaskStatusUpdateEvent)
			if !ok {
				t.Fatalf("events[%d] = %T, want TaskStatusUpdateEvent", i+1, ev)
			}
			if update.Status.State != TaskStateWorking {
				t.Errorf("events[%d] state = %v, want working", i+1, update.Status.State)
			}
			if update.Final {
				t.Errorf("events[%d] must not be final", i+1)
			}
		}

		artifact, ok := events[5].(TaskArtifactUpdateEvent)
		if !ok {
			t.Fatalf("events[5] = %T, want TaskArtifactUpdateEvent", events[5])
		}
		if artifact.Artifact.Name != "weather" {
			t.Errorf("artifact name = %q, want weather", artifact.Artifact.Name)
		}
		if artifact.Artifact.ArtifactID == "" {
			t.Error("artifact should have a generated ID")
		}

		terminal, ok := events[6].(TaskStatusUpdateEvent)
		if !ok {
			t.Fatalf("events[6] = %T, want TaskStatusUpdateEvent", events[6])
		}
		if terminal.Status.State != TaskStateCompleted {
			t.Errorf("terminal state = %v, want completed", terminal.Status.State)
		}
		if !terminal.Final {
			t.Error("terminal event must be final")
		}
	})

	t.Run("no task event when the request has an existing task", func(t *testing.T) {
		judgeOutput := `{"task_state":"input-required"}`
		executor := NewExecutor(runnerWith(nil, judgeOutput), &a2anet.Agent{}, &a2anet.Agent{})
		queue := NewChannelQueue()

		rc := newRequest("more please")
		rc.Task = NewTask(rc.TaskID, rc.ContextID)

		if err := executor.Execute(context.Background(), rc, queue); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		events := drain(queue)
		if _, ok := events[0].(TaskStatusUpdateEvent); !ok {
			t.Fatalf("events[0] = %T, want status update (no task creation)", events[0])
		}
		last := events[len(events)-1].(TaskStatusUpdateEvent)
		if last.Status.State != TaskStateInputRequired || !last.Final {
			t.Errorf("terminal = %v final=%v, want input-required final", last.Status.State, last.Final)
		}
	})

	t.Run("unsupported item aborts without a terminal event", func(t *testing.T) {
		items := []a2anet.Item{a2anet.ToolCall{Type: a2anet.ToolCallComputer}}
		executor := NewExecutor(runnerWith(items, ""), &a2anet.Agent{}, &a2anet.Agent{})
		queue := NewChannelQueue()

		err := executor.Execute(context.Background(), newRequest("do computer things"), queue)
		if !a2anet.IsUnsupportedItem(err) {
			t.Fatalf("error = %v, want UnsupportedItemError", err)
		}

		queue.Finished()
		for _, ev := range drain(queue) {
			if update, ok := ev.(TaskStatusUpdateEvent); ok && update.Final {
				t.Error("fault path must not publish a terminal event")
			}
		}
	})

	t.Run("abort cancels the run and drains its stream", func(t *testing.T) {
		ch := make(chan a2anet.StreamEvent)
		producerDone := make(chan struct{})
		var runCtx context.Context

		runner := &fakeRunner{
			runStreamFunc: func(ctx context.Context, agent *a2anet.Agent, input []a2anet.Item) (a2anet.RunStream, error) {
				runCtx = ctx
				go func() {
					defer close(producerDone)
					ch <- a2anet.StreamEvent{Type: a2anet.StreamEventRunItem, Item: a2anet.ToolCall{Type: a2anet.ToolCallComputer}}
					ch <- a2anet.StreamEvent{Type: a2anet.StreamEventRunItem, Item: a2anet.NewUserMessage("late")}
					close(ch)
				}()
				return &liveStream{ch: ch}, nil
			},
		}
		executor := NewExecutor(runner, &a2anet.Agent{}, &a2anet.Agent{})
		queue := NewChannelQueue()

		err := executor.Execute(context.Background(), newRequest("do computer things"), queue)
		if !a2anet.IsUnsupportedItem(err) {
			t.Fatalf("error = %v, want UnsupportedItemError", err)
		}

		select {
		case <-producerDone:
		case <-time.After(time.Second):
			t.Fatal("stream producer is still blocked after Execute returned")
		}
		if runCtx.Err() == nil {
			t.Error("the in-flight run should have been canceled")
		}
	})

	t.Run("runner fault propagates without a terminal event", func(t *testing.T) {
		streamErr := errors.New("model unavailable")
		runner := &fakeRunner{
			runStreamFunc: func(ctx context.Context, agent *a2anet.Agent, input []a2anet.Item) (a2anet.RunStream, error) {
				return &fakeStream{err: streamErr}, nil
			},
		}
		executor := NewExecutor(runner, &a2anet.Agent{}, &a2anet.Agent{})
		queue := NewChannelQueue()

		err := executor.Execute(context.Background(), newRequest("hi"), queue)
		if !errors.Is(err, streamErr) {
			t.Fatalf("error = %v, want %v", err, streamErr)
		}
	})

	t.Run("session history is loaded and persisted", func(t *testing.T) {
		session := &fakeSession{items: []a2anet.Item{a2anet.NewUserMessage("earlier turn")}}
		var sawInput []a2anet.Item

		newItem := a2anet.MessageOutput{
			ID:      "msg-9",
			Content: []a2anet.OutputContent{{Kind: a2anet.OutputText, Text: "reply"}},
		}
		runner := &fakeRunner{
			runFunc: func(ctx context.Context, agent *a2anet.Agent, input []a2anet.Item) (*a2anet.RunResult, error) {
				return &a2anet.RunResult{Input: input, FinalOutput: `{"task_state":"input-required"}`}, nil
			},
			runStreamFunc: func(ctx context.Context, agent *a2anet.Agent, input []a2anet.Item) (a2anet.RunStream, error) {
				sawInput = input
				return &fakeStream{
					items:  []a2anet.Item{newItem},
					result: &a2anet.RunResult{Input: input, NewItems: []a2anet.Item{newItem}},
				}, nil
			},
		}

		provider := func(ctx context.Context, contextID string) (a2anet.Session, error) {
			return session, nil
		}
		executor := NewExecutor(runner, &a2anet.Agent{}, &a2anet.Agent{}, WithSessionProvider(provider))
		queue := NewChannelQueue()

		if err := executor.Execute(context.Background(), newRequest("next turn"), queue); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		drain(queue)

		if len(sawInput) != 2 {
			t.Fatalf("runner input = %d items, want history + new message", len(sawInput))
		}
		// prior turn + incoming message + produced item
		if len(session.items) != 3 {
			t.Errorf("session has %d items, want 3", len(session.items))
		}
	})

	t.Run("session provider runs once per context", func(t *testing.T) {
		var creates int
		provider := func(ctx context.Context, contextID string) (a2anet.Session, error) {
			creates++
			return &fakeSession{}, nil
		}
		judgeOutput := `{"task_state":"input-required"}`
		executor := NewExecutor(runnerWith(nil, judgeOutput), &a2anet.Agent{}, &a2anet.Agent{}, WithSessionProvider(provider))

		for i := 0; i < 3; i++ {
			queue := NewChannelQueue()
			if err := executor.Execute(context.Background(), newRequest("again"), queue); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			drain(queue)
		}

		if creates != 1 {
			t.Errorf("provider ran %d times, want 1", creates)
		}
	})

	t.Run("session provider error aborts the execution", func(t *testing.T) {
		provider := func(ctx context.Context, contextID string) (a2anet.Session, error) {
			return nil, errors.New("store down")
		}
		executor := NewExecutor(&fakeRunner{}, &a2anet.Agent{}, &a2anet.Agent{}, WithSessionProvider(provider))
		queue := NewChannelQueue()

		if err := executor.Execute(context.Background(), newRequest("hi"), queue); err == nil {
			t.Fatal("expected error from session provider")
		}
	})
}

func TestExecutor_ToolServers(t *testing.T) {
	t.Run("servers are connected for the run and closed after it", func(t *testing.T) {
		server := &fakeToolServer{name: "fs"}
		judgeOutput := `{"task_state":"input-required"}`
		executor := NewExecutor(runnerWith(nil, judgeOutput), &a2anet.Agent{}, &a2anet.Agent{}, WithToolServers(server))
		queue := NewChannelQueue()

		if err := executor.Execute(context.Background(), newRequest("hi"), queue); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !server.connected {
			t.Error("server should have been connected")
		}
		if !server.closed {
			t.Error("server should have been closed")
		}
	})

	t.Run("connect failure aborts and still closes servers", func(t *testing.T) {
		good := &fakeToolServer{name: "good"}
		bad := &fakeToolServer{name: "bad", connectErr: errors.New("refused")}
		executor := NewExecutor(&fakeRunner{}, &a2anet.Agent{}, &a2anet.Agent{}, WithToolServers(good, bad))
		queue := NewChannelQueue()

		if err := executor.Execute(context.Background(), newRequest("hi"), queue); err == nil {
			t.Fatal("expected connect error")
		}

		if !good.closed || !bad.closed {
			t.Error("all servers must be closed after a connect failure")
		}
	})

	t.Run("servers are closed when the run faults", func(t *testing.T) {
		server := &fakeToolServer{name: "fs"}
		runner := &fakeRunner{
			runStreamFunc: func(ctx context.Context, agent *a2anet.Agent, input []a2anet.Item) (a2anet.RunStream, error) {
				return &fakeStream{err: errors.New("boom")}, nil
			},
		}
		executor := NewExecutor(runner, &a2anet.Agent{}, &a2anet.Agent{}, WithToolServers(server))
		queue := NewChannelQueue()

		if err := executor.Execute(context.Background(), newRequest("hi"), queue); err == nil {
			t.Fatal("expected run error")
		}
		if !server.closed {
			t.Error("server must be closed on the fault path")
		}
	})
}

func TestExecutor_Cancel(t *testing.T) {
	executor := NewExecutor(&fakeRunner{}, &a2anet.Agent{}, &a2anet.Agent{})
	queue := NewChannelQueue()

	if err := executor.Cancel(context.Background(), "task-1", queue); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, open := <-queue.Events(); open {
		t.Error("cancel should end the event stream")
	}
}

var _ a2anet.ToolServer = (*fakeToolServer)(nil)
var _ a2anet.Session = (*fakeSession)(nil)
var _ a2anet.Runner = (*fakeRunner)(nil)
