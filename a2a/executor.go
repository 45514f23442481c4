package a2a

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	a2anet "github.com/a2anet/a2anet-go"
	"github.com/a2anet/a2anet-go/mcp"
)

// RequestContext carries one incoming protocol request: the user message and
// the identifiers of the task and conversation it belongs to. Task is the
// existing task record when the protocol layer has one; it is nil for a
// request that starts a new task.
type RequestContext struct {
	TaskID    string
	ContextID string
	Message   Message
	Task      *Task
}

// Executor drives an agent runtime on behalf of A2A tasks. One executor
// serves many executions; per-execution state lives in the Mapper and the
// queue, while the session cache is shared across executions for the
// executor's lifetime.
type Executor struct {
	runner a2anet.Runner
	agent  *a2anet.Agent
	judge  *judgeDriver

	servers  *mcp.Manager
	sessions *sessionCache
	logger   *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithSessionProvider enables conversation-history persistence. The provider
// is invoked once per context ID; without it, executions are stateless.
func WithSessionProvider(provider a2anet.SessionProvider) Option {
	return func(e *Executor) {
		e.sessions.provider = provider
	}
}

// WithToolServers attaches external tool servers. They are connected before
// each run and closed after it, on every exit path.
func WithToolServers(servers ...a2anet.ToolServer) Option {
	return func(e *Executor) {
		e.servers = mcp.NewManager(servers...)
	}
}

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// NewExecutor creates an executor for the given runner and agents. The judge
// agent must be configured to emit a StructuredResponse (see
// StructuredResponseSchema).
func NewExecutor(runner a2anet.Runner, agent, judge *a2anet.Agent, opts ...Option) *Executor {
	e := &Executor{
		runner:   runner,
		agent:    agent,
		sessions: &sessionCache{sessions: make(map[string]a2anet.Session)},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.judge = &judgeDriver{runner: runner, agent: judge, logger: e.logger}
	if e.servers != nil {
		e.servers.SetLogger(e.logger)
	}
	return e
}

// Execute runs one task execution to completion, publishing protocol events
// to the queue as the run progresses:
//
//  1. a task-creation event when the request has no existing task
//  2. a non-terminal working status
//  3. one working status per translatable run item, in arrival order
//  4. artifact updates followed by exactly one terminal status, from the judge
//  5. Finished on the queue
//
// A fault in the run aborts the execution without a terminal event; surfacing
// the fault is the transport layer's responsibility. Configured tool servers
// are closed before Execute returns, whatever the outcome.
func (e *Executor) Execute(ctx context.Context, rc RequestContext, queue EventQueue) error {
	// Aborting the execution must also end the run it started.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewMapper(rc.TaskID, rc.ContextID)
	log := e.logger.With("task_id", m.TaskID(), "context_id", m.ContextID())

	if rc.Task == nil {
		queue.Publish(NewTask(m.TaskID(), m.ContextID(), rc.Message))
	}
	queue.Publish(m.Working())

	session, err := e.sessions.getOrCreate(ctx, m.ContextID())
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}

	newItems := ToItems(rc.Message)
	input := newItems
	if session != nil {
		prior, err := session.Items(ctx)
		if err != nil {
			return fmt.Errorf("load session history: %w", err)
		}
		input = append(prior, newItems...)
	}

	agent := e.agent
	if e.servers != nil {
		defer e.servers.CloseAll()
		if err := e.servers.ConnectAll(ctx); err != nil {
			return fmt.Errorf("connect tool servers: %w", err)
		}
		// The run sees the agent's own tools plus whatever the servers offer.
		if tools := e.servers.Tools(); len(tools) > 0 {
			merged := *e.agent
			merged.Tools = append(append([]a2anet.Tool{}, e.agent.Tools...), tools...)
			agent = &merged
		}
	}

	stream, err := e.runner.RunStream(ctx, agent, input)
	if err != nil {
		return err
	}

	events := stream.Events()
	for ev := range events {
		if ev.Type != a2anet.StreamEventRunItem {
			continue
		}
		event, err := m.MapItem(ev.Item)
		if err != nil {
			// The run is still producing; stop it and release its
			// producer before surfacing the fault.
			cancel()
			for range events {
			}
			return err
		}
		if event != nil {
			queue.Publish(event)
		}
	}

	result, err := stream.Result()
	if err != nil {
		return err
	}

	if session != nil {
		// The user's turn is persisted even when the run produced nothing.
		toSave := append(newItems, result.NewItems...)
		if err := session.AddItems(ctx, toSave...); err != nil {
			return fmt.Errorf("persist session history: %w", err)
		}
	}

	if err := e.judge.Finalize(ctx, m, result.History(), queue); err != nil {
		return err
	}

	log.Info("execution finished", "new_items", len(result.NewItems))
	queue.Finished()
	return nil
}

// Cancel handles a cancellation request for a task.
//
// TODO: publish a canceled terminal status once the protocol layer supplies
// the task's current state; for now cancellation only ends the event stream.
func (e *Executor) Cancel(ctx context.Context, taskID string, queue EventQueue) error {
	queue.Finished()
	return nil
}

// sessionCache lazily creates and retains one Session per context ID for the
// executor's lifetime. Access is serialized, so the provider runs at most
// once per context even under concurrent executions. There is no eviction.
type sessionCache struct {
	mu       sync.Mutex
	provider a2anet.SessionProvider
	sessions map[string]a2anet.Session
}

// getOrCreate returns the cached session for the context, invoking the
// provider on first use. A nil provider means history persistence is
// disabled; every lookup returns nil.
func (c *sessionCache) getOrCreate(ctx context.Context, contextID string) (a2anet.Session, error) {
	if c.provider == nil {
		return nil, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if session, ok := c.sessions[contextID]; ok {
		return session, nil
	}
	session, err := c.provider(ctx, contextID)
	if err != nil {
		return nil, err
	}
	c.sessions[contextID] = session
	return session, nil
}
