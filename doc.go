// Package a2anet bridges LLM-agent runtimes to the A2A (Agent-to-Agent)
// protocol. An agent runtime executes an agent over a transcript of items
// (messages, tool calls, tool results); A2A models the same work as a
// long-lived task with typed state transitions and artifacts. This module
// translates between the two.
//
// The root package defines the capability contracts the bridge consumes:
//
//   - [Runner]: drives an agent to completion and streams transcript items
//   - [Session]: append-only conversation history for one context
//   - [ToolServer]: an external tool provider with connect/close lifecycle
//
// and the transcript [Item] union those capabilities exchange.
//
// The a2a package holds the protocol types and the [a2a.Executor], which
// drives a Runner on behalf of an A2A task and publishes status and artifact
// events. The runner package provides a reference Runner backed by OpenAI or
// Anthropic models, the mcp package provides a ToolServer over the Model
// Context Protocol, and the session package provides in-memory and SQLite
// Session stores.
//
// # Executing a task
//
//	exec := a2a.NewExecutor(runner, agent, judge,
//	    a2a.WithSessionProvider(provider),
//	    a2a.WithToolServers(servers...),
//	)
//
//	queue := a2a.NewChannelQueue()
//	go exec.Execute(ctx, reqCtx, queue)
//	for event := range queue.Events() {
//	    // forward status and artifact updates to the transport
//	}
package a2anet
