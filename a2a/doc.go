// Package a2a implements the A2A (Agent-to-Agent) protocol side of the
// bridge: the protocol's task, message, part, and artifact types, and the
// Executor that drives an agent runtime on behalf of A2A tasks.
//
// A2A is an open protocol for interoperability between AI agent systems. It
// models work as tasks that move through a closed set of states (submitted,
// working, input-required, completed, canceled, failed, rejected,
// auth-required, unknown) and communicates progress as a stream of status
// and artifact update events, typically over JSON-RPC 2.0 with Server-Sent
// Events. This package produces those events; the wire transport is the
// caller's concern (see cmd/a2aserver for a reference server).
//
// # Execution model
//
// [Executor.Execute] handles one protocol request end to end. It announces
// the task (submitted, then working), resolves the conversation's session
// history, connects any configured tool servers, and streams the runtime's
// run. Each transcript item the run produces is translated by [Mapper] into
// at most one non-terminal status update: assistant text becomes text parts,
// tool calls and results become working updates tagged with tool metadata,
// with tool payloads parsed as JSON when possible and carried as text when
// not.
//
// After the run, a judge agent classifies the outcome over the full
// transcript. Its [StructuredResponse] decides the terminal state and, for
// completed tasks, the artifacts; a judge that produces nothing usable
// finishes the task as unknown. Exactly one terminal status event ends every
// successful execution.
//
// Tool servers are closed on every exit path, including faults mid-run.
//
// # Task state ownership
//
// The infrastructure assigns submitted, working, canceled, and unknown. A
// judge may only assign input-required, completed, failed, rejected, or
// auth-required; [StructuredResponse.Validate] enforces this along with the
// rule that artifacts accompany completed tasks and only those.
package a2a
