package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/a2anet/a2anet-go/a2a"
)

// JSON-RPC 2.0 error codes used by the handler.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// TaskHandler serves the A2A JSON-RPC surface: message/send returns the
// final task, message/stream delivers events over SSE.
type TaskHandler struct {
	executor *a2a.Executor
}

// NewTaskHandler creates a handler for the given executor.
func NewTaskHandler(executor *a2a.Executor) *TaskHandler {
	return &TaskHandler{executor: executor}
}

// ServeHTTP dispatches a JSON-RPC request.
func (h *TaskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		slog.Warn("method not allowed", "method", r.Method, "path", r.URL.Path)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRPC(w, rpcResponse{JSONRPC: "2.0", Error: &rpcError{Code: codeParseError, Message: err.Error()}})
		return
	}

	var params a2a.SendMessageRequest
	switch req.Method {
	case "message/send", "message/stream":
		if err := json.Unmarshal(req.Params, &params); err != nil {
			writeRPC(w, rpcResponse{JSONRPC: "2.0", ID: req.ID, Error: &rpcError{Code: codeInvalidParams, Message: err.Error()}})
			return
		}
	default:
		writeRPC(w, rpcResponse{JSONRPC: "2.0", ID: req.ID, Error: &rpcError{Code: codeMethodNotFound, Message: fmt.Sprintf("unknown method %q", req.Method)}})
		return
	}

	rc := requestContext(params)
	log := slog.With("method", req.Method, "task_id", rc.TaskID, "context_id", rc.ContextID)

	switch req.Method {
	case "message/send":
		h.handleSend(w, r, req.ID, rc, log)
	case "message/stream":
		h.handleStream(w, r, req.ID, rc, log)
	}
}

// requestContext extracts task and context identifiers from the incoming
// message. Absent identifiers stay empty; the executor mints fresh ones.
func requestContext(params a2a.SendMessageRequest) a2a.RequestContext {
	rc := a2a.RequestContext{Message: params.Message}
	if params.Message.TaskID != nil {
		rc.TaskID = *params.Message.TaskID
	}
	if params.Message.ContextID != nil {
		rc.ContextID = *params.Message.ContextID
	}
	return rc
}

// handleSend runs the execution to completion and returns the final task.
func (h *TaskHandler) handleSend(w http.ResponseWriter, r *http.Request, id json.RawMessage, rc a2a.RequestContext, log *slog.Logger) {
	start := time.Now()
	queue := a2a.NewChannelQueue()

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.executor.Execute(r.Context(), rc, queue)
		// A fault aborts without Finished; release the drain loop.
		queue.Finished()
	}()

	var task *a2a.Task
	for event := range queue.Events() {
		task = applyEvent(task, event)
	}

	if err := <-errCh; err != nil {
		log.Error("execution failed", "duration_ms", time.Since(start).Milliseconds(), "error", err)
		writeRPC(w, rpcResponse{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: codeInternalError, Message: err.Error()}})
		return
	}

	log.Info("request completed", "duration_ms", time.Since(start).Milliseconds())
	writeRPC(w, rpcResponse{JSONRPC: "2.0", ID: id, Result: task})
}

// handleStream streams each event as a JSON-RPC response frame over SSE.
func (h *TaskHandler) handleStream(w http.ResponseWriter, r *http.Request, id json.RawMessage, rc a2a.RequestContext, log *slog.Logger) {
	start := time.Now()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("streaming not supported")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	queue := a2a.NewChannelQueue()
	errCh := make(chan error, 1)
	go func() {
		errCh <- h.executor.Execute(r.Context(), rc, queue)
		queue.Finished()
	}()

	var eventCount int
	for event := range queue.Events() {
		eventCount++
		if err := writeSSE(w, flusher, rpcResponse{JSONRPC: "2.0", ID: id, Result: event}); err != nil {
			log.Error("failed to write SSE event", "error", err)
			return
		}
	}

	if err := <-errCh; err != nil {
		log.Error("execution failed", "duration_ms", time.Since(start).Milliseconds(), "events_sent", eventCount, "error", err)
		_ = writeSSE(w, flusher, rpcResponse{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: codeInternalError, Message: err.Error()}})
		return
	}

	log.Info("request completed", "duration_ms", time.Since(start).Milliseconds(), "events_sent", eventCount)
}

// applyEvent folds one streaming event into a task snapshot.
func applyEvent(task *a2a.Task, event a2a.Event) *a2a.Task {
	switch ev := event.(type) {
	case *a2a.Task:
		return ev
	case a2a.TaskStatusUpdateEvent:
		if task == nil {
			task = a2a.NewTask(ev.TaskID, ev.ContextID)
		}
		task.Status = ev.Status
	case a2a.TaskArtifactUpdateEvent:
		if task == nil {
			task = a2a.NewTask(ev.TaskID, ev.ContextID)
		}
		task.Artifacts = append(task.Artifacts, ev.Artifact)
	}
	return task
}

func writeRPC(w http.ResponseWriter, resp rpcResponse) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// writeSSE writes one JSON-RPC response frame in SSE format.
func writeSSE(w http.ResponseWriter, flusher http.Flusher, resp rpcResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	flusher.Flush()
	return nil
}

// corsMiddleware adds CORS headers for cross-origin clients.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// healthHandler returns a simple health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
