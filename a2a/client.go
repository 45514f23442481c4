package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/a2anet/a2anet-go/internal/retry"
)

// SendMessageRequest represents an A2A message/send request.
type SendMessageRequest struct {
	Message       Message                   `json:"message"`
	Configuration *SendMessageConfiguration `json:"configuration,omitempty"`
	Metadata      map[string]any            `json:"metadata,omitempty"`
}

// SendMessageConfiguration contains options for the send request.
type SendMessageConfiguration struct {
	// AcceptedOutputModes specifies the output formats the client can handle.
	AcceptedOutputModes []string `json:"acceptedOutputModes,omitempty"`

	// HistoryLength controls how much conversation context to include.
	HistoryLength *int `json:"historyLength,omitempty"`

	// Blocking waits for task completion before returning.
	Blocking bool `json:"blocking,omitempty"`
}

// Client is an A2A protocol client for calling remote agents.
type Client struct {
	endpoint   string
	httpClient *http.Client
	retry      retry.Config
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithRetry sets the retry configuration for transient transport failures.
// Use retry.Disabled() to make a single attempt per request.
func WithRetry(cfg retry.Config) ClientOption {
	return func(client *Client) {
		client.retry = cfg
	}
}

// NewClient creates a new A2A client for the given endpoint.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: http.DefaultClient,
		retry:      retry.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// jsonRPCRequest represents a JSON-RPC 2.0 request.
type jsonRPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

// jsonRPCResponse represents a JSON-RPC 2.0 response.
type jsonRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *jsonRPCError   `json:"error,omitempty"`
}

// jsonRPCError represents a JSON-RPC 2.0 error.
type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// SendMessage sends a message to the remote agent and returns the final task.
func (c *Client) SendMessage(ctx context.Context, req SendMessageRequest) (*Task, error) {
	rpcReq := jsonRPCRequest{
		JSONRPC: "2.0",
		ID:      "1",
		Method:  "message/send",
		Params:  req,
	}

	body, err := json.Marshal(rpcReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	respBody, err := retry.Do(ctx, c.retry, func() ([]byte, error) {
		return c.post(ctx, body)
	})
	if err != nil {
		return nil, err
	}

	var rpcResp jsonRPCResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if rpcResp.Error != nil {
		return nil, fmt.Errorf("RPC error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}

	var task Task
	if err := json.Unmarshal(rpcResp.Result, &task); err != nil {
		return nil, fmt.Errorf("failed to parse task: %w", err)
	}

	return &task, nil
}

// post performs a single HTTP round trip. Rate-limit and server-error
// status codes surface as retry.StatusError so callers can retry them.
func (c *Client) post(ctx context.Context, body []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &retry.StatusError{Code: resp.StatusCode}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return respBody, nil
}

// SendText is a convenience method that sends a text message.
func (c *Client) SendText(ctx context.Context, text string) (*Task, error) {
	return c.SendMessage(ctx, SendMessageRequest{
		Message: NewMessage(MessageRoleUser, NewTextPart(text)),
	})
}
