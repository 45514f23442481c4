package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	a2anet "github.com/a2anet/a2anet-go"
)

// Server is a tool server reached over the Model Context Protocol. It
// implements a2anet.ToolServer: construction is cheap and performs no I/O,
// Connect establishes the session and discovers tools, Close tears the
// session down. A Server may be connected and closed repeatedly.
//
// Server is safe for concurrent use once connected.
type Server struct {
	name   string
	dial   func() (*client.Client, error)
	mu     sync.RWMutex
	client *client.Client
	tools  []a2anet.Tool
}

// NewStdioServer creates a Server that launches an MCP server subprocess and
// talks to it over stdin/stdout.
func NewStdioServer(name, command string, env []string, args ...string) *Server {
	return &Server{
		name: name,
		dial: func() (*client.Client, error) {
			return client.NewStdioMCPClient(command, env, args...)
		},
	}
}

// NewSSEServer creates a Server that connects to an MCP server over SSE.
func NewSSEServer(name, baseURL string) *Server {
	return &Server{
		name: name,
		dial: func() (*client.Client, error) {
			return client.NewSSEMCPClient(baseURL)
		},
	}
}

// Name identifies the server in logs.
func (s *Server) Name() string { return s.name }

// Connect dials the server, initializes the MCP session, and caches the
// server's tool list.
func (s *Server) Connect(ctx context.Context) error {
	c, err := s.dial()
	if err != nil {
		return fmt.Errorf("mcp %s: dial: %w", s.name, err)
	}

	if err := c.Start(ctx); err != nil {
		c.Close()
		return fmt.Errorf("mcp %s: start: %w", s.name, err)
	}

	_, err = c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "a2anet-go",
				Version: "1.0.0",
			},
		},
	})
	if err != nil {
		c.Close()
		return fmt.Errorf("mcp %s: initialize: %w", s.name, err)
	}

	result, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		c.Close()
		return fmt.Errorf("mcp %s: list tools: %w", s.name, err)
	}

	tools := make([]a2anet.Tool, 0, len(result.Tools))
	for _, t := range result.Tools {
		tools = append(tools, s.toolFor(t))
	}

	s.mu.Lock()
	s.client = c
	s.tools = tools
	s.mu.Unlock()
	return nil
}

// Close tears down the MCP session. Calling Close on a server that never
// connected, or whose Connect failed, is a no-op.
func (s *Server) Close() error {
	s.mu.Lock()
	c := s.client
	s.client = nil
	s.tools = nil
	s.mu.Unlock()

	if c == nil {
		return nil
	}
	return c.Close()
}

// Tools returns the tools discovered at Connect time, each with a handler
// that proxies the call to the remote server.
func (s *Server) Tools() []a2anet.Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tools := make([]a2anet.Tool, len(s.tools))
	copy(tools, s.tools)
	return tools
}

// toolFor converts an MCP tool definition into an a2anet tool whose handler
// invokes the remote server.
func (s *Server) toolFor(t mcp.Tool) a2anet.Tool {
	var schema json.RawMessage
	if len(t.RawInputSchema) > 0 {
		schema = t.RawInputSchema
	} else if data, err := json.Marshal(t.InputSchema); err == nil {
		schema = data
	}

	name := t.Name
	return a2anet.Tool{
		Name:        name,
		Description: t.Description,
		Parameters:  schema,
		Handler: func(ctx context.Context, arguments string) (string, error) {
			return s.call(ctx, name, arguments)
		},
	}
}

// call invokes a tool on the remote server and flattens the result to text.
func (s *Server) call(ctx context.Context, name, arguments string) (string, error) {
	s.mu.RLock()
	c := s.client
	s.mu.RUnlock()
	if c == nil {
		return "", fmt.Errorf("mcp %s: not connected", s.name)
	}

	var args any
	if arguments != "" {
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			// Arguments that are not valid JSON pass through as a string.
			args = arguments
		}
	}

	result, err := c.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	})
	if err != nil {
		return "", fmt.Errorf("mcp %s: call %s: %w", s.name, name, err)
	}

	content := flattenResult(result)
	if result != nil && result.IsError {
		return "", fmt.Errorf("mcp %s: call %s: %s", s.name, name, content)
	}
	return content, nil
}

// flattenResult concatenates a tool result's content as text. Non-text
// content is carried as its JSON encoding.
func flattenResult(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}

	var parts []string
	for _, c := range result.Content {
		switch content := c.(type) {
		case mcp.TextContent:
			parts = append(parts, content.Text)
		case *mcp.TextContent:
			parts = append(parts, content.Text)
		default:
			if data, err := json.Marshal(content); err == nil {
				parts = append(parts, string(data))
			}
		}
	}

	if result.StructuredContent != nil {
		if data, err := json.Marshal(result.StructuredContent); err == nil {
			parts = append(parts, string(data))
		}
	}

	return strings.Join(parts, "\n")
}

var _ a2anet.ToolServer = (*Server)(nil)
