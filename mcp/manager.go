package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	a2anet "github.com/a2anet/a2anet-go"
)

// Manager owns the connection lifecycle of a fixed set of tool servers for
// the duration of a run: connect them all before the run, close them all
// after it, whatever the run's outcome.
type Manager struct {
	servers []a2anet.ToolServer
	logger  *slog.Logger
}

// NewManager creates a Manager for the given servers.
func NewManager(servers ...a2anet.ToolServer) *Manager {
	return &Manager{servers: servers, logger: slog.Default()}
}

// SetLogger replaces the logger used for close failures.
func (m *Manager) SetLogger(logger *slog.Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// Servers returns the managed servers.
func (m *Manager) Servers() []a2anet.ToolServer {
	return m.servers
}

// Tools aggregates the tools of every managed server that exposes them.
// Meaningful only between ConnectAll and CloseAll.
func (m *Manager) Tools() []a2anet.Tool {
	var tools []a2anet.Tool
	for _, server := range m.servers {
		if tp, ok := server.(interface{ Tools() []a2anet.Tool }); ok {
			tools = append(tools, tp.Tools()...)
		}
	}
	return tools
}

// ConnectAll connects every server concurrently and waits for all of them.
// Any connection failure fails the whole call; servers that did connect are
// left connected so a subsequent CloseAll releases them.
func (m *Manager) ConnectAll(ctx context.Context) error {
	var wg sync.WaitGroup
	errs := make([]error, len(m.servers))

	for i, server := range m.servers {
		wg.Add(1)
		go func(i int, server a2anet.ToolServer) {
			defer wg.Done()
			errs[i] = server.Connect(ctx)
		}(i, server)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("connect %s: %w", m.servers[i].Name(), err)
		}
	}
	return nil
}

// CloseAll closes every server concurrently. A close failure is logged and
// never propagated: one server's failure must not prevent closing the
// others, nor fault the caller's cleanup path.
func (m *Manager) CloseAll() {
	var wg sync.WaitGroup

	for _, server := range m.servers {
		wg.Add(1)
		go func(server a2anet.ToolServer) {
			defer wg.Done()
			if err := server.Close(); err != nil {
				m.logger.Warn("failed to close tool server",
					"server", server.Name(), "error", err)
			}
		}(server)
	}
	wg.Wait()
}
