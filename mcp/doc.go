// Package mcp exposes Model Context Protocol servers as tool providers.
//
// A Server wraps a single MCP endpoint (stdio subprocess or SSE) behind the
// a2anet.ToolServer interface: it is constructed cold, connected with
// Connect, and its tools are listed once at connect time and proxied through
// tool handlers for the life of the connection.
//
// A Manager groups servers for a single run, connecting them all up front
// and closing them all on every exit path.
package mcp
