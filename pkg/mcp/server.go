package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/rdkcentral/zilker-sdk-sub009/pkg/app"
)

// Server wraps the MCP server with the gateway's device control functionality.
type Server struct {
	mcpServer *server.MCPServer
	app       *app.App
}

// NewServer creates a new MCP server dispatching through a.
func NewServer(a *app.App) *Server {
	s := &Server{app: a}

	s.mcpServer = server.NewMCPServer(
		"gateway",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerTools()

	return s
}

// ServeStdio starts the MCP server using stdio transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
