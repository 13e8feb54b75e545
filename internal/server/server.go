// Package server serves calculator sessions over MCP on stdio.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/comalice/calcx/internal/keymap"
	"github.com/comalice/calcx/internal/session"
	"github.com/comalice/calcx/internal/tools"
)

const (
	Name    = "calcx"
	Version = "0.1.0"
)

// CalculatorServer is the MCP front end of a session registry.
type CalculatorServer struct {
	mcpServer *server.MCPServer
	sessions  *session.Registry
	keys      *keymap.Keymap
	logger    *slog.Logger
	tools     []tools.Tool
}

// NewCalculatorServer creates the server and registers its tools.
func NewCalculatorServer(sessions *session.Registry, keys *keymap.Keymap, logger *slog.Logger) *CalculatorServer {
	if keys == nil {
		keys = keymap.Default()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &CalculatorServer{
		mcpServer: server.NewMCPServer(Name, Version, server.WithToolCapabilities(false)),
		sessions:  sessions,
		keys:      keys,
		logger:    logger,
	}
	s.registerTools()
	return s
}

// Tools lists the registered tools in registration order.
func (s *CalculatorServer) Tools() []tools.Tool {
	return s.tools
}

// Start serves on stdin/stdout until the client disconnects.
func (s *CalculatorServer) Start(ctx context.Context) error {
	s.logger.Info("starting MCP server", "name", Name, "version", Version, "tools", len(s.tools))

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve MCP server: %w", err)
	}
	return nil
}

func (s *CalculatorServer) registerTools() {
	s.register(tools.NewNewSessionTool(s.sessions))
	s.register(tools.NewPressTool(s.sessions, s.keys))
	s.register(tools.NewStateTool(s.sessions))
	s.register(tools.NewCloseSessionTool(s.sessions))
}

func (s *CalculatorServer) register(t tools.Tool) {
	s.mcpServer.AddTool(t.GetTool(), t.Handle)
	s.tools = append(s.tools, t)
}
