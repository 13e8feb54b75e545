// Package tools exposes calculator sessions as MCP tools. Each tool pairs a
// GetTool definition with a Handle function.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/comalice/calcx"
	"github.com/comalice/calcx/internal/session"
)

// Tool names
const (
	ToolNewSession   = "calculator.new_session"
	ToolPress        = "calculator.press"
	ToolState        = "calculator.state"
	ToolCloseSession = "calculator.close_session"
)

// Sessions is the part of session.Registry the tools use.
type Sessions interface {
	Create(ctx context.Context) (session.View, error)
	Apply(ctx context.Context, id string, inputs ...calcx.Input) (session.View, error)
	View(ctx context.Context, id string) (session.View, error)
	Delete(ctx context.Context, id string) error
}

// Tool is implemented by every calculator tool.
type Tool interface {
	GetTool() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// jsonResult renders v as the text content of a tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func requireSessionID(req mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	id := mcp.ParseString(req, "session_id", "")
	if id == "" {
		return "", mcp.NewToolResultError("session_id parameter is required")
	}
	return id, nil
}
