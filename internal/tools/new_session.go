package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// NewSessionTool handles new_session requests
type NewSessionTool struct {
	sessions Sessions
}

// NewNewSessionTool creates a new new_session tool
func NewNewSessionTool(sessions Sessions) *NewSessionTool {
	return &NewSessionTool{sessions: sessions}
}

// GetTool returns the MCP tool definition
func (t *NewSessionTool) GetTool() mcp.Tool {
	tool := mcp.NewTool(ToolNewSession,
		mcp.WithDescription("Start a new calculator session. Returns its id and initial display."),
	)
	return tool
}

// Handle processes the tool request
func (t *NewSessionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := t.sessions.Create(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create session: %v", err)), nil
	}
	return jsonResult(v)
}
