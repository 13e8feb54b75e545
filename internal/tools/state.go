package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StateTool handles state requests
type StateTool struct {
	sessions Sessions
}

// NewStateTool creates a new state tool
func NewStateTool(sessions Sessions) *StateTool {
	return &StateTool{sessions: sessions}
}

// GetTool returns the MCP tool definition
func (t *StateTool) GetTool() mcp.Tool {
	tool := mcp.NewTool(ToolState,
		mcp.WithDescription("Show the display and pending expression of a calculator session"),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id from calculator.new_session")),
	)
	return tool
}

// Handle processes the tool request
func (t *StateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireSessionID(req)
	if errResult != nil {
		return errResult, nil
	}
	v, err := t.sessions.View(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read session: %v", err)), nil
	}
	return jsonResult(v)
}
