package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// CloseSessionTool handles close_session requests
type CloseSessionTool struct {
	sessions Sessions
}

// NewCloseSessionTool creates a new close_session tool
func NewCloseSessionTool(sessions Sessions) *CloseSessionTool {
	return &CloseSessionTool{sessions: sessions}
}

// GetTool returns the MCP tool definition
func (t *CloseSessionTool) GetTool() mcp.Tool {
	tool := mcp.NewTool(ToolCloseSession,
		mcp.WithDescription("Discard a calculator session"),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id from calculator.new_session")),
	)
	return tool
}

// Handle processes the tool request
func (t *CloseSessionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireSessionID(req)
	if errResult != nil {
		return errResult, nil
	}
	if err := t.sessions.Delete(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to close session: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Session %s closed", id)), nil
}
