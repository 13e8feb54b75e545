package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/comalice/calcx"
	"github.com/comalice/calcx/internal/keymap"
)

// PressTool handles press requests: key characters or named actions applied
// to a session in order.
type PressTool struct {
	sessions Sessions
	keys     *keymap.Keymap
}

// NewPressTool creates a new press tool
func NewPressTool(sessions Sessions, keys *keymap.Keymap) *PressTool {
	return &PressTool{sessions: sessions, keys: keys}
}

// GetTool returns the MCP tool definition
func (t *PressTool) GetTool() mcp.Tool {
	tool := mcp.NewTool(ToolPress,
		mcp.WithDescription("Press calculator keys. Give either keys, a string of keyboard characters "+
			"such as \"12+3=\" (s square, r sqrt, i reciprocal, n negate, c clear), or actions, a "+
			"comma separated list such as \"1,2,add,3,equals\"."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id from calculator.new_session")),
		mcp.WithString("keys", mcp.Description("Keyboard characters; whitespace is ignored")),
		mcp.WithString("actions", mcp.Description("Comma separated action names: "+strings.Join(keymap.Actions(), ", "))),
	)
	return tool
}

// Handle processes the tool request
func (t *PressTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireSessionID(req)
	if errResult != nil {
		return errResult, nil
	}

	inputs, err := t.parseInputs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	v, err := t.sessions.Apply(ctx, id, inputs...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to press keys: %v", err)), nil
	}
	return jsonResult(v)
}

func (t *PressTool) parseInputs(req mcp.CallToolRequest) ([]calcx.Input, error) {
	keys := mcp.ParseString(req, "keys", "")
	actions := mcp.ParseString(req, "actions", "")

	switch {
	case keys != "" && actions != "":
		return nil, fmt.Errorf("give keys or actions, not both")
	case keys != "":
		return t.keys.Keys(keys)
	case actions != "":
		var inputs []calcx.Input
		for _, name := range strings.Split(actions, ",") {
			if strings.TrimSpace(name) == "" {
				continue
			}
			in, err := keymap.ParseAction(name)
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, in)
		}
		return inputs, nil
	}
	return nil, fmt.Errorf("keys or actions parameter is required")
}
