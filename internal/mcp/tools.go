package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"sixhats/internal/tools"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPTool wraps an MCP tool to implement the Tool interface
type MCPTool struct {
	ServerName string
	ToolDef    *mcp.Tool
	Client     *Client
}

func (t *MCPTool) Name() string {
	return fmt.Sprintf("%s.%s", t.ServerName, t.ToolDef.Name)
}

func (t *MCPTool) Description() string {
	return t.ToolDef.Description
}

// Execute passes a JSON object input through as arguments. Plain text goes
// to the tool's only parameter when it has exactly one, else to "input".
func (t *MCPTool) Execute(ctx context.Context, input string) (string, error) {
	return t.Client.CallTool(ctx, t.ServerName, t.ToolDef.Name, t.arguments(input))
}

func (t *MCPTool) arguments(input string) map[string]interface{} {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "{") {
		var args map[string]interface{}
		if err := json.Unmarshal([]byte(trimmed), &args); err == nil {
			return args
		}
	}
	return map[string]interface{}{t.singleParam(): input}
}

func (t *MCPTool) singleParam() string {
	data, err := json.Marshal(t.ToolDef.InputSchema)
	if err != nil {
		return "input"
	}
	var schema struct {
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(data, &schema); err != nil || len(schema.Properties) != 1 {
		return "input"
	}
	for name := range schema.Properties {
		return name
	}
	return "input"
}

// RegisterTools adds every tool from an MCP server to reg as <server>.<tool>
func RegisterTools(reg *tools.Registry, client *Client, serverName string) ([]string, error) {
	mcpTools, err := client.GetTools(serverName)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(mcpTools))
	for _, toolDef := range mcpTools {
		tool := &MCPTool{
			ServerName: serverName,
			ToolDef:    toolDef,
			Client:     client,
		}
		reg.Register(tool)
		names = append(names, tool.Name())
	}

	return names, nil
}
