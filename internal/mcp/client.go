// Package mcp connects to external MCP servers for extra tools and serves
// the hats' own tools over MCP.
package mcp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"sync"

	"sixhats/pkg/types"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// Client manages connections to MCP servers
type Client struct {
	mu      sync.RWMutex
	servers map[string]*mcpServer
	client  *mcp.Client
	logger  *zap.Logger
}

type mcpServer struct {
	session *mcp.ClientSession
	tools   []*mcp.Tool
}

// NewClient creates a new MCP client manager
func NewClient(version string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "sixhats",
		Version: version,
	}, nil)

	return &Client{
		servers: make(map[string]*mcpServer),
		client:  client,
		logger:  logger.Named("mcp"),
	}
}

// Connect starts an MCP server process and connects to it
func (c *Client) Connect(ctx context.Context, name string, config types.MCPServerConfig) error {
	cmd := exec.Command(config.Command, config.Args...)
	if len(config.Env) > 0 {
		cmd.Env = append(os.Environ(), config.Env...)
	}

	return c.ConnectTransport(ctx, name, &mcp.CommandTransport{Command: cmd})
}

// ConnectTransport connects to a server over an existing transport.
func (c *Client) ConnectTransport(ctx context.Context, name string, transport mcp.Transport) error {
	session, err := c.client.Connect(ctx, transport, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to MCP server %s: %w", name, err)
	}

	toolsResult, err := session.ListTools(ctx, nil)
	if err != nil {
		session.Close()
		return fmt.Errorf("failed to list tools on %s: %w", name, err)
	}

	c.mu.Lock()
	c.servers[name] = &mcpServer{
		session: session,
		tools:   toolsResult.Tools,
	}
	c.mu.Unlock()

	c.logger.Info("connected to MCP server", zap.String("server", name), zap.Int("tools", len(toolsResult.Tools)))
	return nil
}

// GetTools returns tools from a specific server
func (c *Client) GetTools(serverName string) ([]*mcp.Tool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	server, ok := c.servers[serverName]
	if !ok {
		return nil, fmt.Errorf("MCP server not found: %s", serverName)
	}

	return server.tools, nil
}

// CallTool executes a tool on an MCP server
func (c *Client) CallTool(ctx context.Context, serverName, toolName string, args map[string]interface{}) (string, error) {
	c.mu.RLock()
	server, ok := c.servers[serverName]
	c.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("MCP server not found: %s", serverName)
	}

	result, err := server.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      toolName,
		Arguments: args,
	})
	if err != nil {
		return "", fmt.Errorf("tool call failed: %w", err)
	}

	var output string
	for _, content := range result.Content {
		if textContent, ok := content.(*mcp.TextContent); ok {
			output += textContent.Text
		}
	}

	if result.IsError {
		return "", fmt.Errorf("%s.%s: %s", serverName, toolName, output)
	}
	return output, nil
}

// Close shuts down all MCP server connections
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for name, server := range c.servers {
		if server.session != nil {
			server.session.Close()
		}
		delete(c.servers, name)
	}

	return nil
}

// ListServerNames returns all connected server names, sorted
func (c *Client) ListServerNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.servers))
	for name := range c.servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
