package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// MCPClient drives the bot binary in --mcp mode over stdio.
type MCPClient struct {
	client *client.Client
	tools  []mcp.Tool
}

// NewMCPClient spawns the bot server and performs the MCP handshake. The
// server binary is looked up next to this executable, or at
// FNSHOPBOT_SERVER if set.
func NewMCPClient() (*MCPClient, error) {
	serverPath := os.Getenv("FNSHOPBOT_SERVER")
	if serverPath == "" {
		execPath, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable path: %w", err)
		}
		serverPath = filepath.Join(filepath.Dir(execPath), "fnshopbot")
	}

	if _, err := os.Stat(serverPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("bot binary not found at %s", serverPath)
	}

	mcpClient, err := client.NewStdioMCPClient(serverPath, []string{}, "--mcp")
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP client: %w", err)
	}

	ctx := context.Background()
	initReq := mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: "2024-11-05",
			ClientInfo: mcp.Implementation{
				Name:    "fnshop-console",
				Version: "1.0.0",
			},
			Capabilities: mcp.ClientCapabilities{},
		},
	}

	if _, err := mcpClient.Initialize(ctx, initReq); err != nil {
		return nil, fmt.Errorf("failed to initialize MCP client: %w", err)
	}

	toolsList, err := mcpClient.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}

	return &MCPClient{
		client: mcpClient,
		tools:  toolsList.Tools,
	}, nil
}

// ToolNames returns the names of the tools the server exposes.
func (m *MCPClient) ToolNames() []string {
	names := make([]string, len(m.tools))
	for i, tool := range m.tools {
		names[i] = tool.Name
	}
	return names
}

// CallTool invokes one tool and flattens its content into display text.
func (m *MCPClient) CallTool(ctx context.Context, toolName string, arguments map[string]interface{}) (string, error) {
	result, err := m.client.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	})
	if err != nil {
		return "", fmt.Errorf("tool call failed: %w", err)
	}

	if result.IsError {
		return "", fmt.Errorf("tool returned error")
	}

	var output string
	for _, content := range result.Content {
		if c, ok := content.(mcp.TextContent); ok {
			output += c.Text
		}
	}
	return output, nil
}

func (m *MCPClient) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}
