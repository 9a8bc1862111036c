// ABOUTME: MCP server subcommand
// ABOUTME: Exposes Salesforce contact search, review, and update tools over stdio
package cli

import (
	"context"

	"github.com/harperreed/crmbridge/handlers"
	"github.com/harperreed/crmbridge/logger"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewMCPServer builds the server with every CRM tool registered.
func NewMCPServer(env *Env, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "crmbridge",
		Version: version,
	}, nil)

	handlers.NewCRMHandlers(env.Client, env.Generator, env.Pusher, env.Credential).Register(server)
	return server
}

// MCPCommand starts the MCP server on stdio
func MCPCommand(env *Env, version string) error {
	logger.L.Info("starting crmbridge MCP server", "mock", env.Config.UseMock)

	ctx := context.Background()
	return NewMCPServer(env, version).Run(ctx, &mcp.StdioTransport{})
}
