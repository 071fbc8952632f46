/*
Copyright © 2026 sixhats Authors
*/
package cli

import (
	"os"
	"os/signal"
	"syscall"

	"sixhats/internal/mcp"

	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the hat tools over MCP on stdio",
	Long: `Serve exposes interpret_emotional_tone and get_positive_data as MCP
tools on stdin/stdout, so other agent frameworks can call them.

Example client configuration:
  {"command": "sixhats", "args": ["mcp", "serve"]}`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Debug("serving MCP on stdio")
		return mcp.Serve(ctx, Version)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.AddCommand(mcpServeCmd)
}
