package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docdupe/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC. Use --port to
start an HTTP server instead.

Tools:
  scan_directory    find exact and near-duplicate documents
  delete_documents  delete reviewed documents by absolute path

Resources:
  docdupe://reports/latest
  docdupe://reports/{reportId}

Examples:
  # Stdio mode (default)
  docdupe mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  docdupe mcp serve --port 8080

In HTTP mode the MCP endpoint is /mcp and a JSON health check is served
on /health.`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Scan:     scanService,
		Document: documentService,
		Report:   reportService,
		Settings: settingsService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s%s\n", addr, mcp.EndpointPath)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
