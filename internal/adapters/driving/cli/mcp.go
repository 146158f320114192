package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can ask questions
over your papers and browse documents, claims and pages.

Tools:     ask, list_documents, list_claims, get_page
Resources: copilot://documents, copilot://claims,
           copilot://documents/{id}/pages/{n}

By default the server speaks JSON-RPC over stdio. Use --port or --http to
serve the streamable HTTP transport instead.

Examples:
  # Stdio mode (default, for desktop assistants)
  copilot mcp serve

  # HTTP mode on a fixed port
  copilot mcp serve --port 8765

  # HTTP mode on the first free port from 8765
  copilot mcp serve --http

Assistant configuration:
  {
    "mcpServers": {
      "copilot": {
        "command": "/path/to/copilot",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Bool("http", false, "serve HTTP on the first free port when --port is not set")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if svc == nil {
		return errNotConfigured("copilot")
	}

	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	useHTTP, err := cmd.Flags().GetBool("http")
	if err != nil {
		return fmt.Errorf("getting http flag: %w", err)
	}
	if useHTTP && port == 0 {
		port, err = mcp.FindAvailablePort(mcp.DefaultPortStart, mcp.DefaultPortEnd)
		if err != nil {
			return err
		}
	}

	ports := &mcp.Ports{
		Registry:        svc.Registry,
		Claims:          svc.Claims,
		NewConversation: svc.NewConversation,
		PDF:             svc.PDF,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
