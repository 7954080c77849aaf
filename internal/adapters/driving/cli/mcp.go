package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose search to AI assistants over MCP",
	Long: `Model Context Protocol integration.

The server offers three tools (search, get_chunks, vector_stats) and two
resources: docmgr://documents lists what is indexed and
docmgr://documents/{documentId}/text returns one document's text.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve MCP on stdio, or over HTTP with --addr",
	Long: `Serves MCP until interrupted.

Without --addr the server speaks JSON-RPC on stdin and stdout, which is
how desktop assistants launch it:

  {"mcpServers": {"docmgr": {"command": "docmgr", "args": ["mcp", "serve"]}}}

With --addr it serves the streamable HTTP transport instead, for remote
clients and the MCP Inspector:

  docmgr mcp serve --addr 127.0.0.1:8765`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

var mcpToolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools an MCP client will see",
	Args:  cobra.NoArgs,
	RunE:  runMCPTools,
}

func init() {
	mcpServeCmd.Flags().String("addr", "", "HTTP listen address (empty serves stdio)")
	mcpCmd.AddCommand(mcpServeCmd, mcpToolsCmd)
	rootCmd.AddCommand(mcpCmd)
}

// newMCPServer builds the server from the configured services.
func newMCPServer() (*mcp.Server, error) {
	return mcp.NewServer(&mcp.Ports{
		Search:     searchService,
		Collection: collectionService,
		Document:   documentService,
		Defaults:   searchDefaults(),
	})
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return fmt.Errorf("getting addr flag: %w", err)
	}

	server, err := newMCPServer()
	if err != nil {
		return err
	}
	if addr != "" {
		// stdout stays clean in stdio mode; it carries the protocol
		cmd.Printf("MCP server listening on http://%s\n", addr)
	}
	return server.Serve(cmd.Context(), addr)
}

func runMCPTools(cmd *cobra.Command, _ []string) error {
	server, err := newMCPServer()
	if err != nil {
		return err
	}
	tools, err := server.Tools(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, tool := range tools {
		fmt.Fprintf(w, "%s\t%s\n", tool.Name, tool.Description)
	}
	return w.Flush()
}
