package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Serves the document API over HTTP.

Endpoints:
  POST   /api/documents/upload           upload one file (form field "file")
  POST   /api/documents/upload-multiple  upload up to 10 files (form field "files")
  GET    /api/documents                  list documents
  GET    /api/documents/{id}             show a document
  DELETE /api/documents/{id}             delete a document and its vectors
  GET    /api/documents/{id}/chunks      list a document's chunks
  POST   /api/documents/{id}/reprocess   re-ingest a document
  POST   /api/search                     semantic search
  GET    /api/vector/stats               vector store statistics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config, :8000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return fmt.Errorf("getting addr flag: %w", err)
	}
	if addr == "" && appConfig != nil {
		addr = appConfig.Server.Addr
	}
	if addr == "" {
		addr = ":8000"
	}

	server, err := api.NewServer(&api.Ports{
		Document:       documentService,
		Ingestion:      ingestionService,
		Search:         searchService,
		Collection:     collectionService,
		SearchDefaults: searchDefaults(),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "API server listening on %s\n", addr)
	return server.Run(cmd.Context(), addr)
}
