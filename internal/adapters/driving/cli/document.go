package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage ingested documents",
	Long:  `List, view, reprocess or delete ingested documents.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentChunksCmd = &cobra.Command{
	Use:   "chunks [doc-id]",
	Short: "Print the chunks of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentChunks,
}

var documentReprocessCmd = &cobra.Command{
	Use:   "reprocess [doc-id]",
	Short: "Re-ingest a document from its stored content",
	Long: `Runs a stored document through the pipeline again and replaces its
chunks. Use after changing the chunking or embedding settings.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentReprocess,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document and its vectors",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

// chunksJSON is a flag for the chunks command.
var chunksJSON bool

func init() {
	documentChunksCmd.Flags().BoolVar(&chunksJSON, "json", false, "output chunks as JSON")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentChunksCmd)
	documentCmd.AddCommand(documentReprocessCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    File: %s (%s)\n", docs[i].Filename, docs[i].ContentType)
		if docs[i].Description != "" {
			cmd.Printf("    Description: %s\n", docs[i].Description)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  File:     %s\n", doc.Filename)
	cmd.Printf("  Type:     %s\n", doc.ContentType)
	cmd.Printf("  Size:     %d bytes\n", doc.Size)
	cmd.Printf("  Uploaded: %s\n", doc.UploadedAt.Format("2006-01-02 15:04:05"))
	if doc.Description != "" {
		cmd.Printf("  Description: %s\n", doc.Description)
	}

	if collectionService != nil {
		chunks, err := collectionService.Chunks(cmd.Context(), doc.ID)
		if err != nil {
			return fmt.Errorf("failed to get chunks: %w", err)
		}
		cmd.Printf("  Chunks:   %d\n", len(chunks))
	}

	return nil
}

func runDocumentChunks(cmd *cobra.Command, args []string) error {
	if collectionService == nil {
		return errors.New("collection service not configured")
	}

	chunks, err := collectionService.Chunks(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get chunks: %w", err)
	}

	if chunksJSON {
		data, err := json.MarshalIndent(chunks, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal chunks: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(chunks) == 0 {
		cmd.Printf("No chunks found for document: %s\n", args[0])
		return nil
	}

	for i := range chunks {
		cmd.Printf("--- chunk %d (%d tokens) ---\n", chunks[i].ChunkIndex, chunks[i].TokenCount)
		cmd.Println(chunks[i].Text)
		cmd.Println()
	}
	cmd.Printf("Total: %d chunks\n", len(chunks))
	return nil
}

func runDocumentReprocess(cmd *cobra.Command, args []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	docID := args[0]
	cmd.Printf("Reprocessing document: %s...\n", docID)

	report, err := ingestionService.Reprocess(cmd.Context(), docID)
	if err != nil {
		return fmt.Errorf("reprocess failed: %w", err)
	}

	cmd.Printf("Document %s reprocessed: %d chunks stored.\n", docID, report.Chunks)
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]
	if err := documentService.Remove(cmd.Context(), docID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Document %s deleted.\n", docID)
	return nil
}
