package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aditya-mahendru/docMgr/internal/core/ports/driving"
)

var (
	addDescription string
	addContentType string
)

var addCmd = &cobra.Command{
	Use:   "add [file...]",
	Short: "Upload and ingest documents",
	Long: `Registers each file, stores its bytes and runs it through the
ingestion pipeline. Several files are ingested as one batch; a file that
fails does not stop the others.

Supported formats: PDF, DOCX, XLSX, EML, PNG, JPEG, HTML, Markdown and plain text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "description stored with the documents")
	addCmd.Flags().StringVar(&addContentType, "type", "", "MIME type (default: from file extension)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	uploads := make([]driving.Upload, len(args))
	for i, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		uploads[i] = driving.Upload{
			Filename:    path,
			ContentType: addContentType,
			Description: addDescription,
			Content:     content,
		}
	}

	ctx := cmd.Context()

	if len(uploads) == 1 {
		outcome, err := documentService.Upload(ctx, uploads[0])
		if err != nil {
			return fmt.Errorf("failed to add document: %w", err)
		}
		printOutcome(cmd, outcome)
		if outcome.Err != nil {
			return fmt.Errorf("ingestion failed: %w", outcome.Err)
		}
		return nil
	}

	outcomes, err := documentService.UploadBatch(ctx, uploads)
	if err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}

	failed := 0
	for i := range outcomes {
		printOutcome(cmd, &outcomes[i])
		if outcomes[i].Err != nil {
			failed++
		}
	}

	cmd.Printf("\nAdded %d of %d documents\n", len(outcomes)-failed, len(outcomes))
	if failed > 0 {
		return fmt.Errorf("%d documents failed", failed)
	}
	return nil
}

func printOutcome(cmd *cobra.Command, outcome *driving.UploadOutcome) {
	doc := outcome.Document
	if outcome.Err != nil {
		if doc.ID == "" {
			cmd.Printf("  Failed %s: %v\n", doc.Filename, outcome.Err)
		} else {
			cmd.Printf("  Failed %s (%s): %v\n", doc.Filename, doc.ID, outcome.Err)
		}
		return
	}

	chunks := 0
	if outcome.Report != nil {
		chunks = outcome.Report.Chunks
	}
	cmd.Printf("  Added %s (%s): %d chunks\n", doc.Filename, doc.ID, chunks)
}
