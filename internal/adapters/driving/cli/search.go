package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aditya-mahendru/docMgr/internal/core/domain"
)

var (
	searchResults   int
	searchThreshold float64
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search ingested documents",
	Long: `Performs semantic search across the chunks of all ingested documents.
Results are ranked by similarity, from 0 (opposite) to 1 (identical), and
only results at or above the threshold are returned.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchResults, "results", "n", domain.DefaultNResults, "maximum number of results (1-20)")
	searchCmd.Flags().Float64VarP(&searchThreshold, "threshold", "t", domain.DefaultThreshold, "minimum similarity score (0-1)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	opts := searchDefaults()
	if cmd.Flags().Changed("results") {
		opts.NResults = searchResults
	}
	if cmd.Flags().Changed("threshold") {
		opts.Threshold = searchThreshold
	}

	results, err := searchService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		// Format: [N] filename #chunk (score)
		name := results[i].Metadata.Filename
		if name == "" {
			name = results[i].DocumentID
		}

		cmd.Printf("  [%d] %s #%d (%.2f)\n", i+1, name, results[i].ChunkIndex, results[i].Score)
		cmd.Printf("      %s\n", snippet(results[i].Text, 160))
		cmd.Println()
	}

	return nil
}

// snippet returns the first limit runes of text on one line.
func snippet(text string, limit int) string {
	runes := []rune(text)
	for i, r := range runes {
		if r == '\n' || r == '\r' || r == '\t' {
			runes[i] = ' '
		}
	}
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit]) + "..."
}
