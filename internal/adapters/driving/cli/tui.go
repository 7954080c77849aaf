package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal interface for docmgr.

The TUI searches stored chunks, lists uploaded documents and shows the
chunks and statistics behind them.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Search / Select
  + / -    - More or fewer results
  ] / [    - Raise or lower the similarity threshold
  Esc      - Back
  Ctrl+C   - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	app, err := tui.NewApp(&tui.Ports{
		Search:         searchService,
		Document:       documentService,
		Collection:     collectionService,
		Ingestion:      ingestionService,
		SearchDefaults: searchDefaults(),
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
