package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aditya-mahendru/docMgr/internal/connectors/filesystem"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driving"
	"github.com/aditya-mahendru/docMgr/internal/logger"
)

// watchSkipScan is a flag for the watch command.
var watchSkipScan bool

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Ingest a directory and keep it in sync",
	Long: `Adds every supported file under the directory, then watches it.
New files are ingested, changed files are replaced and deleted files are
removed until interrupted. Hidden files and directories are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchSkipScan, "no-scan", false, "only ingest changes made after start")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ctx := cmd.Context()
	conn := filesystem.New(args[0])
	if err := conn.Validate(ctx); err != nil {
		return err
	}
	defer conn.Close()

	mirror := newDirSync(cmd, documentService)

	if !watchSkipScan {
		files, errs := conn.Scan(ctx)
		for file := range files {
			mirror.add(ctx, file)
		}
		if err := <-errs; err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		cmd.Printf("Ingested %d documents from %s\n", len(mirror.ids), conn.Root())
	}

	changes, err := conn.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	cmd.Printf("Watching %s (Ctrl+C to stop)\n", conn.Root())

	for change := range changes {
		mirror.apply(ctx, change)
	}
	return nil
}

// dirSync mirrors a directory into the document service. It maps each
// path to the document ingested from it.
type dirSync struct {
	cmd       *cobra.Command
	documents driving.DocumentService
	ids       map[string]string
}

func newDirSync(cmd *cobra.Command, documents driving.DocumentService) *dirSync {
	return &dirSync{cmd: cmd, documents: documents, ids: make(map[string]string)}
}

// apply handles one change. Failures are reported and never stop the watch.
func (s *dirSync) apply(ctx context.Context, change filesystem.Change) {
	logger.Debug("%s %s", change.Type, change.File.Path)

	switch change.Type {
	case filesystem.ChangeCreated, filesystem.ChangeUpdated:
		s.remove(ctx, change.File.Path)
		s.add(ctx, change.File)
	case filesystem.ChangeDeleted:
		if s.remove(ctx, change.File.Path) {
			s.cmd.Printf("Removed %s\n", filepath.Base(change.File.Path))
		}
	}
}

func (s *dirSync) add(ctx context.Context, file filesystem.File) {
	outcome, err := s.documents.Upload(ctx, driving.Upload{
		Filename:    file.Path,
		ContentType: file.ContentType,
		Content:     file.Content,
	})
	if err != nil {
		logger.Error("adding %s: %v", file.Path, err)
		return
	}
	s.ids[file.Path] = outcome.Document.ID
	printOutcome(s.cmd, outcome)
}

// remove deletes the document ingested from path, if any.
func (s *dirSync) remove(ctx context.Context, path string) bool {
	id, ok := s.ids[path]
	if !ok {
		return false
	}
	delete(s.ids, path)
	if err := s.documents.Remove(ctx, id); err != nil {
		logger.Error("removing %s: %v", path, err)
		return false
	}
	return true
}
