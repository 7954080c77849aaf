// Package cli implements the docmgr command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aditya-mahendru/docMgr/internal/config"
	"github.com/aditya-mahendru/docMgr/internal/core/domain"
	"github.com/aditya-mahendru/docMgr/internal/core/ports/driving"
	"github.com/aditya-mahendru/docMgr/internal/logger"
)

// annotationNeeds limits what prepare sets up for a command. Commands
// without it get configuration and services.
const (
	annotationNeeds = "docmgr/needs"
	needsNothing    = "nothing"
	needsConfig     = "config"
)

var (
	version = "dev"

	verbose    bool
	configPath string

	appConfig *config.Config

	searchService     driving.SearchService
	documentService   driving.DocumentService
	ingestionService  driving.IngestionService
	collectionService driving.CollectionService

	bootstrap Bootstrap
	shutdown  func() error
)

// Services holds the driving ports the commands call.
type Services struct {
	Search     driving.SearchService
	Document   driving.DocumentService
	Ingestion  driving.IngestionService
	Collection driving.CollectionService
}

// Bootstrap builds the services from the loaded configuration. The returned
// function releases them.
type Bootstrap func(cfg *config.Config) (*Services, func() error, error)

var rootCmd = &cobra.Command{
	Use:   "docmgr",
	Short: "Document vectorisation and semantic search",
	Long: `docmgr turns documents into searchable vectors.

Uploaded files are normalised to text, split into overlapping chunks,
embedded and stored. Queries are embedded the same way and answered
with the most similar chunks.`,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.docmgr/config.toml)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap sets the function that builds services on first use.
func SetBootstrap(fn Bootstrap) {
	bootstrap = fn
}

// SetServices installs services directly, bypassing Bootstrap.
func SetServices(s *Services) {
	searchService = s.Search
	documentService = s.Document
	ingestionService = s.Ingestion
	collectionService = s.Collection
}

// Execute runs the root command and releases services afterwards.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if shutdown != nil {
		if closeErr := shutdown(); closeErr != nil {
			logger.Error("shutdown: %v", closeErr)
		}
		shutdown = nil
	}
	return err
}

// prepare loads configuration and builds services before any command
// that needs them.
func prepare(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	needs := cmd.Annotations[annotationNeeds]
	if needs == needsNothing {
		return nil
	}

	if appConfig == nil {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		appConfig = cfg
	}

	if needs == needsConfig || searchService != nil || bootstrap == nil {
		return nil
	}

	services, closeFn, err := bootstrap(appConfig)
	if err != nil {
		return fmt.Errorf("starting services: %w", err)
	}
	SetServices(services)
	shutdown = closeFn
	return nil
}

// searchDefaults returns the configured search defaults.
func searchDefaults() domain.SearchOptions {
	if appConfig == nil {
		return domain.DefaultSearchOptions()
	}
	return domain.SearchOptions{
		NResults:  appConfig.Search.DefaultResults,
		Threshold: appConfig.Search.DefaultThreshold,
	}
}
