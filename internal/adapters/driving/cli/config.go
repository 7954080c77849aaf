package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aditya-mahendru/docMgr/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Print the effective configuration",
	Long:        `Prints the configuration after file, .env and environment overrides. API keys are not shown.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNeeds: needsConfig},
	RunE:        runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write the default configuration file",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationNeeds: needsNothing},
	RunE:        runConfigInit,
}

// configForce is a flag for the init command.
var configForce bool

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if appConfig == nil {
		return errors.New("configuration not loaded")
	}

	path := configPath
	if path == "" {
		path = "config.toml"
	}
	data, err := appConfig.Marshal(path)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	cmd.Print(string(data))
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return fmt.Errorf("failed to locate config: %w", err)
		}
	}

	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	}

	if err := config.Save(path, config.Default()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	cmd.Printf("Config written to %s\n", path)
	return nil
}
