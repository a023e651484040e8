package commands

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/openartmap/artcat/config"
	"github.com/openartmap/artcat/display"
	"github.com/openartmap/artcat/errors"
)

// ConfigCmd groups the configuration subcommands
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage artcat configuration",
	Long: `Display and manage artcat configuration.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (ARTCAT_* prefix)
3. Project config (./artcat.toml, searched upward)
4. User config (~/.artcat/config.toml)
5. System config (/etc/artcat/config.toml)
6. Default values

Examples:
  artcat config show              # Show effective configuration
  artcat config show --json       # Show configuration as JSON
  artcat config init              # Write a starter user config`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  "Display the merged configuration from all sources. The catalog token is redacted.",
	RunE:  runConfigShow,
}

var configInitPath string

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Write a configuration file populated with the default values. An existing
file at the target path is rotated to a .back1 backup first.`,
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().StringVar(&configInitPath, "path", "", "Target path (default: user config path)")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configInitCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.WrapConfiguration(err, "loading configuration")
	}

	// Never print the bearer token
	shown := *cfg
	if shown.Catalog.Token != "" {
		shown.Catalog.Token = "<redacted>"
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(shown)
	}

	data, err := toml.Marshal(shown)
	if err != nil {
		return errors.Wrap(err, "encoding configuration")
	}
	fmt.Print(string(data))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configInitPath
	if path == "" {
		path = config.UserConfigPath()
	}

	if err := config.WriteStarterConfig(path); err != nil {
		return errors.WrapConfiguration(err, "writing starter config")
	}

	fmt.Printf("Wrote starter configuration to %s\n", path)
	return nil
}
