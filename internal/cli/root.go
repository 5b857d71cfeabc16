package cli

import (
	"github.com/spf13/cobra"

	"github.com/nbessler/graphtutorial/internal/config"
	"github.com/nbessler/graphtutorial/internal/logger"
)

var (
	// version is set by goreleaser ldflags.
	version = "dev"

	// Verbose enables debug logging.
	verbose bool

	// configPath locates the properties settings file.
	configPath string
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "graphtutorial",
	Short: "Explore Microsoft Graph from an interactive menu",
	Long: `Graphtutorial signs in to Microsoft Graph and walks the core scenarios
from an interactive menu: inspect the access token, read your inbox, send
mail, list users, and work with your calendar.

Settings are read from a properties file (see --config).`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose debug output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to the properties settings file")

	// Use PersistentPreRunE to set verbose mode before any command executes
	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return nil
	}
}
