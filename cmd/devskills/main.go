package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/freenet/devskills/pkg/logger"
	"github.com/freenet/devskills/pkg/registry"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("DEVSKILLS")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.devskills")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "devskills",
	Short: "Toolkit for the Freenet development skill corpus",
	Long: `devskills manages the corpus of Markdown skill and plugin definitions that
guide AI coding assistants through Freenet core development workflows:
code review, PR creation, systematic debugging, release orchestration, and
dapp building.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			return err
		}
		logger.SetLogFormat(viper.GetString("log_format"))
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

// loadRegistry builds the registry the subcommands operate on. With --discover
// the corpus is scanned from disk; otherwise the builtin tables are used,
// anchored at --root.
func loadRegistry(ctx context.Context, cmd *cobra.Command) (*registry.Registry, error) {
	root, err := cmd.Flags().GetString("root")
	if err != nil {
		root = "."
	}

	if discover, err := cmd.Flags().GetBool("discover"); err == nil && discover {
		return registry.FromDir(ctx, root)
	}

	return registry.Builtin(ctx, registry.WithRoot(root))
}

func addRegistryFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("root", ".", "Corpus root directory the skill paths are anchored at")
	cmd.PersistentFlags().Bool("discover", false, "Discover skills from the corpus directory instead of using the builtin tables")
}

func main() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "fmt", "Log format (fmt, json)")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(pluginCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
