package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/freenet/devskills/pkg/presenter"
	"github.com/freenet/devskills/pkg/registry"
)

var pluginCmd = &cobra.Command{
	Use:   "plugin",
	Short: "Inspect the plugin groupings in the corpus",
	Long:  `List plugins and show which skills each plugin activates.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var pluginListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered plugins",
	Run: func(cmd *cobra.Command, _ []string) {
		reg, err := loadRegistry(cmd.Context(), cmd)
		if err != nil {
			presenter.Error(err, "Failed to load skill registry")
			os.Exit(1)
		}
		listPlugins(reg)
	},
}

var pluginShowCmd = &cobra.Command{
	Use:   "show <plugin-name>",
	Short: "Show a plugin's constituent skills",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		reg, err := loadRegistry(cmd.Context(), cmd)
		if err != nil {
			presenter.Error(err, "Failed to load skill registry")
			os.Exit(1)
		}
		showPlugin(reg, args[0])
	},
}

func init() {
	addRegistryFlags(pluginCmd)
	pluginCmd.AddCommand(pluginListCmd)
	pluginCmd.AddCommand(pluginShowCmd)
}

func listPlugins(reg *registry.Registry) {
	names := reg.PluginNames()
	if len(names) == 0 {
		presenter.Info("No plugins registered")
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSKILLS\tDESCRIPTION")
	fmt.Fprintln(tw, "----\t------\t-----------")

	for _, name := range names {
		plugin, err := reg.GetPlugin(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", plugin.Name, strings.Join(plugin.Skills, ","), plugin.Description)
	}
	tw.Flush()
}

func showPlugin(reg *registry.Registry, name string) {
	plugin, err := reg.GetPlugin(name)
	if err != nil {
		presenter.Error(err, "Plugin not found")
		os.Exit(1)
	}

	presenter.Section(plugin.Name)
	presenter.Info(plugin.Description)
	presenter.Info("")

	skills, err := reg.PluginSkills(name)
	if err != nil {
		presenter.Error(err, "Failed to resolve plugin skills")
		os.Exit(1)
	}

	if len(skills) < len(plugin.Skills) {
		presenter.Warning(fmt.Sprintf("%d of %d skills did not resolve; run 'devskills lint' for details",
			len(plugin.Skills)-len(skills), len(plugin.Skills)))
	}

	for _, skill := range skills {
		presenter.Info(fmt.Sprintf("  %s\t%s", skill.Name, skill.Description))
	}
}
