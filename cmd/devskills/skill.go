package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/freenet/devskills/pkg/presenter"
	"github.com/freenet/devskills/pkg/registry"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Inspect the skills in the corpus",
	Long:  `List skills, show their metadata, and print their instruction documents.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered skills",
	Run: func(cmd *cobra.Command, _ []string) {
		reg, err := loadRegistry(cmd.Context(), cmd)
		if err != nil {
			presenter.Error(err, "Failed to load skill registry")
			os.Exit(1)
		}
		listSkills(reg)
	},
}

var skillShowCmd = &cobra.Command{
	Use:   "show <skill-name>",
	Short: "Show a skill's metadata and reference documents",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		reg, err := loadRegistry(cmd.Context(), cmd)
		if err != nil {
			presenter.Error(err, "Failed to load skill registry")
			os.Exit(1)
		}
		showSkill(reg, args[0])
	},
}

var skillCatCmd = &cobra.Command{
	Use:   "cat <skill-name>",
	Short: "Print a skill's instruction document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		reg, err := loadRegistry(cmd.Context(), cmd)
		if err != nil {
			presenter.Error(err, "Failed to load skill registry")
			os.Exit(1)
		}

		content, err := reg.ReadSkill(args[0])
		if err != nil {
			presenter.Error(err, fmt.Sprintf("Failed to read skill '%s'", args[0]))
			os.Exit(1)
		}
		fmt.Print(content)
	},
}

var skillRefsCmd = &cobra.Command{
	Use:   "refs <skill-name> [reference-name]",
	Short: "List a skill's reference documents, or print one",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		reg, err := loadRegistry(cmd.Context(), cmd)
		if err != nil {
			presenter.Error(err, "Failed to load skill registry")
			os.Exit(1)
		}

		if len(args) == 2 {
			content, err := reg.ReadReference(args[0], args[1])
			if err != nil {
				presenter.Error(err, fmt.Sprintf("Failed to read reference '%s' of skill '%s'", args[1], args[0]))
				os.Exit(1)
			}
			fmt.Print(content)
			return
		}

		paths, err := reg.ReferencePaths(args[0])
		if err != nil {
			presenter.Error(err, fmt.Sprintf("Failed to list references of skill '%s'", args[0]))
			os.Exit(1)
		}

		if len(paths) == 0 {
			presenter.Info(fmt.Sprintf("Skill '%s' has no reference documents", args[0]))
			return
		}
		for _, path := range paths {
			fmt.Println(path)
		}
	},
}

func init() {
	addRegistryFlags(skillCmd)
	skillCmd.AddCommand(skillListCmd)
	skillCmd.AddCommand(skillShowCmd)
	skillCmd.AddCommand(skillCatCmd)
	skillCmd.AddCommand(skillRefsCmd)
}

func listSkills(reg *registry.Registry) {
	names := reg.SkillNames()
	if len(names) == 0 {
		presenter.Info("No skills registered")
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tREFERENCES\tDESCRIPTION")
	fmt.Fprintln(tw, "----\t----------\t-----------")

	for _, name := range names {
		skill, err := reg.GetSkill(name)
		if err != nil {
			continue
		}
		description := skill.Description
		if len(description) > 60 {
			description = description[:57] + "..."
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", skill.Name, len(skill.References), description)
	}
	tw.Flush()
}

func showSkill(reg *registry.Registry, name string) {
	skill, err := reg.GetSkill(name)
	if err != nil {
		presenter.Error(err, "Skill not found")
		os.Exit(1)
	}

	entryPath, err := reg.SkillPath(name)
	if err != nil {
		presenter.Error(err, "Failed to resolve entry path")
		os.Exit(1)
	}

	presenter.Section(skill.Name)
	presenter.Info(skill.Description)
	presenter.Info("")
	presenter.Info(fmt.Sprintf("Entry:      %s", entryPath))

	if len(skill.References) == 0 {
		presenter.Info("References: none")
		return
	}

	paths, err := reg.ReferencePaths(name)
	if err != nil {
		presenter.Error(err, "Failed to resolve reference paths")
		os.Exit(1)
	}
	presenter.Info("References:")
	for _, path := range paths {
		presenter.Info(fmt.Sprintf("  %s", path))
	}
}
