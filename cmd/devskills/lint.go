package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/freenet/devskills/pkg/presenter"
	"github.com/freenet/devskills/pkg/registry"
	"github.com/freenet/devskills/pkg/skillfile"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check the corpus for inconsistencies",
	Long: `Check the registry tables and the on-disk corpus for problems the
accessors hide at call time: plugins referencing unregistered skills,
missing or malformed entry documents, frontmatter that disagrees with the
registry, and reference documents that do not exist.`,
	Run: func(cmd *cobra.Command, _ []string) {
		reg, err := loadRegistry(cmd.Context(), cmd)
		if err != nil {
			presenter.Error(err, "Failed to load skill registry")
			os.Exit(1)
		}

		if err := lintRegistry(reg); err != nil {
			merr, ok := err.(*multierror.Error)
			if !ok {
				presenter.Error(err, "Lint failed")
				os.Exit(1)
			}
			for _, finding := range merr.Errors {
				presenter.Warning(finding.Error())
			}
			presenter.Error(errors.Errorf("%d finding(s)", len(merr.Errors)), "Corpus is inconsistent")
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("Corpus is consistent: %d skill(s), %d plugin(s)",
			len(reg.SkillNames()), len(reg.PluginNames())))
	},
}

func init() {
	addRegistryFlags(lintCmd)
}

// lintRegistry aggregates every table and filesystem inconsistency into one
// multierror so a single run reports all findings.
func lintRegistry(reg *registry.Registry) error {
	var result *multierror.Error

	if err := reg.Validate(); err != nil {
		if merr, ok := err.(*multierror.Error); ok {
			result = multierror.Append(result, merr.Errors...)
		} else {
			result = multierror.Append(result, err)
		}
	}

	for _, name := range reg.SkillNames() {
		skill, err := reg.GetSkill(name)
		if err != nil {
			continue
		}

		entryPath, err := reg.SkillPath(name)
		if err != nil {
			continue
		}

		doc, err := skillfile.Load(entryPath)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "skill %q", name))
		} else if doc.Name != name {
			result = multierror.Append(result, errors.Errorf("skill %q frontmatter declares name %q", name, doc.Name))
		}

		paths, err := reg.ReferencePaths(name)
		if err != nil {
			continue
		}
		for i, path := range paths {
			if _, err := os.Stat(path); err != nil {
				result = multierror.Append(result, errors.Errorf("skill %q reference %q is missing at %s", name, skill.References[i], path))
			}
		}
	}

	return result.ErrorOrNil()
}
