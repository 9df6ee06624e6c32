package registry

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/freenet/devskills/pkg/logger"
	"github.com/freenet/devskills/pkg/skillfile"
)

// SkillsDirName is the corpus subdirectory holding skill directories.
const SkillsDirName = "skills"

// PluginManifestName is the corpus file declaring plugin groupings.
const PluginManifestName = "plugins.yaml"

type pluginManifest struct {
	Name        string   `mapstructure:"name"`
	Description string   `mapstructure:"description"`
	Skills      []string `mapstructure:"skills"`
}

// FromDir builds a registry from an on-disk corpus rooted at root. Skills are
// discovered under <root>/skills/<dir>/SKILL.md and keyed by their
// frontmatter name; directories whose entry document is missing or invalid
// are skipped with a warning. Plugin groupings are read from
// <root>/plugins.yaml when present.
func FromDir(ctx context.Context, root string) (*Registry, error) {
	skills, err := discoverSkills(ctx, root)
	if err != nil {
		return nil, err
	}

	plugins, err := loadPluginManifest(root)
	if err != nil {
		return nil, err
	}

	r, err := New(
		WithRoot(root),
		WithSkills(skills...),
		WithPlugins(plugins...),
	)
	if err != nil {
		return nil, err
	}

	if err := r.Validate(); err != nil {
		logger.G(ctx).WithError(err).Warn("discovered corpus has inconsistencies")
	}

	return r, nil
}

func discoverSkills(ctx context.Context, root string) ([]Skill, error) {
	skillsDir := filepath.Join(root, SkillsDirName)
	entries, err := os.ReadDir(skillsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to read skills directory %s", skillsDir)
	}

	var skills []Skill
	for _, entry := range entries {
		entryPath := filepath.Join(skillsDir, entry.Name())

		// Stat instead of entry.IsDir so symlinked skill directories work
		info, err := os.Stat(entryPath)
		if err != nil || !info.IsDir() {
			continue
		}

		doc, err := skillfile.Load(filepath.Join(entryPath, skillfile.EntryFileName))
		if err != nil {
			logger.G(ctx).WithError(err).WithField("dir", entryPath).Warn("skipping skill directory")
			continue
		}

		if doc.Name != entry.Name() {
			logger.G(ctx).WithFields(map[string]interface{}{
				"dir":  entry.Name(),
				"name": doc.Name,
			}).Warn("skill frontmatter name differs from its directory name")
		}

		skills = append(skills, Skill{
			Name:        doc.Name,
			Description: doc.Description,
			Path:        filepath.Join(SkillsDirName, entry.Name()),
			EntryFile:   skillfile.EntryFileName,
			References:  listReferences(entryPath),
		})
	}

	return skills, nil
}

// listReferences enumerates the files under a skill's references directory in
// lexical order. A missing directory means the skill simply has no references.
func listReferences(skillDir string) []string {
	entries, err := os.ReadDir(filepath.Join(skillDir, ReferencesDirName))
	if err != nil {
		return nil
	}

	var refs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		refs = append(refs, entry.Name())
	}
	return refs
}

func loadPluginManifest(root string) ([]Plugin, error) {
	manifestPath := filepath.Join(root, PluginManifestName)
	if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
		return nil, nil
	}

	v := viper.New()
	v.SetConfigFile(manifestPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read plugin manifest %s", manifestPath)
	}

	var manifests []pluginManifest
	if err := v.UnmarshalKey("plugins", &manifests); err != nil {
		return nil, errors.Wrap(err, "failed to parse plugin manifest")
	}

	plugins := make([]Plugin, 0, len(manifests))
	for _, m := range manifests {
		plugins = append(plugins, Plugin{
			Name:        m.Name,
			Description: m.Description,
			Skills:      m.Skills,
		})
	}
	return plugins, nil
}
