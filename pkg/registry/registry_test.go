package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSkills() []Skill {
	return []Skill{
		{
			Name:        "code-review",
			Description: "Review pull requests",
			Path:        "skills/code-review",
			EntryFile:   "SKILL.md",
			References:  []string{"review-checklist.md", "rust-conventions.md"},
		},
		{
			Name:        "pr-creation",
			Description: "Create pull requests",
			Path:        "skills/pr-creation",
			EntryFile:   "SKILL.md",
			References:  []string{"pr-template.md"},
		},
	}
}

func testPlugins() []Plugin {
	return []Plugin{
		{
			Name:        "core-dev",
			Description: "Core development workflow",
			Skills:      []string{"pr-creation", "code-review"},
		},
		{
			Name:        "broken",
			Description: "References a skill that does not exist",
			Skills:      []string{"code-review", "renamed-away"},
		},
	}
}

func newTestRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()
	all := append([]Option{
		WithSkills(testSkills()...),
		WithPlugins(testPlugins()...),
	}, opts...)
	r, err := New(all...)
	require.NoError(t, err)
	return r
}

func TestNew(t *testing.T) {
	t.Run("empty registry", func(t *testing.T) {
		r, err := New()
		require.NoError(t, err)
		assert.Empty(t, r.SkillNames())
		assert.Empty(t, r.PluginNames())
	})

	t.Run("duplicate skill key", func(t *testing.T) {
		_, err := New(WithSkills(
			Skill{Name: "dup", Path: "a", EntryFile: "SKILL.md"},
			Skill{Name: "dup", Path: "b", EntryFile: "SKILL.md"},
		))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate skill")
	})

	t.Run("duplicate plugin key", func(t *testing.T) {
		_, err := New(WithPlugins(
			Plugin{Name: "dup"},
			Plugin{Name: "dup"},
		))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate plugin")
	})

	t.Run("empty skill name", func(t *testing.T) {
		_, err := New(WithSkills(Skill{Path: "a", EntryFile: "SKILL.md"}))
		assert.Error(t, err)
	})
}

func TestSkillNames(t *testing.T) {
	r := newTestRegistry(t)
	assert.Equal(t, []string{"code-review", "pr-creation"}, r.SkillNames())
}

func TestGetSkill(t *testing.T) {
	r := newTestRegistry(t)

	t.Run("registered key", func(t *testing.T) {
		skill, err := r.GetSkill("code-review")
		require.NoError(t, err)
		assert.Equal(t, "code-review", skill.Name)
		assert.NotEmpty(t, skill.Path)
		assert.NotEmpty(t, skill.EntryFile)
	})

	t.Run("unregistered key", func(t *testing.T) {
		skill, err := r.GetSkill("nonexistent")
		assert.Nil(t, skill)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrSkillNotFound))
	})

	t.Run("returned record is a copy", func(t *testing.T) {
		skill, err := r.GetSkill("code-review")
		require.NoError(t, err)
		skill.References[0] = "mutated.md"
		skill.Description = "mutated"

		again, err := r.GetSkill("code-review")
		require.NoError(t, err)
		assert.Equal(t, "review-checklist.md", again.References[0])
		assert.Equal(t, "Review pull requests", again.Description)
	})
}

func TestSkillPath(t *testing.T) {
	r := newTestRegistry(t)

	t.Run("joins path and entry file", func(t *testing.T) {
		path, err := r.SkillPath("pr-creation")
		require.NoError(t, err)

		skill, err := r.GetSkill("pr-creation")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(skill.Path, skill.EntryFile), path)
	})

	t.Run("unregistered key", func(t *testing.T) {
		path, err := r.SkillPath("nonexistent")
		assert.Empty(t, path)
		assert.True(t, errors.Is(err, ErrSkillNotFound))
	})
}

func TestWithRoot(t *testing.T) {
	r := newTestRegistry(t, WithRoot("/corpus"))

	path, err := r.SkillPath("code-review")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/corpus", "skills", "code-review", "SKILL.md"), path)

	skill, err := r.GetSkill("code-review")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/corpus", "skills", "code-review"), skill.Path)
}

func TestWithRootLeavesAbsolutePaths(t *testing.T) {
	r, err := New(
		WithSkills(Skill{Name: "abs", Path: "/elsewhere/abs", EntryFile: "SKILL.md"}),
		WithRoot("/corpus"),
	)
	require.NoError(t, err)

	path, err := r.SkillPath("abs")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/elsewhere", "abs", "SKILL.md"), path)
}

func TestReadSkill(t *testing.T) {
	tmpDir := t.TempDir()
	skillDir := filepath.Join(tmpDir, "skills", "code-review")
	require.NoError(t, os.MkdirAll(skillDir, 0o755))
	content := "---\nname: code-review\ndescription: Review\n---\n\nWalk the diff.\n"
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte(content), 0o644))

	r := newTestRegistry(t, WithRoot(tmpDir))

	t.Run("round trips file content", func(t *testing.T) {
		got, err := r.ReadSkill("code-review")
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("unregistered key", func(t *testing.T) {
		_, err := r.ReadSkill("nonexistent")
		assert.True(t, errors.Is(err, ErrSkillNotFound))
	})

	t.Run("registered key with missing file", func(t *testing.T) {
		_, err := r.ReadSkill("pr-creation")
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrSkillNotFound))
		assert.True(t, os.IsNotExist(errors.Cause(err)))
	})
}

func TestReferencePaths(t *testing.T) {
	r := newTestRegistry(t)

	t.Run("preserves order and relative names", func(t *testing.T) {
		paths, err := r.ReferencePaths("code-review")
		require.NoError(t, err)

		skill, err := r.GetSkill("code-review")
		require.NoError(t, err)
		require.Len(t, paths, len(skill.References))
		for i, ref := range skill.References {
			assert.Equal(t, filepath.Join(skill.Path, ReferencesDirName, ref), paths[i])
		}
	})

	t.Run("skill without references", func(t *testing.T) {
		r, err := New(WithSkills(Skill{Name: "bare", Path: "skills/bare", EntryFile: "SKILL.md"}))
		require.NoError(t, err)

		paths, err := r.ReferencePaths("bare")
		require.NoError(t, err)
		assert.Empty(t, paths)
	})

	t.Run("unregistered key", func(t *testing.T) {
		paths, err := r.ReferencePaths("nonexistent")
		assert.Nil(t, paths)
		assert.True(t, errors.Is(err, ErrSkillNotFound))
	})
}

func TestReadReference(t *testing.T) {
	tmpDir := t.TempDir()
	refsDir := filepath.Join(tmpDir, "skills", "pr-creation", ReferencesDirName)
	require.NoError(t, os.MkdirAll(refsDir, 0o755))
	content := "# PR template\n\nFill in every section.\n"
	require.NoError(t, os.WriteFile(filepath.Join(refsDir, "pr-template.md"), []byte(content), 0o644))

	r := newTestRegistry(t, WithRoot(tmpDir))

	t.Run("round trips file content", func(t *testing.T) {
		got, err := r.ReadReference("pr-creation", "pr-template.md")
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("unregistered skill key", func(t *testing.T) {
		_, err := r.ReadReference("nonexistent", "pr-template.md")
		assert.True(t, errors.Is(err, ErrSkillNotFound))
	})

	t.Run("unlisted reference", func(t *testing.T) {
		_, err := r.ReadReference("pr-creation", "secrets.md")
		assert.True(t, errors.Is(err, ErrReferenceNotFound))
	})

	t.Run("listed reference with missing file", func(t *testing.T) {
		_, err := r.ReadReference("code-review", "review-checklist.md")
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrReferenceNotFound))
		assert.False(t, errors.Is(err, ErrSkillNotFound))
	})
}

func TestPluginNames(t *testing.T) {
	r := newTestRegistry(t)
	assert.Equal(t, []string{"core-dev", "broken"}, r.PluginNames())
}

func TestGetPlugin(t *testing.T) {
	r := newTestRegistry(t)

	t.Run("registered key", func(t *testing.T) {
		plugin, err := r.GetPlugin("core-dev")
		require.NoError(t, err)
		assert.Equal(t, []string{"pr-creation", "code-review"}, plugin.Skills)
	})

	t.Run("unregistered key", func(t *testing.T) {
		plugin, err := r.GetPlugin("nonexistent")
		assert.Nil(t, plugin)
		assert.True(t, errors.Is(err, ErrPluginNotFound))
	})

	t.Run("returned record is a copy", func(t *testing.T) {
		plugin, err := r.GetPlugin("core-dev")
		require.NoError(t, err)
		plugin.Skills[0] = "mutated"

		again, err := r.GetPlugin("core-dev")
		require.NoError(t, err)
		assert.Equal(t, "pr-creation", again.Skills[0])
	})
}

func TestPluginSkills(t *testing.T) {
	r := newTestRegistry(t)

	t.Run("resolves in plugin order", func(t *testing.T) {
		skills, err := r.PluginSkills("core-dev")
		require.NoError(t, err)
		require.Len(t, skills, 2)
		assert.Equal(t, "pr-creation", skills[0].Name)
		assert.Equal(t, "code-review", skills[1].Name)
	})

	t.Run("filters unresolvable keys", func(t *testing.T) {
		skills, err := r.PluginSkills("broken")
		require.NoError(t, err)
		require.Len(t, skills, 1)
		assert.Equal(t, "code-review", skills[0].Name)
	})

	t.Run("unregistered plugin key", func(t *testing.T) {
		skills, err := r.PluginSkills("nonexistent")
		assert.Empty(t, skills)
		assert.True(t, errors.Is(err, ErrPluginNotFound))
	})
}

func TestValidate(t *testing.T) {
	t.Run("clean registry", func(t *testing.T) {
		r, err := New(
			WithSkills(testSkills()...),
			WithPlugins(Plugin{Name: "ok", Skills: []string{"code-review"}}),
		)
		require.NoError(t, err)
		assert.NoError(t, r.Validate())
	})

	t.Run("reports dangling plugin references", func(t *testing.T) {
		r := newTestRegistry(t)
		err := r.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), `plugin "broken" references unregistered skill "renamed-away"`)
	})

	t.Run("reports skills without path or entry file", func(t *testing.T) {
		r, err := New(WithSkills(Skill{Name: "hollow"}))
		require.NoError(t, err)

		err = r.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), `skill "hollow" has no path`)
		assert.Contains(t, err.Error(), `skill "hollow" has no entry file`)
	})
}
