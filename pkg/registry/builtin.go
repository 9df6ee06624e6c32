package registry

import (
	"context"

	"github.com/freenet/devskills/pkg/logger"
	"github.com/freenet/devskills/pkg/skillfile"
)

// builtinSkills is the shipped corpus of Freenet development skills. Paths
// are relative to the corpus root and resolved through WithRoot.
var builtinSkills = []Skill{
	{
		Name:        "code-review",
		Description: "Review freenet-core pull requests against the project review checklist and Rust conventions",
		Path:        "skills/code-review",
		EntryFile:   skillfile.EntryFileName,
		References:  []string{"review-checklist.md", "rust-conventions.md"},
	},
	{
		Name:        "pr-creation",
		Description: "Create well-formed freenet-core pull requests with the expected template and commit hygiene",
		Path:        "skills/pr-creation",
		EntryFile:   skillfile.EntryFileName,
		References:  []string{"pr-template.md"},
	},
	{
		Name:        "systematic-debugging",
		Description: "Debug freenet-core issues methodically, from reproduction to root cause",
		Path:        "skills/systematic-debugging",
		EntryFile:   skillfile.EntryFileName,
		References:  []string{"debugging-playbook.md", "tracing-tools.md"},
	},
	{
		Name:        "release-orchestration",
		Description: "Orchestrate a freenet-core release: version bumps, crate publish order, and announcements",
		Path:        "skills/release-orchestration",
		EntryFile:   skillfile.EntryFileName,
		References:  []string{"release-checklist.md", "crate-publish-order.md"},
	},
	{
		Name:        "dapp-builder",
		Description: "Build and test decentralized applications on top of the Freenet contract runtime",
		Path:        "skills/dapp-builder",
		EntryFile:   skillfile.EntryFileName,
		References:  []string{"contract-patterns.md"},
	},
}

// builtinPlugins groups the shipped skills by development workflow.
var builtinPlugins = []Plugin{
	{
		Name:        "freenet-core-dev",
		Description: "Day-to-day freenet-core contribution workflow",
		Skills:      []string{"pr-creation", "systematic-debugging"},
	},
	{
		Name:        "freenet-maintainer",
		Description: "Maintainer duties: reviewing contributions and cutting releases",
		Skills:      []string{"code-review", "release-orchestration"},
	},
	{
		Name:        "freenet-dapp",
		Description: "Application development against the Freenet contract runtime",
		Skills:      []string{"dapp-builder"},
	},
}

// BuiltinSkills returns a copy of the shipped skill table.
func BuiltinSkills() []Skill {
	return append([]Skill(nil), builtinSkills...)
}

// BuiltinPlugins returns a copy of the shipped plugin table.
func BuiltinPlugins() []Plugin {
	return append([]Plugin(nil), builtinPlugins...)
}

// Builtin constructs a registry loaded with the shipped corpus tables.
// Additional options are applied after the builtin tables, so callers can
// anchor the corpus with WithRoot or register extra skills alongside it.
// Validation findings are logged at warn level here instead of surfacing as
// shortened results at call time.
func Builtin(ctx context.Context, opts ...Option) (*Registry, error) {
	all := append([]Option{
		WithSkills(builtinSkills...),
		WithPlugins(builtinPlugins...),
	}, opts...)

	r, err := New(all...)
	if err != nil {
		return nil, err
	}

	if err := r.Validate(); err != nil {
		logger.G(ctx).WithError(err).Warn("skill registry has inconsistencies")
	}

	return r, nil
}
