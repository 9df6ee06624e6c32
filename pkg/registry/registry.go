// Package registry provides read-only, name-keyed access to the skill and
// plugin corpus. Skills are directories holding one entry document plus
// optional reference documents; plugins are named groupings of skills. The
// registry is populated once at construction and never mutated afterwards, so
// it is safe for concurrent use without locking.
package registry

import (
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Sentinel errors returned by the accessors. Lookup misses and I/O failures
// are distinct: callers that care can tell them apart with errors.Is, callers
// that don't treat any non-nil error as absence.
var (
	// ErrSkillNotFound is returned when a skill key is not registered.
	ErrSkillNotFound = errors.New("skill not found")
	// ErrPluginNotFound is returned when a plugin key is not registered.
	ErrPluginNotFound = errors.New("plugin not found")
	// ErrReferenceNotFound is returned when a reference filename is not listed by the skill.
	ErrReferenceNotFound = errors.New("reference not found")
)

// ReferencesDirName is the subdirectory of a skill that holds its reference documents.
const ReferencesDirName = "references"

// Skill describes one registered skill: a named bundle of instructional
// documentation rooted at a directory.
type Skill struct {
	Name        string   `json:"name"`        // Unique lookup key and display identifier
	Description string   `json:"description"` // Brief summary of when to use the skill
	Path        string   `json:"path"`        // Directory containing the skill's files
	EntryFile   string   `json:"entryFile"`   // Filename of the primary instruction document
	References  []string `json:"references"`  // Relative paths of reference documents under Path/references
}

// Plugin describes a named grouping of skills installed and activated together.
// A plugin owns no files of its own.
type Plugin struct {
	Name        string   `json:"name"`        // Unique lookup key and display identifier
	Description string   `json:"description"` // Brief summary of the grouping
	Skills      []string `json:"skills"`      // Skill keys in activation order
}

// Registry holds the skill and plugin tables. Construct with New; the zero
// value is empty but usable.
type Registry struct {
	root        string
	skills      map[string]*Skill
	skillOrder  []string
	plugins     map[string]*Plugin
	pluginOrder []string
}

// Option configures a Registry during construction
type Option func(*Registry) error

// WithSkills registers skills in the given order. Duplicate keys are a
// construction error rather than a silent overwrite.
func WithSkills(skills ...Skill) Option {
	return func(r *Registry) error {
		for i := range skills {
			s := skills[i]
			if s.Name == "" {
				return errors.New("skill name cannot be empty")
			}
			if _, exists := r.skills[s.Name]; exists {
				return errors.Errorf("duplicate skill %q", s.Name)
			}
			s.References = append([]string(nil), s.References...)
			r.skills[s.Name] = &s
			r.skillOrder = append(r.skillOrder, s.Name)
		}
		return nil
	}
}

// WithPlugins registers plugins in the given order
func WithPlugins(plugins ...Plugin) Option {
	return func(r *Registry) error {
		for i := range plugins {
			p := plugins[i]
			if p.Name == "" {
				return errors.New("plugin name cannot be empty")
			}
			if _, exists := r.plugins[p.Name]; exists {
				return errors.Errorf("duplicate plugin %q", p.Name)
			}
			p.Skills = append([]string(nil), p.Skills...)
			r.plugins[p.Name] = &p
			r.pluginOrder = append(r.pluginOrder, p.Name)
		}
		return nil
	}
}

// WithRoot anchors skills whose Path is relative at the given corpus root.
// Skills registered with absolute paths are left untouched.
func WithRoot(root string) Option {
	return func(r *Registry) error {
		r.root = root
		return nil
	}
}

// New constructs a registry from the given options.
func New(opts ...Option) (*Registry, error) {
	r := &Registry{
		skills:  make(map[string]*Skill),
		plugins: make(map[string]*Plugin),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// skillDir resolves the directory of a skill against the registry root.
func (r *Registry) skillDir(s *Skill) string {
	if r.root == "" || filepath.IsAbs(s.Path) {
		return s.Path
	}
	return filepath.Join(r.root, s.Path)
}

// SkillNames returns all registered skill keys in definition order.
func (r *Registry) SkillNames() []string {
	return append([]string(nil), r.skillOrder...)
}

// GetSkill returns the skill registered under name. The returned record is a
// copy; mutating it does not affect the registry. Returns ErrSkillNotFound
// for unknown keys.
func (r *Registry) GetSkill(name string) (*Skill, error) {
	s, exists := r.skills[name]
	if !exists {
		return nil, errors.Wrapf(ErrSkillNotFound, "skill %q", name)
	}

	out := *s
	out.Path = r.skillDir(s)
	out.References = append([]string(nil), s.References...)
	return &out, nil
}

// SkillPath returns the path of a skill's entry document by joining the
// skill's directory with its entry filename. It performs no filesystem access.
func (r *Registry) SkillPath(name string) (string, error) {
	s, exists := r.skills[name]
	if !exists {
		return "", errors.Wrapf(ErrSkillNotFound, "skill %q", name)
	}
	return filepath.Join(r.skillDir(s), s.EntryFile), nil
}

// ReadSkill returns the UTF-8 content of a skill's entry document.
// ErrSkillNotFound and read failures stay distinguishable via errors.Is.
func (r *Registry) ReadSkill(name string) (string, error) {
	path, err := r.SkillPath(name)
	if err != nil {
		return "", err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read skill %q", name)
	}
	return string(content), nil
}

// ReferencePaths returns the paths of a skill's reference documents in the
// order they were registered.
func (r *Registry) ReferencePaths(name string) ([]string, error) {
	s, exists := r.skills[name]
	if !exists {
		return nil, errors.Wrapf(ErrSkillNotFound, "skill %q", name)
	}

	dir := r.skillDir(s)
	paths := make([]string, 0, len(s.References))
	for _, ref := range s.References {
		paths = append(paths, filepath.Join(dir, ReferencesDirName, ref))
	}
	return paths, nil
}

// ReadReference returns the UTF-8 content of one of a skill's reference
// documents. The reference must be listed in the skill's References table;
// unlisted names return ErrReferenceNotFound without touching the filesystem.
func (r *Registry) ReadReference(name, reference string) (string, error) {
	s, exists := r.skills[name]
	if !exists {
		return "", errors.Wrapf(ErrSkillNotFound, "skill %q", name)
	}

	listed := false
	for _, ref := range s.References {
		if ref == reference {
			listed = true
			break
		}
	}
	if !listed {
		return "", errors.Wrapf(ErrReferenceNotFound, "skill %q has no reference %q", name, reference)
	}

	path := filepath.Join(r.skillDir(s), ReferencesDirName, reference)
	content, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read reference %q of skill %q", reference, name)
	}
	return string(content), nil
}

// PluginNames returns all registered plugin keys in definition order.
func (r *Registry) PluginNames() []string {
	return append([]string(nil), r.pluginOrder...)
}

// GetPlugin returns the plugin registered under name. The returned record is
// a copy. Returns ErrPluginNotFound for unknown keys.
func (r *Registry) GetPlugin(name string) (*Plugin, error) {
	p, exists := r.plugins[name]
	if !exists {
		return nil, errors.Wrapf(ErrPluginNotFound, "plugin %q", name)
	}

	out := *p
	out.Skills = append([]string(nil), p.Skills...)
	return &out, nil
}

// PluginSkills resolves a plugin's constituent skill records in plugin order.
// Skill keys that do not resolve are filtered out rather than erroring;
// Validate reports them at load time instead.
func (r *Registry) PluginSkills(name string) ([]*Skill, error) {
	p, exists := r.plugins[name]
	if !exists {
		return nil, errors.Wrapf(ErrPluginNotFound, "plugin %q", name)
	}

	skills := make([]*Skill, 0, len(p.Skills))
	for _, key := range p.Skills {
		skill, err := r.GetSkill(key)
		if err != nil {
			continue
		}
		skills = append(skills, skill)
	}
	return skills, nil
}

// Validate checks the registry for inconsistencies that the accessors paper
// over at call time: plugins referencing unregistered skills, skills with no
// path or entry file. All findings are aggregated into a single error.
func (r *Registry) Validate() error {
	var result *multierror.Error

	for _, name := range r.skillOrder {
		s := r.skills[name]
		if s.Path == "" {
			result = multierror.Append(result, errors.Errorf("skill %q has no path", name))
		}
		if s.EntryFile == "" {
			result = multierror.Append(result, errors.Errorf("skill %q has no entry file", name))
		}
	}

	for _, name := range r.pluginOrder {
		p := r.plugins[name]
		for _, key := range p.Skills {
			if _, exists := r.skills[key]; !exists {
				result = multierror.Append(result, errors.Errorf("plugin %q references unregistered skill %q", name, key))
			}
		}
	}

	return result.ErrorOrNil()
}
