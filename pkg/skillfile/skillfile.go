// Package skillfile parses skill instruction documents. A skill document is a
// Markdown file with YAML frontmatter carrying the skill's name and
// description, followed by the instruction body consumed by the assistant.
package skillfile

import (
	"bytes"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// EntryFileName is the canonical filename of a skill's primary instruction document.
const EntryFileName = "SKILL.md"

// Document represents a parsed skill instruction file
type Document struct {
	Name        string // Unique name from frontmatter
	Description string // Brief description from frontmatter
	Body        string // Markdown body with the frontmatter stripped
}

// Metadata represents the YAML frontmatter in skill documents
type Metadata struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Load reads and parses the skill document at path.
func Load(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read skill file")
	}
	return Parse(content)
}

// Parse parses a skill document from its raw content, validating that the
// frontmatter carries both a name and a description.
func Parse(content []byte) (*Document, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, errors.New("missing frontmatter")
	}

	name, _ := metaData["name"].(string)
	description, _ := metaData["description"].(string)

	if name == "" {
		return nil, errors.New("skill name is required in frontmatter")
	}
	if description == "" {
		return nil, errors.New("skill description is required in frontmatter")
	}

	return &Document{
		Name:        name,
		Description: description,
		Body:        extractBody(string(content)),
	}, nil
}

// extractBody removes YAML frontmatter and returns the body
func extractBody(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	frontmatterEnd := -1

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			frontmatterEnd = i
			break
		}
	}

	if frontmatterEnd == -1 {
		return content
	}

	return strings.TrimLeft(strings.Join(lines[frontmatterEnd+1:], "\n"), "\n")
}
