// Package render produces the export formats of a note: Markdown with an
// optional YAML frontmatter block, and HTML.
package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/starford/othala/internal/models"
)

// frontmatter is the YAML header emitted by Markdown exports.
type frontmatter struct {
	Tags    []string `yaml:"tags,omitempty"`
	Created string   `yaml:"created"`
	Updated string   `yaml:"updated"`
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Text renders the plain-text export: title, blank line, body.
func Text(c models.NoteContent) string {
	return fmt.Sprintf("%s\n\n%s\n", c.Meta.Title, strings.TrimSuffix(c.Body, "\n"))
}

// Markdown renders the note as a Markdown document. The frontmatter block
// is emitted only when it would carry information (tags, or an edit after
// creation); [[links]] are left as-is for compatibility with wiki tools.
func Markdown(c models.NoteContent) (string, error) {
	var b strings.Builder
	if len(c.Meta.Tags) > 0 || !c.Meta.CreatedAt.Equal(c.Meta.UpdatedAt) {
		fm := frontmatter{
			Tags:    c.Meta.Tags,
			Created: c.Meta.CreatedAt.Format(time.RFC3339),
			Updated: c.Meta.UpdatedAt.Format(time.RFC3339),
		}
		out, err := yaml.Marshal(&fm)
		if err != nil {
			return "", fmt.Errorf("render: frontmatter: %w", err)
		}
		b.WriteString("---\n")
		b.Write(out)
		b.WriteString("---\n\n")
	}
	fmt.Fprintf(&b, "# %s\n\n", c.Meta.Title)
	b.WriteString(c.Body)
	if !strings.HasSuffix(c.Body, "\n") {
		b.WriteString("\n")
	}
	return b.String(), nil
}

// HTML renders the note to HTML (GFM, so checklist lines become task-list
// items). No frontmatter: this output is for display, not re-import.
func HTML(c models.NoteContent) (string, error) {
	src := fmt.Sprintf("# %s\n\n%s", c.Meta.Title, c.Body)
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render: html: %w", err)
	}
	return buf.String(), nil
}
