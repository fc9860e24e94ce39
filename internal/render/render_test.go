package render

import (
	"strings"
	"testing"
	"time"

	"github.com/starford/othala/internal/models"
)

func content(tags []string, created, updated time.Time, body string) models.NoteContent {
	return models.NoteContent{
		Meta: models.Note{Title: "My Note", Tags: tags, CreatedAt: created, UpdatedAt: updated},
		Body: body,
	}
}

func TestText(t *testing.T) {
	ts := time.Now()
	got := Text(content(nil, ts, ts, "line one\nline two\n"))
	if got != "My Note\n\nline one\nline two\n" {
		t.Errorf("got %q", got)
	}
}

func TestMarkdown_NoFrontmatterForFreshUntaggedNote(t *testing.T) {
	ts := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	got, err := Markdown(content(nil, ts, ts, "body"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "# My Note\n\nbody\n" {
		t.Errorf("got %q", got)
	}
}

func TestMarkdown_FrontmatterWithTags(t *testing.T) {
	created := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	updated := created.Add(48 * time.Hour)
	got, err := Markdown(content([]string{"alpha", "beta"}, created, updated, "body"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "---\n") {
		t.Fatalf("missing frontmatter: %q", got)
	}
	for _, want := range []string{"- alpha", "- beta", "2026-08-20T10:00:00Z", "2026-08-22T10:00:00Z"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
	if !strings.Contains(got, "# My Note\n\nbody\n") {
		t.Errorf("body section malformed: %q", got)
	}
}

func TestMarkdown_WikilinksLeftAsIs(t *testing.T) {
	ts := time.Now()
	got, _ := Markdown(content(nil, ts, ts, "see [[Other Note]]"))
	if !strings.Contains(got, "[[Other Note]]") {
		t.Errorf("wikilink rewritten: %q", got)
	}
}

func TestHTML_TaskListAndHeading(t *testing.T) {
	ts := time.Now()
	got, err := HTML(content(nil, ts, ts, "- [ ] open item\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "<h1") || !strings.Contains(got, "My Note") {
		t.Errorf("heading missing: %q", got)
	}
	if !strings.Contains(got, "checkbox") {
		t.Errorf("task list not rendered: %q", got)
	}
}
