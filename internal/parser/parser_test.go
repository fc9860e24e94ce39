package parser

import (
	"reflect"
	"testing"
	"time"

	"github.com/starford/othala/internal/models"
)

func TestTags(t *testing.T) {
	body := "Plan #Alpha and #beta, revisit #alpha later. #work-log #a_b"
	got := Tags(body)
	want := []string{"a_b", "alpha", "beta", "work-log"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tags = %v, want %v", got, want)
	}
}

func TestTags_IgnoresBareHash(t *testing.T) {
	if got := Tags("# heading\n#-nope\nno tags here"); got != nil {
		t.Errorf("Tags = %v, want nil", got)
	}
}

func TestSlug(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Project Alpha", "project-alpha"},
		{"  Weekly   Sync!  ", "weekly-sync"},
		{"2026-08-23", "2026-08-23"},
		{"a", ""},
		{"?!", ""},
	}
	for _, c := range cases {
		if got := Slug(c.in); got != c.want {
			t.Errorf("Slug(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSlug_Idempotent(t *testing.T) {
	s := Slug("Project Alpha")
	if Slug(s) != s {
		t.Errorf("Slug(%q) = %q, not idempotent", s, Slug(s))
	}
}

func TestValidTag(t *testing.T) {
	for _, tag := range []string{"alpha", "work-log", "a_b", "2026"} {
		if !ValidTag(tag) {
			t.Errorf("ValidTag(%q) = false", tag)
		}
	}
	for _, tag := range []string{"", "Alpha", "has space", "ümlaut"} {
		if ValidTag(tag) {
			t.Errorf("ValidTag(%q) = true", tag)
		}
	}
}

func notesFixture() []models.Note {
	t0 := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return []models.Note{
		{ID: "n1", Title: "Roadmap", UpdatedAt: t0},
		{ID: "n2", Title: "Ideas", UpdatedAt: t0.Add(time.Hour)},
		{ID: "n3", Title: "roadmap", UpdatedAt: t0.Add(2 * time.Hour)},
	}
}

func TestResolveLinks(t *testing.T) {
	got := ResolveLinks("see [[Ideas]] and [[missing]]", notesFixture(), "n1")
	if !reflect.DeepEqual(got, []string{"n2"}) {
		t.Errorf("links = %v", got)
	}
}

func TestResolveLinks_CaseInsensitive(t *testing.T) {
	got := ResolveLinks("[[ideas]]", notesFixture(), "n1")
	if !reflect.DeepEqual(got, []string{"n2"}) {
		t.Errorf("links = %v", got)
	}
}

func TestResolveLinks_ExcludesSelf(t *testing.T) {
	if got := ResolveLinks("[[Roadmap]]", notesFixture(), "n3"); !reflect.DeepEqual(got, []string{"n1"}) {
		t.Errorf("links = %v", got)
	}
}

func TestResolveLinks_DuplicateTitleTieBreak(t *testing.T) {
	// n3 has the same title (case-insensitively) as n1 and is newer: it wins.
	got := ResolveLinks("[[Roadmap]]", notesFixture(), "n2")
	if !reflect.DeepEqual(got, []string{"n3"}) {
		t.Errorf("links = %v, want [n3]", got)
	}

	// Equal timestamps break by smallest id.
	ts := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)
	equal := []models.Note{
		{ID: "b", Title: "Dup", UpdatedAt: ts},
		{ID: "a", Title: "Dup", UpdatedAt: ts},
	}
	got = ResolveLinks("[[Dup]]", equal, "z")
	if !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("links = %v, want [a]", got)
	}
}

func TestTaskStats(t *testing.T) {
	unchecked, checked := TaskStats("- [ ] send invite\n- [x] book room\n")
	if !unchecked || !checked {
		t.Errorf("unchecked=%v checked=%v", unchecked, checked)
	}

	unchecked, checked = TaskStats("* [X] done only\n")
	if unchecked || !checked {
		t.Errorf("unchecked=%v checked=%v", unchecked, checked)
	}

	unchecked, checked = TaskStats("no tasks\n-[ ] not a task\n")
	if unchecked || checked {
		t.Errorf("unchecked=%v checked=%v", unchecked, checked)
	}
}
