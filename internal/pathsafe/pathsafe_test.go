package pathsafe

import (
	"errors"
	"strings"
	"testing"

	"github.com/starford/othala/internal/apperr"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"note.txt", "note.txt"},
		{"a/b\\c", "a_b_c"},
		{"col:on*star?q", "col_on_star_q"},
		{`quo"te<gt>pipe|`, "quo_te_gt_pipe_"},
		{"  spaced  ", "spaced"},
		{"tab\there", "tab_here"},
	}
	for _, c := range cases {
		if got := SanitizeFilename(c.in); got != c.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeFilename_CapsLength(t *testing.T) {
	long := strings.Repeat("x", 500)
	if got := SanitizeFilename(long); len([]rune(got)) != 200 {
		t.Errorf("len = %d, want 200", len([]rune(got)))
	}
}

func TestValidateID(t *testing.T) {
	bad := []string{"", ".", "..", "a/b", `a\b`, "nul\x00id", "new\nline"}
	for _, id := range bad {
		err := ValidateID(id)
		if !errors.Is(err, apperr.ErrInvalidPath) {
			t.Errorf("ValidateID(%q) = %v, want ErrInvalidPath", id, err)
		}
	}
	good := []string{"abc", "9b2d4a60-0d1e-4f3a-9d6e-3a8f0b1c2d3e", "note id", "..."}
	for _, id := range good {
		if err := ValidateID(id); err != nil {
			t.Errorf("ValidateID(%q) = %v", id, err)
		}
	}
}

func TestCleanRel_BlocksTraversal(t *testing.T) {
	bad := []string{
		"../../etc/passwd",
		"..",
		"notes/../../x",
		"/etc/passwd",
		`..\..\etc\passwd`,
		"nul\x00byte",
		".",
	}
	for _, p := range bad {
		if _, err := CleanRel(p); !errors.Is(err, apperr.ErrInvalidPath) {
			t.Errorf("CleanRel(%q) error = %v, want ErrInvalidPath", p, err)
		}
	}
}

func TestCleanRel_Normalizes(t *testing.T) {
	got, err := CleanRel(`images\abc\1-photo.png`)
	if err != nil {
		t.Fatalf("CleanRel: %v", err)
	}
	if got != "images/abc/1-photo.png" {
		t.Errorf("got %q", got)
	}

	got, err = CleanRel("notes//a/./b.txt")
	if err != nil {
		t.Fatalf("CleanRel: %v", err)
	}
	if got != "notes/a/b.txt" {
		t.Errorf("got %q", got)
	}
}
