// Package parser derives tags, links, and checklist state from note text.
package parser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/starford/othala/internal/models"
)

var (
	wikilinkRe = regexp.MustCompile(`\[\[(.*?)\]\]`)
	tagRe      = regexp.MustCompile(`#([A-Za-z0-9][A-Za-z0-9_-]*)`)
	slugOkRe   = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

// Tags returns the deduplicated, lowercased #tag tokens found in body,
// sorted for determinism.
func Tags(body string) []string {
	matches := tagRe.FindAllStringSubmatch(body, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		t := strings.ToLower(m[1])
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Slug derives the implicit title tag: lowercase, whitespace collapsed to
// hyphens, non-slug characters stripped. Returns "" when the result is too
// short to be a useful tag. Slugging an already-slug string is a no-op.
func Slug(title string) string {
	mapped := strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			return c
		case c == '-' || c == '_':
			return c
		default:
			return ' '
		}
	}, title)
	fields := strings.Fields(strings.ToLower(mapped))
	slug := strings.Join(fields, "-")
	if len(slug) < 2 {
		return ""
	}
	return slug
}

// ValidTag reports whether tag matches the tag grammar [a-z0-9_-]+.
func ValidTag(tag string) bool {
	return slugOkRe.MatchString(tag)
}

// ResolveLinks extracts every [[Title]] occurrence in body and resolves it
// case-insensitively against the given notes, excluding excludeID (a note
// never links to itself). When several notes share a title the most
// recently updated wins; equal timestamps break by smallest id. The result
// is a sorted set of note ids.
func ResolveLinks(body string, notes []models.Note, excludeID string) []string {
	matches := wikilinkRe.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil
	}
	ids := make(map[string]struct{})
	for _, m := range matches {
		title := strings.ToLower(strings.TrimSpace(m[1]))
		if title == "" {
			continue
		}
		var best *models.Note
		for i := range notes {
			n := &notes[i]
			if n.ID == excludeID || strings.ToLower(n.Title) != title {
				continue
			}
			if best == nil ||
				n.UpdatedAt.After(best.UpdatedAt) ||
				(n.UpdatedAt.Equal(best.UpdatedAt) && n.ID < best.ID) {
				best = n
			}
		}
		if best != nil {
			ids[best.ID] = struct{}{}
		}
	}
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// TaskStats reports whether body contains unchecked and checked GFM
// checklist lines ("- [ ]" / "- [x]", "*" bullets included).
func TaskStats(body string) (unchecked, checked bool) {
	for _, line := range strings.Split(body, "\n") {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "- [ ]") || strings.HasPrefix(t, "* [ ]") {
			unchecked = true
		}
		if strings.HasPrefix(t, "- [x]") || strings.HasPrefix(t, "- [X]") ||
			strings.HasPrefix(t, "* [x]") || strings.HasPrefix(t, "* [X]") {
			checked = true
		}
		if unchecked && checked {
			return
		}
	}
	return
}
