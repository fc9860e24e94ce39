// Package pathsafe validates and normalizes user-supplied identifiers and
// filenames before they reach the filesystem. Every path-touching component
// routes its inputs through this gate.
package pathsafe

import (
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/starford/othala/internal/apperr"
)

// maxFilenameLen bounds sanitized filenames.
const maxFilenameLen = 200

// SanitizeFilename rewrites name into a safe single path segment: path
// separators, reserved punctuation, and control characters become '_', the
// result is trimmed and capped at 200 runes. It never fails; an all-unsafe
// input collapses to underscores.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, c := range name {
		switch {
		case c == '/' || c == '\\' || c == ':' || c == '*' || c == '?' ||
			c == '"' || c == '<' || c == '>' || c == '|' || c == 0:
			b.WriteRune('_')
		case unicode.IsControl(c):
			b.WriteRune('_')
		default:
			b.WriteRune(c)
		}
	}
	out := strings.TrimSpace(b.String())
	runes := []rune(out)
	if len(runes) > maxFilenameLen {
		out = string(runes[:maxFilenameLen])
	}
	return out
}

// ValidateID checks that id is usable as a single path component: non-empty,
// no separators, not "." or "..", no control characters or null bytes.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("pathsafe: empty id: %w", apperr.ErrInvalidPath)
	}
	if strings.ContainsAny(id, "/\\") || id == "." || id == ".." {
		return fmt.Errorf("pathsafe: id %q: %w", id, apperr.ErrInvalidPath)
	}
	for _, c := range id {
		if unicode.IsControl(c) {
			return fmt.Errorf("pathsafe: id contains control characters: %w", apperr.ErrInvalidPath)
		}
	}
	return nil
}

// CleanRel normalizes p into a clean relative path and rejects anything that
// could escape a root after joining: null bytes, absolute paths, and any
// form of ".." traversal. Backslashes are treated as separators so Windows
// style input cannot smuggle segments past the check.
func CleanRel(p string) (string, error) {
	if strings.ContainsRune(p, 0) {
		return "", fmt.Errorf("pathsafe: null byte in path: %w", apperr.ErrInvalidPath)
	}
	p = strings.ReplaceAll(p, "\\", "/")
	if strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("pathsafe: absolute path %q: %w", p, apperr.ErrInvalidPath)
	}
	clean := path.Clean(p)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("pathsafe: path %q escapes root: %w", p, apperr.ErrInvalidPath)
	}
	return clean, nil
}
