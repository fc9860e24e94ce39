// Package attachments manages the files imported into a note's image
// directory. Metadata updates are the caller's job: every operation here
// touches the disk only, so the index half of a command can be withheld
// when the filesystem half fails.
package attachments

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/pathsafe"
	"github.com/starford/othala/internal/storage"
)

// Store copies, renames, and removes attachment files under the store root.
type Store struct {
	files storage.Provider
	now   func() time.Time
}

// NewStore creates an attachment store backed by the given provider.
func NewStore(files storage.Provider) *Store {
	return &Store{files: files, now: time.Now}
}

// Dir returns the note's attachment directory relative to the store root.
func Dir(noteID string) string {
	return path.Join("images", pathsafe.SanitizeFilename(noteID))
}

// Import copies each existing regular file from sources (absolute external
// paths) into the note's directory and returns the new refs in order.
// Missing or non-file sources are skipped, matching drag-and-drop behavior
// where stale paths may arrive.
func (s *Store) Import(noteID string, sources []string) ([]models.ImageRef, error) {
	if err := pathsafe.ValidateID(noteID); err != nil {
		return nil, err
	}
	addedAt := s.now()
	var refs []models.ImageRef
	for _, src := range sources {
		info, err := os.Stat(src)
		if err != nil || info.IsDir() {
			continue
		}
		base := filepath.Base(src)
		ext := strings.TrimPrefix(filepath.Ext(base), ".")
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		rel := s.pickName(noteID, stem, ext)
		n, err := s.files.CopyIn(src, rel)
		if err != nil {
			return nil, err
		}
		size := n
		refs = append(refs, models.ImageRef{
			Name:    base,
			Path:    rel,
			AddedAt: addedAt,
			Size:    &size,
		})
	}
	return refs, nil
}

// FromData writes clipboard bytes as a new attachment. suggestedName
// provides the display name and extension; the extension defaults to png.
func (s *Store) FromData(noteID string, data []byte, suggestedName string) (models.ImageRef, error) {
	if err := pathsafe.ValidateID(noteID); err != nil {
		return models.ImageRef{}, err
	}
	if len(data) == 0 {
		return models.ImageRef{}, fmt.Errorf("attachments: empty data: %w", apperr.ErrValidation)
	}
	base := filepath.Base(suggestedName)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	if ext == "" {
		ext = "png"
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." {
		stem = "paste"
	}
	rel := s.pickName(noteID, stem, ext)
	if err := s.files.Write(rel, data); err != nil {
		return models.ImageRef{}, err
	}
	size := int64(len(data))
	name := stem + "." + ext
	return models.ImageRef{Name: name, Path: rel, AddedAt: s.now(), Size: &size}, nil
}

// Remove deletes the attachment file. The path must lie inside the note's
// own directory; deleting an already-missing file succeeds.
func (s *Store) Remove(noteID, relPath string) error {
	clean, err := s.ownPath(noteID, relPath)
	if err != nil {
		return err
	}
	return s.files.Delete(clean)
}

// Rename moves the attachment on disk and returns its new relative path.
// The caller updates the ref's name and path together only after this
// succeeds. The timestamp prefix and extension of the stored name survive a
// rename so uniqueness is preserved.
func (s *Store) Rename(noteID, relPath, newName string) (string, error) {
	clean, err := s.ownPath(noteID, relPath)
	if err != nil {
		return "", err
	}
	sanitized := pathsafe.SanitizeFilename(strings.TrimSpace(newName))
	sanitized = strings.TrimSuffix(sanitized, filepath.Ext(sanitized))
	if sanitized == "" {
		return "", fmt.Errorf("attachments: name cannot be empty: %w", apperr.ErrValidation)
	}

	oldBase := path.Base(clean)
	ext := path.Ext(oldBase)
	stored := sanitized + ext
	if prefix, ok := timestampPrefix(oldBase); ok {
		stored = prefix + "-" + stored
	}
	newRel := path.Join(Dir(noteID), stored)
	if newRel == clean {
		return clean, nil
	}
	if s.files.Exists(newRel) {
		return "", fmt.Errorf("attachments: %s already exists: %w", stored, apperr.ErrValidation)
	}
	if err := s.files.Rename(clean, newRel); err != nil {
		return "", err
	}
	return newRel, nil
}

// Resolve maps a stored relative path to an absolute one for display,
// re-validating through the sanitizer in case the index entry is corrupt.
func (s *Store) Resolve(relPath string) (string, error) {
	clean, err := pathsafe.CleanRel(relPath)
	if err != nil {
		return "", err
	}
	return s.files.Abs(clean)
}

// CopyAll duplicates every attachment of srcID into destID's directory
// under the same stored names. Used by note duplication.
func (s *Store) CopyAll(srcID, destID string) error {
	if err := pathsafe.ValidateID(srcID); err != nil {
		return err
	}
	if err := pathsafe.ValidateID(destID); err != nil {
		return err
	}
	names, err := s.files.ListDir(Dir(srcID))
	if err != nil {
		return err
	}
	for _, name := range names {
		abs, err := s.files.Abs(path.Join(Dir(srcID), name))
		if err != nil {
			return err
		}
		if _, err := s.files.CopyIn(abs, path.Join(Dir(destID), name)); err != nil {
			return err
		}
	}
	return nil
}

// RemoveAll deletes the note's whole attachment directory.
func (s *Store) RemoveAll(noteID string) error {
	if err := pathsafe.ValidateID(noteID); err != nil {
		return err
	}
	return s.files.RemoveDir(Dir(noteID))
}

// pickName builds a unique stored name: a millisecond timestamp prefix
// guarantees uniqueness across repeated imports of the same file; a counter
// suffix covers collisions within the same millisecond.
func (s *Store) pickName(noteID, stem, ext string) string {
	safe := pathsafe.SanitizeFilename(stem)
	if safe == "" {
		safe = "file"
	}
	millis := s.now().UnixMilli()
	for i := 0; ; i++ {
		name := fmt.Sprintf("%d-%s", millis, safe)
		if i > 0 {
			name = fmt.Sprintf("%d-%s-%d", millis, safe, i)
		}
		if ext != "" {
			name += "." + ext
		}
		rel := path.Join(Dir(noteID), name)
		if !s.files.Exists(rel) {
			return rel
		}
	}
}

// ownPath validates that relPath is a file inside the note's directory.
func (s *Store) ownPath(noteID, relPath string) (string, error) {
	if err := pathsafe.ValidateID(noteID); err != nil {
		return "", err
	}
	clean, err := pathsafe.CleanRel(relPath)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(clean, Dir(noteID)+"/") {
		return "", fmt.Errorf("attachments: %q outside note directory: %w", relPath, apperr.ErrInvalidPath)
	}
	return clean, nil
}

func timestampPrefix(base string) (string, bool) {
	i := strings.IndexByte(base, '-')
	if i <= 0 {
		return "", false
	}
	for _, c := range base[:i] {
		if c < '0' || c > '9' {
			return "", false
		}
	}
	return base[:i], true
}
