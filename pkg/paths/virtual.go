package paths

import (
	"path"
	"strings"

	"github.com/mattsolo1/notesplusplus/pkg/models"
)

// Root is the virtual path of a project's top-level folder.
const Root = "/"

// NoteExt is the suffix every persisted note carries.
const NoteExt = ".json"

// Clean normalizes a virtual path: forward slashes, a single leading slash,
// no trailing slash, no empty or "." segments.
func Clean(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return path.Clean("/" + p)
}

// Validate rejects paths that could escape the project root.
func Validate(p string) error {
	if strings.TrimSpace(p) == "" {
		return models.InvalidInputf("path is required")
	}
	if strings.ContainsRune(p, 0) {
		return models.InvalidInputf("path %q contains a NUL byte", p)
	}
	for _, seg := range strings.Split(strings.ReplaceAll(p, "\\", "/"), "/") {
		if seg == ".." {
			return models.InvalidInputf("path %q must not contain '..'", p)
		}
	}
	return nil
}

// Segments splits a virtual path into its non-empty segments.
func Segments(p string) []string {
	c := Clean(p)
	if c == Root {
		return nil
	}
	return strings.Split(strings.TrimPrefix(c, "/"), "/")
}

// Join appends name to a folder path.
func Join(folder, name string) string {
	return Clean(path.Join(Clean(folder), name))
}

// Parent returns the containing folder path. The parent of root is root.
func Parent(p string) string {
	return path.Dir(Clean(p))
}

// Base returns the last segment, or "" for root.
func Base(p string) string {
	c := Clean(p)
	if c == Root {
		return ""
	}
	return path.Base(c)
}

// HasExtension reports whether p names a persisted note.
func HasExtension(p string) bool {
	return strings.HasSuffix(p, NoteExt)
}

// EnsureExtension appends the note suffix unless it is already present.
func EnsureExtension(p string) string {
	if HasExtension(p) {
		return p
	}
	return p + NoteExt
}

// StripExtension removes the note suffix if present.
func StripExtension(p string) string {
	return strings.TrimSuffix(p, NoteExt)
}

// NameFromPath returns the display name of a path: its last segment without
// the note suffix.
func NameFromPath(p string) string {
	return StripExtension(Base(p))
}

// IsSameOrDescendant reports whether p equals ancestor or lies below it.
func IsSameOrDescendant(p, ancestor string) bool {
	p, ancestor = Clean(p), Clean(ancestor)
	if ancestor == Root || p == ancestor {
		return true
	}
	return strings.HasPrefix(p, ancestor+"/")
}

// ReplacePrefix rewrites p when it is oldPrefix or lies below it.
// The second result reports whether a rewrite happened.
func ReplacePrefix(p, oldPrefix, newPrefix string) (string, bool) {
	c, o := Clean(p), Clean(oldPrefix)
	if c == o {
		return Clean(newPrefix), true
	}
	if o != Root && strings.HasPrefix(c, o+"/") {
		return Clean(newPrefix + c[len(o):]), true
	}
	return p, false
}

// ContainsSeparator reports whether a single name contains a path separator.
func ContainsSeparator(name string) bool {
	return strings.ContainsAny(name, "/\\")
}

// SanitizeName replaces path separators in a name with dashes.
func SanitizeName(name string) string {
	return strings.NewReplacer("/", "-", "\\", "-").Replace(name)
}
