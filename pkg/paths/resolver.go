package paths

import (
	"path/filepath"
)

const (
	// DefaultNotesDir holds current-format notes, one subdirectory per project.
	DefaultNotesDir = ".NotesPlusPlusV2"
	// DefaultLegacyDir holds notes written by the pre-JSON format.
	DefaultLegacyDir = ".NotesPlusPlus"
)

// Resolver maps (project, virtual path) pairs to locations on the host
// filesystem. It performs no I/O.
type Resolver struct {
	BaseDir   string
	NotesDir  string
	LegacyDir string
}

// NewResolver returns a Resolver rooted at baseDir with the default directory names.
func NewResolver(baseDir string) *Resolver {
	return &Resolver{
		BaseDir:   baseDir,
		NotesDir:  DefaultNotesDir,
		LegacyDir: DefaultLegacyDir,
	}
}

// Root returns the notes root of a project.
func (r *Resolver) Root(projectID string, legacy bool) string {
	dir := r.NotesDir
	if dir == "" {
		dir = DefaultNotesDir
	}
	if legacy {
		dir = r.LegacyDir
		if dir == "" {
			dir = DefaultLegacyDir
		}
	}
	return filepath.Join(r.BaseDir, dir, projectID)
}

// Resolve joins a virtual path onto the project root.
func (r *Resolver) Resolve(projectID, virtualPath string, legacy bool) string {
	return ToOS(r.Root(projectID, legacy), virtualPath)
}

// ToOS joins a virtual path onto an OS directory.
func ToOS(root, virtualPath string) string {
	segs := Segments(virtualPath)
	if len(segs) == 0 {
		return root
	}
	return filepath.Join(append([]string{root}, segs...)...)
}
