package migration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/mattsolo1/notesplusplus/pkg/models"
	"github.com/mattsolo1/notesplusplus/pkg/paths"
)

const dsStore = ".DS_Store"

// IsLegacyFile reports whether a file under the legacy root holds a note
// in the old plain-text format rather than a structured document.
func IsLegacyFile(name string, data []byte) bool {
	if name == dsStore || strings.HasSuffix(name, paths.NoteExt) {
		return false
	}
	return !json.Valid(data)
}

// Discover scans the legacy root and returns every legacy note below it.
// A missing root yields no notes.
func Discover(fs afero.Fs, legacyRoot string) ([]models.LegacyNote, error) {
	notes := []models.LegacyNote{}
	if ok, err := afero.DirExists(fs, legacyRoot); err != nil || !ok {
		return notes, nil
	}

	err := afero.Walk(fs, legacyRoot, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		name := info.Name()
		if name == dsStore || strings.HasSuffix(name, paths.NoteExt) {
			return nil
		}
		data, err := afero.ReadFile(fs, p)
		if err != nil {
			return err
		}
		if !IsLegacyFile(name, data) {
			return nil
		}
		rel, err := filepath.Rel(legacyRoot, p)
		if err != nil {
			return err
		}
		notes = append(notes, models.LegacyNote{
			Path:    paths.Clean(filepath.ToSlash(rel)),
			Content: string(data),
		})
		return nil
	})
	if err != nil {
		return nil, models.IOFailure(err, "scan legacy notes")
	}
	return notes, nil
}
