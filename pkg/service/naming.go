package service

import (
	"fmt"
	"strings"

	"github.com/mattsolo1/notesplusplus/pkg/models"
	"github.com/mattsolo1/notesplusplus/pkg/paths"
)

const (
	untitledNote   = "Untitled"
	untitledFolder = "New Folder"
)

// nextAvailableName returns base, or "base N" with the lowest N >= 2 that
// is not taken.
func nextAvailableName(base string, taken map[string]struct{}) string {
	if _, ok := taken[base]; !ok {
		return base
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s %d", base, i)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}

// noteName validates a user supplied note name.
func noteName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", models.InvalidInputf("note name is required")
	}
	if paths.ContainsSeparator(name) {
		return "", models.InvalidInputf("note name %q must not contain path separators", name)
	}
	if paths.StripExtension(name) == "" || name == "." || name == ".." {
		return "", models.InvalidInputf("invalid note name %q", name)
	}
	return paths.EnsureExtension(name), nil
}

// folderName cleans a user supplied folder name.
func folderName(name string) (string, error) {
	name = paths.SanitizeName(strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." {
		return "", models.InvalidInputf("invalid folder name %q", name)
	}
	return name, nil
}
