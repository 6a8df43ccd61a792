// Package host contains the boundary to the application notes are scoped
// to: which project is current, when it changes, and attachment reads.
package host

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/mattsolo1/notesplusplus/pkg/models"
)

// Project identifies the scope a tree of notes belongs to.
type Project struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// ProjectSource reports the current project. A nil project with a nil
// error means no project is selected.
type ProjectSource interface {
	CurrentProject() (*Project, error)
}

// ProjectChange is broadcast when the current project switches.
type ProjectChange struct {
	Previous *Project
	Current  *Project
}

// SameProject reports whether two projects share an id. Two nil projects are the same.
func SameProject(a, b *Project) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}

// StaticSource always reports the same project. It is safe for concurrent use.
type StaticSource struct {
	mu      sync.RWMutex
	project *Project
}

func NewStaticSource(p *Project) *StaticSource {
	return &StaticSource{project: p}
}

func (s *StaticSource) CurrentProject() (*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.project, nil
}

// Set replaces the project and returns the change.
func (s *StaticSource) Set(p *Project) ProjectChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	change := ProjectChange{Previous: s.project, Current: p}
	s.project = p
	return change
}

// FileSource reads the current project from a marker file. The first
// non-empty line holds the project id and an optional name after a tab.
type FileSource struct {
	fs   afero.Fs
	path string
}

func NewFileSource(fs afero.Fs, path string) *FileSource {
	return &FileSource{fs: fs, path: path}
}

// Path returns the marker file location.
func (s *FileSource) Path() string { return s.path }

func (s *FileSource) CurrentProject() (*Project, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, models.IOFailure(err, "read project file %s", s.path)
	}
	return parseProject(data), nil
}

// SetProject writes the marker file.
func (s *FileSource) SetProject(p *Project) error {
	if p == nil {
		if err := s.fs.Remove(s.path); err != nil && !os.IsNotExist(err) {
			return models.IOFailure(err, "clear project file %s", s.path)
		}
		return nil
	}
	line := p.ID
	if p.Name != "" {
		line += "\t" + p.Name
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return models.IOFailure(err, "create project file directory")
	}
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, []byte(line+"\n"), 0644); err != nil {
		return models.IOFailure(err, "write project file %s", s.path)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return models.IOFailure(err, "write project file %s", s.path)
	}
	return nil
}

func parseProject(data []byte) *Project {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id, name, _ := strings.Cut(line, "\t")
		return &Project{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name)}
	}
	return nil
}
