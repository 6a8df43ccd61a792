package service

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/mattsolo1/notesplusplus/pkg/treestore"
)

// uiState is what survives between sessions for one project: the
// selection with its history and the expanded folders.
type uiState struct {
	Selection treestore.Snapshot `yaml:"selection"`
	Open      []string           `yaml:"open,omitempty"`
}

func (s *Service) statePath(projectID string) string {
	if s.Config.DataDir == "" {
		return ""
	}
	return filepath.Join(s.Config.DataDir, "state", projectID+".yaml")
}

func (s *Service) loadState(projectID string) {
	path := s.statePath(projectID)
	if path == "" {
		return
	}
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.WithError(err).WithField("path", path).Warn("Failed to read UI state")
		}
		return
	}
	var state uiState
	if err := yaml.Unmarshal(data, &state); err != nil {
		s.logger.WithError(err).WithField("path", path).Warn("Ignoring unreadable UI state")
		return
	}
	s.store.Restore(state.Selection)
	s.view.Load(state.Open)
}

// saveState writes the current project's UI state. Failures are logged
// only; UI state is a convenience.
func (s *Service) saveState() {
	if s.project == nil {
		return
	}
	path := s.statePath(s.project.ID)
	if path == "" {
		return
	}
	state := uiState{
		Selection: s.store.Snapshot(),
		Open:      s.view.OpenPaths(),
	}
	data, err := yaml.Marshal(&state)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to encode UI state")
		return
	}
	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		s.logger.WithError(err).WithField("path", path).Warn("Failed to create UI state directory")
		return
	}
	if err := afero.WriteFile(s.fs, path, data, 0644); err != nil {
		s.logger.WithError(err).WithField("path", path).Warn("Failed to write UI state")
	}
}
