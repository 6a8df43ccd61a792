package service

import (
	"github.com/mattsolo1/notesplusplus/pkg/models"
	"github.com/mattsolo1/notesplusplus/pkg/paths"
)

// History is the navigation history of the current project.
type History struct {
	Entries    []string `json:"entries"`
	Index      int      `json:"index"`
	CanBack    bool     `json:"canGoBack"`
	CanForward bool     `json:"canGoForward"`
}

// SelectNote makes path the current note.
func (s *Service) SelectNote(path string) models.Result[*models.Node] {
	return run(s, "select note", func(pc *projectContext) (*models.Node, error) {
		p, err := notePath(path)
		if err != nil {
			return nil, err
		}
		ok, err := pc.backend.NoteExists(p)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, models.NotFoundf("note %s not found", p)
		}
		s.store.Select(p)
		s.saveState()
		return s.readNode(pc, p)
	})
}

// CurrentNote returns the selected note, or nil when nothing is selected.
func (s *Service) CurrentNote() models.Result[*models.Node] {
	return run(s, "current note", func(pc *projectContext) (*models.Node, error) {
		s.snapshot(pc)
		p := s.store.Current()
		if p == "" {
			return nil, nil
		}
		ok, err := pc.backend.NoteExists(p)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.store.Clear()
			s.saveState()
			return nil, nil
		}
		return s.readNode(pc, p)
	})
}

// GoBack selects the previous note in history. It returns an empty path
// when there is nothing to go back to.
func (s *Service) GoBack() models.Result[string] {
	return run(s, "go back", func(pc *projectContext) (string, error) {
		p, ok := s.store.Back()
		if !ok {
			return "", nil
		}
		s.saveState()
		return p, nil
	})
}

// GoForward is the counterpart of GoBack.
func (s *Service) GoForward() models.Result[string] {
	return run(s, "go forward", func(pc *projectContext) (string, error) {
		p, ok := s.store.Forward()
		if !ok {
			return "", nil
		}
		s.saveState()
		return p, nil
	})
}

func (s *Service) History() models.Result[History] {
	return run(s, "history", func(pc *projectContext) (History, error) {
		entries, index := s.store.History()
		return History{
			Entries:    entries,
			Index:      index,
			CanBack:    s.store.CanGoBack(),
			CanForward: s.store.CanGoForward(),
		}, nil
	})
}

func (s *Service) existingFolder(pc *projectContext, path string) (string, error) {
	if err := paths.Validate(path); err != nil {
		return "", err
	}
	p := paths.Clean(path)
	ok, err := pc.backend.FolderExists(p)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", models.NotFoundf("folder %s not found", p)
	}
	return p, nil
}

// OpenFolder expands a folder.
func (s *Service) OpenFolder(path string) models.Result[bool] {
	return run(s, "open folder", func(pc *projectContext) (bool, error) {
		p, err := s.existingFolder(pc, path)
		if err != nil {
			return false, err
		}
		s.view.Open(p)
		s.saveState()
		return true, nil
	})
}

// CloseFolder collapses a folder.
func (s *Service) CloseFolder(path string) models.Result[bool] {
	return run(s, "close folder", func(pc *projectContext) (bool, error) {
		p, err := s.existingFolder(pc, path)
		if err != nil {
			return false, err
		}
		s.view.Close(p)
		s.saveState()
		return false, nil
	})
}

// ToggleFolder flips a folder and returns whether it is now open.
func (s *Service) ToggleFolder(path string) models.Result[bool] {
	return run(s, "toggle folder", func(pc *projectContext) (bool, error) {
		p, err := s.existingFolder(pc, path)
		if err != nil {
			return false, err
		}
		open := s.view.Toggle(p)
		s.saveState()
		return open, nil
	})
}

// OpenFolders lists the expanded folders.
func (s *Service) OpenFolders() models.Result[[]string] {
	return run(s, "open folders", func(pc *projectContext) ([]string, error) {
		return s.view.OpenPaths(), nil
	})
}
