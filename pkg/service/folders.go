package service

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/notesplusplus/pkg/models"
	"github.com/mattsolo1/notesplusplus/pkg/paths"
	"github.com/mattsolo1/notesplusplus/pkg/storage"
	"github.com/mattsolo1/notesplusplus/pkg/tree"
)

// CreateFolder creates a folder in parent. An empty name picks the lowest
// free "New Folder" name. The parent is expanded so the folder is visible.
func (s *Service) CreateFolder(parent, name string) models.Result[*models.Node] {
	return run(s, "create folder", func(pc *projectContext) (*models.Node, error) {
		folder, err := folderPath(parent)
		if err != nil {
			return nil, err
		}
		if folder != paths.Root {
			ok, err := pc.backend.FolderExists(folder)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, models.NotFoundf("folder %s not found", folder)
			}
		}
		if name == "" {
			siblings := tree.ChildNames(tree.FindNode(s.snapshot(pc), folder), models.NodeTypeFolder)
			name = nextAvailableName(untitledFolder, siblings)
		}
		name, err = folderName(name)
		if err != nil {
			return nil, err
		}
		p := paths.Join(folder, name)

		exists, err := storage.Exists(pc.backend, p)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, models.AlreadyExistsf("%s already exists", p)
		}
		err = pc.backend.CreateFolder(p)
		root := s.refresh(pc)
		if err != nil {
			return nil, err
		}
		if folder != paths.Root {
			s.view.Open(folder)
			s.saveState()
		}
		if n := tree.FindNode(root, p); n != nil {
			return n, nil
		}
		return models.NewFolder(p, paths.Base(p), models.Metadata{}), nil
	})
}

// DeleteFolder removes a folder and everything below it.
func (s *Service) DeleteFolder(path string) models.Result[struct{}] {
	return run(s, "delete folder", func(pc *projectContext) (struct{}, error) {
		if err := paths.Validate(path); err != nil {
			return struct{}{}, err
		}
		p := paths.Clean(path)
		if p == paths.Root {
			return struct{}{}, models.InvalidInputf("the root folder cannot be deleted")
		}
		ok, err := pc.backend.FolderExists(p)
		if err != nil {
			return struct{}{}, err
		}
		if !ok {
			return struct{}{}, models.NotFoundf("folder %s not found", p)
		}
		err = pc.backend.DeleteFolder(p)
		s.refresh(pc)
		if err != nil {
			return struct{}{}, err
		}
		s.afterRemoval(p)
		return struct{}{}, nil
	})
}

// MoveItem moves a note or folder from oldPath to newPath. Moving onto
// itself succeeds without touching storage. The selection, history and
// open folders follow the moved item.
func (s *Service) MoveItem(oldPath, newPath string) models.Result[string] {
	return run(s, "move item", func(pc *projectContext) (string, error) {
		return s.move(pc, oldPath, newPath)
	})
}

func (s *Service) move(pc *projectContext, oldPath, newPath string) (string, error) {
	if err := paths.Validate(oldPath); err != nil {
		return "", err
	}
	if err := paths.Validate(newPath); err != nil {
		return "", err
	}
	src, dst := paths.Clean(oldPath), paths.Clean(newPath)
	if src == paths.Root || dst == paths.Root {
		return "", models.InvalidInputf("the root folder cannot be moved")
	}

	isFolder := false
	if !paths.HasExtension(src) {
		ok, err := pc.backend.FolderExists(src)
		if err != nil {
			return "", err
		}
		isFolder = ok
	}
	if !isFolder {
		src, dst = paths.EnsureExtension(src), paths.EnsureExtension(dst)
	}
	if src == dst {
		return dst, nil
	}
	if isFolder && paths.IsSameOrDescendant(dst, src) {
		return "", models.InvalidInputf("cannot move %s into itself", src)
	}

	exists, err := storage.Exists(pc.backend, src)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", models.NotFoundf("%s not found", src)
	}
	if exists, err = storage.Exists(pc.backend, dst); err != nil {
		return "", err
	} else if exists {
		return "", models.AlreadyExistsf("%s already exists", dst)
	}

	captured := s.view.Capture(src)
	err = pc.backend.Move(src, dst)
	s.refresh(pc)
	if err != nil {
		return "", err
	}

	s.store.RewritePrefix(src, dst)
	if isFolder {
		s.view.Restore(captured, src, dst)
	}
	if parent := paths.Parent(dst); parent != paths.Root {
		s.view.Open(parent)
	}
	s.saveState()
	s.logger.WithFields(logrus.Fields{"from": src, "to": dst}).Debug("Moved item")
	return dst, nil
}

// RenameItem renames a note or folder in place. Note names get the note
// extension; folder names are used verbatim.
func (s *Service) RenameItem(path, newName string) models.Result[string] {
	return run(s, "rename item", func(pc *projectContext) (string, error) {
		if err := paths.Validate(path); err != nil {
			return "", err
		}
		p := paths.Clean(path)
		newName = strings.TrimSpace(newName)
		if newName == "" || newName == "." || newName == ".." {
			return "", models.InvalidInputf("invalid name %q", newName)
		}
		if paths.ContainsSeparator(newName) {
			return "", models.InvalidInputf("name %q must not contain path separators", newName)
		}

		isFolder := false
		if !paths.HasExtension(p) {
			ok, err := pc.backend.FolderExists(p)
			if err != nil {
				return "", err
			}
			isFolder = ok
		}
		if !isFolder {
			newName = paths.EnsureExtension(newName)
		}
		return s.move(pc, p, paths.Join(paths.Parent(p), newName))
	})
}
