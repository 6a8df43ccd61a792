package service

import (
	"github.com/mattsolo1/notesplusplus/pkg/markdown"
	"github.com/mattsolo1/notesplusplus/pkg/models"
	"github.com/mattsolo1/notesplusplus/pkg/paths"
	"github.com/mattsolo1/notesplusplus/pkg/search"
	"github.com/mattsolo1/notesplusplus/pkg/storage"
	"github.com/mattsolo1/notesplusplus/pkg/tree"
)

// GetTree rebuilds the current project's tree from storage and returns it.
func (s *Service) GetTree() models.Result[*models.Node] {
	return run(s, "get tree", func(pc *projectContext) (*models.Node, error) {
		return s.refresh(pc), nil
	})
}

// Refresh rebuilds the snapshot and drops a selection that no longer
// exists in storage.
func (s *Service) Refresh() models.Result[*models.Node] {
	return run(s, "refresh", func(pc *projectContext) (*models.Node, error) {
		root := s.refresh(pc)
		if cur := s.store.Current(); cur != "" && tree.FindNode(root, cur) == nil {
			ok, err := pc.backend.NoteExists(cur)
			if err != nil {
				return nil, err
			}
			if !ok {
				s.store.Clear()
				s.saveState()
				s.autoSelect(root)
			}
		}
		return root, nil
	})
}

// notePath normalizes a user supplied note path.
func notePath(p string) (string, error) {
	if err := paths.Validate(p); err != nil {
		return "", err
	}
	p = paths.Clean(p)
	if p == paths.Root {
		return "", models.InvalidInputf("a note path is required")
	}
	return paths.EnsureExtension(p), nil
}

// folderPath normalizes a user supplied folder path. Empty means root.
func folderPath(p string) (string, error) {
	if p == "" {
		return paths.Root, nil
	}
	if err := paths.Validate(p); err != nil {
		return "", err
	}
	return paths.Clean(p), nil
}

func (s *Service) readNode(pc *projectContext, p string) (*models.Node, error) {
	content, err := pc.backend.ReadNote(p)
	if err != nil && !isCorrupt(err) {
		return nil, err
	}
	meta, err := pc.backend.Metadata(p)
	if err != nil {
		return nil, err
	}
	return models.NewNote(p, paths.NameFromPath(p), content, meta), nil
}

// GetNote reads one note. Unreadable content comes back as an empty document.
func (s *Service) GetNote(path string) models.Result[*models.Node] {
	return run(s, "get note", func(pc *projectContext) (*models.Node, error) {
		p, err := notePath(path)
		if err != nil {
			return nil, err
		}
		return s.readNode(pc, p)
	})
}

// CreateNote writes a new note in parent. An empty name picks the lowest
// free "Untitled" name among the notes of the last snapshot. A nil content
// creates an empty document. The new note becomes the selection.
func (s *Service) CreateNote(parent, name string, content *models.NoteContent) models.Result[*models.Node] {
	return run(s, "create note", func(pc *projectContext) (*models.Node, error) {
		folder, err := folderPath(parent)
		if err != nil {
			return nil, err
		}
		if content == nil {
			content = models.EmptyDoc()
		}
		if err := content.Validate(); err != nil {
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
			siblings := tree.ChildNames(tree.FindNode(s.snapshot(pc), folder), models.NodeTypeNote)
			name = nextAvailableName(untitledNote, siblings)
		}
		fileName, err := noteName(name)
		if err != nil {
			return nil, err
		}
		p := paths.Join(folder, fileName)

		exists, err := storage.Exists(pc.backend, p)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, models.AlreadyExistsf("note %s already exists", p)
		}

		if err := pc.backend.WriteNote(p, content); err != nil {
			s.refresh(pc)
			return nil, err
		}
		s.refresh(pc)
		s.store.Select(p)
		if folder != paths.Root {
			s.view.Open(folder)
		}
		s.saveState()
		return s.readNode(pc, p)
	})
}

// UpdateNoteContent replaces the content of an existing note.
func (s *Service) UpdateNoteContent(path string, content *models.NoteContent) models.Result[*models.Node] {
	return run(s, "update note", func(pc *projectContext) (*models.Node, error) {
		p, err := notePath(path)
		if err != nil {
			return nil, err
		}
		if err := content.Validate(); err != nil {
			return nil, err
		}
		ok, err := pc.backend.NoteExists(p)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, models.NotFoundf("note %s not found", p)
		}
		if err := pc.backend.WriteNote(p, content); err != nil {
			s.refresh(pc)
			return nil, err
		}
		s.refresh(pc)
		return s.readNode(pc, p)
	})
}

// DeleteNote removes a note. When the selection was the deleted note it
// moves to the first remaining note.
func (s *Service) DeleteNote(path string) models.Result[struct{}] {
	return run(s, "delete note", func(pc *projectContext) (struct{}, error) {
		p, err := notePath(path)
		if err != nil {
			return struct{}{}, err
		}
		ok, err := pc.backend.NoteExists(p)
		if err != nil {
			return struct{}{}, err
		}
		if !ok {
			return struct{}{}, models.NotFoundf("note %s not found", p)
		}
		err = pc.backend.DeleteNote(p)
		s.refresh(pc)
		if err != nil {
			return struct{}{}, err
		}
		s.afterRemoval(p)
		return struct{}{}, nil
	})
}

// afterRemoval drops selection, history and open flags pointing at or
// below p, reselecting the first note when the selection was lost.
func (s *Service) afterRemoval(p string) {
	if s.store.Prune(p) {
		if first := s.store.FirstNote(); first != nil {
			s.store.Select(first.Path)
		}
	}
	s.view.Forget(p)
	s.saveState()
}

// SearchNotes returns every note whose name or path contains query,
// ignoring case.
func (s *Service) SearchNotes(query string, options ...search.Option) models.Result[[]*models.Node] {
	return run(s, "search notes", func(pc *projectContext) ([]*models.Node, error) {
		return search.Scan(pc.backend, query, options...)
	})
}

// ExportMarkdown renders a note as markdown.
func (s *Service) ExportMarkdown(path string, options ...markdown.ExportOption) models.Result[string] {
	return run(s, "export note", func(pc *projectContext) (string, error) {
		p, err := notePath(path)
		if err != nil {
			return "", err
		}
		content, err := storage.ReadNoteLenient(pc.backend, p)
		if err != nil {
			return "", err
		}
		return markdown.ToMarkdown(content, options...), nil
	})
}

// ReadAttachment reads a host file referenced from a note.
func (s *Service) ReadAttachment(path string) models.Result[[]byte] {
	data, err := s.attachments.Read(path)
	if err != nil {
		s.logFailure("read attachment", err)
		return models.Fail[[]byte](err)
	}
	return models.Ok(data)
}
