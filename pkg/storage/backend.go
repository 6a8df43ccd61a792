package storage

import (
	"errors"

	"github.com/mattsolo1/notesplusplus/pkg/models"
)

// ErrCorruptContent is returned alongside an empty document when a stored
// note cannot be decoded.
var ErrCorruptContent = errors.New("corrupt note content")

// Entry is one child of a listed folder. Note names carry the .json suffix.
type Entry struct {
	Name     string
	IsFolder bool
}

// MetadataProvider reports timestamps for a stored item.
type MetadataProvider interface {
	Metadata(path string) (models.Metadata, error)
}

// Backend stores one project's notes. All paths are virtual, slash
// separated and relative to the project root.
type Backend interface {
	MetadataProvider

	// EnsureRoot creates the project root if it does not exist yet.
	EnsureRoot() error
	NoteExists(path string) (bool, error)
	FolderExists(path string) (bool, error)
	// ReadNote returns the stored document. A document that cannot be
	// decoded is returned as an empty doc together with ErrCorruptContent.
	ReadNote(path string) (*models.NoteContent, error)
	// WriteNote creates or replaces a note, creating missing parent folders.
	WriteNote(path string, content *models.NoteContent) error
	CreateFolder(path string) error
	DeleteNote(path string) error
	// DeleteFolder removes a folder and everything below it. Deleting a
	// missing folder is not an error.
	DeleteFolder(path string) error
	// Move relocates a note or folder. The destination must not exist and
	// the source is left in place when the move fails.
	Move(src, dst string) error
	// List returns the direct children of a folder in backend order.
	List(folder string) ([]Entry, error)
}

// Factory opens the backend of a project.
type Factory func(projectID string) (Backend, error)

// ReadNoteLenient reads a note and treats corrupt content as an empty doc.
func ReadNoteLenient(b Backend, path string) (*models.NoteContent, error) {
	doc, err := b.ReadNote(path)
	if errors.Is(err, ErrCorruptContent) {
		return models.EmptyDoc(), nil
	}
	return doc, err
}

// Exists reports whether path names a note or a folder.
func Exists(b Backend, path string) (bool, error) {
	isNote, err := b.NoteExists(path)
	if err != nil || isNote {
		return isNote, err
	}
	return b.FolderExists(path)
}

func decodeContent(data []byte) (*models.NoteContent, error) {
	doc, err := models.ParseContent(data)
	if err != nil {
		return models.EmptyDoc(), errors.Join(ErrCorruptContent, err)
	}
	return doc, nil
}
