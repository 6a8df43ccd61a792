package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/mattsolo1/notesplusplus/pkg/models"
	"github.com/mattsolo1/notesplusplus/pkg/paths"
)

// FSBackend stores every folder as a directory and every note as an
// indented JSON file.
type FSBackend struct {
	fs     afero.Fs
	root   string
	logger *logrus.Entry
}

// NewFSBackend returns a backend rooted at root on fs.
func NewFSBackend(fs afero.Fs, root string, logger *logrus.Entry) *FSBackend {
	if logger == nil {
		logger = logrus.NewEntry(discardLogger())
	}
	return &FSBackend{
		fs:     afero.NewBasePathFs(fs, root),
		root:   root,
		logger: logger.WithField("sub-component", "fs-backend"),
	}
}

// Root returns the OS directory backing the project root.
func (b *FSBackend) Root() string { return b.root }

func (b *FSBackend) EnsureRoot() error {
	if err := b.fs.MkdirAll(paths.Root, 0755); err != nil {
		return models.IOFailure(err, "create notes root %s", b.root)
	}
	return nil
}

func (b *FSBackend) NoteExists(p string) (bool, error) {
	info, err := b.fs.Stat(paths.Clean(p))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, models.IOFailure(err, "stat %s", p)
	}
	return !info.IsDir(), nil
}

func (b *FSBackend) FolderExists(p string) (bool, error) {
	ok, err := afero.DirExists(b.fs, paths.Clean(p))
	if err != nil {
		return false, models.IOFailure(err, "stat %s", p)
	}
	return ok, nil
}

func (b *FSBackend) ReadNote(p string) (*models.NoteContent, error) {
	data, err := afero.ReadFile(b.fs, paths.Clean(p))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.NotFoundf("note %s not found", p)
		}
		return nil, models.IOFailure(err, "read note %s", p)
	}
	doc, err := decodeContent(data)
	if err != nil {
		b.logger.WithField("path", p).WithError(err).Warn("Note content could not be decoded")
	}
	return doc, err
}

func (b *FSBackend) WriteNote(p string, content *models.NoteContent) error {
	data, err := content.Encode()
	if err != nil {
		return models.IOFailure(err, "encode note %s", p)
	}
	target := paths.Clean(p)
	dir := path.Dir(target)
	if err := b.fs.MkdirAll(dir, 0755); err != nil {
		return models.IOFailure(err, "create folder %s", dir)
	}

	tmp, err := afero.TempFile(b.fs, dir, "."+path.Base(target)+".*.tmp")
	if err != nil {
		return models.IOFailure(err, "write note %s", p)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = b.fs.Remove(tmpName)
		return models.IOFailure(err, "write note %s", p)
	}
	if err := tmp.Close(); err != nil {
		_ = b.fs.Remove(tmpName)
		return models.IOFailure(err, "write note %s", p)
	}
	if err := b.fs.Chmod(tmpName, 0644); err != nil {
		b.logger.WithField("path", p).WithError(err).Debug("Could not relax note permissions")
	}
	if err := b.fs.Rename(tmpName, target); err != nil {
		_ = b.fs.Remove(tmpName)
		return models.IOFailure(err, "replace note %s", p)
	}
	return nil
}

func (b *FSBackend) CreateFolder(p string) error {
	if err := b.fs.MkdirAll(paths.Clean(p), 0755); err != nil {
		return models.IOFailure(err, "create folder %s", p)
	}
	return nil
}

func (b *FSBackend) DeleteNote(p string) error {
	if err := b.fs.Remove(paths.Clean(p)); err != nil {
		if os.IsNotExist(err) {
			return models.NotFoundf("note %s not found", p)
		}
		return models.IOFailure(err, "delete note %s", p)
	}
	return nil
}

func (b *FSBackend) DeleteFolder(p string) error {
	if err := b.fs.RemoveAll(paths.Clean(p)); err != nil {
		return models.IOFailure(err, "delete folder %s", p)
	}
	return nil
}

// Move copies the source to the destination and removes the source once the
// copy is complete. A failed copy removes the partial destination.
func (b *FSBackend) Move(src, dst string) error {
	src, dst = paths.Clean(src), paths.Clean(dst)
	info, err := b.fs.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return models.NotFoundf("%s not found", src)
		}
		return models.IOFailure(err, "stat %s", src)
	}
	if info.IsDir() && paths.IsSameOrDescendant(dst, src) {
		return models.InvalidInputf("cannot move %s into itself", src)
	}
	if exists, err := afero.Exists(b.fs, dst); err != nil {
		return models.IOFailure(err, "stat %s", dst)
	} else if exists {
		return models.AlreadyExistsf("target path %s already exists", dst)
	}
	if err := b.fs.MkdirAll(path.Dir(dst), 0755); err != nil {
		return models.IOFailure(err, "create folder %s", path.Dir(dst))
	}

	if err := b.copy(src, dst, info); err != nil {
		if rmErr := b.fs.RemoveAll(dst); rmErr != nil {
			b.logger.WithField("path", dst).WithError(rmErr).Warn("Failed to clean up partial copy")
		}
		return models.IOFailure(err, "copy %s to %s", src, dst)
	}
	if err := b.fs.RemoveAll(src); err != nil {
		// The destination is a complete copy; the source may be partly gone.
		b.logger.WithFields(logrus.Fields{"source": src, "destination": dst}).WithError(err).
			Warn("Move copied the item but could not remove the source, both copies remain")
		return models.IOFailure(err, "remove %s after copy", src)
	}
	return nil
}

func (b *FSBackend) copy(src, dst string, info os.FileInfo) error {
	if !info.IsDir() {
		return b.copyFile(src, dst, info)
	}
	if err := b.fs.MkdirAll(dst, info.Mode().Perm()|0700); err != nil {
		return err
	}
	children, err := afero.ReadDir(b.fs, src)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := b.copy(path.Join(src, child.Name()), path.Join(dst, child.Name()), child); err != nil {
			return err
		}
	}
	return nil
}

// copyFile copies one file and carries over its modification time so a
// move does not look like an edit.
func (b *FSBackend) copyFile(src, dst string, info os.FileInfo) error {
	in, err := b.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := b.fs.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return b.fs.Chtimes(dst, info.ModTime(), info.ModTime())
}

func (b *FSBackend) List(folder string) ([]Entry, error) {
	infos, err := afero.ReadDir(b.fs, paths.Clean(folder))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.NotFoundf("folder %s not found", folder)
		}
		return nil, models.IOFailure(err, "list folder %s", folder)
	}
	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, Entry{Name: info.Name(), IsFolder: info.IsDir()})
	}
	return entries, nil
}

// Metadata reports the file's modification time as both timestamps. Birth
// time is not available portably, so CreatedAt advances on every write.
// Moves keep the modification time.
func (b *FSBackend) Metadata(p string) (models.Metadata, error) {
	info, err := b.fs.Stat(paths.Clean(p))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.Metadata{}, models.NotFoundf("%s not found", p)
		}
		return models.Metadata{}, fmt.Errorf("stat %s: %w", p, err)
	}
	return models.Metadata{CreatedAt: info.ModTime(), ModifiedAt: info.ModTime()}, nil
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
