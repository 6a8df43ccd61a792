package tree

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/notesplusplus/pkg/models"
	"github.com/mattsolo1/notesplusplus/pkg/paths"
	"github.com/mattsolo1/notesplusplus/pkg/storage"
)

// Skip records an item left out of a built tree.
type Skip struct {
	Path string
	Err  error
}

type buildOptions struct {
	logger *logrus.Entry
}

// BuildOption configures Build.
type BuildOption func(*buildOptions)

// WithLogger sets the logger skipped items are reported to.
func WithLogger(logger *logrus.Entry) BuildOption {
	return func(o *buildOptions) {
		o.logger = logger
	}
}

// Build reads the whole project through the backend and returns a fresh
// tree. It never fails: unreadable notes and folders are left out and
// returned as skips.
func Build(b storage.Backend, options ...BuildOption) (*models.Node, []Skip) {
	opts := &buildOptions{}
	for _, opt := range options {
		opt(opts)
	}
	if opts.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.logger = logrus.NewEntry(l)
	}

	bld := &builder{backend: b, logger: opts.logger.WithField("sub-component", "tree-builder")}
	meta, _ := b.Metadata(paths.Root)
	root := models.NewFolder(paths.Root, "", meta)
	bld.fill(root)
	return root, bld.skips
}

type builder struct {
	backend storage.Backend
	logger  *logrus.Entry
	skips   []Skip
}

func (b *builder) skip(p string, err error) {
	b.logger.WithField("path", p).WithError(err).Warn("Skipping unreadable item")
	b.skips = append(b.skips, Skip{Path: p, Err: err})
}

func (b *builder) fill(folder *models.Node) {
	entries, err := b.backend.List(folder.Path)
	if err != nil {
		b.skip(folder.Path, err)
		return
	}

	for _, entry := range entries {
		childPath := paths.Join(folder.Path, entry.Name)
		switch {
		case entry.IsFolder:
			meta, err := b.backend.Metadata(childPath)
			if err != nil {
				b.skip(childPath, err)
				continue
			}
			child := models.NewFolder(childPath, entry.Name, meta)
			b.fill(child)
			folder.Children = append(folder.Children, child)
		case paths.HasExtension(entry.Name):
			note, err := b.readNote(childPath)
			if err != nil {
				b.skip(childPath, err)
				continue
			}
			folder.Children = append(folder.Children, note)
		}
	}
}

func (b *builder) readNote(p string) (*models.Node, error) {
	content, err := b.backend.ReadNote(p)
	if err != nil {
		return nil, err
	}
	meta, err := b.backend.Metadata(p)
	if err != nil {
		return nil, err
	}
	return models.NewNote(p, paths.NameFromPath(p), content, meta), nil
}
