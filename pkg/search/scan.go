package search

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/mattsolo1/notesplusplus/pkg/models"
	"github.com/mattsolo1/notesplusplus/pkg/paths"
	"github.com/mattsolo1/notesplusplus/pkg/storage"
)

// Options controls a scan.
type Options struct {
	// Limit caps the number of results. Zero means no limit.
	Limit int
	// Content also matches against the note's plain text.
	Content bool
}

// Option configures a scan.
type Option func(*Options)

// WithLimit caps the number of results.
func WithLimit(n int) Option {
	return func(o *Options) { o.Limit = n }
}

// InContent extends matching to note bodies.
func InContent() Option {
	return func(o *Options) { o.Content = true }
}

// Scan walks every note of the backend and returns those whose name or
// path contains query, ignoring case. Results keep discovery order and
// carry their content. The cost is linear in the number of notes.
func Scan(b storage.Backend, query string, options ...Option) ([]*models.Node, error) {
	opts := &Options{}
	for _, opt := range options {
		opt(opts)
	}
	if strings.TrimSpace(query) == "" {
		return nil, models.InvalidInputf("search query is required")
	}

	s := &scanner{
		backend: b,
		opts:    opts,
		fold:    cases.Fold(),
	}
	s.needle = s.fold.String(query)
	if err := s.folder(paths.Root); err != nil {
		return nil, err
	}
	return s.results, nil
}

type scanner struct {
	backend storage.Backend
	opts    *Options
	fold    cases.Caser
	needle  string
	results []*models.Node
}

func (s *scanner) full() bool {
	return s.opts.Limit > 0 && len(s.results) >= s.opts.Limit
}

func (s *scanner) folder(p string) error {
	entries, err := s.backend.List(p)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if s.full() {
			return nil
		}
		child := paths.Join(p, entry.Name)
		if entry.IsFolder {
			if err := s.folder(child); err != nil {
				return err
			}
			continue
		}
		if !paths.HasExtension(entry.Name) {
			continue
		}
		if err := s.note(child); err != nil {
			return err
		}
	}
	return nil
}

func (s *scanner) note(p string) error {
	name := paths.NameFromPath(p)
	matched := s.contains(name) || s.contains(p)
	if !matched && !s.opts.Content {
		return nil
	}

	content, err := storage.ReadNoteLenient(s.backend, p)
	if err != nil {
		return err
	}
	if !matched && !s.contains(content.PlainText()) {
		return nil
	}

	meta, err := s.backend.Metadata(p)
	if err != nil {
		return err
	}
	s.results = append(s.results, models.NewNote(p, name, content, meta))
	return nil
}

func (s *scanner) contains(haystack string) bool {
	return strings.Contains(s.fold.String(haystack), s.needle)
}
