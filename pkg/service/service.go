package service

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/mattsolo1/notesplusplus/pkg/host"
	"github.com/mattsolo1/notesplusplus/pkg/models"
	"github.com/mattsolo1/notesplusplus/pkg/paths"
	"github.com/mattsolo1/notesplusplus/pkg/storage"
	"github.com/mattsolo1/notesplusplus/pkg/tree"
	"github.com/mattsolo1/notesplusplus/pkg/treestore"
	"github.com/mattsolo1/notesplusplus/pkg/treeview"
)

const (
	BackendFS     = "fs"
	BackendSQLite = "sqlite"
)

// Config holds service configuration
type Config struct {
	// BaseDir holds the per-project notes roots.
	BaseDir string
	// DataDir holds UI state and, for the sqlite backend, the database.
	DataDir string
	// Backend selects the storage substrate: "fs" or "sqlite".
	Backend   string
	DBPath    string
	NotesDir  string
	LegacyDir string
	// AttachmentLimit caps attachment reads in bytes.
	AttachmentLimit int64
}

// Service is the note service. It owns one project context at a time and
// serializes every operation on it.
type Service struct {
	mu sync.Mutex

	Config      *Config
	source      host.ProjectSource
	factory     storage.Factory
	fs          afero.Fs
	resolver    *paths.Resolver
	store       *treestore.Store
	view        *treeview.State
	attachments *host.AttachmentReader
	logger      *logrus.Entry
	closer      io.Closer

	project *host.Project
	backend storage.Backend

	subMu       sync.Mutex
	subscribers map[int]func(host.ProjectChange)
	nextSub     int
	pending     []host.ProjectChange
}

// Option configures a Service.
type Option func(*Service)

// WithFs sets the filesystem used for notes, legacy notes and UI state.
func WithFs(fs afero.Fs) Option {
	return func(s *Service) { s.fs = fs }
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(s *Service) { s.logger = logger }
}

// WithBackendFactory overrides the storage substrate selected by Config.
func WithBackendFactory(f storage.Factory) Option {
	return func(s *Service) { s.factory = f }
}

// New creates a new note service
func New(config *Config, source host.ProjectSource, options ...Option) (*Service, error) {
	if config == nil {
		config = &Config{}
	}
	s := &Service{
		Config:      config,
		source:      source,
		store:       treestore.New(),
		view:        treeview.New(),
		subscribers: map[int]func(host.ProjectChange){},
	}
	for _, opt := range options {
		opt(s)
	}
	if s.fs == nil {
		s.fs = afero.NewOsFs()
	}
	if s.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.logger = logrus.NewEntry(l)
	}
	s.logger = s.logger.WithField("component", "service")

	s.resolver = paths.NewResolver(config.BaseDir)
	if config.NotesDir != "" {
		s.resolver.NotesDir = config.NotesDir
	}
	if config.LegacyDir != "" {
		s.resolver.LegacyDir = config.LegacyDir
	}
	s.attachments = host.NewAttachmentReader(s.fs, config.AttachmentLimit)

	if s.factory == nil {
		switch config.Backend {
		case "", BackendFS:
			s.factory = func(projectID string) (storage.Backend, error) {
				return storage.NewFSBackend(s.fs, s.resolver.Root(projectID, false), s.logger), nil
			}
		case BackendSQLite:
			dbPath := config.DBPath
			if dbPath == "" {
				dbPath = filepath.Join(config.DataDir, "notes.db")
			}
			store, err := storage.OpenSQLStore(dbPath, s.logger)
			if err != nil {
				return nil, fmt.Errorf("open notes database: %w", err)
			}
			s.factory = store.Factory()
			s.closer = store
		default:
			return nil, fmt.Errorf("unknown storage backend %q", config.Backend)
		}
	}

	return s, nil
}

// Close persists UI state and releases the storage backend.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveState()
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// Subscribe registers fn for project changes and returns a function that
// removes it. Callbacks run after the operation that noticed the change
// has released the service.
func (s *Service) Subscribe(fn func(host.ProjectChange)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

// lock acquires the service and returns the release function, which also
// delivers project changes queued while it was held.
func (s *Service) lock() func() {
	s.mu.Lock()
	return func() {
		pending := s.pending
		s.pending = nil
		s.mu.Unlock()
		if len(pending) == 0 {
			return
		}
		s.subMu.Lock()
		subs := make([]func(host.ProjectChange), 0, len(s.subscribers))
		for _, fn := range s.subscribers {
			subs = append(subs, fn)
		}
		s.subMu.Unlock()
		for _, change := range pending {
			for _, fn := range subs {
				fn(change)
			}
		}
	}
}

// projectContext is the resolved scope of one operation.
type projectContext struct {
	project *host.Project
	backend storage.Backend
}

func validateProjectID(id string) error {
	if strings.TrimSpace(id) == "" {
		return models.ErrNoProject
	}
	if paths.ContainsSeparator(id) || id == "." || id == ".." {
		return models.InvalidInputf("invalid project id %q", id)
	}
	return nil
}

// resolve asks the host for the current project, switching context when
// it changed, and makes sure the project's root exists.
func (s *Service) resolve() (*projectContext, error) {
	if s.source == nil {
		return nil, models.ErrNoProject
	}
	p, err := s.source.CurrentProject()
	if err != nil {
		return nil, fmt.Errorf("get current project: %w", err)
	}
	if p == nil {
		if s.project != nil {
			s.switchProject(nil)
		}
		return nil, models.ErrNoProject
	}
	if err := validateProjectID(p.ID); err != nil {
		return nil, err
	}
	if !host.SameProject(s.project, p) {
		s.switchProject(p)
	}
	s.project = p

	if s.backend == nil {
		b, err := s.factory(p.ID)
		if err != nil {
			return nil, fmt.Errorf("open storage for project %s: %w", p.ID, err)
		}
		s.backend = b
	}
	if err := s.backend.EnsureRoot(); err != nil {
		return nil, err
	}
	return &projectContext{project: p, backend: s.backend}, nil
}

// switchProject drops everything derived from the previous project and
// queues a change notification.
func (s *Service) switchProject(next *host.Project) {
	prev := s.project
	if prev != nil {
		s.saveState()
	}
	s.project = next
	s.backend = nil
	s.store.Reset()
	s.view.Reset()
	if next != nil {
		s.loadState(next.ID)
	}
	s.logger.WithFields(logrus.Fields{
		"previous": projectID(prev),
		"current":  projectID(next),
	}).Info("Project changed")
	s.pending = append(s.pending, host.ProjectChange{Previous: prev, Current: next})
}

func projectID(p *host.Project) string {
	if p == nil {
		return ""
	}
	return p.ID
}

// HandleProjectChange applies a project change reported by the host:
// selection and tree are reset and the new project's tree is fetched.
func (s *Service) HandleProjectChange(change host.ProjectChange) {
	unlock := s.lock()
	defer unlock()

	if !host.SameProject(s.project, change.Current) {
		s.switchProject(change.Current)
	} else {
		s.store.Reset()
	}
	if change.Current == nil {
		return
	}
	if _, err := s.refreshLocked(); err != nil {
		s.logFailure("handle project change", err)
	}
}

// refreshLocked rebuilds the snapshot from storage.
func (s *Service) refreshLocked() (*models.Node, error) {
	pc, err := s.resolve()
	if err != nil {
		return nil, err
	}
	return s.refresh(pc), nil
}

func (s *Service) refresh(pc *projectContext) *models.Node {
	root, skips := tree.Build(pc.backend, tree.WithLogger(s.logger.WithField("project", pc.project.ID)))
	if len(skips) > 0 {
		s.logger.WithField("skipped", len(skips)).Debug("Tree built with skipped items")
	}
	s.store.Replace(root)
	s.autoSelect(root)
	return root
}

// autoSelect selects the first note of root when nothing is selected.
func (s *Service) autoSelect(root *models.Node) {
	if s.store.Current() != "" {
		return
	}
	if first := tree.FirstNote(root); first != nil {
		s.store.Select(first.Path)
		s.saveState()
	}
}

// snapshot returns the last built tree, building one if none exists yet.
func (s *Service) snapshot(pc *projectContext) *models.Node {
	if root := s.store.Tree(); root != nil {
		return root
	}
	return s.refresh(pc)
}

func (s *Service) logFailure(op string, err error) {
	entry := s.logger.WithField("operation", op).WithError(err)
	if models.KindOf(err) == models.KindNoProject {
		entry.Debug("No project selected")
		return
	}
	entry.Warn("Operation failed")
}

// run executes fn inside the service lock against the current project and
// converts its outcome into a Result.
func run[T any](s *Service, op string, fn func(pc *projectContext) (T, error)) models.Result[T] {
	unlock := s.lock()
	defer unlock()

	pc, err := s.resolve()
	if err != nil {
		s.logFailure(op, err)
		return models.Fail[T](err)
	}
	v, err := fn(pc)
	if err != nil {
		s.logFailure(op, err)
		return models.Fail[T](err)
	}
	return models.Ok(v)
}

// Project returns the current project.
func (s *Service) Project() models.Result[*host.Project] {
	return run(s, "project", func(pc *projectContext) (*host.Project, error) {
		return pc.project, nil
	})
}

// Root returns the OS location of the current project's notes.
func (s *Service) Root() models.Result[string] {
	return run(s, "root", func(pc *projectContext) (string, error) {
		return s.resolver.Root(pc.project.ID, false), nil
	})
}
