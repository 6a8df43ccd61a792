package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/notesplusplus/pkg/models"
	"github.com/mattsolo1/notesplusplus/pkg/paths"
)

// rootID is the parent id of items at the top of a project.
const rootID = "root"

const excerptLength = 200

// SQLStore owns the database shared by every project's SQLBackend.
type SQLStore struct {
	db     *sql.DB
	path   string
	logger *logrus.Entry
}

// OpenSQLStore opens or creates the notes database at dbPath.
func OpenSQLStore(dbPath string, logger *logrus.Entry) (*SQLStore, error) {
	if logger == nil {
		logger = logrus.NewEntry(discardLogger())
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLStore{db: db, path: dbPath, logger: logger.WithField("sub-component", "sql-backend")}
	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLStore) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS notes (
		id TEXT PRIMARY KEY,
		projectId TEXT NOT NULL,
		parentId TEXT NOT NULL,
		isFolder INTEGER NOT NULL DEFAULT 0,
		noteName TEXT NOT NULL,
		noteText TEXT,
		noteShortText TEXT,
		createdAt TEXT NOT NULL,
		modifiedAt TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_notes_location ON notes(projectId, parentId, noteName);
	CREATE INDEX IF NOT EXISTS idx_notes_parent ON notes(projectId, parentId);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Backend returns the view of the store scoped to one project.
func (s *SQLStore) Backend(projectID string) *SQLBackend {
	return &SQLBackend{
		db:        s.db,
		projectID: projectID,
		logger:    s.logger.WithField("project", projectID),
	}
}

// Factory adapts the store to a backend factory.
func (s *SQLStore) Factory() Factory {
	return func(projectID string) (Backend, error) {
		return s.Backend(projectID), nil
	}
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// SQLBackend keeps a project's tree in rows linked by parent id.
type SQLBackend struct {
	db        *sql.DB
	projectID string
	logger    *logrus.Entry
}

type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

type row struct {
	id         string
	isFolder   bool
	text       sql.NullString
	createdAt  string
	modifiedAt string
}

// lookup resolves a virtual path to its row. The root has no row and is
// reported as a folder with the root id.
func (b *SQLBackend) lookup(q querier, p string) (*row, error) {
	current := &row{id: rootID, isFolder: true}
	for _, seg := range paths.Segments(p) {
		if !current.isFolder {
			return nil, models.NotFoundf("%s not found", p)
		}
		next := &row{}
		err := q.QueryRow(`
			SELECT id, isFolder, noteText, createdAt, modifiedAt FROM notes
			WHERE projectId = ? AND parentId = ? AND noteName = ?`,
			b.projectID, current.id, seg,
		).Scan(&next.id, &next.isFolder, &next.text, &next.createdAt, &next.modifiedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NotFoundf("%s not found", p)
		}
		if err != nil {
			return nil, models.IOFailure(err, "look up %s", p)
		}
		current = next
	}
	return current, nil
}

func (b *SQLBackend) EnsureRoot() error {
	return nil
}

func (b *SQLBackend) exists(p string, folder bool) (bool, error) {
	r, err := b.lookup(b.db, p)
	if errors.Is(err, models.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return r.isFolder == folder, nil
}

func (b *SQLBackend) NoteExists(p string) (bool, error) {
	return b.exists(p, false)
}

func (b *SQLBackend) FolderExists(p string) (bool, error) {
	return b.exists(p, true)
}

func (b *SQLBackend) ReadNote(p string) (*models.NoteContent, error) {
	r, err := b.lookup(b.db, p)
	if err != nil {
		return nil, err
	}
	if r.isFolder {
		return nil, models.NotFoundf("note %s not found", p)
	}
	doc, err := decodeContent([]byte(r.text.String))
	if err != nil {
		b.logger.WithField("path", p).WithError(err).Warn("Note content could not be decoded")
	}
	return doc, err
}

// ensureFolders creates every missing folder along p and returns the id of
// the deepest one.
func (b *SQLBackend) ensureFolders(tx *sql.Tx, p string, now string) (string, error) {
	parent := rootID
	walked := paths.Root
	for _, seg := range paths.Segments(p) {
		walked = paths.Join(walked, seg)
		var id string
		var isFolder bool
		err := tx.QueryRow(`
			SELECT id, isFolder FROM notes WHERE projectId = ? AND parentId = ? AND noteName = ?`,
			b.projectID, parent, seg,
		).Scan(&id, &isFolder)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			id = uuid.NewString()
			if _, err := tx.Exec(`
				INSERT INTO notes (id, projectId, parentId, isFolder, noteName, createdAt, modifiedAt)
				VALUES (?, ?, ?, 1, ?, ?, ?)`,
				id, b.projectID, parent, seg, now, now,
			); err != nil {
				return "", models.IOFailure(err, "create folder %s", walked)
			}
		case err != nil:
			return "", models.IOFailure(err, "look up %s", walked)
		case !isFolder:
			return "", models.AlreadyExistsf("a note named %s already exists", walked)
		}
		parent = id
	}
	return parent, nil
}

func (b *SQLBackend) WriteNote(p string, content *models.NoteContent) error {
	data, err := content.Encode()
	if err != nil {
		return models.IOFailure(err, "encode note %s", p)
	}
	p = paths.Clean(p)
	if p == paths.Root {
		return models.InvalidInputf("cannot write a note at the root")
	}

	tx, err := b.db.Begin()
	if err != nil {
		return models.IOFailure(err, "begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	parentID, err := b.ensureFolders(tx, paths.Parent(p), now)
	if err != nil {
		return err
	}

	name := paths.Base(p)
	var id string
	var isFolder bool
	err = tx.QueryRow(`
		SELECT id, isFolder FROM notes WHERE projectId = ? AND parentId = ? AND noteName = ?`,
		b.projectID, parentID, name,
	).Scan(&id, &isFolder)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.Exec(`
			INSERT INTO notes (id, projectId, parentId, isFolder, noteName, noteText, noteShortText, createdAt, modifiedAt)
			VALUES (?, ?, ?, 0, ?, ?, ?, ?, ?)`,
			uuid.NewString(), b.projectID, parentID, name, string(data), content.Excerpt(excerptLength), now, now,
		)
	case err != nil:
		return models.IOFailure(err, "look up %s", p)
	case isFolder:
		return models.AlreadyExistsf("a folder named %s already exists", p)
	default:
		_, err = tx.Exec(`
			UPDATE notes SET noteText = ?, noteShortText = ?, modifiedAt = ? WHERE id = ?`,
			string(data), content.Excerpt(excerptLength), now, id,
		)
	}
	if err != nil {
		return models.IOFailure(err, "write note %s", p)
	}
	if err := tx.Commit(); err != nil {
		return models.IOFailure(err, "write note %s", p)
	}
	return nil
}

func (b *SQLBackend) CreateFolder(p string) error {
	tx, err := b.db.Begin()
	if err != nil {
		return models.IOFailure(err, "begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := b.ensureFolders(tx, p, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return models.IOFailure(err, "create folder %s", p)
	}
	return nil
}

func (b *SQLBackend) DeleteNote(p string) error {
	r, err := b.lookup(b.db, p)
	if err != nil {
		return err
	}
	if r.isFolder {
		return models.NotFoundf("note %s not found", p)
	}
	if _, err := b.db.Exec(`DELETE FROM notes WHERE id = ?`, r.id); err != nil {
		return models.IOFailure(err, "delete note %s", p)
	}
	return nil
}

func (b *SQLBackend) DeleteFolder(p string) error {
	if paths.Clean(p) == paths.Root {
		if _, err := b.db.Exec(`DELETE FROM notes WHERE projectId = ?`, b.projectID); err != nil {
			return models.IOFailure(err, "delete folder %s", p)
		}
		return nil
	}

	r, err := b.lookup(b.db, p)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !r.isFolder {
		return models.InvalidInputf("%s is not a folder", p)
	}

	_, err = b.db.Exec(`
		WITH RECURSIVE subtree(id) AS (
			SELECT ?
			UNION ALL
			SELECT n.id FROM notes n JOIN subtree s ON n.parentId = s.id
			WHERE n.projectId = ?
		)
		DELETE FROM notes WHERE id IN (SELECT id FROM subtree)`,
		r.id, b.projectID,
	)
	if err != nil {
		return models.IOFailure(err, "delete folder %s", p)
	}
	return nil
}

// Move re-parents and renames the source row inside one transaction, so
// ids stay stable and children follow their folder.
func (b *SQLBackend) Move(src, dst string) error {
	src, dst = paths.Clean(src), paths.Clean(dst)

	tx, err := b.db.Begin()
	if err != nil {
		return models.IOFailure(err, "begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	r, err := b.lookup(tx, src)
	if err != nil {
		return err
	}
	if r.id == rootID {
		return models.InvalidInputf("cannot move the root folder")
	}
	if r.isFolder && paths.IsSameOrDescendant(dst, src) {
		return models.InvalidInputf("cannot move %s into itself", src)
	}
	if _, err := b.lookup(tx, dst); err == nil {
		return models.AlreadyExistsf("target path %s already exists", dst)
	} else if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	parentID, err := b.ensureFolders(tx, paths.Parent(dst), now)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`
		UPDATE notes SET parentId = ?, noteName = ?, modifiedAt = ? WHERE id = ?`,
		parentID, paths.Base(dst), now, r.id,
	); err != nil {
		return models.IOFailure(err, "move %s to %s", src, dst)
	}
	if err := tx.Commit(); err != nil {
		return models.IOFailure(err, "move %s to %s", src, dst)
	}
	return nil
}

func (b *SQLBackend) List(folder string) ([]Entry, error) {
	r, err := b.lookup(b.db, folder)
	if err != nil {
		return nil, err
	}
	if !r.isFolder {
		return nil, models.NotFoundf("folder %s not found", folder)
	}

	rows, err := b.db.Query(`
		SELECT noteName, isFolder FROM notes
		WHERE projectId = ? AND parentId = ?
		ORDER BY rowid`,
		b.projectID, r.id,
	)
	if err != nil {
		return nil, models.IOFailure(err, "list folder %s", folder)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.IsFolder); err != nil {
			return nil, models.IOFailure(err, "list folder %s", folder)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, models.IOFailure(err, "list folder %s", folder)
	}
	return entries, nil
}

func (b *SQLBackend) Metadata(p string) (models.Metadata, error) {
	r, err := b.lookup(b.db, p)
	if err != nil {
		return models.Metadata{}, err
	}
	if r.id == rootID {
		return models.Metadata{}, nil
	}
	var meta models.Metadata
	if meta.CreatedAt, err = time.Parse(time.RFC3339Nano, r.createdAt); err != nil {
		return meta, fmt.Errorf("parse createdAt of %s: %w", p, err)
	}
	if meta.ModifiedAt, err = time.Parse(time.RFC3339Nano, r.modifiedAt); err != nil {
		return meta, fmt.Errorf("parse modifiedAt of %s: %w", p, err)
	}
	return meta, nil
}
