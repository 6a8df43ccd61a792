package migration

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/notesplusplus/pkg/models"
	"github.com/mattsolo1/notesplusplus/pkg/storage"
)

const legacyRoot = "/home/.NotesPlusPlus/proj"

func seedLegacy(t *testing.T, fs afero.Fs) {
	t.Helper()
	files := map[string]string{
		"/old.txt":           "an old note",
		"/nested/deep":       "# heading\n\nbody",
		"/.DS_Store":         "junk",
		"/already.json":      `{"type":"doc","content":[]}`,
		"/valid-json-no-ext": `{"a":1}`,
		"/nested/.DS_Store":  "junk",
	}
	for p, content := range files {
		require.NoError(t, afero.WriteFile(fs, legacyRoot+p, []byte(content), 0644))
	}
}

func TestDiscover(t *testing.T) {
	fs := afero.NewMemMapFs()
	seedLegacy(t, fs)

	notes, err := Discover(fs, legacyRoot)
	require.NoError(t, err)

	got := map[string]string{}
	for _, n := range notes {
		got[n.Path] = n.Content
	}
	assert.Equal(t, map[string]string{
		"/old.txt":     "an old note",
		"/nested/deep": "# heading\n\nbody",
	}, got)
}

func TestDiscoverMissingRoot(t *testing.T) {
	notes, err := Discover(afero.NewMemMapFs(), "/does/not/exist")
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestIsLegacyFile(t *testing.T) {
	assert.True(t, IsLegacyFile("note", []byte("hello")))
	assert.False(t, IsLegacyFile(".DS_Store", []byte("hello")))
	assert.False(t, IsLegacyFile("note.json", []byte("hello")))
	assert.False(t, IsLegacyFile("note", []byte(`"a json string"`)))
}

func newTarget(t *testing.T, fs afero.Fs) *storage.FSBackend {
	t.Helper()
	b := storage.NewFSBackend(fs, "/home/.NotesPlusPlusV2/proj", nil)
	require.NoError(t, b.EnsureRoot())
	return b
}

func TestMigrateNoteSuccess(t *testing.T) {
	fs := afero.NewMemMapFs()
	seedLegacy(t, fs)
	target := newTarget(t, fs)
	m := NewMigrator(fs, legacyRoot, target, MigrationOptions{}, nil, nil)

	doc := &models.NoteContent{Type: models.KindDoc, Content: []models.ContentItem{
		{Type: models.KindParagraph, Content: []models.ContentItem{{Type: models.KindText, Text: "converted"}}},
	}}
	state, err := m.MigrateNote("/old.txt", doc)
	require.NoError(t, err)
	assert.Equal(t, StateMigrated, state)

	exists, err := afero.Exists(fs, legacyRoot+"/old.txt")
	require.NoError(t, err)
	assert.False(t, exists, "legacy file is removed")

	got, err := target.ReadNote("/old.txt.json")
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestMigrateNoteWriteFailureKeepsLegacy(t *testing.T) {
	fs := afero.NewMemMapFs()
	seedLegacy(t, fs)
	target := storage.NewFSBackend(afero.NewReadOnlyFs(fs), "/home/.NotesPlusPlusV2/proj", nil)
	m := NewMigrator(fs, legacyRoot, target, MigrationOptions{}, nil, nil)

	state, err := m.MigrateNote("/old.txt", models.EmptyDoc())
	assert.Error(t, err)
	assert.Equal(t, StateFailed, state)

	data, err := afero.ReadFile(fs, legacyRoot+"/old.txt")
	require.NoError(t, err)
	assert.Equal(t, "an old note", string(data))

	exists, err := afero.Exists(fs, "/home/.NotesPlusPlusV2/proj/old.txt.json")
	require.NoError(t, err)
	assert.False(t, exists, "nothing is written on failure")
}

func TestMigrateNoteRejects(t *testing.T) {
	fs := afero.NewMemMapFs()
	seedLegacy(t, fs)
	m := NewMigrator(fs, legacyRoot, newTarget(t, fs), MigrationOptions{}, nil, nil)

	_, err := m.MigrateNote("/missing", models.EmptyDoc())
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = m.MigrateNote("/old.txt", &models.NoteContent{Type: "paragraph"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = m.MigrateNote("/../escape", models.EmptyDoc())
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestMigrateAll(t *testing.T) {
	fs := afero.NewMemMapFs()
	seedLegacy(t, fs)
	target := newTarget(t, fs)
	var out bytes.Buffer
	m := NewMigrator(fs, legacyRoot, target, MigrationOptions{Verbose: true}, &out, nil)

	notes, err := Discover(fs, legacyRoot)
	require.NoError(t, err)
	notes = append(notes, models.LegacyNote{Path: "/vanished", Content: "gone"})

	report := m.MigrateAll(notes, nil)
	assert.Equal(t, 3, report.TotalFiles)
	assert.Equal(t, 3, report.ProcessedFiles)
	assert.Equal(t, 2, report.MigratedFiles)
	assert.Equal(t, 1, report.FailedFiles)
	assert.Contains(t, report.ProcessingErrors, "/vanished")
	assert.False(t, report.EndTime.IsZero())
	assert.Contains(t, out.String(), "migrated /old.txt -> /old.txt.json")

	deep, err := target.ReadNote("/nested/deep.json")
	require.NoError(t, err)
	assert.Equal(t, models.KindHeading, deep.Content[0].Type)

	remaining, err := Discover(fs, legacyRoot)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestMigrateAllDryRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	seedLegacy(t, fs)
	target := newTarget(t, fs)
	var out bytes.Buffer
	m := NewMigrator(fs, legacyRoot, target, MigrationOptions{DryRun: true}, &out, nil)

	notes, err := Discover(fs, legacyRoot)
	require.NoError(t, err)
	report := m.MigrateAll(notes, nil)
	assert.Equal(t, 2, report.SkippedFiles)
	assert.Equal(t, 0, report.MigratedFiles)
	assert.Contains(t, out.String(), "would migrate")

	remaining, err := Discover(fs, legacyRoot)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}
