package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/notesplusplus/pkg/models"
)

func TestFSBackendContract(t *testing.T) {
	testBackendContract(t, func(t *testing.T) Backend {
		return NewFSBackend(afero.NewMemMapFs(), "/notes/project", nil)
	})
}

func TestFSBackendOnDisk(t *testing.T) {
	root := filepath.Join(t.TempDir(), "project")
	b := NewFSBackend(afero.NewOsFs(), root, nil)
	require.NoError(t, b.EnsureRoot())
	require.NoError(t, b.WriteNote("/a/n.json", paragraph("disk")))

	data, err := afero.ReadFile(afero.NewOsFs(), filepath.Join(root, "a", "n.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"type\": \"doc\"")

	require.NoError(t, b.Move("/a", "/b"))
	got, err := b.ReadNote("/b/n.json")
	require.NoError(t, err)
	assert.Equal(t, "disk", got.PlainText())

	entries, err := b.List("/b")
	require.NoError(t, err)
	assert.Equal(t, []string{"n.json"}, entryNames(entries), "no temp files are left behind")
}

func TestFSBackendCorruptNote(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/notes/p/bad.json", []byte("{not json"), 0644))
	b := NewFSBackend(fs, "/notes/p", nil)

	doc, err := b.ReadNote("/bad.json")
	assert.ErrorIs(t, err, ErrCorruptContent)
	assert.Equal(t, models.EmptyDoc(), doc)

	doc, err = ReadNoteLenient(b, "/bad.json")
	require.NoError(t, err)
	assert.Equal(t, models.EmptyDoc(), doc)
}

func TestFSBackendWriteFailure(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, "/notes/p/existing.json", []byte(`{"type":"doc","content":[]}`), 0644))
	b := NewFSBackend(afero.NewReadOnlyFs(base), "/notes/p", nil)

	err := b.WriteNote("/new.json", paragraph("x"))
	assert.ErrorIs(t, err, models.ErrIOFailure)

	err = b.Move("/existing.json", "/moved.json")
	assert.Error(t, err)
	ok, err := afero.Exists(base, "/notes/p/existing.json")
	require.NoError(t, err)
	assert.True(t, ok)
}

type stickyRemoveFs struct {
	afero.Fs
}

func (f stickyRemoveFs) RemoveAll(p string) error {
	return os.ErrPermission
}

func TestFSBackendMoveKeepsCopyWhenSourceRemovalFails(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	b := NewFSBackend(stickyRemoveFs{afero.NewMemMapFs()}, "/notes/p", logrus.NewEntry(logger))
	require.NoError(t, b.EnsureRoot())
	require.NoError(t, b.WriteNote("/a/n.json", paragraph("kept")))

	err := b.Move("/a", "/b")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrIOFailure)

	got, err := b.ReadNote("/b/n.json")
	require.NoError(t, err)
	assert.Equal(t, "kept", got.PlainText())
	got, err = b.ReadNote("/a/n.json")
	require.NoError(t, err)
	assert.Equal(t, "kept", got.PlainText())

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "/a", hook.LastEntry().Data["source"])
	assert.Equal(t, "/b", hook.LastEntry().Data["destination"])
}

func TestFSBackendMoveKeepsModTime(t *testing.T) {
	fs := afero.NewMemMapFs()
	b := NewFSBackend(fs, "/notes/p", nil)
	require.NoError(t, b.EnsureRoot())
	require.NoError(t, b.WriteNote("/a/n.json", paragraph("x")))

	old := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, fs.Chtimes("/notes/p/a/n.json", old, old))

	require.NoError(t, b.Move("/a", "/b"))
	meta, err := b.Metadata("/b/n.json")
	require.NoError(t, err)
	assert.True(t, meta.ModifiedAt.Equal(old))
	assert.True(t, meta.CreatedAt.Equal(old))
}
