package tree

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/notesplusplus/pkg/models"
	"github.com/mattsolo1/notesplusplus/pkg/storage"
)

func newBackend(t *testing.T) (afero.Fs, *storage.FSBackend) {
	t.Helper()
	fs := afero.NewMemMapFs()
	b := storage.NewFSBackend(fs, "/root/p", nil)
	require.NoError(t, b.EnsureRoot())
	return fs, b
}

func text(s string) *models.NoteContent {
	return &models.NoteContent{Type: models.KindDoc, Content: []models.ContentItem{
		{Type: models.KindParagraph, Content: []models.ContentItem{{Type: models.KindText, Text: s}}},
	}}
}

func TestBuild(t *testing.T) {
	fs, b := newBackend(t)
	require.NoError(t, b.WriteNote("/top.json", text("top")))
	require.NoError(t, b.WriteNote("/work/plan.json", text("plan")))
	require.NoError(t, b.CreateFolder("/work/empty"))
	require.NoError(t, afero.WriteFile(fs, "/root/p/.DS_Store", []byte("x"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/root/p/readme.txt", []byte("x"), 0644))

	root, skips := Build(b)
	assert.Empty(t, skips)
	assert.Equal(t, "/", root.Path)
	require.Len(t, root.Children, 2, "non-json files are ignored")

	top := FindNode(root, "/top.json")
	require.NotNil(t, top)
	assert.Equal(t, "top", top.Name)
	assert.Equal(t, models.NodeTypeNote, top.Type)
	assert.Equal(t, "top", top.Content.PlainText())
	assert.False(t, top.Metadata.ModifiedAt.IsZero())

	work := FindNode(root, "/work")
	require.NotNil(t, work)
	assert.True(t, work.IsFolder())
	assert.Len(t, work.Children, 2)

	empty := FindNode(root, "/work/empty")
	require.NotNil(t, empty)
	assert.Empty(t, empty.Children)

	assert.Nil(t, FindNode(root, "/work/missing.json"))
}

func TestBuildSkipsCorruptNotes(t *testing.T) {
	fs, b := newBackend(t)
	require.NoError(t, b.WriteNote("/good.json", text("good")))
	require.NoError(t, afero.WriteFile(fs, "/root/p/bad.json", []byte("{{{"), 0644))

	root, skips := Build(b)
	require.Len(t, skips, 1)
	assert.Equal(t, "/bad.json", skips[0].Path)
	assert.ErrorIs(t, skips[0].Err, storage.ErrCorruptContent)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "/good.json", root.Children[0].Path)
}

func TestBuildMissingRoot(t *testing.T) {
	b := storage.NewFSBackend(afero.NewMemMapFs(), "/nowhere", nil)
	root, skips := Build(b)
	require.NotNil(t, root)
	assert.Empty(t, root.Children)
	assert.Len(t, skips, 1)
}

func TestFirstNote(t *testing.T) {
	root := models.NewFolder("/", "", models.Metadata{})
	a := models.NewFolder("/a", "a", models.Metadata{})
	a.Children = append(a.Children, models.NewNote("/a/inner.json", "inner", models.EmptyDoc(), models.Metadata{}))
	root.Children = append(root.Children, a)

	assert.Equal(t, "/a/inner.json", FirstNote(root).Path)

	root.Children = append(root.Children, models.NewNote("/z.json", "z", models.EmptyDoc(), models.Metadata{}))
	assert.Equal(t, "/z.json", FirstNote(root).Path, "direct notes come before subfolders")

	assert.Nil(t, FirstNote(models.NewFolder("/", "", models.Metadata{})))
}

func TestWalkHelpers(t *testing.T) {
	_, b := newBackend(t)
	require.NoError(t, b.WriteNote("/x/one.json", text("1")))
	require.NoError(t, b.WriteNote("/x/y/two.json", text("2")))
	require.NoError(t, b.WriteNote("/three.json", text("3")))

	root, _ := Build(b)

	var notePaths []string
	for _, n := range Notes(root) {
		notePaths = append(notePaths, n.Path)
	}
	assert.ElementsMatch(t, []string{"/x/one.json", "/x/y/two.json", "/three.json"}, notePaths)
	assert.ElementsMatch(t, []string{"/", "/x", "/x/y"}, FolderPaths(root))
	assert.Equal(t, []string{"/x", "/x/y"}, FolderPaths(FindNode(root, "/x")))

	names := ChildNames(FindNode(root, "/x"), models.NodeTypeNote)
	assert.Equal(t, map[string]struct{}{"one": {}}, names)
}
