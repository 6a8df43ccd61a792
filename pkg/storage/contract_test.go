package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/notesplusplus/pkg/models"
)

func paragraph(text string) *models.NoteContent {
	return &models.NoteContent{Type: models.KindDoc, Content: []models.ContentItem{
		{Type: models.KindParagraph, Content: []models.ContentItem{{Type: models.KindText, Text: text}}},
	}}
}

func entryNames(entries []Entry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}

// testBackendContract runs the behavior every Backend must share.
func testBackendContract(t *testing.T, newBackend func(t *testing.T) Backend) {
	t.Run("write and read round trip", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.EnsureRoot())

		doc := paragraph("hello")
		require.NoError(t, b.WriteNote("/a/b/note.json", doc))

		got, err := b.ReadNote("/a/b/note.json")
		require.NoError(t, err)
		assert.Equal(t, doc, got)

		ok, err := b.NoteExists("/a/b/note.json")
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = b.FolderExists("/a/b")
		require.NoError(t, err)
		assert.True(t, ok, "parent folders are created")
		ok, err = b.FolderExists("/a/b/note.json")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("empty document round trip", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.EnsureRoot())
		require.NoError(t, b.WriteNote("/empty.json", models.EmptyDoc()))

		got, err := b.ReadNote("/empty.json")
		require.NoError(t, err)
		assert.Equal(t, models.EmptyDoc(), got)
	})

	t.Run("empty attrs and content survive a round trip", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.EnsureRoot())
		doc := &models.NoteContent{Type: models.KindDoc, Content: []models.ContentItem{
			{Type: models.KindParagraph, Attrs: map[string]any{}, Content: []models.ContentItem{}},
			{Type: models.KindText, Text: "x", Marks: []models.Mark{}},
			{Type: models.KindHorizontalRule},
		}}
		require.NoError(t, b.WriteNote("/shapes.json", doc))

		got, err := b.ReadNote("/shapes.json")
		require.NoError(t, err)
		assert.Equal(t, doc, got)
		assert.NotNil(t, got.Content[0].Attrs)
		assert.NotNil(t, got.Content[0].Content)
		assert.Nil(t, got.Content[2].Content)
	})

	t.Run("overwrite replaces content", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.EnsureRoot())
		require.NoError(t, b.WriteNote("/n.json", paragraph("one")))
		require.NoError(t, b.WriteNote("/n.json", paragraph("two")))

		got, err := b.ReadNote("/n.json")
		require.NoError(t, err)
		assert.Equal(t, "two", got.PlainText())

		entries, err := b.List("/")
		require.NoError(t, err)
		assert.Equal(t, []string{"n.json"}, entryNames(entries))
	})

	t.Run("read missing note", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.EnsureRoot())
		_, err := b.ReadNote("/missing.json")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("list children", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.EnsureRoot())
		require.NoError(t, b.CreateFolder("/folder"))
		require.NoError(t, b.WriteNote("/note.json", models.EmptyDoc()))

		entries, err := b.List("/")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		byName := map[string]bool{}
		for _, e := range entries {
			byName[e.Name] = e.IsFolder
		}
		assert.Equal(t, map[string]bool{"folder": true, "note.json": false}, byName)

		_, err = b.List("/nope")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("delete folder is recursive and idempotent", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.EnsureRoot())
		require.NoError(t, b.WriteNote("/a/x.json", paragraph("x")))
		require.NoError(t, b.WriteNote("/a/b/y.json", paragraph("y")))
		require.NoError(t, b.WriteNote("/keep.json", paragraph("k")))

		require.NoError(t, b.DeleteFolder("/a"))
		for _, p := range []string{"/a/x.json", "/a/b/y.json"} {
			ok, err := b.NoteExists(p)
			require.NoError(t, err)
			assert.False(t, ok, p)
		}
		ok, err := b.FolderExists("/a")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, b.DeleteFolder("/a"))

		ok, err = b.NoteExists("/keep.json")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("delete note", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.EnsureRoot())
		require.NoError(t, b.WriteNote("/n.json", models.EmptyDoc()))
		require.NoError(t, b.DeleteNote("/n.json"))
		assert.ErrorIs(t, b.DeleteNote("/n.json"), models.ErrNotFound)
	})

	t.Run("move note", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.EnsureRoot())
		require.NoError(t, b.WriteNote("/from.json", paragraph("moving")))

		require.NoError(t, b.Move("/from.json", "/dir/to.json"))

		ok, err := b.NoteExists("/from.json")
		require.NoError(t, err)
		assert.False(t, ok)
		got, err := b.ReadNote("/dir/to.json")
		require.NoError(t, err)
		assert.Equal(t, "moving", got.PlainText())
	})

	t.Run("move folder carries children", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.EnsureRoot())
		require.NoError(t, b.WriteNote("/x/sub/n.json", paragraph("deep")))

		require.NoError(t, b.Move("/x", "/y"))

		got, err := b.ReadNote("/y/sub/n.json")
		require.NoError(t, err)
		assert.Equal(t, "deep", got.PlainText())
		ok, err := b.FolderExists("/x")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("move onto existing target leaves source untouched", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.EnsureRoot())
		require.NoError(t, b.WriteNote("/src.json", paragraph("src")))
		require.NoError(t, b.WriteNote("/dst.json", paragraph("dst")))

		err := b.Move("/src.json", "/dst.json")
		assert.ErrorIs(t, err, models.ErrAlreadyExists)

		src, err := b.ReadNote("/src.json")
		require.NoError(t, err)
		assert.Equal(t, "src", src.PlainText())
		dst, err := b.ReadNote("/dst.json")
		require.NoError(t, err)
		assert.Equal(t, "dst", dst.PlainText())
	})

	t.Run("move missing source", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.EnsureRoot())
		assert.ErrorIs(t, b.Move("/nope.json", "/other.json"), models.ErrNotFound)
	})

	t.Run("move folder into itself", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.EnsureRoot())
		require.NoError(t, b.WriteNote("/a/n.json", models.EmptyDoc()))

		assert.ErrorIs(t, b.Move("/a", "/a/b"), models.ErrInvalidInput)

		ok, err := b.NoteExists("/a/n.json")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("metadata", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.EnsureRoot())
		require.NoError(t, b.WriteNote("/n.json", models.EmptyDoc()))

		meta, err := b.Metadata("/n.json")
		require.NoError(t, err)
		assert.False(t, meta.ModifiedAt.IsZero())
		assert.False(t, meta.ModifiedAt.Before(meta.CreatedAt))

		_, err = b.Metadata("/missing.json")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("lenient read of missing note", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.EnsureRoot())
		_, err := ReadNoteLenient(b, "/missing.json")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("exists", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.EnsureRoot())
		require.NoError(t, b.CreateFolder("/f"))
		require.NoError(t, b.WriteNote("/n.json", models.EmptyDoc()))

		for p, want := range map[string]bool{"/f": true, "/n.json": true, "/n": false, "/g": false} {
			ok, err := Exists(b, p)
			require.NoError(t, err)
			assert.Equal(t, want, ok, p)
		}
	})
}
