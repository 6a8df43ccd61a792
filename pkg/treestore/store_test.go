package treestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/notesplusplus/pkg/models"
)

func TestSelectAndNavigate(t *testing.T) {
	s := New()
	assert.False(t, s.CanGoBack())
	assert.False(t, s.CanGoForward())

	s.Select("/a.json")
	s.Select("/b.json")
	s.Select("/c.json")
	assert.Equal(t, "/c.json", s.Current())
	assert.True(t, s.CanGoBack())

	p, ok := s.Back()
	require.True(t, ok)
	assert.Equal(t, "/b.json", p)
	p, ok = s.Back()
	require.True(t, ok)
	assert.Equal(t, "/a.json", p)
	_, ok = s.Back()
	assert.False(t, ok)

	p, ok = s.Forward()
	require.True(t, ok)
	assert.Equal(t, "/b.json", p)
	assert.True(t, s.CanGoForward())
}

func TestSelectTruncatesForwardHistory(t *testing.T) {
	s := New()
	s.Select("/a.json")
	s.Select("/b.json")
	s.Select("/c.json")
	s.Back()
	s.Back()

	s.Select("/d.json")
	history, idx := s.History()
	assert.Equal(t, []string{"/a.json", "/d.json"}, history)
	assert.Equal(t, 1, idx)
	assert.False(t, s.CanGoForward())
}

func TestSelectSamePathIsNoop(t *testing.T) {
	s := New()
	s.Select("/a.json")
	s.Select("/a.json")
	history, _ := s.History()
	assert.Equal(t, []string{"/a.json"}, history)
}

func TestRewritePrefix(t *testing.T) {
	s := New()
	s.Select("/x/one.json")
	s.Select("/other.json")
	s.Select("/x/sub/two.json")

	s.RewritePrefix("/x", "/y")
	assert.Equal(t, "/y/sub/two.json", s.Current())
	history, _ := s.History()
	assert.Equal(t, []string{"/y/one.json", "/other.json", "/y/sub/two.json"}, history)
}

func TestPrune(t *testing.T) {
	s := New()
	s.Select("/keep.json")
	s.Select("/gone/a.json")
	s.Select("/keep.json")
	s.Select("/gone/b.json")

	cleared := s.Prune("/gone")
	assert.True(t, cleared)
	assert.Equal(t, "", s.Current())
	history, idx := s.History()
	assert.Equal(t, []string{"/keep.json"}, history)
	assert.Equal(t, 0, idx)

	assert.False(t, s.Prune("/nothing"))
}

func TestTreeReplaceAndLookup(t *testing.T) {
	s := New()
	root := models.NewFolder("/", "", models.Metadata{})
	root.Children = append(root.Children, models.NewNote("/n.json", "n", models.EmptyDoc(), models.Metadata{}))
	s.Replace(root)

	assert.Same(t, root, s.Tree())
	assert.Equal(t, "/n.json", s.FindNode("/n.json").Path)
	assert.Equal(t, "/n.json", s.FirstNote().Path)

	s.Reset()
	assert.Nil(t, s.Tree())
	assert.Nil(t, s.FirstNote())
}

func TestSnapshotRestore(t *testing.T) {
	s := New()
	s.Select("/a.json")
	s.Select("/b.json")
	s.Back()

	other := New()
	other.Restore(s.Snapshot())
	assert.Equal(t, "/a.json", other.Current())
	assert.True(t, other.CanGoForward())

	clamped := New()
	clamped.Restore(Snapshot{History: []string{"/a.json"}, Index: 7})
	_, idx := clamped.History()
	assert.Equal(t, 0, idx)
}
