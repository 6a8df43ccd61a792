package host

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/notesplusplus/pkg/models"
)

func TestFileSource(t *testing.T) {
	fs := afero.NewMemMapFs()
	src := NewFileSource(fs, "/state/project")

	p, err := src.CurrentProject()
	require.NoError(t, err)
	assert.Nil(t, p, "missing marker means no project")

	require.NoError(t, src.SetProject(&Project{ID: "abc", Name: "Acme"}))
	p, err = src.CurrentProject()
	require.NoError(t, err)
	assert.Equal(t, &Project{ID: "abc", Name: "Acme"}, p)

	require.NoError(t, afero.WriteFile(fs, "/state/project", []byte("# comment\n\n  xyz  \n"), 0644))
	p, err = src.CurrentProject()
	require.NoError(t, err)
	assert.Equal(t, "xyz", p.ID)

	require.NoError(t, src.SetProject(nil))
	p, err = src.CurrentProject()
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestStaticSource(t *testing.T) {
	src := NewStaticSource(&Project{ID: "one"})
	change := src.Set(&Project{ID: "two"})
	assert.Equal(t, "one", change.Previous.ID)
	assert.Equal(t, "two", change.Current.ID)

	p, err := src.CurrentProject()
	require.NoError(t, err)
	assert.Equal(t, "two", p.ID)
}

func TestSameProject(t *testing.T) {
	assert.True(t, SameProject(nil, nil))
	assert.False(t, SameProject(nil, &Project{ID: "a"}))
	assert.True(t, SameProject(&Project{ID: "a"}, &Project{ID: "a", Name: "x"}))
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "project")
	require.NoError(t, os.WriteFile(marker, []byte("first\n"), 0644))

	src := NewFileSource(afero.NewOsFs(), marker)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := src.Watch(ctx, 20*time.Millisecond, nil)
	require.NoError(t, err)

	tmp := filepath.Join(dir, "project.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("second\n"), 0644))
	require.NoError(t, os.Rename(tmp, marker))

	select {
	case change := <-changes:
		require.NotNil(t, change.Previous)
		require.NotNil(t, change.Current)
		assert.Equal(t, "first", change.Previous.ID)
		assert.Equal(t, "second", change.Current.ID)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for project change")
	}

	cancel()
	for range changes {
	}
}

func TestAttachmentReader(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/files/small.txt", []byte("tiny"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/files/big.bin", make([]byte, 64), 0644))

	r := NewAttachmentReader(fs, 32)
	data, err := r.Read("/files/small.txt")
	require.NoError(t, err)
	assert.Equal(t, "tiny", string(data))

	_, err = r.Read("/files/big.bin")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = r.Read("/files/none")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = r.Read("/files")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	assert.Equal(t, DefaultAttachmentLimit, NewAttachmentReader(fs, 0).limit)
}
