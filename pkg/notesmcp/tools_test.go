package notesmcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/mcptest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/notesplusplus/pkg/host"
	"github.com/mattsolo1/notesplusplus/pkg/service"
)

func newTestServer(t *testing.T, project *host.Project) (*mcptest.Server, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	svc, err := service.New(&service.Config{BaseDir: "/home", DataDir: "/data"}, host.NewStaticSource(project), service.WithFs(fs))
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	srv, err := mcptest.NewServer(t, Tools(svc)...)
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	return srv, fs
}

func call(t *testing.T, srv *mcptest.Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	res, err := srv.Client().CallTool(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("unexpected content type %T", res.Content[0])
	return ""
}

func TestCreateAndGetNote(t *testing.T) {
	srv, _ := newTestServer(t, &host.Project{ID: "p"})

	res := call(t, srv, "notes_create", map[string]interface{}{
		"name":     "todo",
		"markdown": "- [ ] milk\n- [x] bread\n",
	})
	require.False(t, res.IsError, text(t, res))

	res = call(t, srv, "notes_get", map[string]interface{}{"path": "/todo"})
	require.False(t, res.IsError, text(t, res))

	var note struct {
		Path    string `json:"path"`
		Content struct {
			Type string `json:"type"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &note))
	assert.Equal(t, "/todo.json", note.Path)
	assert.Equal(t, "doc", note.Content.Type)

	res = call(t, srv, "notes_export_markdown", map[string]interface{}{"path": "/todo"})
	require.False(t, res.IsError)
	assert.Contains(t, text(t, res), "- [x] bread")
}

func TestErrorsAreToolErrors(t *testing.T) {
	srv, _ := newTestServer(t, &host.Project{ID: "p"})

	res := call(t, srv, "notes_get", map[string]interface{}{"path": "/missing"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "NotFound")

	res = call(t, srv, "notes_create", map[string]interface{}{"name": "x", "content": "{broken"})
	assert.True(t, res.IsError)
}

func TestNoProject(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	res := call(t, srv, "notes_tree", nil)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "NoProject")
}

func TestFolderMoveAndSearch(t *testing.T) {
	srv, _ := newTestServer(t, &host.Project{ID: "p"})

	require.False(t, call(t, srv, "notes_create_folder", map[string]interface{}{"name": "inbox"}).IsError)
	require.False(t, call(t, srv, "notes_create", map[string]interface{}{"parent": "/inbox", "name": "Idea"}).IsError)

	res := call(t, srv, "notes_move", map[string]interface{}{"from": "/inbox", "to": "/inbox/nested"})
	assert.True(t, res.IsError)

	res = call(t, srv, "notes_rename", map[string]interface{}{"path": "/inbox", "name": "archive"})
	require.False(t, res.IsError, text(t, res))

	res = call(t, srv, "notes_search", map[string]interface{}{"query": "IDEA"})
	require.False(t, res.IsError)
	var found []struct {
		Path string `json:"path"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &found))
	require.Len(t, found, 1)
	assert.Equal(t, "/archive/Idea.json", found[0].Path)

	res = call(t, srv, "notes_delete", map[string]interface{}{"path": "/archive", "folder": true})
	require.False(t, res.IsError, text(t, res))
	res = call(t, srv, "notes_search", map[string]interface{}{"query": "idea"})
	require.False(t, res.IsError)
	found = nil
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &found))
	assert.Empty(t, found)
}

func TestMigrateLegacy(t *testing.T) {
	srv, fs := newTestServer(t, &host.Project{ID: "p"})
	require.NoError(t, afero.WriteFile(fs, "/home/.NotesPlusPlus/p/old", []byte("old text"), 0644))

	res := call(t, srv, "notes_migrate_legacy", map[string]interface{}{})
	require.False(t, res.IsError, text(t, res))

	var report map[string]int
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &report))
	assert.Equal(t, 1, report["migrated"])

	res = call(t, srv, "notes_get", map[string]interface{}{"path": "/old"})
	assert.False(t, res.IsError)
}
