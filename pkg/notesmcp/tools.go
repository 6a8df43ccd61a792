// Package notesmcp exposes the note operations as MCP tools.
package notesmcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mattsolo1/notesplusplus/pkg/markdown"
	"github.com/mattsolo1/notesplusplus/pkg/migration"
	"github.com/mattsolo1/notesplusplus/pkg/models"
	"github.com/mattsolo1/notesplusplus/pkg/search"
	"github.com/mattsolo1/notesplusplus/pkg/service"
)

func getArgs(req mcp.CallToolRequest) map[string]interface{} {
	args, ok := req.Params.Arguments.(map[string]interface{})
	if !ok {
		return make(map[string]interface{})
	}
	return args
}

func stringArg(args map[string]interface{}, name string) string {
	s, _ := args[name].(string)
	return s
}

// result turns a service result into a tool result. Failures are reported
// to the client as tool errors, never as protocol errors.
func result[T any](r models.Result[T]) (*mcp.CallToolResult, error) {
	if !r.OK() {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %s", r.ErrorKind, r.Error)), nil
	}
	return mcp.NewToolResultJSON(r.Value)
}

// contentArg reads note content from either a "markdown" or a "content"
// (JSON document) argument. Neither means an empty document.
func contentArg(args map[string]interface{}) (*models.NoteContent, error) {
	if md := stringArg(args, "markdown"); md != "" {
		return markdown.ToDoc(md)
	}
	if raw := stringArg(args, "content"); raw != "" {
		return models.ParseContent([]byte(raw))
	}
	return nil, nil
}

func TreeTool() mcp.Tool {
	return mcp.NewTool("notes_tree",
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDescription("Get the note tree of the current project"),
	)
}

func TreeHandler(svc *service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return result(svc.GetTree())
	}
}

func GetNoteTool() mcp.Tool {
	return mcp.NewTool("notes_get",
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDescription("Get a note with its content"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Note path, e.g. /folder/note")),
	)
}

func GetNoteHandler(svc *service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return result(svc.GetNote(stringArg(getArgs(request), "path")))
	}
}

func CreateNoteTool() mcp.Tool {
	return mcp.NewTool("notes_create",
		mcp.WithDescription("Create a note"),
		mcp.WithString("parent", mcp.Description("Parent folder, defaults to the root")),
		mcp.WithString("name", mcp.Description("Note name, defaults to the next free Untitled name")),
		mcp.WithString("markdown", mcp.Description("Initial content as markdown")),
		mcp.WithString("content", mcp.Description("Initial content as a JSON document")),
	)
}

func CreateNoteHandler(svc *service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := getArgs(request)
		content, err := contentArg(args)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid content: %v", err)), nil
		}
		return result(svc.CreateNote(stringArg(args, "parent"), stringArg(args, "name"), content))
	}
}

func UpdateNoteTool() mcp.Tool {
	return mcp.NewTool("notes_update",
		mcp.WithDescription("Replace the content of a note"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Note path")),
		mcp.WithString("markdown", mcp.Description("New content as markdown")),
		mcp.WithString("content", mcp.Description("New content as a JSON document")),
	)
}

func UpdateNoteHandler(svc *service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := getArgs(request)
		content, err := contentArg(args)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid content: %v", err)), nil
		}
		if content == nil {
			content = models.EmptyDoc()
		}
		return result(svc.UpdateNoteContent(stringArg(args, "path"), content))
	}
}

func DeleteTool() mcp.Tool {
	return mcp.NewTool("notes_delete",
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithDescription("Delete a note, or a folder with everything in it"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Note or folder path")),
		mcp.WithBoolean("folder", mcp.Description("Delete a folder instead of a note")),
	)
}

func DeleteHandler(svc *service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := getArgs(request)
		path := stringArg(args, "path")
		if folder, _ := args["folder"].(bool); folder {
			return result(svc.DeleteFolder(path))
		}
		return result(svc.DeleteNote(path))
	}
}

func CreateFolderTool() mcp.Tool {
	return mcp.NewTool("notes_create_folder",
		mcp.WithDescription("Create a folder"),
		mcp.WithString("parent", mcp.Description("Parent folder, defaults to the root")),
		mcp.WithString("name", mcp.Description("Folder name, defaults to the next free New Folder name")),
	)
}

func CreateFolderHandler(svc *service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := getArgs(request)
		return result(svc.CreateFolder(stringArg(args, "parent"), stringArg(args, "name")))
	}
}

func MoveTool() mcp.Tool {
	return mcp.NewTool("notes_move",
		mcp.WithDescription("Move a note or folder"),
		mcp.WithString("from", mcp.Required(), mcp.Description("Current path")),
		mcp.WithString("to", mcp.Required(), mcp.Description("New path")),
	)
}

func MoveHandler(svc *service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := getArgs(request)
		return result(svc.MoveItem(stringArg(args, "from"), stringArg(args, "to")))
	}
}

func RenameTool() mcp.Tool {
	return mcp.NewTool("notes_rename",
		mcp.WithDescription("Rename a note or folder in place"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Current path")),
		mcp.WithString("name", mcp.Required(), mcp.Description("New name without separators")),
	)
}

func RenameHandler(svc *service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := getArgs(request)
		return result(svc.RenameItem(stringArg(args, "path"), stringArg(args, "name")))
	}
}

func SearchTool() mcp.Tool {
	return mcp.NewTool("notes_search",
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDescription("Find notes whose name or path contains the query, ignoring case"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results")),
		mcp.WithBoolean("content", mcp.Description("Also match note text")),
	)
}

func SearchHandler(svc *service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := getArgs(request)
		var opts []search.Option
		if limit, _ := args["limit"].(float64); limit > 0 {
			opts = append(opts, search.WithLimit(int(limit)))
		}
		if content, _ := args["content"].(bool); content {
			opts = append(opts, search.InContent())
		}
		return result(svc.SearchNotes(stringArg(args, "query"), opts...))
	}
}

func ExportTool() mcp.Tool {
	return mcp.NewTool("notes_export_markdown",
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDescription("Render a note as markdown"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Note path")),
	)
}

func ExportHandler(svc *service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		r := svc.ExportMarkdown(stringArg(getArgs(request), "path"))
		if !r.OK() {
			return result(r)
		}
		return mcp.NewToolResultText(r.Value), nil
	}
}

func MigrateTool() mcp.Tool {
	return mcp.NewTool("notes_migrate_legacy",
		mcp.WithDescription("Convert the plain-text notes of the current project into structured notes"),
		mcp.WithBoolean("dry_run", mcp.Description("Report what would be migrated without writing")),
	)
}

func MigrateHandler(svc *service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dryRun, _ := getArgs(request)["dry_run"].(bool)
		r := svc.MigrateLegacyNotes(nil, migration.MigrationOptions{DryRun: dryRun}, nil)
		if !r.OK() {
			return result(r)
		}
		report := r.Value
		return mcp.NewToolResultJSON(map[string]interface{}{
			"total":    report.TotalFiles,
			"migrated": report.MigratedFiles,
			"skipped":  report.SkippedFiles,
			"failed":   report.FailedFiles,
		})
	}
}

// Tools returns every tool bound to svc.
func Tools(svc *service.Service) []server.ServerTool {
	return []server.ServerTool{
		{Tool: TreeTool(), Handler: TreeHandler(svc)},
		{Tool: GetNoteTool(), Handler: GetNoteHandler(svc)},
		{Tool: CreateNoteTool(), Handler: CreateNoteHandler(svc)},
		{Tool: UpdateNoteTool(), Handler: UpdateNoteHandler(svc)},
		{Tool: DeleteTool(), Handler: DeleteHandler(svc)},
		{Tool: CreateFolderTool(), Handler: CreateFolderHandler(svc)},
		{Tool: MoveTool(), Handler: MoveHandler(svc)},
		{Tool: RenameTool(), Handler: RenameHandler(svc)},
		{Tool: SearchTool(), Handler: SearchHandler(svc)},
		{Tool: ExportTool(), Handler: ExportHandler(svc)},
		{Tool: MigrateTool(), Handler: MigrateHandler(svc)},
	}
}

// NewServer creates an MCP server with every note tool registered.
func NewServer(svc *service.Service, version string) *server.MCPServer {
	s := server.NewMCPServer("Notes++", version)
	for _, t := range Tools(svc) {
		s.AddTool(t.Tool, t.Handler)
	}
	return s
}
