package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"segnalibro/internal/adapters/export"
	"segnalibro/internal/application/commands"
	"segnalibro/internal/domain"
	"segnalibro/internal/ports"
)

// RegisterReadTools adds all read-only bookmark tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, store ports.BookmarkStore, rootID string) {
	s.AddTool(listTool(), listHandler(store, rootID))
	s.AddTool(searchTool(), searchHandler(store))
	s.AddTool(treeTool(), treeHandler(store, rootID))
	s.AddTool(pathTool(), pathHandler(store, rootID))
	s.AddTool(exportTool(), exportHandler(store))
}

// --- list ---

func listTool() mcp.Tool {
	return mcp.NewTool("list",
		mcp.WithDescription("List the direct children of a folder in display order. Without arguments lists the top-level folders."),
		mcp.WithString("folder_id",
			mcp.Description("Folder id to list. Omit for the top level."),
		),
	)
}

func listHandler(store ports.BookmarkStore, rootID string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		folderID := req.GetString("folder_id", rootID)

		cmd := commands.NewListCommand(store, folderID)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		if len(result.Entries) == 0 {
			return mcp.NewToolResultText("Folder is empty."), nil
		}
		var sb strings.Builder
		for _, e := range result.Entries {
			sb.WriteString(formatEntry(e))
			sb.WriteByte('\n')
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- search ---

func searchTool() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription("Search bookmarks and folders by keyword, matching titles and URLs."),
		mcp.WithString("query",
			mcp.Description("Search query"),
			mcp.Required(),
		),
	)
}

func searchHandler(store ports.BookmarkStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")

		cmd := commands.NewSearchCommand(store, query)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		if len(result.Entries) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}
		var sb strings.Builder
		for _, e := range result.Entries {
			sb.WriteString(formatEntry(e))
			sb.WriteByte('\n')
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- tree ---

func treeTool() mcp.Tool {
	return mcp.NewTool("tree",
		mcp.WithDescription("Display the bookmark hierarchy as a tree."),
		mcp.WithString("folder_id",
			mcp.Description("Folder id to start from. Omit for the whole tree."),
		),
	)
}

func treeHandler(store ports.BookmarkStore, rootID string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		folderID := req.GetString("folder_id", "")

		cmd := commands.NewTreeCommand(store, folderID)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		renderTree(&sb, result.Root, rootID, "")
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func renderTree(sb *strings.Builder, node *domain.Node, rootID, prefix string) {
	if node.ID != rootID {
		sb.WriteString(prefix)
		sb.WriteString(formatEntry(node.Snapshot()))
		sb.WriteByte('\n')
		prefix += "  "
	}
	for _, child := range node.Children {
		renderTree(sb, child, rootID, prefix)
	}
}

// --- path ---

func pathTool() mcp.Tool {
	return mcp.NewTool("path",
		mcp.WithDescription("Resolve where a bookmark or folder lives, as the folder titles from the top joined by \" / \"."),
		mcp.WithString("id",
			mcp.Description("Node id to locate"),
			mcp.Required(),
		),
	)
}

func pathHandler(store ports.BookmarkStore, rootID string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")

		cmd := commands.NewPathCommand(store, rootID, id)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Path), nil
	}
}

// --- export ---

func exportTool() mcp.Tool {
	return mcp.NewTool("export",
		mcp.WithDescription("Export bookmarks as a Netscape bookmark file (the HTML format browsers import)."),
		mcp.WithString("folder_id",
			mcp.Description("Folder id to export. Omit for the whole tree."),
		),
	)
}

func exportHandler(store ports.BookmarkStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		folderID := req.GetString("folder_id", "")

		cmd := commands.NewTreeCommand(store, folderID)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		if err := export.Netscape(&sb, result.Root); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntry(e domain.Entry) string {
	if e.IsFolder {
		return fmt.Sprintf("%s  %s/", e.ID, e.Title)
	}
	return fmt.Sprintf("%s  %s  %s", e.ID, e.Title, e.URL)
}
