package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"segnalibro/internal/application/commands"
	"segnalibro/internal/ports"
)

// RegisterWriteTools adds all mutating bookmark tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, store ports.BookmarkStore) {
	s.AddTool(createTool(), createHandler(store))
	s.AddTool(renameTool(), renameHandler(store))
	s.AddTool(setURLTool(), setURLHandler(store))
	s.AddTool(moveTool(), moveHandler(store))
	s.AddTool(removeTool(), removeHandler(store))
}

// --- create ---

func createTool() mcp.Tool {
	return mcp.NewTool("create",
		mcp.WithDescription("Create a bookmark or folder. With a url this creates a bookmark, without one a folder."),
		mcp.WithString("parent_id",
			mcp.Description("Folder id to create under"),
			mcp.Required(),
		),
		mcp.WithString("title",
			mcp.Description("Title for the new entry"),
			mcp.Required(),
		),
		mcp.WithString("url",
			mcp.Description("Bookmark URL. Omit to create a folder."),
		),
	)
}

func createHandler(store ports.BookmarkStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		parentID := req.GetString("parent_id", "")
		title := req.GetString("title", "")
		url := req.GetString("url", "")

		if url == "" {
			cmd := commands.NewCreateFolderCommand(store, parentID, title)
			result, err := cmd.Execute(ctx)
			if err != nil {
				return toolError(err)
			}
			return mcp.NewToolResultText(result.Message), nil
		}

		cmd := commands.NewCreateBookmarkCommand(store, parentID, title, url)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- rename ---

func renameTool() mcp.Tool {
	return mcp.NewTool("rename",
		mcp.WithDescription("Rename a bookmark or folder."),
		mcp.WithString("id",
			mcp.Description("Node id to rename"),
			mcp.Required(),
		),
		mcp.WithString("new_title",
			mcp.Description("New title"),
			mcp.Required(),
		),
	)
}

func renameHandler(store ports.BookmarkStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		newTitle := req.GetString("new_title", "")

		cmd := commands.NewRenameCommand(store, id, newTitle)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- set_url ---

func setURLTool() mcp.Tool {
	return mcp.NewTool("set_url",
		mcp.WithDescription("Change the URL of a bookmark."),
		mcp.WithString("id",
			mcp.Description("Bookmark id"),
			mcp.Required(),
		),
		mcp.WithString("url",
			mcp.Description("New URL"),
			mcp.Required(),
		),
	)
}

func setURLHandler(store ports.BookmarkStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		url := req.GetString("url", "")

		cmd := commands.NewSetURLCommand(store, id, url)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- move ---

func moveTool() mcp.Tool {
	return mcp.NewTool("move",
		mcp.WithDescription("Move a bookmark or folder into a destination folder, optionally at a specific position."),
		mcp.WithString("source_id",
			mcp.Description("Node id to move"),
			mcp.Required(),
		),
		mcp.WithString("destination_id",
			mcp.Description("Folder id to move into"),
			mcp.Required(),
		),
		mcp.WithNumber("index",
			mcp.Description("Position among the destination's children. Omit to append."),
		),
	)
}

func moveHandler(store ports.BookmarkStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		srcID := req.GetString("source_id", "")
		dstID := req.GetString("destination_id", "")
		index := req.GetInt("index", -1)

		cmd := commands.NewMoveCommand(store, srcID, dstID, index)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- remove ---

func removeTool() mcp.Tool {
	return mcp.NewTool("remove",
		mcp.WithDescription("Delete a bookmark, or a folder together with everything it contains."),
		mcp.WithString("id",
			mcp.Description("Node id to delete"),
			mcp.Required(),
		),
	)
}

func removeHandler(store ports.BookmarkStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")

		cmd := commands.NewDeleteCommand(store, id)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}
