package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "segnalibro/internal/adapters/mcp"
	"segnalibro/internal/adapters/sqlite"
	"segnalibro/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("segnalibro-mcp: %v", err)
	}

	dbFlag := flag.String("db", cfg.DBPath, "path to the bookmark database")
	flag.Parse()

	store, err := sqlite.Open(*dbFlag)
	if err != nil {
		log.Fatalf("segnalibro-mcp: %v", err)
	}
	defer store.Close()

	mcpServer := server.NewMCPServer(
		"segnalibro-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check that returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, store, sqlite.RootID)
	mcpadapter.RegisterWriteTools(mcpServer, store)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("segnalibro-mcp: %v", err)
	}
}
