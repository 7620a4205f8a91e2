// Command mentionsmcp exposes the stored mentions as an MCP tool over
// streamable HTTP, so the site's chat assistant can quote recent mentions.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"mentions-feed/internal/config"
	"mentions-feed/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	kv, err := openKV(cfg)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer func() { _ = kv.Close() }()

	state := store.NewState(kv)

	s := server.NewMCPServer(
		"mentions-feed",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithLogging(),
	)

	tool := mcp.Tool{
		Name:        "mentions.latest",
		Description: "Return the most recent stored Twitter mentions of the tracked handle",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"limit": map[string]any{"type": "number", "description": "Maximum number of mentions to return (default 20)"},
			},
		},
	}

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := request.GetInt("limit", 20)
		if limit <= 0 {
			limit = 20
		}

		mentions, err := state.Mentions(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if len(mentions) > limit {
			mentions = mentions[:limit]
		}

		data, err := json.Marshal(mentions)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})

	port := getEnv("MCP_PORT", "8081")
	httpServer := server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath("/mcp"),
		server.WithStateLess(true),
	)
	log.Printf("mentions MCP server listening on :%s/mcp", port)
	if err := httpServer.Start(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func openKV(cfg *config.Config) (store.KV, error) {
	if cfg.KVRestURL != "" {
		return store.NewUpstash(cfg.KVRestURL, cfg.KVRestToken)
	}
	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, err
		}
	}
	return store.NewSQLite(cfg.DatabasePath)
}

func getEnv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return def
}
