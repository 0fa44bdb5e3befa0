package transport

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

// serveStdio runs the line-framed stdio channel: one process, one client.
// Stdout and stderr belong to the protocol here, which is why logging is
// file-only under this transport.
func serveStdio(ctx context.Context, log zerolog.Logger, mcpServer *server.MCPServer) error {
	log.Info().Msg("serving MCP over stdio")
	return server.ServeStdio(mcpServer)
}
