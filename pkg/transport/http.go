package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 30 * time.Second

// serveHTTP runs the streamable HTTP channel and shuts it down gracefully on
// context cancellation. In-flight guest operations keep running remotely;
// only the listener stops.
func serveHTTP(ctx context.Context, log zerolog.Logger, mcpServer *server.MCPServer, host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := server.NewStreamableHTTPServer(mcpServer)

	log.Info().Str("addr", addr).Msg("serving MCP over streamable HTTP")

	serveDone := make(chan error, 1)
	go func() {
		serveDone <- httpServer.Start(addr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down HTTP transport")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-serveDone:
		if err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP transport stopped with error")
			return err
		}
		log.Info().Msg("HTTP transport stopped")
		return nil
	}
}
