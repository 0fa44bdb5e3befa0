// Package transport selects and runs the channel the MCP server listens on.
// Both transports serve the same *server.MCPServer, so tool behavior is
// identical over either.
package transport

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Type names a supported transport.
type Type string

const (
	TypeStdio Type = "stdio"
	TypeHTTP  Type = "http"
)

// ParseType validates a --transport flag value.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeStdio, TypeHTTP:
		return Type(s), nil
	default:
		return "", errors.Errorf("unsupported transport type: %s", s)
	}
}

// Manager starts the configured transport and blocks until it stops.
type Manager struct {
	log           zerolog.Logger
	transportType Type
	host          string
	port          int
}

// NewManager builds a manager. Host and port are ignored for stdio.
func NewManager(log zerolog.Logger, transportType Type, host string, port int) *Manager {
	return &Manager{
		log:           log.With().Str("component", "transport_manager").Logger(),
		transportType: transportType,
		host:          host,
		port:          port,
	}
}

// Serve runs the transport until it exits or ctx is cancelled.
func (m *Manager) Serve(ctx context.Context, mcpServer *server.MCPServer) error {
	m.log.Info().Str("type", string(m.transportType)).Msg("starting transport")

	switch m.transportType {
	case TypeStdio:
		return serveStdio(ctx, m.log, mcpServer)
	case TypeHTTP:
		return serveHTTP(ctx, m.log, mcpServer, m.host, m.port)
	default:
		return errors.Errorf("unsupported transport type: %s", m.transportType)
	}
}
