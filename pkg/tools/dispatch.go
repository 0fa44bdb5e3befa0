package tools

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"azure-vm-mcp/pkg/vmops"
)

// Dispatcher routes a (tool name, arguments) pair through lookup, validation,
// and the handler. It behaves identically regardless of which transport
// delivered the call, and nothing below it surfaces an unstructured fault:
// every path terminates in an envelope.
type Dispatcher struct {
	catalog *Catalog
	log     zerolog.Logger
}

// NewDispatcher wraps a catalog.
func NewDispatcher(catalog *Catalog, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{catalog: catalog, log: log.With().Str("component", "dispatcher").Logger()}
}

// Dispatch executes one tool call.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) (env vmops.Envelope) {
	callID := uuid.NewString()
	log := d.log.With().Str("call_id", callID).Str("tool", name).Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("tool handler panicked")
			env = vmops.Envelope{
				Outcome: vmops.OutcomeFailure,
				Message: fmt.Sprintf("internal error executing tool %s", name),
				Data:    map[string]any{"error": fmt.Sprint(r)},
			}
		}
		log.Info().Str("outcome", string(env.Outcome)).Msg("call finished")
	}()

	spec, handler, ok := d.catalog.Lookup(name)
	if !ok {
		log.Warn().Msg("unknown tool")
		return vmops.Envelope{
			Outcome: vmops.OutcomeFailure,
			Message: fmt.Sprintf("unknown tool: %s", name),
			Data:    map[string]any{"error": "unknown tool", "tool": name},
		}
	}

	validated, err := Validate(spec, args)
	if err != nil {
		log.Warn().Err(err).Msg("arguments rejected")
		return vmops.Envelope{
			Outcome: vmops.OutcomeFailure,
			Message: fmt.Sprintf("invalid arguments for %s: %s", name, err.Error()),
			Data:    map[string]any{"error": err.Error(), "tool": name},
		}
	}

	log.Info().Msg("dispatching call")
	return handler(ctx, validated)
}

// MCPHandler adapts Dispatch to the mcp-go handler signature for one tool.
func (d *Dispatcher) MCPHandler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		env := d.Dispatch(ctx, name, req.GetArguments())
		return envelopeResult(env), nil
	}
}

// RegisterAll exposes every catalog tool on the MCP server.
func (d *Dispatcher) RegisterAll(mcpServer *server.MCPServer) {
	for _, spec := range d.catalog.List() {
		tool := mcp.Tool{
			Name:        spec.Name,
			Description: spec.Description,
			InputSchema: BuildInputSchema(spec),
		}
		mcpServer.AddTool(tool, d.MCPHandler(spec.Name))
		d.log.Info().Str("tool", spec.Name).Msg("registered tool")
	}
}

// envelopeResult renders an envelope for the wire. Failures are flagged as
// tool errors; partial results stay ordinary text so the caller sees the raw
// guest output.
func envelopeResult(env vmops.Envelope) *mcp.CallToolResult {
	if env.Outcome == vmops.OutcomeFailure {
		return mcp.NewToolResultError(env.Message)
	}
	return mcp.NewToolResultText(env.Message)
}
