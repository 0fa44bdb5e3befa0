package tools

import (
	"context"

	"github.com/pkg/errors"

	"azure-vm-mcp/pkg/vmops"
)

// Handler executes one tool call with already-validated arguments. Handlers
// never return a Go error; every outcome is an envelope.
type Handler func(ctx context.Context, args ValidatedArgs) vmops.Envelope

// Catalog is the append-only registry of tools. Registration happens at
// startup; duplicates fail fast there rather than at call time.
type Catalog struct {
	specs    []ToolSpec
	handlers map[string]Handler
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{handlers: make(map[string]Handler)}
}

// Register adds a tool. A duplicate name is a configuration error.
func (c *Catalog) Register(spec ToolSpec, handler Handler) error {
	if spec.Name == "" {
		return errors.New("tool spec has no name")
	}
	if handler == nil {
		return errors.Errorf("tool %s registered without a handler", spec.Name)
	}
	if _, exists := c.handlers[spec.Name]; exists {
		return errors.Errorf("tool %s registered twice", spec.Name)
	}
	c.specs = append(c.specs, spec)
	c.handlers[spec.Name] = handler
	return nil
}

// List returns the registered specs in registration order.
func (c *Catalog) List() []ToolSpec {
	out := make([]ToolSpec, len(c.specs))
	copy(out, c.specs)
	return out
}

// Lookup resolves a tool by name.
func (c *Catalog) Lookup(name string) (ToolSpec, Handler, bool) {
	handler, ok := c.handlers[name]
	if !ok {
		return ToolSpec{}, nil, false
	}
	for _, spec := range c.specs {
		if spec.Name == name {
			return spec, handler, true
		}
	}
	return ToolSpec{}, nil, false
}
