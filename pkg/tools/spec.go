// Package tools declares the tool catalog: each tool is a named spec with a
// typed parameter list, a handler, and a JSON-Schema rendering for MCP
// clients. Registration happens once at startup; the catalog is immutable
// afterwards.
package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Kind is the declared type of a tool parameter.
type Kind string

const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindEnum    Kind = "enum"
)

// ParameterSpec declares one tool parameter. An optional parameter either
// carries a Default or its absence is a legal "not supplied".
type ParameterSpec struct {
	Name          string
	Kind          Kind
	Description   string
	Required      bool
	Default       any
	AllowedValues []string
}

// ToolSpec declares one invocable tool. Immutable after registration.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  []ParameterSpec
}

// BuildInputSchema renders the JSON-Schema object MCP clients receive for a
// tool's parameters.
func BuildInputSchema(spec ToolSpec) mcp.ToolInputSchema {
	properties := make(map[string]any, len(spec.Parameters))
	var required []string

	for _, param := range spec.Parameters {
		prop := map[string]any{
			"description": param.Description,
		}
		switch param.Kind {
		case KindInteger:
			prop["type"] = "integer"
		case KindEnum:
			prop["type"] = "string"
			values := make([]any, len(param.AllowedValues))
			for i, v := range param.AllowedValues {
				values[i] = v
			}
			prop["enum"] = values
		default:
			prop["type"] = "string"
		}
		if param.Default != nil {
			prop["default"] = param.Default
		}
		properties[param.Name] = prop

		if param.Required {
			required = append(required, param.Name)
		}
	}

	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}
