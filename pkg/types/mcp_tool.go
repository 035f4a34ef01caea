package types

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// ToolInputSchema defines the schema for the input parameters of a tool
type ToolInputSchema struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
	Required   []string       `json:"required,omitempty"`
}

// Tool describes a tool exposed by the mcp-gcp server.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema ToolInputSchema `json:"input_schema"`
	Annotations map[string]any  `json:"annotations,omitempty"`
}

// NewTool converts an MCP tool definition into its user-facing description.
// Annotations that are left unset on the MCP tool are omitted.
func NewTool(t mcp.Tool) Tool {
	out := Tool{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: ToolInputSchema{
			Type:       t.InputSchema.Type,
			Properties: t.InputSchema.Properties,
			Required:   t.InputSchema.Required,
		},
	}

	b, err := json.Marshal(t.Annotations)
	if err != nil {
		return out
	}
	var annotations map[string]any
	if err := json.Unmarshal(b, &annotations); err == nil && len(annotations) > 0 {
		out.Annotations = annotations
	}
	return out
}
