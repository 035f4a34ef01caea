package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// compileInputSchema compiles the JSON schema advertised by an MCP tool,
// so that arguments are checked against exactly what clients see.
func compileInputSchema(tool mcp.Tool) (*jsonschema.Schema, error) {
	raw := tool.RawInputSchema
	if len(raw) == 0 {
		b, err := json.Marshal(tool.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal input schema for tool %s: %w", tool.Name, err)
		}
		raw = b
	}

	url := "mem://tools/" + tool.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to load input schema for tool %s: %w", tool.Name, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile input schema for tool %s: %w", tool.Name, err)
	}
	return s, nil
}

// normalizeArguments re-decodes the arguments the way a JSON decoder produces them,
// so that values built in Go (ints, typed slices) validate the same as values off the wire.
func normalizeArguments(args map[string]any) (any, error) {
	if args == nil {
		return map[string]any{}, nil
	}
	b, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	d := json.NewDecoder(bytes.NewReader(b))
	d.UseNumber()
	var v any
	if err := d.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// validateArguments checks args against the compiled schema.
// On mismatch it reports the most specific violated constraint.
func validateArguments(toolName string, s *jsonschema.Schema, args map[string]any) error {
	v, err := normalizeArguments(args)
	if err != nil {
		return &InputValidationError{Tool: toolName, Constraint: fmt.Sprintf("arguments are not valid JSON: %v", err)}
	}

	err = s.Validate(v)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &InputValidationError{Tool: toolName, Constraint: err.Error()}
	}
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	return &InputValidationError{
		Tool:       toolName,
		Field:      strings.TrimPrefix(leaf.InstanceLocation, "/"),
		Constraint: leaf.Message,
	}
}
