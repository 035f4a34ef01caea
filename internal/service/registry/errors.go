package registry

import (
	"errors"
	"fmt"

	"github.com/mcpjungle/mcp-gcp/internal/format"
	"github.com/mcpjungle/mcp-gcp/internal/gcp"
)

var (
	// ErrUnknownTool is returned when invoking a tool that was never registered.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrDuplicateTool is returned when registering a tool name twice.
	ErrDuplicateTool = errors.New("tool is already registered")
)

// InputValidationError describes the first constraint of the input schema that the arguments violate.
type InputValidationError struct {
	Tool string
	// Field is the JSON pointer of the offending argument, without the leading slash.
	// It is empty when the violation concerns the argument object itself (eg- a missing required field).
	Field      string
	Constraint string
}

func (e *InputValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input for tool %s: %s", e.Tool, e.Constraint)
	}
	return fmt.Sprintf("invalid input for tool %s: field '%s': %s", e.Tool, e.Field, e.Constraint)
}

// ToolExecutionError wraps any failure returned by a tool handler,
// including errors surfaced by the underlying Google Cloud API.
type ToolExecutionError struct {
	Tool string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %s failed: %v", e.Tool, e.Err)
}

func (e *ToolExecutionError) Unwrap() error {
	return e.Err
}

// KindError is implemented by errors that know their own place in the error taxonomy.
type KindError interface {
	error
	Kind() string
}

// Kind returns the taxonomy name of err, as reported to MCP clients.
// The outermost error that names its kind wins, and ToolExecutionError is only
// reported when nothing more specific is wrapped inside it.
func Kind(err error) string {
	var ke KindError
	var ive *InputValidationError
	var serr *format.SerializationError
	switch {
	case errors.As(err, &ke):
		return ke.Kind()
	case errors.As(err, &ive):
		return "InputValidationError"
	case errors.Is(err, ErrUnknownTool):
		return "UnknownToolError"
	case errors.Is(err, ErrDuplicateTool):
		return "DuplicateToolError"
	case errors.Is(err, gcp.ErrAuthResolution):
		return "AuthResolutionError"
	case errors.Is(err, gcp.ErrMissingProject):
		return "MissingProjectError"
	case errors.As(err, &serr):
		return "SerializationError"
	}
	return "ToolExecutionError"
}
