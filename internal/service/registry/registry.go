// Package registry keeps the set of tools exposed over MCP and dispatches calls to them.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mcpjungle/mcp-gcp/internal/format"
	"github.com/mcpjungle/mcp-gcp/internal/telemetry"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
)

// Only allow letters, numbers, dots, hyphens, and underscores
var validToolName = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// validateToolName checks if the tool name is valid.
// Dots separate the service from the operation (eg- `gcs.objects.list`),
// so a name must not start or end with one, nor contain empty segments.
func validateToolName(name string) error {
	if name == "" {
		return fmt.Errorf("invalid tool name: '%s' must not be empty", name)
	}
	if !validToolName.MatchString(name) {
		return fmt.Errorf("invalid tool name: '%s' must follow the regular expression %s", name, validToolName)
	}
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") || strings.Contains(name, "..") {
		return fmt.Errorf("invalid tool name: '%s' must not contain empty dot-separated segments", name)
	}
	return nil
}

// ToolHandler executes a tool with arguments that already passed schema validation.
type ToolHandler func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error)

// TextHandler adapts a typed function into a ToolHandler.
// The validated arguments are bound onto T, and the returned value is rendered with format.Format.
func TextHandler[T any](fn func(ctx context.Context, in T) (any, error)) ToolHandler {
	return func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		var in T
		if err := bindArguments(args, &in); err != nil {
			return nil, err
		}
		out, err := fn(ctx, in)
		if err != nil {
			return nil, err
		}
		text, err := format.Format(out)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(text), nil
	}
}

func bindArguments(args map[string]any, target any) error {
	if args == nil {
		args = map[string]any{}
	}
	b, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to marshal arguments: %w", err)
	}
	if err := json.Unmarshal(b, target); err != nil {
		return fmt.Errorf("failed to bind arguments: %w", err)
	}
	return nil
}

// definition is a registered tool. It is immutable once registered.
type definition struct {
	tool    mcp.Tool
	handler ToolHandler
	schema  *jsonschema.Schema
}

// Config holds the dependencies of a Registry.
type Config struct {
	Metrics telemetry.CustomMetrics
	Logger  *zap.Logger
}

// Registry maps tool names to their definitions.
// It is safe for concurrent use. After startup it is only ever read.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*definition
	// order keeps the registration order for listing.
	order []string

	metrics telemetry.CustomMetrics
	logger  *zap.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry(c *Config) *Registry {
	r := &Registry{
		tools:   make(map[string]*definition),
		metrics: telemetry.NewNoopCustomMetrics(),
		logger:  zap.NewNop(),
	}
	if c != nil && c.Metrics != nil {
		r.metrics = c.Metrics
	}
	if c != nil && c.Logger != nil {
		r.logger = c.Logger
	}
	return r
}

// Register adds a tool. The tool's input schema is compiled once here and used for every call.
func (r *Registry) Register(tool mcp.Tool, handler ToolHandler) error {
	if err := validateToolName(tool.Name); err != nil {
		return err
	}
	if handler == nil {
		return fmt.Errorf("tool %s must have a handler", tool.Name)
	}
	s, err := compileInputSchema(tool)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, tool.Name)
	}
	r.tools[tool.Name] = &definition{tool: tool, handler: handler, schema: s}
	r.order = append(r.order, tool.Name)
	return nil
}

// List returns all registered tools in registration order.
func (r *Registry) List() []mcp.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tools := make([]mcp.Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name].tool)
	}
	return tools
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (mcp.Tool, bool) {
	d, ok := r.lookup(name)
	if !ok {
		return mcp.Tool{}, false
	}
	return d.tool, true
}

func (r *Registry) lookup(name string) (*definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.tools[name]
	return d, ok
}

// Invoke validates args against the tool's schema and runs its handler.
// Handler failures are wrapped in a ToolExecutionError.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	started := time.Now()
	outcome := telemetry.ToolCallOutcomeError
	var callErr error

	// record the tool call metrics when the function returns
	defer func() {
		kind := ""
		if callErr != nil {
			kind = Kind(callErr)
		}
		r.metrics.RecordToolCall(ctx, name, outcome, kind, time.Since(started))
	}()

	d, ok := r.lookup(name)
	if !ok {
		callErr = fmt.Errorf("%w: %s", ErrUnknownTool, name)
		return nil, callErr
	}

	if err := validateArguments(name, d.schema, args); err != nil {
		callErr = err
		return nil, callErr
	}

	res, err := d.handler(ctx, args)
	if err != nil {
		callErr = &ToolExecutionError{Tool: name, Err: err}
		return nil, callErr
	}

	outcome = telemetry.ToolCallOutcomeSuccess
	return res, nil
}

// Attach adds every registered tool to an MCP server.
// Failures are returned to the MCP client as error results of the form "<kind>: <message>".
func (r *Registry) Attach(s *server.MCPServer) {
	for _, t := range r.List() {
		s.AddTool(t, r.mcpToolCallHandler(t.Name))
	}
}

func (r *Registry) mcpToolCallHandler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := r.Invoke(ctx, name, request.GetArguments())
		if err != nil {
			kind := Kind(err)
			r.logger.Warn("tool call failed",
				zap.String("tool", name),
				zap.String("kind", kind),
				zap.Error(err),
			)
			return mcp.NewToolResultError(kind + ": " + err.Error()), nil
		}
		r.logger.Debug("tool call succeeded", zap.String("tool", name))
		return res, nil
	}
}
