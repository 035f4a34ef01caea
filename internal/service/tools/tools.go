// Package tools implements the Google Cloud tools exposed by mcp-gcp.
// Every tool resolves its own credentials, makes exactly one API call and
// returns the response rendered as text.
package tools

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mcpjungle/mcp-gcp/internal/gcp"
	"github.com/mcpjungle/mcp-gcp/internal/service/gapi"
	"github.com/mcpjungle/mcp-gcp/internal/service/registry"
	"go.uber.org/zap"
)

// Config holds the dependencies of the tool set.
type Config struct {
	Resolver *gcp.Resolver

	// GAPI serves the generic gapi.request tool.
	GAPI *gapi.Service

	// Objects reads object content for gcs.objects.download.
	// Defaults to a reader backed by the Cloud Storage client library.
	Objects ObjectReader

	Logger *zap.Logger
}

// Service holds the handlers of all tools.
// It keeps no per-call state, so it is safe for concurrent use.
type Service struct {
	resolver *gcp.Resolver
	gapi     *gapi.Service
	objects  ObjectReader
	logger   *zap.Logger
}

// NewService creates the tool set.
func NewService(c *Config) (*Service, error) {
	if c.Resolver == nil {
		return nil, errors.New("a credential resolver is required")
	}
	if c.GAPI == nil {
		return nil, errors.New("a generic API service is required")
	}
	s := &Service{
		resolver: c.Resolver,
		gapi:     c.GAPI,
		objects:  c.Objects,
		logger:   c.Logger,
	}
	if s.objects == nil {
		s.objects = NewStorageObjectReader(MaxDownloadBytes)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s, nil
}

type toolDefinition struct {
	tool    mcp.Tool
	handler registry.ToolHandler
}

// definitions returns all tools in the order they are listed to MCP clients.
func (s *Service) definitions() []toolDefinition {
	return []toolDefinition{
		{whoamiTool(), registry.TextHandler(s.whoami)},
		{projectsListTool(), registry.TextHandler(s.listProjects)},
		{bucketsListTool(), registry.TextHandler(s.listBuckets)},
		{objectsListTool(), registry.TextHandler(s.listObjects)},
		{objectDownloadTool(), registry.TextHandler(s.downloadObject)},
		{secretAccessTool(), registry.TextHandler(s.accessSecret)},
		{topicsListTool(), registry.TextHandler(s.listTopics)},
		{topicPublishTool(), registry.TextHandler(s.publish)},
		{runServicesListTool(), registry.TextHandler(s.listRunServices)},
		{instancesListTool(), registry.TextHandler(s.listInstances)},
		{gapiRequestTool(), registry.TextHandler(s.gapiRequest)},
	}
}

// Install registers every tool with r.
func (s *Service) Install(r *registry.Registry) error {
	for _, d := range s.definitions() {
		if err := r.Register(d.tool, d.handler); err != nil {
			return err
		}
	}
	return nil
}

// session resolves the identity and the effective project of one invocation.
func (s *Service) session(ctx context.Context, scopes []string, explicitProject string) (*gcp.Identity, string, error) {
	id, err := s.resolver.Identity(ctx, scopes)
	if err != nil {
		return nil, "", err
	}
	project, err := s.resolver.EffectiveProject(id, explicitProject)
	if err != nil {
		return nil, "", err
	}
	return id, project, nil
}

// integer narrows a number property to whole numbers.
func integer() mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["type"] = "integer"
	}
}

// defaultValue advertises the value used when a property is omitted.
func defaultValue(v any) mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["default"] = v
	}
}

// projectIDParam is the optional project argument shared by most tools.
func projectIDParam() mcp.ToolOption {
	return mcp.WithString("projectId",
		mcp.Description("GCP project ID. Defaults to "+gcp.ProjectEnvVar+", then "+
			gcp.LegacyProjectEnvVar+", then the project of the ambient credentials"),
	)
}

// listingAnnotations marks a tool that only reads data.
func listingAnnotations(title string) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithTitleAnnotation(title),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	}
}
