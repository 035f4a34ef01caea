package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mcpjungle/mcp-gcp/internal/gcp"
	"github.com/mcpjungle/mcp-gcp/pkg/types"
	run "google.golang.org/api/run/v2"
)

// DefaultRunRegion is listed when no region is given.
const DefaultRunRegion = "us-central1"

var runScopes = []string{gcp.ScopeCloudPlatformReadOnly}

func runServicesListTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("List Cloud Run services in a region."),
		projectIDParam(),
		mcp.WithString("region", mcp.DefaultString(DefaultRunRegion), mcp.Description("Cloud Run region")),
	}
	opts = append(opts, listingAnnotations("List Cloud Run services")...)
	return mcp.NewTool("run.services.list", opts...)
}

func (s *Service) listRunServices(ctx context.Context, in types.RunServicesListInput) (any, error) {
	id, project, err := s.session(ctx, runScopes, in.ProjectID)
	if err != nil {
		return nil, err
	}
	region := in.Region
	if region == "" {
		region = DefaultRunRegion
	}

	svc, err := run.NewService(ctx, id.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud run client: %w", err)
	}
	parent := fmt.Sprintf("projects/%s/locations/%s", project, region)
	return svc.Projects.Locations.Services.List(parent).Context(ctx).Do()
}
