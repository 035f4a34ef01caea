package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mcpjungle/mcp-gcp/internal/gcp"
	"github.com/mcpjungle/mcp-gcp/pkg/types"
	compute "google.golang.org/api/compute/v1"
)

var computeScopes = []string{gcp.ScopeComputeReadOnly}

func instancesListTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("List Compute Engine instances. If zone omitted, lists aggregated."),
		projectIDParam(),
		mcp.WithString("zone", mcp.Description("Zone to list, eg- us-central1-a. Omit to list every zone")),
	}
	opts = append(opts, listingAnnotations("List instances")...)
	return mcp.NewTool("compute.instances.list", opts...)
}

func (s *Service) listInstances(ctx context.Context, in types.InstancesListInput) (any, error) {
	id, project, err := s.session(ctx, computeScopes, in.ProjectID)
	if err != nil {
		return nil, err
	}
	svc, err := compute.NewService(ctx, id.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create compute client: %w", err)
	}

	if in.Zone != "" {
		return svc.Instances.List(project, in.Zone).Context(ctx).Do()
	}
	return svc.Instances.AggregatedList(project).Context(ctx).Do()
}
