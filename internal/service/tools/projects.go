package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mcpjungle/mcp-gcp/internal/gcp"
	"github.com/mcpjungle/mcp-gcp/pkg/types"
	crm "google.golang.org/api/cloudresourcemanager/v3"
)

var projectsScopes = []string{gcp.ScopeCloudPlatformReadOnly}

func projectsListTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("List projects using Cloud Resource Manager v3. " +
			"Without a parent, every project visible to the caller is returned."),
		mcp.WithNumber("pageSize", integer(), mcp.Min(1), mcp.Max(300),
			mcp.Description("Maximum number of projects to return"),
		),
		mcp.WithString("pageToken", mcp.Description("Token of the page to fetch, from a previous response")),
		mcp.WithString("parent",
			mcp.Description("Only list direct children of this organization or folder, eg- folders/123"),
			mcp.Pattern(`^(organizations|folders)/[0-9]+$`),
		),
	}
	opts = append(opts, listingAnnotations("List projects")...)
	return mcp.NewTool("gcp.projects.list", opts...)
}

func (s *Service) listProjects(ctx context.Context, in types.ProjectsListInput) (any, error) {
	id, err := s.resolver.Identity(ctx, projectsScopes)
	if err != nil {
		return nil, err
	}
	svc, err := crm.NewService(ctx, id.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource manager client: %w", err)
	}

	if in.Parent != "" {
		call := svc.Projects.List().Parent(in.Parent)
		if in.PageSize > 0 {
			call = call.PageSize(in.PageSize)
		}
		if in.PageToken != "" {
			call = call.PageToken(in.PageToken)
		}
		return call.Context(ctx).Do()
	}

	call := svc.Projects.Search()
	if in.PageSize > 0 {
		call = call.PageSize(in.PageSize)
	}
	if in.PageToken != "" {
		call = call.PageToken(in.PageToken)
	}
	return call.Context(ctx).Do()
}
