package tools

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mcpjungle/mcp-gcp/internal/gcp"
	"github.com/mcpjungle/mcp-gcp/pkg/types"
)

var whoamiScopes = []string{gcp.ScopeCloudPlatformReadOnly}

func whoamiTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Show the current Application Default Credentials identity and default project."),
		mcp.WithBoolean("includeScopes",
			mcp.Description("Include the OAuth scopes the identity was resolved with"),
		),
	}
	opts = append(opts, listingAnnotations("Who am I")...)
	return mcp.NewTool("gcp.whoami", opts...)
}

// whoami reports whether the ambient credentials can mint a token.
// A missing default project is not an error here, the project is simply left out.
func (s *Service) whoami(ctx context.Context, in types.WhoAmIInput) (any, error) {
	id, err := s.resolver.Identity(ctx, whoamiScopes)
	if err != nil {
		return nil, err
	}
	ok, err := id.HasToken()
	if err != nil {
		return nil, err
	}

	project, err := s.resolver.EffectiveProject(id, "")
	if err != nil && !errors.Is(err, gcp.ErrMissingProject) {
		return nil, err
	}

	out := types.WhoAmI{ProjectID: project, Token: ok}
	if in.IncludeScopes {
		out.Scopes = id.Scopes
	}
	return out, nil
}
