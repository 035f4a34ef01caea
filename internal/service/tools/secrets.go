package tools

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mcpjungle/mcp-gcp/internal/gcp"
	"github.com/mcpjungle/mcp-gcp/pkg/types"
	secretmanager "google.golang.org/api/secretmanager/v1"
)

// DefaultSecretVersion is accessed when no version is given.
const DefaultSecretVersion = "latest"

var secretsScopes = []string{gcp.ScopeCloudPlatformReadOnly}

func secretAccessTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Access a Secret Manager version payload as text (UTF-8)."),
		projectIDParam(),
		mcp.WithString("secretId", mcp.Required(), mcp.Description("ID of the secret")),
		mcp.WithString("version",
			mcp.DefaultString(DefaultSecretVersion),
			mcp.Description("Version of the secret, either a version number or an alias like 'latest'"),
		),
	}
	opts = append(opts, listingAnnotations("Access secret")...)
	return mcp.NewTool("secretmanager.secrets.access", opts...)
}

// accessSecret returns the decoded payload itself, not the API response around it.
func (s *Service) accessSecret(ctx context.Context, in types.SecretAccessInput) (any, error) {
	id, project, err := s.session(ctx, secretsScopes, in.ProjectID)
	if err != nil {
		return nil, err
	}
	version := in.Version
	if version == "" {
		version = DefaultSecretVersion
	}

	svc, err := secretmanager.NewService(ctx, id.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create secret manager client: %w", err)
	}
	name := fmt.Sprintf("projects/%s/secrets/%s/versions/%s", project, in.SecretID, version)
	res, err := svc.Projects.Secrets.Versions.Access(name).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	if res.Payload == nil || res.Payload.Data == "" {
		return "", nil
	}
	b, err := base64.StdEncoding.DecodeString(res.Payload.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload of %s: %w", name, err)
	}
	return b, nil
}
