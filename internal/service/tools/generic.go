package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mcpjungle/mcp-gcp/internal/service/gapi"
	"github.com/mcpjungle/mcp-gcp/pkg/types"
)

func gapiRequestTool() mcp.Tool {
	return mcp.NewTool("gapi.request",
		mcp.WithDescription("Generic Google API call via discovery documents. "+
			"Only methods matching the configured allow-list can be called, "+
			"they are addressed as <api>.<version>.<method>, eg- storage.v1.buckets.list."),
		mcp.WithString("api", mcp.Required(), mcp.Description("API name, eg- storage")),
		mcp.WithString("version", mcp.Required(), mcp.Description("API version, eg- v1")),
		mcp.WithString("method", mcp.Required(),
			mcp.Description("Dotted method path within the API, eg- buckets.list"),
		),
		mcp.WithObject("parameters",
			defaultValue(map[string]any{}),
			mcp.Description("Method parameters, passed verbatim. Path parameters are expanded into the URL, "+
				"'"+gapi.RequestBodyParam+"' is sent as the JSON body and everything else becomes a query parameter"),
		),
		mcp.WithArray("scopes",
			defaultValue(gapi.DefaultScopes),
			mcp.Items(map[string]any{"type": "string"}),
			mcp.Description("OAuth scopes to request for this call"),
		),
		mcp.WithTitleAnnotation("Google API request"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}

func (s *Service) gapiRequest(ctx context.Context, in types.GAPIRequestInput) (any, error) {
	return s.gapi.Call(ctx, gapi.Request{
		API:        in.API,
		Version:    in.Version,
		Method:     in.Method,
		Parameters: in.Parameters,
		Scopes:     in.Scopes,
	})
}
