package cmd

import (
	"fmt"

	"github.com/mcpjungle/mcp-gcp/internal/config"
	"github.com/mcpjungle/mcp-gcp/internal/gcp"
	"github.com/mcpjungle/mcp-gcp/internal/service/gapi"
	"github.com/mcpjungle/mcp-gcp/internal/service/registry"
	"github.com/mcpjungle/mcp-gcp/internal/service/tools"
	"github.com/mcpjungle/mcp-gcp/internal/telemetry"
	"go.uber.org/zap"
)

// newToolRegistry builds the registry holding every GCP tool.
// No credentials are looked up here, each tool call resolves its own.
func newToolRegistry(c *config.Config, logger *zap.Logger, metrics telemetry.CustomMetrics) (*registry.Registry, error) {
	resolver := gcp.NewResolver()

	allowList, err := gapi.NewAllowList(c.GAPIAllowedMethods)
	if err != nil {
		return nil, fmt.Errorf("failed to parse the generic request allow-list: %w", err)
	}
	if patterns := allowList.Patterns(); len(patterns) > 0 {
		logger.Info("gapi.request allow-list loaded", zap.Strings("patterns", patterns))
	}
	gapiService, err := gapi.NewService(&gapi.ServiceConfig{
		Resolver:  resolver,
		AllowList: allowList,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create generic request service: %w", err)
	}

	toolService, err := tools.NewService(&tools.Config{
		Resolver: resolver,
		GAPI:     gapiService,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tool service: %w", err)
	}

	r := registry.NewRegistry(&registry.Config{Metrics: metrics, Logger: logger})
	if err := toolService.Install(r); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}
	return r, nil
}
