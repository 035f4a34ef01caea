package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mcpjungle/mcp-gcp/internal/api"
	"github.com/mcpjungle/mcp-gcp/internal/config"
	"github.com/mcpjungle/mcp-gcp/internal/logging"
	"github.com/mcpjungle/mcp-gcp/internal/telemetry"
	"github.com/mcpjungle/mcp-gcp/pkg/types"
	"github.com/mcpjungle/mcp-gcp/pkg/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const serverName = "mcp-gcp"

var (
	startServerCmdConfigFile  string
	startServerCmdTransport   string
	startServerCmdBindPort    string
	startServerCmdLogLevel    string
	startServerCmdGAPIAllowed []string
)

var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the mcp-gcp MCP server",
	Long: "Starts the mcp-gcp MCP server.\n\n" +
		"By default, MCP is served over stdio, which is what most MCP clients expect when they launch a server.\n" +
		"Use --transport http to serve streamable HTTP on /mcp instead.\n\n" +
		"Settings can be supplied in a YAML config file (--config or MCP_GCP_CONFIG), through environment variables\n" +
		"(MCP_GCP_TRANSPORT, PORT, LOG_LEVEL, OTEL_ENABLED, GAPI_ALLOWED_METHODS) or with flags.\n" +
		"Flags take precedence over environment variables, which take precedence over the config file.\n\n" +
		"The generic gapi.request tool denies every method unless it matches an allow-list pattern,\n" +
		"eg: export GAPI_ALLOWED_METHODS='storage.v1.buckets.*,pubsub.v1.projects.topics.list'\n",
	RunE: runStartServer,
	Annotations: map[string]string{
		"group": string(subCommandGroupBasic),
		"order": "1",
	},
}

func init() {
	startServerCmd.Flags().StringVar(
		&startServerCmdConfigFile,
		"config",
		"",
		fmt.Sprintf("path to a YAML config file (overrides env var %s)", config.ConfigFileEnvVar),
	)
	startServerCmd.Flags().StringVar(
		&startServerCmdTransport,
		"transport",
		"",
		fmt.Sprintf(
			"transport to serve MCP over, '%s' or '%s' (overrides env var %s)",
			types.TransportStdio, types.TransportStreamableHTTP, config.TransportEnvVar,
		),
	)
	startServerCmd.Flags().StringVar(
		&startServerCmdBindPort,
		"port",
		"",
		fmt.Sprintf("port to bind the HTTP server to (overrides env var %s)", config.BindPortEnvVar),
	)
	startServerCmd.Flags().StringVar(
		&startServerCmdLogLevel,
		"log-level",
		"",
		fmt.Sprintf("log level, eg- debug, info, warn (overrides env var %s)", config.LogLevelEnvVar),
	)
	startServerCmd.Flags().StringSliceVar(
		&startServerCmdGAPIAllowed,
		"gapi-allow",
		nil,
		fmt.Sprintf(
			"glob pattern of a method the gapi.request tool may call, repeatable (overrides env var %s)",
			config.GAPIAllowedMethodsEnvVar,
		),
	)

	rootCmd.AddCommand(startServerCmd)
}

// loadServerConfig builds the server configuration.
// precedence: command line flag > environment variable > config file > default
func loadServerConfig(l *config.Loader) (*config.Config, error) {
	c, err := l.Load(startServerCmdConfigFile)
	if err != nil {
		return nil, err
	}
	if startServerCmdTransport != "" {
		c.Transport = startServerCmdTransport
	}
	if startServerCmdBindPort != "" {
		c.Port = startServerCmdBindPort
	}
	if startServerCmdLogLevel != "" {
		c.LogLevel = startServerCmdLogLevel
	}
	if len(startServerCmdGAPIAllowed) > 0 {
		c.GAPIAllowedMethods = startServerCmdGAPIAllowed
	}
	return c, nil
}

func runStartServer(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	c, err := loadServerConfig(config.NewLoader())
	if err != nil {
		return err
	}
	transport, err := types.ValidateTransport(c.Transport)
	if err != nil {
		return err
	}

	logger, err := logging.New(c.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize metrics if enabled
	otelConfig := &telemetry.Config{
		ServiceName: serverName,
		Enabled:     c.TelemetryEnabled,
	}
	otelProviders, err := telemetry.Init(ctx, otelConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize Opentelemetry providers: %v", err)
	}
	defer func() {
		if err := otelProviders.Shutdown(context.Background()); err != nil {
			logger.Warn("failed to shutdown opentelemetry providers", zap.Error(err))
		}
	}()

	// The no-op implementation is used unless metrics are enabled,
	// so the rest of the code never has to check.
	toolMetrics := telemetry.NewNoopCustomMetrics()
	if otelProviders.IsEnabled() {
		toolMetrics, err = telemetry.NewOtelCustomMetrics(otelProviders.Meter)
		if err != nil {
			return fmt.Errorf("failed to create tool metrics: %v", err)
		}
	}

	reg, err := newToolRegistry(c, logger, toolMetrics)
	if err != nil {
		return err
	}
	if len(c.GAPIAllowedMethods) == 0 {
		logger.Info("gapi.request allow-list is empty, every generic request will be denied")
	}

	mcpServer := server.NewMCPServer(
		serverName,
		version.GetVersion(),
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	reg.Attach(mcpServer)

	logger.Info("starting mcp-gcp",
		zap.String("version", version.GetVersion()),
		zap.String("transport", string(transport)),
		zap.Int("tools", len(reg.List())),
	)

	switch transport {
	case types.TransportStreamableHTTP:
		s, err := api.NewServer(&api.ServerOptions{
			Port:          c.Port,
			MCPServer:     mcpServer,
			ToolCount:     len(reg.List()),
			OtelProviders: otelProviders,
			Logger:        logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create server: %v", err)
		}
		cmd.Printf("mcp-gcp MCP server listening on :%s%s\n\n", c.Port, api.MCPPath)
		return s.Start(ctx)
	default:
		stdio := server.NewStdioServer(mcpServer)
		stdio.SetErrorLogger(zap.NewStdLog(logger))
		if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
			return fmt.Errorf("failed to serve MCP over stdio: %w", err)
		}
		return nil
	}
}
