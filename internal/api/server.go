// Package api serves the mcp-gcp MCP server over streamable HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mcpjungle/mcp-gcp/internal/telemetry"
	"github.com/mcpjungle/mcp-gcp/pkg/types"
	"github.com/mcpjungle/mcp-gcp/pkg/version"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// MCPPath is where the MCP endpoint is mounted.
const MCPPath = "/mcp"

// shutdownTimeout bounds how long in-flight requests may take once the server is stopping.
const shutdownTimeout = 10 * time.Second

type ServerOptions struct {
	// Port is the HTTP port to bind the server to
	Port string

	// MCPServer is the MCP server instance holding all the GCP tools.
	MCPServer *server.MCPServer

	// ToolCount is reported by the /metadata endpoint.
	ToolCount int

	OtelProviders *telemetry.Providers
	Logger        *zap.Logger
}

// Server exposes the MCP server over streamable HTTP along with health and metrics endpoints
type Server struct {
	port   string
	router *gin.Engine

	mcpServer *server.MCPServer
	toolCount int

	otelProviders *telemetry.Providers
	logger        *zap.Logger
}

// NewServer initializes a new Gin server for the MCP endpoint
func NewServer(opts *ServerOptions) (*Server, error) {
	if opts.MCPServer == nil {
		return nil, errors.New("an MCP server is required")
	}
	s := &Server{
		port:          opts.Port,
		mcpServer:     opts.MCPServer,
		toolCount:     opts.ToolCount,
		otelProviders: opts.OtelProviders,
		logger:        opts.Logger,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	// Set up the router after the server is fully initialized
	r, err := s.setupRouter()
	if err != nil {
		return nil, err
	}
	s.router = r

	return s, nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until ctx is cancelled (blocking call).
// In-flight requests are given a grace period to complete on shutdown.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to run the server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown the server: %w", err)
	}
	return nil
}

// setupRouter sets up the Gin router with the MCP endpoint and the operational endpoints.
func (s *Server) setupRouter() (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	// if otel is enabled, setup prometheus metrics endpoint
	if s.otelProviders != nil && s.otelProviders.IsEnabled() {
		// instrument gin
		r.Use(otelgin.Middleware(s.otelProviders.ServiceName()))

		// expose prometheus metrics endpoint
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	r.GET(
		"/health",
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		},
	)

	r.GET(
		"/metadata",
		func(c *gin.Context) {
			m := &types.ServerMetadata{
				Version:   version.GetVersion(),
				Transport: string(types.TransportStreamableHTTP),
				Tools:     s.toolCount,
			}
			c.JSON(http.StatusOK, m)
		},
	)

	// each request's context is cancelled when the client goes away,
	// which also cancels the Google API calls it started
	streamableHTTPServer := server.NewStreamableHTTPServer(s.mcpServer)
	r.Any(MCPPath, gin.WrapH(streamableHTTPServer))

	return r, nil
}

// requestLogger logs every request at debug level.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		s.logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(started)),
		)
	}
}
