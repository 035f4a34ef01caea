// Package gapi calls arbitrary Google API methods described by the Google API Discovery Service.
package gapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mcpjungle/mcp-gcp/internal/gcp"
	"go.uber.org/zap"
	discovery "google.golang.org/api/discovery/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DefaultScopes are requested when a call does not name its own scopes.
var DefaultScopes = []string{gcp.ScopeCloudPlatformReadOnly}

// ServiceConfig holds the configuration parameters for initializing the Service.
type ServiceConfig struct {
	Resolver  *gcp.Resolver
	AllowList *AllowList

	// DiscoveryOptions are passed to the discovery client, eg- to point it at a mirror.
	DiscoveryOptions []option.ClientOption

	Logger *zap.Logger
}

// Service resolves and invokes generic API calls.
type Service struct {
	resolver      *gcp.Resolver
	allowList     *AllowList
	discoveryOpts []option.ClientOption
	logger        *zap.Logger
}

// NewService creates a new Service.
func NewService(c *ServiceConfig) (*Service, error) {
	if c.Resolver == nil {
		return nil, errors.New("a credential resolver is required")
	}
	s := &Service{
		resolver:      c.Resolver,
		allowList:     c.AllowList,
		discoveryOpts: append([]option.ClientOption{option.WithoutAuthentication()}, c.DiscoveryOptions...),
		logger:        c.Logger,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s, nil
}

// Request identifies a single generic API call.
type Request struct {
	API        string
	Version    string
	Method     string
	Parameters map[string]any
	Scopes     []string
}

// Call checks the allow-list, resolves the method and invokes it with the caller's credentials.
// The credentials are bound to this call only.
func (s *Service) Call(ctx context.Context, req Request) (any, error) {
	key := MethodKey(req.API, req.Version, req.Method)
	if !s.allowList.Allows(key) {
		return nil, &MethodNotAllowedError{Method: key}
	}

	scopes := req.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	id, err := s.resolver.Identity(ctx, scopes)
	if err != nil {
		return nil, err
	}
	hc, err := id.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}

	op, err := s.Lookup(ctx, req.API, req.Version, req.Method)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("calling google api method",
		zap.String("method", key),
		zap.String("http_method", op.HTTPMethod()),
	)
	return op.Call(ctx, hc, req.Parameters)
}

// Lookup fetches the discovery document of an API and resolves a method on it.
func (s *Service) Lookup(ctx context.Context, api, version, method string) (*Operation, error) {
	d, err := s.describe(ctx, api, version)
	if err != nil {
		return nil, err
	}
	return Resolve(d, method)
}

func (s *Service) describe(ctx context.Context, api, version string) (*discovery.RestDescription, error) {
	svc, err := discovery.NewService(ctx, s.discoveryOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery client: %w", err)
	}
	d, err := svc.Apis.GetRest(api, version).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && (gerr.Code == http.StatusNotFound || gerr.Code == http.StatusBadRequest) {
			return nil, &UnknownAPIError{API: api, Version: version, Err: err}
		}
		return nil, fmt.Errorf("failed to fetch discovery document for %s %s: %w", api, version, err)
	}
	return d, nil
}
