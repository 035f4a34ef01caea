// Package gcp resolves Google Cloud credentials and project identifiers for tool invocations.
package gcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"
)

const (
	// ProjectEnvVar is the primary environment variable consulted for the default project.
	ProjectEnvVar = "GOOGLE_CLOUD_PROJECT"
	// LegacyProjectEnvVar is consulted when ProjectEnvVar is not set.
	LegacyProjectEnvVar = "GCLOUD_PROJECT"
)

// OAuth scopes used by the built-in tools.
const (
	ScopeCloudPlatformReadOnly = "https://www.googleapis.com/auth/cloud-platform.read-only"
	ScopeStorageReadOnly       = "https://www.googleapis.com/auth/devstorage.read_only"
	ScopePubSubReadOnly        = "https://www.googleapis.com/auth/pubsub.readonly"
	ScopePubSub                = "https://www.googleapis.com/auth/pubsub"
	ScopeComputeReadOnly       = "https://www.googleapis.com/auth/compute.readonly"
)

var (
	// ErrAuthResolution is returned when no usable ambient credential could be found.
	ErrAuthResolution = errors.New("failed to resolve Google Cloud credentials")

	// ErrMissingProject is returned when no project could be identified from any source.
	ErrMissingProject = errors.New(
		"no default project found, pass projectId explicitly or set " +
			ProjectEnvVar + " or " + LegacyProjectEnvVar,
	)
)

// CredentialsFinder looks up ambient credentials for the given scopes.
// google.FindDefaultCredentials is the production implementation.
type CredentialsFinder func(ctx context.Context, scopes ...string) (*google.Credentials, error)

// Resolver obtains credentials and the effective project for a single tool invocation.
// It holds no per-invocation state, so one Resolver is shared by all tools.
type Resolver struct {
	find   CredentialsFinder
	getenv func(string) string

	// httpClient, when set, replaces credential-based transports.
	// It exists so that tests and emulators can bypass OAuth entirely.
	httpClient *http.Client
	endpoint   string
}

// ResolverOption customizes a Resolver.
type ResolverOption func(*Resolver)

// WithCredentialsFinder overrides how ambient credentials are discovered.
func WithCredentialsFinder(f CredentialsFinder) ResolverOption {
	return func(r *Resolver) { r.find = f }
}

// WithGetenv overrides environment lookups.
func WithGetenv(getenv func(string) string) ResolverOption {
	return func(r *Resolver) { r.getenv = getenv }
}

// WithHTTPClient makes every SDK client built from a resolved identity use c as-is.
func WithHTTPClient(c *http.Client) ResolverOption {
	return func(r *Resolver) { r.httpClient = c }
}

// WithEndpoint points every SDK client built from a resolved identity at a single endpoint.
func WithEndpoint(endpoint string) ResolverOption {
	return func(r *Resolver) { r.endpoint = endpoint }
}

// NewResolver creates a Resolver backed by Application Default Credentials.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		find:   google.FindDefaultCredentials,
		getenv: os.Getenv,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Identity is the credential material resolved for one invocation.
// It must not be shared across invocations.
type Identity struct {
	ProjectID string
	Scopes    []string

	creds      *google.Credentials
	httpClient *http.Client
	endpoint   string
}

// Identity constructs fresh credentials scoped to exactly the given scopes.
func (r *Resolver) Identity(ctx context.Context, scopes []string) (*Identity, error) {
	creds, err := r.find(ctx, scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthResolution, err)
	}
	if creds == nil {
		return nil, ErrAuthResolution
	}
	return &Identity{
		ProjectID:  creds.ProjectID,
		Scopes:     append([]string(nil), scopes...),
		creds:      creds,
		httpClient: r.httpClient,
		endpoint:   r.endpoint,
	}, nil
}

// DefaultProject returns the project configured through the environment, if any.
func (r *Resolver) DefaultProject() string {
	if p := r.getenv(ProjectEnvVar); p != "" {
		return p
	}
	return r.getenv(LegacyProjectEnvVar)
}

// EffectiveProject returns the project identifier a call made with id should use.
// precedence: explicit value > environment > the credential's own project
func (r *Resolver) EffectiveProject(id *Identity, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if p := r.DefaultProject(); p != "" {
		return p, nil
	}
	if id == nil || id.ProjectID == "" {
		return "", ErrMissingProject
	}
	return id.ProjectID, nil
}

// ClientOptions binds this identity to a single SDK client.
func (id *Identity) ClientOptions() []option.ClientOption {
	var opts []option.ClientOption
	if id.httpClient != nil {
		opts = append(opts, option.WithHTTPClient(id.httpClient))
	} else {
		opts = append(opts, option.WithCredentials(id.creds))
	}
	if id.endpoint != "" {
		opts = append(opts, option.WithEndpoint(id.endpoint))
	}
	return opts
}

// HTTPClient returns an authenticated HTTP client carrying this identity's credentials.
func (id *Identity) HTTPClient(ctx context.Context) (*http.Client, error) {
	if id.httpClient != nil {
		return id.httpClient, nil
	}
	c, _, err := htransport.NewClient(ctx, option.WithCredentials(id.creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated http client: %w", err)
	}
	return c, nil
}

// HasToken reports whether the identity can mint an access token right now.
func (id *Identity) HasToken() (bool, error) {
	if id.creds == nil || id.creds.TokenSource == nil {
		return false, nil
	}
	tok, err := id.creds.TokenSource.Token()
	if err != nil {
		return false, fmt.Errorf("failed to fetch access token: %w", err)
	}
	return tok.AccessToken != "", nil
}
