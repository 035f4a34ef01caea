package testhelpers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/mcpjungle/mcp-gcp/internal/gcp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// RecordedRequest is a request received by FakeGoogleAPI.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// FakeGoogleAPI is an httptest server standing in for Google REST endpoints.
// Routes are matched on method and path. A route also matches any request path it is a
// suffix of, so tests do not depend on the base path an SDK client prepends.
// Unmatched requests get a googleapi-style 404.
type FakeGoogleAPI struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []RecordedRequest
}

// NewFakeGoogleAPI starts a FakeGoogleAPI that is closed when the test ends.
func NewFakeGoogleAPI(t *testing.T) *FakeGoogleAPI {
	t.Helper()
	f := &FakeGoogleAPI{routes: make(map[string]http.HandlerFunc)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

func routeKey(method, path string) string {
	return method + " " + path
}

// Handle registers a handler for method and path.
func (f *FakeGoogleAPI) Handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[routeKey(method, path)] = h
}

// HandleJSON registers a fixed JSON response for method and path.
func (f *FakeGoogleAPI) HandleJSON(method, path string, status int, body string) {
	f.Handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

// Requests returns a copy of all requests received so far.
func (f *FakeGoogleAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// Endpoint returns the base URL to pass to option.WithEndpoint.
func (f *FakeGoogleAPI) Endpoint() string {
	return f.URL + "/"
}

// Resolver returns a credential resolver whose SDK clients all talk to this fake.
// Credentials resolve to project adcProject unless env supplies one.
func (f *FakeGoogleAPI) Resolver(adcProject string, env map[string]string) *gcp.Resolver {
	return gcp.NewResolver(
		gcp.WithCredentialsFinder(StaticCredentials(adcProject)),
		gcp.WithGetenv(func(k string) string { return env[k] }),
		gcp.WithHTTPClient(f.Client()),
		gcp.WithEndpoint(f.Endpoint()),
	)
}

func (f *FakeGoogleAPI) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	h, ok := f.match(r.Method, r.URL.Path)
	f.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = fmt.Fprintf(w, `{"error":{"code":404,"message":"no route for %s %s"}}`, r.Method, r.URL.Path)
		return
	}
	h(w, r)
}

// match must be called with f.mu held.
func (f *FakeGoogleAPI) match(method, path string) (http.HandlerFunc, bool) {
	if h, ok := f.routes[routeKey(method, path)]; ok {
		return h, true
	}
	var best http.HandlerFunc
	bestLen := 0
	for key, h := range f.routes {
		m, p, _ := strings.Cut(key, " ")
		if m != method || !strings.HasPrefix(p, "/") || !strings.HasSuffix(path, p) {
			continue
		}
		if len(p) > bestLen {
			best, bestLen = h, len(p)
		}
	}
	return best, best != nil
}

// StaticCredentials returns a credentials finder yielding a fixed project and token.
func StaticCredentials(project string) gcp.CredentialsFinder {
	return func(context.Context, ...string) (*google.Credentials, error) {
		return &google.Credentials{
			ProjectID:   project,
			TokenSource: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"}),
		}, nil
	}
}
