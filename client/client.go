// Package client talks to a running mcp-gcp server over its HTTP endpoints.
package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client is an HTTP client for the operational endpoints of an mcp-gcp server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the server at baseURL, eg- http://localhost:8080
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the base URL of the server.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) constructEndpoint(p string) (string, error) {
	u, err := url.JoinPath(c.baseURL, p)
	if err != nil {
		return "", fmt.Errorf("invalid server url %s: %w", c.baseURL, err)
	}
	return u, nil
}

func (c *Client) newRequest(method, u string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequest(method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// parseErrorResponse builds an error out of a non-successful response.
func (c *Client) parseErrorResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, errResp.Error)
	}
	return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
