package client

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mcpjungle/mcp-gcp/pkg/types"
)

// GetMetadata fetches the version and tool count of the server
func (c *Client) GetMetadata() (*types.ServerMetadata, error) {
	u, err := c.constructEndpoint("/metadata")
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request to %s: %w", u, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseErrorResponse(resp)
	}

	var m types.ServerMetadata
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &m, nil
}

// CheckHealth returns an error unless the server reports itself healthy
func (c *Client) CheckHealth() error {
	u, err := c.constructEndpoint("/health")
	if err != nil {
		return err
	}

	req, err := c.newRequest(http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request to %s: %w", u, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseErrorResponse(resp)
	}

	var h struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if h.Status != "ok" {
		return fmt.Errorf("server reported status '%s'", h.Status)
	}
	return nil
}
