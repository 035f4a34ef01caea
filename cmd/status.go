package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mcpjungle/mcp-gcp/client"
	"github.com/spf13/cobra"
)

const defaultServerURL = "http://127.0.0.1:8080"

var statusCmdServerURL string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check a running mcp-gcp HTTP server",
	Long: "Queries the health and metadata endpoints of an mcp-gcp server started with --transport http.\n" +
		"This does not work for servers serving MCP over stdio.",
	Args: cobra.NoArgs,
	RunE: runStatus,
	Annotations: map[string]string{
		"group": string(subCommandGroupAdvanced),
		"order": "4",
	},
}

func init() {
	statusCmd.Flags().StringVar(
		&statusCmdServerURL,
		"server",
		defaultServerURL,
		"base URL of the mcp-gcp HTTP server",
	)
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	c := client.NewClient(statusCmdServerURL, &http.Client{Timeout: 5 * time.Second})

	if err := c.CheckHealth(); err != nil {
		return fmt.Errorf("server at %s is not healthy: %w", c.BaseURL(), err)
	}
	m, err := c.GetMetadata()
	if err != nil {
		return fmt.Errorf("failed to get server metadata: %w", err)
	}

	cmd.Printf("mcp-gcp server at %s is healthy\n", c.BaseURL())
	cmd.Printf("Version: %s\n", m.Version)
	cmd.Printf("Transport: %s\n", m.Transport)
	cmd.Printf("Tools: %d\n", m.Tools)
	return nil
}
