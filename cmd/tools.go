package cmd

import (
	"github.com/mcpjungle/mcp-gcp/internal/config"
	"github.com/mcpjungle/mcp-gcp/internal/telemetry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools served by mcp-gcp",
	Args:  cobra.NoArgs,
	RunE:  runListTools,
	Annotations: map[string]string{
		"group": string(subCommandGroupBasic),
		"order": "2",
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

func runListTools(cmd *cobra.Command, args []string) error {
	reg, err := newToolRegistry(config.Default(), zap.NewNop(), telemetry.NewNoopCustomMetrics())
	if err != nil {
		return err
	}

	for i, t := range reg.List() {
		cmd.Printf("%d. %s\n", i+1, t.Name)
		cmd.Println(t.Description)
		cmd.Println()
	}
	cmd.Println("Run 'usage <tool name>' to see a tool's input parameters.")
	return nil
}
