package cmd

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/mcpjungle/mcp-gcp/internal/config"
	"github.com/mcpjungle/mcp-gcp/internal/telemetry"
	"github.com/mcpjungle/mcp-gcp/pkg/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var usageCmd = &cobra.Command{
	Use:   "usage <name>",
	Short: "Get usage information for a MCP tool",
	Args:  cobra.ExactArgs(1),
	RunE:  runGetToolUsage,
	Annotations: map[string]string{
		"group": string(subCommandGroupBasic),
		"order": "3",
	},
}

func init() {
	rootCmd.AddCommand(usageCmd)
}

func runGetToolUsage(cmd *cobra.Command, args []string) error {
	reg, err := newToolRegistry(config.Default(), zap.NewNop(), telemetry.NewNoopCustomMetrics())
	if err != nil {
		return err
	}
	mt, ok := reg.Get(args[0])
	if !ok {
		return fmt.Errorf("failed to get tool '%s': no such tool, run 'tools' to list them", args[0])
	}
	t := types.NewTool(mt)

	cmd.Println(t.Name)
	cmd.Println(t.Description)

	if len(t.InputSchema.Properties) == 0 {
		cmd.Println("This tool does not require any input parameters.")
		return nil
	}

	names := make([]string, 0, len(t.InputSchema.Properties))
	for k := range t.InputSchema.Properties {
		names = append(names, k)
	}
	sort.Strings(names)

	cmd.Println()
	cmd.Println("Input Parameters:")
	for _, k := range names {
		v := t.InputSchema.Properties[k]
		requiredOrOptional := "optional"
		if slices.Contains(t.InputSchema.Required, k) {
			requiredOrOptional = "required"
		}

		boundary := strings.Repeat("=", len(k)+len(requiredOrOptional)+20)

		cmd.Println(boundary)
		cmd.Printf("%s (%s)\n", k, requiredOrOptional)

		j, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			// Simply print the raw object if we fail to marshal it
			cmd.Println(v)
		} else {
			cmd.Println(string(j))
		}
		cmd.Println(boundary)

		cmd.Println()
	}

	// Print annotations if present
	if len(t.Annotations) > 0 {
		keys := make([]string, 0, len(t.Annotations))
		for k := range t.Annotations {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		cmd.Println()
		cmd.Println("Annotations:")
		for _, k := range keys {
			cmd.Printf("* %s = %v\n", k, t.Annotations[k])
		}
	}

	return nil
}
