// Package cmd implements the mcp-gcp command line interface.
package cmd

import (
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

// subCommandGroup groups subcommands in the help output.
type subCommandGroup string

const (
	subCommandGroupBasic    subCommandGroup = "basic"
	subCommandGroupAdvanced subCommandGroup = "advanced"
)

var rootCmd = &cobra.Command{
	Use:   "mcp-gcp",
	Short: "MCP server exposing Google Cloud operations as tools",
	Long: "mcp-gcp serves a fixed set of Google Cloud operations as Model Context Protocol tools.\n\n" +
		"Credentials are discovered through Application Default Credentials.\n" +
		"Run `gcloud auth application-default login` or set GOOGLE_APPLICATION_CREDENTIALS before starting the server.",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: string(subCommandGroupBasic), Title: "Basic Commands:"},
		&cobra.Group{ID: string(subCommandGroupAdvanced), Title: "Advanced Commands:"},
	)
	cobra.EnableCommandSorting = false
}

// organizeCommands assigns every subcommand to the group named by its "group" annotation
// and orders them by their "order" annotation.
func organizeCommands(root *cobra.Command) {
	cmds := append([]*cobra.Command(nil), root.Commands()...)
	sort.SliceStable(cmds, func(i, j int) bool {
		return commandOrder(cmds[i]) < commandOrder(cmds[j])
	})
	root.RemoveCommand(cmds...)
	for _, c := range cmds {
		if g, ok := c.Annotations["group"]; ok {
			c.GroupID = g
		}
		root.AddCommand(c)
	}
}

func commandOrder(c *cobra.Command) int {
	o, err := strconv.Atoi(c.Annotations["order"])
	if err != nil {
		return 1 << 30
	}
	return o
}

// Execute runs the root command.
func Execute() {
	organizeCommands(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
