package main

import "github.com/mcpjungle/mcp-gcp/cmd"

func main() {
	cmd.Execute()
}
