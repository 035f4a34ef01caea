// Package version exposes the build version of mcp-gcp.
package version

import (
	"runtime/debug"
	"strings"
)

// Version is set at build time with
// -ldflags "-X github.com/mcpjungle/mcp-gcp/pkg/version.Version=v1.2.3"
var Version = ""

const devVersion = "dev"

// GetVersion returns the version of the running binary.
// It falls back to the module version recorded by the Go toolchain, then to "dev".
func GetVersion() string {
	if Version != "" {
		return normalize(Version)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return normalize(info.Main.Version)
	}
	return devVersion
}

func normalize(v string) string {
	v = strings.TrimSpace(v)
	if v == devVersion || strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
