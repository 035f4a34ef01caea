package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mcpjungle/mcp-gcp/internal/config"
	"github.com/mcpjungle/mcp-gcp/internal/telemetry"
	"github.com/mcpjungle/mcp-gcp/pkg/testhelpers"
	"github.com/mcpjungle/mcp-gcp/pkg/types"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func runCommand(t *testing.T, c *cobra.Command, run func(*cobra.Command, []string) error, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	c.SetOut(&buf)
	c.SetErr(&buf)
	t.Cleanup(func() {
		c.SetOut(nil)
		c.SetErr(nil)
	})
	testhelpers.AssertNoError(t, run(c, args))
	return buf.String()
}

func TestStartCommandStructure(t *testing.T) {
	testhelpers.AssertEqual(t, "start", startServerCmd.Use)
	testhelpers.AssertEqual(t, "Start the mcp-gcp MCP server", startServerCmd.Short)
	testhelpers.AssertTrue(t, len(startServerCmd.Long) > 0, "Long description should not be empty")
	testhelpers.AssertNotNil(t, startServerCmd.RunE)

	annotationTests := []testhelpers.CommandAnnotationTest{
		{Key: "group", Expected: string(subCommandGroupBasic)},
		{Key: "order", Expected: "1"},
	}
	testhelpers.TestCommandAnnotations(t, startServerCmd.Annotations, annotationTests)

	for _, name := range []string{"config", "transport", "port", "log-level", "gapi-allow"} {
		f := startServerCmd.Flags().Lookup(name)
		testhelpers.AssertNotNil(t, f)
		testhelpers.AssertTrue(t, len(f.Usage) > 0, name+" flag should have usage description")
	}
}

func TestSubcommandAnnotations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cmd   *cobra.Command
		group subCommandGroup
		order string
	}{
		{toolsCmd, subCommandGroupBasic, "2"},
		{usageCmd, subCommandGroupBasic, "3"},
		{statusCmd, subCommandGroupAdvanced, "4"},
		{versionCmd, subCommandGroupAdvanced, "5"},
	}
	for _, tt := range tests {
		t.Run(tt.cmd.Use, func(t *testing.T) {
			testhelpers.TestCommandAnnotations(t, tt.cmd.Annotations, []testhelpers.CommandAnnotationTest{
				{Key: "group", Expected: string(tt.group)},
				{Key: "order", Expected: tt.order},
			})
		})
	}
}

func TestOrganizeCommands(t *testing.T) {
	root := &cobra.Command{Use: "root"}
	root.AddGroup(
		&cobra.Group{ID: string(subCommandGroupBasic), Title: "Basic"},
		&cobra.Group{ID: string(subCommandGroupAdvanced), Title: "Advanced"},
	)
	second := &cobra.Command{Use: "b", Annotations: map[string]string{"group": "advanced", "order": "2"}}
	first := &cobra.Command{Use: "a", Annotations: map[string]string{"group": "basic", "order": "1"}}
	unordered := &cobra.Command{Use: "c"}
	root.AddCommand(unordered, second, first)

	organizeCommands(root)

	cmds := root.Commands()
	testhelpers.AssertEqual(t, 3, len(cmds))
	testhelpers.AssertEqual(t, "a", cmds[0].Use)
	testhelpers.AssertEqual(t, "b", cmds[1].Use)
	testhelpers.AssertEqual(t, "c", cmds[2].Use)
	testhelpers.AssertEqual(t, "basic", cmds[0].GroupID)
	testhelpers.AssertEqual(t, "advanced", cmds[1].GroupID)
	testhelpers.AssertEqual(t, "", cmds[2].GroupID)
}

func TestLoadServerConfigFlagsWin(t *testing.T) {
	fs := afero.NewMemMapFs()
	testhelpers.AssertNoError(t, afero.WriteFile(fs, "/cfg.yaml", []byte("transport: http\nport: \"9000\"\n"), 0o644))
	l := &config.Loader{Fs: fs, Getenv: func(k string) string {
		if k == config.BindPortEnvVar {
			return "9100"
		}
		return ""
	}}

	startServerCmdConfigFile = "/cfg.yaml"
	startServerCmdBindPort = "9200"
	startServerCmdGAPIAllowed = []string{"storage.v1.**"}
	t.Cleanup(func() {
		startServerCmdConfigFile = ""
		startServerCmdBindPort = ""
		startServerCmdGAPIAllowed = nil
	})

	c, err := loadServerConfig(l)
	testhelpers.AssertNoError(t, err)
	testhelpers.AssertEqual(t, "http", c.Transport)
	testhelpers.AssertEqual(t, "9200", c.Port)
	testhelpers.AssertEqual(t, []string{"storage.v1.**"}, c.GAPIAllowedMethods)
	testhelpers.AssertEqual(t, config.LogLevelDefault, c.LogLevel)
}

func TestToolsCommandListsEveryTool(t *testing.T) {
	out := runCommand(t, toolsCmd, runListTools)

	for _, name := range []string{
		"gcp.whoami", "gcp.projects.list", "gcs.buckets.list", "gcs.objects.list", "gcs.objects.download",
		"secretmanager.secrets.access", "pubsub.topics.list", "pubsub.topics.publish",
		"run.services.list", "compute.instances.list", "gapi.request",
	} {
		testhelpers.AssertTrue(t, strings.Contains(out, name), "tools output should list "+name)
	}
	testhelpers.AssertTrue(t, strings.HasPrefix(out, "1. gcp.whoami\n"), "tools should be listed in registration order")
}

func TestUsageCommand(t *testing.T) {
	out := runCommand(t, usageCmd, runGetToolUsage, "gcs.objects.list")

	testhelpers.AssertTrue(t, strings.HasPrefix(out, "gcs.objects.list\n"), "usage should start with the tool name")
	testhelpers.AssertTrue(t, strings.Contains(out, "bucket (required)"), "bucket should be required")
	testhelpers.AssertTrue(t, strings.Contains(out, "maxResults (optional)"), "maxResults should be optional")
	testhelpers.AssertTrue(t, strings.Contains(out, `"maximum": 1000`), "maxResults should show its bound")
	testhelpers.AssertTrue(t, strings.Contains(out, "* readOnlyHint = true"), "annotations should be printed")

	// parameters are printed in a stable order
	testhelpers.AssertTrue(t,
		strings.Index(out, "bucket (") < strings.Index(out, "maxResults (") &&
			strings.Index(out, "maxResults (") < strings.Index(out, "prefix ("),
		"parameters should be sorted by name",
	)
}

func TestUsageCommandUnknownTool(t *testing.T) {
	err := runGetToolUsage(usageCmd, []string{"nope.tool"})
	testhelpers.AssertError(t, err)
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	versionCmd.Run(versionCmd, nil)
	testhelpers.AssertTrue(t, len(strings.TrimSpace(buf.String())) > 0, "version should be printed")
}

func TestStatusCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		case "/metadata":
			_ = json.NewEncoder(w).Encode(&types.ServerMetadata{Version: "v1.2.3", Transport: "http", Tools: 11})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	statusCmdServerURL = srv.URL
	t.Cleanup(func() { statusCmdServerURL = defaultServerURL })

	out := runCommand(t, statusCmd, runStatus)
	testhelpers.AssertTrue(t, strings.Contains(out, "is healthy"), "status should report health")
	testhelpers.AssertTrue(t, strings.Contains(out, "Version: v1.2.3"), "status should print the version")
	testhelpers.AssertTrue(t, strings.Contains(out, "Tools: 11"), "status should print the tool count")
}

func TestStatusCommandUnhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	statusCmdServerURL = srv.URL
	t.Cleanup(func() { statusCmdServerURL = defaultServerURL })

	testhelpers.AssertError(t, runStatus(statusCmd, nil))
}

func TestNewToolRegistryLogsAllowList(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	c := config.Default()
	c.GAPIAllowedMethods = []string{"storage.v1.buckets.*"}

	r, err := newToolRegistry(c, zap.New(core), telemetry.NewNoopCustomMetrics())
	testhelpers.AssertNoError(t, err)
	testhelpers.AssertEqual(t, 11, len(r.List()))

	entries := logs.FilterMessage("gapi.request allow-list loaded").All()
	testhelpers.AssertEqual(t, 1, len(entries))
	testhelpers.AssertEqual(t, []interface{}{"storage.v1.buckets.*"}, entries[0].ContextMap()["patterns"])
}

func TestNewToolRegistryRejectsBadPattern(t *testing.T) {
	c := config.Default()
	c.GAPIAllowedMethods = []string{"storage.v1.[buckets"}

	_, err := newToolRegistry(c, zap.NewNop(), telemetry.NewNoopCustomMetrics())
	testhelpers.AssertError(t, err)
}
