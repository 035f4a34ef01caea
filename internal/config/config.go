// Package config loads the settings of the mcp-gcp server.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	ConfigFileEnvVar         = "MCP_GCP_CONFIG"
	TransportEnvVar          = "MCP_GCP_TRANSPORT"
	BindPortEnvVar           = "PORT"
	LogLevelEnvVar           = "LOG_LEVEL"
	TelemetryEnabledEnvVar   = "OTEL_ENABLED"
	GAPIAllowedMethodsEnvVar = "GAPI_ALLOWED_METHODS"
)

const (
	TransportDefault = "stdio"
	BindPortDefault  = "8080"
	LogLevelDefault  = "info"
)

// Config holds the settings of the server.
// precedence: command line flag > environment variable > config file > default
type Config struct {
	// Transport is the transport MCP is served over, either "stdio" or "http".
	Transport string `yaml:"transport"`

	// Port is the TCP port the http transport binds to.
	Port string `yaml:"port"`

	LogLevel string `yaml:"log_level"`

	TelemetryEnabled bool `yaml:"telemetry_enabled"`

	// GAPIAllowedMethods are the glob patterns of the methods the generic gapi.request tool may call,
	// eg- `storage.v1.buckets.*`. Nothing is allowed when empty.
	GAPIAllowedMethods []string `yaml:"gapi_allowed_methods"`
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		Transport: TransportDefault,
		Port:      BindPortDefault,
		LogLevel:  LogLevelDefault,
	}
}

// Loader reads the configuration from a file system and the environment.
type Loader struct {
	Fs     afero.Fs
	Getenv func(string) string
}

// NewLoader returns a Loader reading from the OS file system and environment.
func NewLoader() *Loader {
	return &Loader{Fs: afero.NewOsFs(), Getenv: os.Getenv}
}

// Load builds the configuration from the defaults, the config file and the environment.
// path names the config file; when empty, the file named by MCP_GCP_CONFIG is used, if any.
// A config file that is named explicitly must exist.
func (l *Loader) Load(path string) (*Config, error) {
	c := Default()

	if path == "" {
		path = l.Getenv(ConfigFileEnvVar)
	}
	if path != "" {
		if err := l.readFile(path, c); err != nil {
			return nil, err
		}
	}

	if err := l.applyEnv(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (l *Loader) readFile(path string, c *Config) error {
	data, err := afero.ReadFile(l.Fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file '%s' not found", path)
		}
		return fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}
	return nil
}

func (l *Loader) applyEnv(c *Config) error {
	if v := l.Getenv(TransportEnvVar); v != "" {
		c.Transport = v
	}
	if v := l.Getenv(BindPortEnvVar); v != "" {
		c.Port = v
	}
	if v := l.Getenv(LogLevelEnvVar); v != "" {
		c.LogLevel = v
	}

	if v := l.Getenv(TelemetryEnabledEnvVar); v != "" {
		switch strings.ToLower(v) {
		case "true", "1":
			c.TelemetryEnabled = true
		case "false", "0":
			c.TelemetryEnabled = false
		default:
			return fmt.Errorf(
				"invalid value for %s environment variable: '%s', valid values are 'true' or 'false'",
				TelemetryEnabledEnvVar, v,
			)
		}
	}

	if v := l.Getenv(GAPIAllowedMethodsEnvVar); v != "" {
		c.GAPIAllowedMethods = SplitList(v)
	}
	return nil
}

// SplitList splits a comma-separated list, dropping blank items.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
