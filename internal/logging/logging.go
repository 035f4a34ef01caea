// Package logging builds the zap logger used across mcp-gcp.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a JSON logger at the given level.
// Logs go to stderr because stdout carries the stdio MCP stream.
func New(level string) (*zap.Logger, error) {
	return NewWithSink(level, zapcore.Lock(os.Stderr))
}

// NewWithSink creates a JSON logger at the given level writing to w.
func NewWithSink(level string, w zapcore.WriteSyncer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level '%s': %w", level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), w, zap.NewAtomicLevelAt(lvl))
	return zap.New(core, zap.AddCaller()).Named("mcp-gcp"), nil
}
