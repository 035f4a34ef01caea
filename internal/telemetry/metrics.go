package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ToolCallOutcome describes how a tool call finished.
type ToolCallOutcome string

const (
	ToolCallOutcomeSuccess ToolCallOutcome = "success"
	ToolCallOutcomeError   ToolCallOutcome = "error"
)

// CustomMetrics records mcp-gcp specific metrics.
// Use NewNoopCustomMetrics when telemetry is disabled, so callers never need a nil check.
type CustomMetrics interface {
	RecordToolCall(ctx context.Context, toolName string, outcome ToolCallOutcome, kind string, elapsed time.Duration)
}

type noopCustomMetrics struct{}

func (noopCustomMetrics) RecordToolCall(context.Context, string, ToolCallOutcome, string, time.Duration) {}

// NewNoopCustomMetrics returns a CustomMetrics that records nothing.
func NewNoopCustomMetrics() CustomMetrics {
	return noopCustomMetrics{}
}

type otelCustomMetrics struct {
	toolCalls    metric.Int64Counter
	toolDuration metric.Float64Histogram
}

// NewOtelCustomMetrics creates the tool call instruments on the given meter.
func NewOtelCustomMetrics(meter metric.Meter) (CustomMetrics, error) {
	calls, err := meter.Int64Counter(
		"mcp_gcp_tool_calls_total",
		metric.WithDescription("Number of tool calls handled"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool call counter: %w", err)
	}
	duration, err := meter.Float64Histogram(
		"mcp_gcp_tool_call_duration_seconds",
		metric.WithDescription("Latency of tool calls"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool call duration histogram: %w", err)
	}
	return &otelCustomMetrics{toolCalls: calls, toolDuration: duration}, nil
}

func (m *otelCustomMetrics) RecordToolCall(
	ctx context.Context, toolName string, outcome ToolCallOutcome, kind string, elapsed time.Duration,
) {
	attrs := metric.WithAttributes(
		attribute.String("tool_name", toolName),
		attribute.String("outcome", string(outcome)),
		attribute.String("error_kind", kind),
	)
	m.toolCalls.Add(ctx, 1, attrs)
	m.toolDuration.Record(ctx, elapsed.Seconds(), attrs)
}
