// Package instrumentation provides OpenTelemetry instrumentation for yotei.
//
// Instrumentation is disabled by default. When enabled it records:
//
// Google API Metrics:
//   - google_api_operations_total: Counter of Google API operations by service, operation, status
//   - google_api_operation_duration_seconds: Histogram of Google API operation durations
//
// OAuth Metrics:
//   - oauth_auth_total: Counter of consent flows by result
//   - oauth_token_refresh_total: Counter of token refresh attempts by result
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// Spans are created for MCP tool invocations (tool.<name>) and Google API
// calls (google.<service>.<operation>).
//
// A command runs for a few seconds, so the prometheus exporter is backed by
// a private registry that is pushed to a Pushgateway on Shutdown when
// PUSHGATEWAY_URL is set.
//
// # Configuration
//
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: false)
//   - METRICS_EXPORTER: prometheus, otlp, stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 1.0)
//   - PUSHGATEWAY_URL, PUSHGATEWAY_JOB: Pushgateway target and job label
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordGoogleAPIOperation(ctx, "calendar", "events.list", "success", time.Since(start))
package instrumentation
