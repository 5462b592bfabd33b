// Package instrumentation provides OpenTelemetry instrumentation for
// the gmail-dashboard backend.
//
// # Metrics
//
// HTTP surface:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Gmail fetching:
//   - gmail_fetch_total: Counter of inbox fetch batches by status
//   - gmail_fetch_duration_seconds: Histogram of fetch batch durations
//
// Classification:
//   - classified_messages_total: Counter of classified messages by bucket
//
// OAuth:
//   - oauth_auth_total: Counter of authorization attempts by result
//
// MCP tools:
//   - mcp_tool_invocations_total: Counter of tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of tool execution durations
//
// # Configuration
//
// Instrumentation is configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: prometheus, otlp, or stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout, or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: gmail-dashboard)
package instrumentation
