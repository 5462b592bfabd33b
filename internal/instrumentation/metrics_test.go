package instrumentation

import (
	"context"
	"testing"
	"time"
)

func newTestProvider(t *testing.T, ctx context.Context) *Provider {
	t.Helper()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })

	return provider
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx).Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil")
	}

	// Should not panic
	metrics.RecordHTTPRequest(ctx, "GET", "/emails", 200, 100*time.Millisecond)
	metrics.RecordHTTPRequest(ctx, "GET", "/inbox/summary", 401, 50*time.Millisecond)
}

func TestMetrics_RecordGmailFetch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx).Metrics()

	// Should not panic
	metrics.RecordGmailFetch(ctx, StatusSuccess, 200*time.Millisecond)
	metrics.RecordGmailFetch(ctx, StatusError, 500*time.Millisecond)
}

func TestMetrics_RecordClassification(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx).Metrics()

	// Should not panic
	metrics.RecordClassification(ctx, "Acme Co", 3)
	metrics.RecordClassification(ctx, "Unassigned", 12)
}

func TestMetrics_RecordOAuthAuth(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx).Metrics()

	// Should not panic
	metrics.RecordOAuthAuth(ctx, OAuthResultSuccess)
	metrics.RecordOAuthAuth(ctx, OAuthResultFailure)
}

func TestMetrics_RecordToolInvocation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx).Metrics()

	// Should not panic
	metrics.RecordToolInvocation(ctx, "inbox_summary", StatusSuccess, 150*time.Millisecond)
	metrics.RecordToolInvocation(ctx, "inbox_list_emails", StatusError, 50*time.Millisecond)
}

func TestMetrics_ZeroValueIsNoop(t *testing.T) {
	ctx := context.Background()

	var m Metrics

	// A zero-value recorder must be safe to call.
	m.RecordHTTPRequest(ctx, "GET", "/", 200, time.Millisecond)
	m.RecordGmailFetch(ctx, StatusSuccess, time.Millisecond)
	m.RecordClassification(ctx, "Unassigned", 1)
	m.RecordOAuthAuth(ctx, OAuthResultSuccess)
	m.RecordToolInvocation(ctx, "inbox_summary", StatusSuccess, time.Millisecond)
}
