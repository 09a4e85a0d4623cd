package instrumentation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNewProvider_Disabled(t *testing.T) {
	config := Config{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Enabled:        false,
	}

	provider, err := NewProvider(context.Background(), config)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if provider.Enabled() {
		t.Error("expected provider to be disabled")
	}

	if provider.Metrics() == nil {
		t.Error("expected metrics to be non-nil even when disabled")
	}

	if provider.Gatherer() != nil {
		t.Error("expected no gatherer when disabled")
	}

	if err := provider.Push(context.Background()); err != nil {
		t.Errorf("expected push to be a no-op, got %v", err)
	}

	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("expected no error on shutdown, got %v", err)
	}
}

func TestNewProvider_PrometheusExporter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	if !provider.Enabled() {
		t.Error("expected provider to be enabled")
	}

	provider.Metrics().RecordGoogleAPIOperation(ctx, ServiceCalendar, OperationEventsList, StatusSuccess, time.Millisecond)

	families, err := provider.Gatherer().Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	found := false
	for _, mf := range families {
		if strings.HasPrefix(mf.GetName(), "google_api_operations") {
			found = true
		}
	}
	if !found {
		t.Error("expected google_api_operations metric in registry")
	}
}

func TestNewProvider_StdoutExporter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: "stdout",
		TracingExporter: "stdout",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	if provider.Gatherer() != nil {
		t.Error("expected Gatherer to be nil for stdout exporter")
	}
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{
			name:   "invalid metrics exporter",
			config: Config{Enabled: true, MetricsExporter: "invalid", TracingExporter: "none"},
		},
		{
			name:   "invalid tracing exporter",
			config: Config{Enabled: true, MetricsExporter: "prometheus", TracingExporter: "invalid"},
		},
		{
			name:   "otlp tracing without endpoint",
			config: Config{Enabled: true, MetricsExporter: "prometheus", TracingExporter: "otlp"},
		},
		{
			name: "pushgateway without prometheus",
			config: Config{
				Enabled:         true,
				MetricsExporter: "stdout",
				TracingExporter: "none",
				PushgatewayURL:  "http://localhost:9091",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			tt.config.ServiceName = "test-service"
			if _, err := NewProvider(ctx, tt.config); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestProvider_ShutdownPushesToGateway(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.Method+" "+r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
		PushgatewayURL:  srv.URL,
		PushJob:         "yotei-test",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	provider.Metrics().RecordOAuthTokenRefresh(ctx, OAuthResultSuccess)

	if err := provider.Shutdown(ctx); err != nil {
		t.Fatalf("expected no error on shutdown, got %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(paths) != 1 {
		t.Fatalf("expected exactly one push, got %v", paths)
	}
	if paths[0] != "PUT /metrics/job/yotei-test" {
		t.Errorf("unexpected push request %q", paths[0])
	}
}

func TestProvider_PushFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
		PushgatewayURL:  srv.URL,
		PushJob:         "yotei",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	if err := provider.Push(ctx); err == nil {
		t.Error("expected push error")
	}
}
