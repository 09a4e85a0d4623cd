package instrumentation

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("INSTRUMENTATION_ENABLED", "")
	t.Setenv("METRICS_EXPORTER", "")
	t.Setenv("TRACING_EXPORTER", "")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "")
	t.Setenv("PUSHGATEWAY_URL", "")
	t.Setenv("PUSHGATEWAY_JOB", "")

	config := DefaultConfig()

	if config.ServiceName != "yotei" {
		t.Errorf("expected ServiceName 'yotei', got %q", config.ServiceName)
	}

	if config.Enabled {
		t.Error("expected Enabled to be false by default")
	}

	if config.MetricsExporter != ExporterPrometheus {
		t.Errorf("expected MetricsExporter 'prometheus', got %q", config.MetricsExporter)
	}

	if config.TracingExporter != ExporterNone {
		t.Errorf("expected TracingExporter 'none', got %q", config.TracingExporter)
	}

	if config.TraceSamplingRate != 1.0 {
		t.Errorf("expected TraceSamplingRate 1.0, got %f", config.TraceSamplingRate)
	}

	if config.PushgatewayURL != "" {
		t.Errorf("expected no PushgatewayURL, got %q", config.PushgatewayURL)
	}

	if config.PushJob != "yotei" {
		t.Errorf("expected PushJob 'yotei', got %q", config.PushJob)
	}
}

func TestDefaultConfig_FromEnv(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "test-service")
	t.Setenv("INSTRUMENTATION_ENABLED", "true")
	t.Setenv("METRICS_EXPORTER", "stdout")
	t.Setenv("TRACING_EXPORTER", "stdout")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.5")
	t.Setenv("PUSHGATEWAY_URL", "http://pushgateway:9091")
	t.Setenv("PUSHGATEWAY_JOB", "morning")

	config := DefaultConfig()

	if config.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %q", config.ServiceName)
	}
	if !config.Enabled {
		t.Error("expected Enabled to be true")
	}
	if config.MetricsExporter != "stdout" {
		t.Errorf("expected MetricsExporter 'stdout', got %q", config.MetricsExporter)
	}
	if config.TracingExporter != "stdout" {
		t.Errorf("expected TracingExporter 'stdout', got %q", config.TracingExporter)
	}
	if config.TraceSamplingRate != 0.5 {
		t.Errorf("expected TraceSamplingRate 0.5, got %f", config.TraceSamplingRate)
	}
	if config.PushgatewayURL != "http://pushgateway:9091" {
		t.Errorf("unexpected PushgatewayURL %q", config.PushgatewayURL)
	}
	if config.PushJob != "morning" {
		t.Errorf("unexpected PushJob %q", config.PushJob)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
	}{
		{
			name: "valid prometheus config",
			config: Config{
				MetricsExporter:   ExporterPrometheus,
				TracingExporter:   ExporterNone,
				TraceSamplingRate: 0.1,
			},
		},
		{
			name: "valid prometheus with pushgateway",
			config: Config{
				MetricsExporter:   ExporterPrometheus,
				TracingExporter:   ExporterNone,
				TraceSamplingRate: 1,
				PushgatewayURL:    "http://localhost:9091",
			},
		},
		{
			name: "valid otlp config",
			config: Config{
				MetricsExporter:   ExporterOTLP,
				TracingExporter:   ExporterOTLP,
				OTLPEndpoint:      "localhost:4318",
				TraceSamplingRate: 0.5,
			},
		},
		{
			name: "sampling rate too high",
			config: Config{
				MetricsExporter:   ExporterPrometheus,
				TraceSamplingRate: 1.5,
			},
			expectError: true,
		},
		{
			name: "sampling rate negative",
			config: Config{
				MetricsExporter:   ExporterPrometheus,
				TraceSamplingRate: -0.1,
			},
			expectError: true,
		},
		{
			name: "invalid metrics exporter",
			config: Config{
				MetricsExporter: "graphite",
			},
			expectError: true,
		},
		{
			name: "invalid tracing exporter",
			config: Config{
				TracingExporter: "zipkin",
			},
			expectError: true,
		},
		{
			name: "otlp metrics without endpoint",
			config: Config{
				MetricsExporter: ExporterOTLP,
			},
			expectError: true,
		},
		{
			name: "pushgateway with otlp metrics",
			config: Config{
				MetricsExporter: ExporterOTLP,
				OTLPEndpoint:    "localhost:4318",
				PushgatewayURL:  "http://localhost:9091",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestGetEnvBoolOrDefault(t *testing.T) {
	tests := []struct {
		value    string
		def      bool
		expected bool
	}{
		{"", true, true},
		{"", false, false},
		{"true", false, true},
		{"0", true, false},
		{"not-a-bool", true, true},
	}

	for _, tt := range tests {
		t.Setenv("YOTEI_TEST_BOOL", tt.value)
		if got := getEnvBoolOrDefault("YOTEI_TEST_BOOL", tt.def); got != tt.expected {
			t.Errorf("getEnvBoolOrDefault(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.expected)
		}
	}
}

func TestGetEnvFloatOrDefault(t *testing.T) {
	t.Setenv("YOTEI_TEST_FLOAT", "0.25")
	if got := getEnvFloatOrDefault("YOTEI_TEST_FLOAT", 1); got != 0.25 {
		t.Errorf("expected 0.25, got %f", got)
	}

	t.Setenv("YOTEI_TEST_FLOAT", "abc")
	if got := getEnvFloatOrDefault("YOTEI_TEST_FLOAT", 1); got != 1 {
		t.Errorf("expected default 1, got %f", got)
	}
}
