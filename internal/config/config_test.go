package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/signalsfoundry/geo-distance/internal/distance"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, ":50051", cfg.GRPCAddr)
	assert.Equal(t, distance.PolicyStrict, cfg.MethodPolicy)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "slog", cfg.Log.Backend)
	assert.Equal(t, 100, cfg.Log.MaxSizeMB)
	assert.False(t, cfg.Log.Compress)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, "geo-distance", cfg.Tracing.ServiceName)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRatio)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("GEO_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("GEO_METHOD_POLICY", "Lenient")
	t.Setenv("GEO_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("GEO_LOG_BACKEND", "zap")
	t.Setenv("GEO_LOG_COMPRESS", "true")
	t.Setenv("GEO_TRACING_ENABLED", "true")
	t.Setenv("GEO_TRACING_EXPORTER", "OTLP")
	t.Setenv("GEO_TRACING_SAMPLE_RATIO", "0.25")

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
	assert.Equal(t, distance.PolicyLenient, cfg.MethodPolicy)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "zap", cfg.Log.Backend)
	assert.True(t, cfg.Log.Compress)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "otlp", cfg.Tracing.Exporter)
	assert.Equal(t, 0.25, cfg.Tracing.SampleRatio)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("GEO_GRPC_ADDR", ":6000")
	t.Setenv("GEO_LOG_LEVEL", "warn")

	v := New()
	fs := pflag.NewFlagSet("geo-server", pflag.ContinueOnError)
	require.NoError(t, RegisterFlags(v, fs))
	require.NoError(t, fs.Parse([]string{"--grpc-addr", ":7000", "--method-policy", "lenient", "--log-compress"}))

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.GRPCAddr)
	assert.Equal(t, distance.PolicyLenient, cfg.MethodPolicy)
	assert.Equal(t, "warn", cfg.Log.Level, "unset flag must not shadow the environment")
	assert.True(t, cfg.Log.Compress)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"policy", map[string]string{"GEO_METHOD_POLICY": "permissive"}},
		{"log backend", map[string]string{"GEO_LOG_BACKEND": "logrus"}},
		{"exporter", map[string]string{"GEO_TRACING_ENABLED": "true", "GEO_TRACING_EXPORTER": "jaeger"}},
		{"sample ratio", map[string]string{"GEO_TRACING_ENABLED": "true", "GEO_TRACING_SAMPLE_RATIO": "2"}},
		{"shutdown timeout", map[string]string{"GEO_SHUTDOWN_TIMEOUT": "0s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(New())
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("GEO_HTTP_ADDR=:8181\nGEO_LOG_FORMAT=json\n"), 0o600))

	// Pre-set variables keep their value.
	t.Setenv("GEO_LOG_FORMAT", "text")
	// Registers cleanup so the loaded value does not leak into other tests.
	t.Setenv("GEO_HTTP_ADDR", "")
	require.NoError(t, os.Unsetenv("GEO_HTTP_ADDR"))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), path))

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, ":8181", cfg.HTTPAddr)
	assert.Equal(t, "text", cfg.Log.Format)
}
