// Package config loads geo-server settings from defaults, an optional .env
// file, GEO_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/signalsfoundry/geo-distance/internal/distance"
	"github.com/signalsfoundry/geo-distance/internal/logging"
	"github.com/signalsfoundry/geo-distance/internal/observability"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment variable, e.g. GEO_HTTP_ADDR.
const EnvPrefix = "GEO"

// Keys understood by Load. Environment variables are the upper-cased key with
// dots replaced by underscores and EnvPrefix prepended.
const (
	KeyHTTPAddr           = "http.addr"
	KeyGRPCAddr           = "grpc.addr"
	KeyMethodPolicy       = "method_policy"
	KeyShutdownTimeout    = "shutdown_timeout"
	KeyMetricsEnabled     = "metrics.enabled"
	KeyLogLevel           = "log.level"
	KeyLogFormat          = "log.format"
	KeyLogBackend         = "log.backend"
	KeyLogFile            = "log.file"
	KeyLogMaxSizeMB       = "log.max_size_mb"
	KeyLogMaxBackups      = "log.max_backups"
	KeyLogMaxAgeDays      = "log.max_age_days"
	KeyLogCompress        = "log.compress"
	KeyTracingEnabled     = "tracing.enabled"
	KeyTracingServiceName = "tracing.service_name"
	KeyTracingExporter    = "tracing.exporter"
	KeyTracingEndpoint    = "tracing.endpoint"
	KeyTracingSampleRatio = "tracing.sample_ratio"
)

// Config is the fully resolved server configuration.
type Config struct {
	HTTPAddr        string
	GRPCAddr        string
	MethodPolicy    distance.MethodPolicy
	ShutdownTimeout time.Duration
	MetricsEnabled  bool

	Log     logging.Config
	Tracing observability.TracingConfig
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyHTTPAddr, ":8080")
	v.SetDefault(KeyGRPCAddr, ":50051")
	v.SetDefault(KeyMethodPolicy, string(distance.PolicyStrict))
	v.SetDefault(KeyShutdownTimeout, 10*time.Second)
	v.SetDefault(KeyMetricsEnabled, true)

	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyLogBackend, "slog")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogMaxSizeMB, 100)
	v.SetDefault(KeyLogMaxBackups, 3)
	v.SetDefault(KeyLogMaxAgeDays, 28)
	v.SetDefault(KeyLogCompress, false)

	v.SetDefault(KeyTracingEnabled, false)
	v.SetDefault(KeyTracingServiceName, "geo-distance")
	v.SetDefault(KeyTracingExporter, "stdout")
	v.SetDefault(KeyTracingEndpoint, "localhost:4317")
	v.SetDefault(KeyTracingSampleRatio, 1.0)
	return v
}

// RegisterFlags declares the server flags on fs and binds each to its key so
// an explicitly set flag wins over the environment.
func RegisterFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	fs.String("http-addr", v.GetString(KeyHTTPAddr), "HTTP listen address for the REST API and /metrics")
	fs.String("grpc-addr", v.GetString(KeyGRPCAddr), "gRPC listen address")
	fs.String("method-policy", v.GetString(KeyMethodPolicy), "handling of unknown methods: strict or lenient")
	fs.Duration("shutdown-timeout", v.GetDuration(KeyShutdownTimeout), "grace period for in-flight requests on shutdown")
	fs.Bool("metrics", v.GetBool(KeyMetricsEnabled), "serve Prometheus metrics on /metrics")
	fs.String("log-level", v.GetString(KeyLogLevel), "log level: debug, info, warn or error")
	fs.String("log-format", v.GetString(KeyLogFormat), "log format: text or json")
	fs.String("log-backend", v.GetString(KeyLogBackend), "log backend: slog, zap or zerolog")
	fs.String("log-file", v.GetString(KeyLogFile), "rotate logs into this file instead of stdout")
	fs.Bool("log-compress", v.GetBool(KeyLogCompress), "gzip rotated log files")
	fs.Bool("tracing", v.GetBool(KeyTracingEnabled), "enable OpenTelemetry tracing")
	fs.String("tracing-exporter", v.GetString(KeyTracingExporter), "trace exporter: stdout or otlp")
	fs.String("tracing-endpoint", v.GetString(KeyTracingEndpoint), "OTLP gRPC endpoint")

	bindings := map[string]string{
		KeyHTTPAddr:        "http-addr",
		KeyGRPCAddr:        "grpc-addr",
		KeyMethodPolicy:    "method-policy",
		KeyShutdownTimeout: "shutdown-timeout",
		KeyMetricsEnabled:  "metrics",
		KeyLogLevel:        "log-level",
		KeyLogFormat:       "log-format",
		KeyLogBackend:      "log-backend",
		KeyLogFile:         "log-file",
		KeyLogCompress:     "log-compress",
		KeyTracingEnabled:  "tracing",
		KeyTracingExporter: "tracing-exporter",
		KeyTracingEndpoint: "tracing-endpoint",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load resolves and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	policy, err := distance.ParsePolicy(v.GetString(KeyMethodPolicy))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTTPAddr:        v.GetString(KeyHTTPAddr),
		GRPCAddr:        v.GetString(KeyGRPCAddr),
		MethodPolicy:    policy,
		ShutdownTimeout: v.GetDuration(KeyShutdownTimeout),
		MetricsEnabled:  v.GetBool(KeyMetricsEnabled),
		Log: logging.Config{
			Level:      v.GetString(KeyLogLevel),
			Format:     v.GetString(KeyLogFormat),
			Backend:    v.GetString(KeyLogBackend),
			File:       v.GetString(KeyLogFile),
			MaxSizeMB:  v.GetInt(KeyLogMaxSizeMB),
			MaxBackups: v.GetInt(KeyLogMaxBackups),
			MaxAgeDays: v.GetInt(KeyLogMaxAgeDays),
			Compress:   v.GetBool(KeyLogCompress),
		},
		Tracing: observability.TracingConfig{
			Enabled:     v.GetBool(KeyTracingEnabled),
			ServiceName: v.GetString(KeyTracingServiceName),
			Exporter:    strings.ToLower(v.GetString(KeyTracingExporter)),
			Endpoint:    v.GetString(KeyTracingEndpoint),
			SampleRatio: v.GetFloat64(KeyTracingSampleRatio),
		},
	}

	if cfg.HTTPAddr == "" && cfg.GRPCAddr == "" {
		return Config{}, errors.New("at least one of http.addr or grpc.addr must be set")
	}
	if cfg.ShutdownTimeout <= 0 {
		return Config{}, fmt.Errorf("shutdown_timeout must be positive, got %s", cfg.ShutdownTimeout)
	}
	switch cfg.Log.Backend {
	case "slog", "zap", "zerolog":
	default:
		return Config{}, fmt.Errorf("unknown log backend %q", cfg.Log.Backend)
	}
	if cfg.Tracing.Enabled {
		switch cfg.Tracing.Exporter {
		case "stdout", "otlp":
		default:
			return Config{}, fmt.Errorf("unknown tracing exporter %q", cfg.Tracing.Exporter)
		}
		if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
			return Config{}, fmt.Errorf("tracing.sample_ratio must be within [0, 1], got %v", cfg.Tracing.SampleRatio)
		}
	}
	return cfg, nil
}
