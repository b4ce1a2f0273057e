package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultPort    = 8080
	defaultDataDir = "provider-data"
	serviceName    = "geocatalog"
)

type Config struct {
	Environment   string
	Server        ServerConfig
	Data          DataConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
}

type ServerConfig struct {
	Port int
}

// DataConfig points at the directory shared by the catalog and the file provider.
type DataConfig struct {
	Dir string
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ObservabilityConfig struct {
	Enabled           bool
	OTLPEndpoint      string
	OTLPTraceHeaders  map[string]string
	OTLPMetricHeaders map[string]string
	ServiceName       string
	ServiceVer        string
	SamplingRatio     float64
	MetricsConsole    bool
}

func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("geocatalog_env", "")
	v.SetDefault("app_env", "")
	v.SetDefault("go_env", "")
	v.SetDefault("port", defaultPort)
	v.SetDefault("geocatalog_data_dir", defaultDataDir)
	v.SetDefault("geocatalog_log_level", "debug")
	v.SetDefault("geocatalog_log_format", "")
	v.SetDefault("geocatalog_otel_enabled", false)
	v.SetDefault("otel_exporter_otlp_endpoint", "")
	v.SetDefault("otel_exporter_otlp_headers", "")
	v.SetDefault("otel_exporter_otlp_traces_headers", "")
	v.SetDefault("otel_exporter_otlp_metrics_headers", "")
	v.SetDefault("otel_service_name", serviceName)
	v.SetDefault("geocatalog_version", "dev")
	v.SetDefault("otel_service_version", "")
	v.SetDefault("geocatalog_otel_sampling_ratio", 1.0)
	v.SetDefault("geocatalog_otel_metrics_console", false)

	port, err := parsePort(v.GetString("port"))
	if err != nil {
		return Config{}, err
	}

	level := strings.ToLower(strings.TrimSpace(v.GetString("geocatalog_log_level")))
	if _, err := parseLevel(level); err != nil {
		return Config{}, err
	}

	samplingRatio := v.GetFloat64("geocatalog_otel_sampling_ratio")
	if samplingRatio < 0 {
		samplingRatio = 0
	}
	if samplingRatio > 1 {
		samplingRatio = 1
	}

	name := strings.TrimSpace(v.GetString("otel_service_name"))
	if name == "" {
		name = serviceName
	}

	version := strings.TrimSpace(v.GetString("geocatalog_version"))
	if version == "" {
		version = strings.TrimSpace(v.GetString("otel_service_version"))
	}
	if version == "" {
		version = "dev"
	}

	otlpEndpoint := strings.TrimSpace(v.GetString("otel_exporter_otlp_endpoint"))
	commonHeaders := parseOTLPHeaders(v.GetString("otel_exporter_otlp_headers"))
	metricsConsole := v.GetBool("geocatalog_otel_metrics_console")

	cfg := Config{
		Environment: resolveEnvironment(v),
		Server:      ServerConfig{Port: port},
		Data:        DataConfig{Dir: strings.TrimSpace(v.GetString("geocatalog_data_dir"))},
		Logging: LoggingConfig{
			Level:  level,
			Format: strings.ToLower(strings.TrimSpace(v.GetString("geocatalog_log_format"))),
		},
		Observability: ObservabilityConfig{
			Enabled:           v.GetBool("geocatalog_otel_enabled") || otlpEndpoint != "" || metricsConsole,
			OTLPEndpoint:      otlpEndpoint,
			OTLPTraceHeaders:  mergeHeaderMaps(commonHeaders, parseOTLPHeaders(v.GetString("otel_exporter_otlp_traces_headers"))),
			OTLPMetricHeaders: mergeHeaderMaps(commonHeaders, parseOTLPHeaders(v.GetString("otel_exporter_otlp_metrics_headers"))),
			ServiceName:       name,
			ServiceVer:        version,
			SamplingRatio:     samplingRatio,
			MetricsConsole:    metricsConsole,
		},
	}
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = defaultDataDir
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
		if cfg.IsLocalDevelopment() {
			cfg.Logging.Format = "text"
		}
	}
	return cfg, nil
}

// SlogLevel returns the configured log level.
func (c Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.Logging.Level)
	if err != nil {
		return slog.LevelDebug
	}
	return level
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c Config) IsLocalDevelopment() bool {
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "", "local", "dev", "development", "test":
		return true
	default:
		return false
	}
}

func parsePort(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultPort, nil
	}
	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid PORT: %q", raw)
	}
	if port <= 0 || port > 65535 {
		return 0, fmt.Errorf("invalid PORT: %d", port)
	}
	return port, nil
}

func parseLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid GEOCATALOG_LOG_LEVEL: %q", raw)
	}
}

func parseOTLPHeaders(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	out := make(map[string]string)
	for _, part := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func mergeHeaderMaps(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

func resolveEnvironment(v *viper.Viper) string {
	for _, key := range []string{"geocatalog_env", "app_env", "go_env"} {
		value := strings.TrimSpace(v.GetString(key))
		if value != "" {
			return strings.ToLower(value)
		}
	}
	return ""
}
