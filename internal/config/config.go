// Package config loads runtime settings in three layers: built-in defaults,
// an optional YAML file, then CALC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "CALC_"

// ConfigPathEnvVar names a YAML file to load when --config is not given.
const ConfigPathEnvVar = "CALC_CONFIG"

type Config struct {
	Service   ServiceConfig   `koanf:"service"`
	Web       WebConfig       `koanf:"web"`
	Breaker   BreakerConfig   `koanf:"breaker"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// ServiceConfig configures the arithmetic service.
type ServiceConfig struct {
	Addr              string        `koanf:"addr"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// WebConfig configures the web keypad and its calls to the service.
type WebConfig struct {
	Addr            string        `koanf:"addr"`
	ServiceURL      string        `koanf:"service_url"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// BreakerConfig configures the circuit breaker in front of the service.
type BreakerConfig struct {
	ConsecutiveFailures uint32        `koanf:"consecutive_failures"`
	OpenTimeout         time.Duration `koanf:"open_timeout"`
	Interval            time.Duration `koanf:"interval"`
}

// TelemetryConfig switches the OTLP exporters and the log format.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	ServiceName string `koanf:"service_name"`
	Development bool   `koanf:"development"`
}

func defaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Addr:              ":8000",
			ShutdownTimeout:   5 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Web: WebConfig{
			Addr:            ":7860",
			ServiceURL:      "http://127.0.0.1:8000",
			RequestTimeout:  5 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Breaker: BreakerConfig{
			ConsecutiveFailures: 5,
			OpenTimeout:         30 * time.Second,
			Interval:            time.Minute,
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			ServiceName: "calculator",
			Development: false,
		},
	}
}

// Load builds the configuration. path may be empty; CALC_CONFIG is then
// consulted, and no file is read when both are empty.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv(ConfigPathEnvVar)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

var envKeys = map[string]string{
	"calc_service_addr":                 "service.addr",
	"calc_service_shutdown_timeout":     "service.shutdown_timeout",
	"calc_service_cors_origins":         "service.cors_origins",
	"calc_service_rate_limit_requests":  "service.rate_limit_requests",
	"calc_service_rate_limit_window":    "service.rate_limit_window",
	"calc_service_rate_limit_disabled":  "service.rate_limit_disabled",
	"calc_web_addr":                     "web.addr",
	"calc_web_service_url":              "web.service_url",
	"calc_web_request_timeout":          "web.request_timeout",
	"calc_web_shutdown_timeout":         "web.shutdown_timeout",
	"calc_breaker_consecutive_failures": "breaker.consecutive_failures",
	"calc_breaker_open_timeout":         "breaker.open_timeout",
	"calc_breaker_interval":             "breaker.interval",
	"calc_telemetry_enabled":            "telemetry.enabled",
	"calc_telemetry_service_name":       "telemetry.service_name",
	"calc_telemetry_development":        "telemetry.development",
}

// envTransform maps CALC_WEB_SERVICE_URL to web.service_url. Unknown
// variables (including CALC_CONFIG) are skipped.
func envTransform(key, value string) (string, any) {
	path, ok := envKeys[strings.ToLower(key)]
	if !ok {
		return "", nil
	}
	if path == "service.cors_origins" {
		var origins []string
		for _, o := range strings.Split(value, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		return path, origins
	}
	return path, value
}

// Validate reports every unusable setting.
func (c *Config) Validate() error {
	var errs []error

	if c.Service.Addr == "" {
		errs = append(errs, errors.New("service.addr is required"))
	}
	if c.Web.Addr == "" {
		errs = append(errs, errors.New("web.addr is required"))
	}
	if u, err := url.Parse(c.Web.ServiceURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("web.service_url %q is not an absolute URL", c.Web.ServiceURL))
	}
	if c.Web.RequestTimeout <= 0 {
		errs = append(errs, errors.New("web.request_timeout must be positive"))
	}
	if !c.Service.RateLimitDisabled && (c.Service.RateLimitRequests <= 0 || c.Service.RateLimitWindow <= 0) {
		errs = append(errs, errors.New("service rate limit needs positive requests and window"))
	}
	if c.Telemetry.ServiceName == "" {
		errs = append(errs, errors.New("telemetry.service_name is required"))
	}

	return errors.Join(errs...)
}
