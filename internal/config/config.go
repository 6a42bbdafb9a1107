// Package config defines the service configuration: a JSON file (optional)
// overlaid by PIPELINE_* environment variables. Secrets referenced by data
// source headers are loaded here once, at startup, and never re-read.
//
// Example file:
//
//	{
//	  "addr": ":8080",
//	  "db": { "driver": "sqlite3", "dsn": "pipeline.db" },
//	  "jwtSecret": "change-me",
//	  "httpTimeout": "30s",
//	  "cacheTTL": "5m",
//	  "metrics": { "backend": "prometheus" },
//	  "uploadDir": "uploads",
//	  "secrets": { "API_KEY": "..." }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"dashboard-pipeline/pkg/utils"
)

// Supported database drivers.
const (
	DriverSQLite3  = "sqlite3" // github.com/mattn/go-sqlite3 (cgo)
	DriverSQLite   = "sqlite"  // modernc.org/sqlite (pure Go)
	DriverPostgres = "pgx"     // github.com/jackc/pgx/v5/stdlib
	DriverMySQL    = "mysql"   // github.com/go-sql-driver/mysql
)

// Supported metrics backends.
const (
	MetricsNone       = "none"
	MetricsPrometheus = "prometheus"
	MetricsDatadog    = "datadog"
)

// SecretEnvPrefix marks environment variables that define secrets:
// PIPELINE_SECRET_API_KEY=... defines secret API_KEY.
const SecretEnvPrefix = "PIPELINE_SECRET_"

// DB selects the persistent store.
type DB struct {
	Driver string `json:"driver"`
	DSN    string `json:"dsn"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	Backend    string   `json:"backend"`
	StatsdAddr string   `json:"statsdAddr"`
	Namespace  string   `json:"namespace"`
	Tags       []string `json:"tags"`
}

// Config is the full service configuration.
type Config struct {
	Addr        string            `json:"addr"`
	DB          DB                `json:"db"`
	JWTSecret   string            `json:"jwtSecret"`
	HTTPTimeout string            `json:"httpTimeout"`
	CacheTTL    string            `json:"cacheTTL"`
	Metrics     Metrics           `json:"metrics"`
	UploadDir   string            `json:"uploadDir"`
	Secrets     map[string]string `json:"secrets"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Addr:        ":8080",
		DB:          DB{Driver: DriverSQLite3, DSN: "pipeline.db"},
		HTTPTimeout: "30s",
		CacheTTL:    "5m",
		Metrics:     Metrics{Backend: MetricsPrometheus, Namespace: "dashboard."},
		UploadDir:   "uploads",
		Secrets:     map[string]string{},
	}
}

// Load reads path (if non-empty), applies environment overrides from environ
// (KEY=VALUE pairs, as returned by os.Environ) and validates the result.
func Load(path string, environ []string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, &ConfigError{Field: path, Message: "invalid JSON: " + err.Error()}
		}
		if cfg.Secrets == nil {
			cfg.Secrets = map[string]string{}
		}
	}

	applyEnv(&cfg, environ)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, environ []string) {
	for _, kv := range environ {
		key, val, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		switch key {
		case "PIPELINE_ADDR":
			cfg.Addr = val
		case "PIPELINE_DB_DRIVER":
			cfg.DB.Driver = val
		case "PIPELINE_DB_DSN":
			cfg.DB.DSN = val
		case "PIPELINE_JWT_SECRET":
			cfg.JWTSecret = val
		case "PIPELINE_HTTP_TIMEOUT":
			cfg.HTTPTimeout = val
		case "PIPELINE_CACHE_TTL":
			cfg.CacheTTL = val
		case "PIPELINE_METRICS":
			cfg.Metrics.Backend = val
		case "PIPELINE_STATSD_ADDR":
			cfg.Metrics.StatsdAddr = val
		case "PIPELINE_UPLOAD_DIR":
			cfg.UploadDir = val
		default:
			if name, ok := strings.CutPrefix(key, SecretEnvPrefix); ok && name != "" {
				cfg.Secrets[name] = val
			}
		}
	}
}

// Validate checks the fields the service cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return &ConfigError{Field: "jwtSecret", Message: "must be set (PIPELINE_JWT_SECRET)"}
	}
	switch c.DB.Driver {
	case DriverSQLite3, DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		return &ConfigError{Field: "db.driver", Message: fmt.Sprintf("unsupported driver %q", c.DB.Driver)}
	}
	if strings.TrimSpace(c.DB.DSN) == "" {
		return &ConfigError{Field: "db.dsn", Message: "must not be empty"}
	}
	switch c.Metrics.Backend {
	case "", MetricsNone, MetricsPrometheus:
	case MetricsDatadog:
		if c.Metrics.StatsdAddr == "" {
			return &ConfigError{Field: "metrics.statsdAddr", Message: "required for the datadog backend"}
		}
	default:
		return &ConfigError{Field: "metrics.backend", Message: fmt.Sprintf("unsupported backend %q", c.Metrics.Backend)}
	}
	return nil
}

// Timeout is the outbound HTTP timeout for source fetches.
func (c Config) Timeout() time.Duration {
	return utils.ParseDuration(c.HTTPTimeout, 30*time.Second)
}

// TTL is how long fetched datasets stay cached. Zero disables the cache.
func (c Config) TTL() time.Duration {
	return utils.ParseDuration(c.CacheTTL, 5*time.Minute)
}

// SecretSet returns the secrets loaded with this configuration.
func (c Config) SecretSet() Secrets {
	return NewSecrets(c.Secrets)
}
