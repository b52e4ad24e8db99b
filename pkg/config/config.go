package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/dwikikusuma/storefront/pkg/postgres"
)

const (
	ConfigPathEnvVar = "CONFIG_PATH"

	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

var DefaultConfigPaths = []string{"config.yaml", "/etc/storefront/config.yaml"}

type Config struct {
	AppEnv    string `koanf:"app_env"`
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	GRPCPort int `koanf:"grpc_port"`
	HTTPPort int `koanf:"http_port"`

	Store    StoreConfig     `koanf:"store"`
	Postgres postgres.Config `koanf:"postgres"`
	NATS     NATSConfig      `koanf:"nats"`
	HTTP     HTTPConfig      `koanf:"http"`
	Checkout CheckoutConfig  `koanf:"checkout"`
}

type StoreConfig struct {
	Driver string `koanf:"driver"`
	Seed   bool   `koanf:"seed"`
}

// NATSConfig enables the relay when URL is set.
type NATSConfig struct {
	URL           string `koanf:"url"`
	SubjectPrefix string `koanf:"subject_prefix"`
}

type HTTPConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

type CheckoutConfig struct {
	MaxConcurrent int `koanf:"max_concurrent"`
}

func defaults() Config {
	return Config{
		AppEnv:    "dev",
		LogLevel:  "info",
		LogFormat: "json",
		HTTPPort:  8080,
		GRPCPort:  8081,
		Store: StoreConfig{
			Driver: DriverMemory,
			Seed:   true,
		},
		Postgres: postgres.Config{
			Host:            "localhost",
			Port:            5432,
			User:            "storefront",
			Pass:            "storefront",
			DB:              "storefront",
			SSLMode:         "disable",
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		NATS: NATSConfig{SubjectPrefix: "storefront"},
		HTTP: HTTPConfig{
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			ShutdownTimeout:   10 * time.Second,
		},
		Checkout: CheckoutConfig{MaxConcurrent: 10},
	}
}

// Load layers defaults, an optional YAML file and the environment, in
// that order of precedence.
func Load() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitList(k, "http.cors_origins"); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case DriverMemory, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("store.driver: unknown driver %q", c.Store.Driver))
	}
	if !validPort(c.HTTPPort) {
		errs = append(errs, fmt.Errorf("http_port: %d out of range", c.HTTPPort))
	}
	if !validPort(c.GRPCPort) {
		errs = append(errs, fmt.Errorf("grpc_port: %d out of range", c.GRPCPort))
	}
	if c.HTTPPort == c.GRPCPort {
		errs = append(errs, fmt.Errorf("http_port and grpc_port must differ (both %d)", c.HTTPPort))
	}
	if c.Store.Driver == DriverPostgres && !validPort(c.Postgres.Port) {
		errs = append(errs, fmt.Errorf("postgres.port: %d out of range", c.Postgres.Port))
	}
	if c.HTTP.RateLimitRequests > 0 && c.HTTP.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("http.rate_limit_window must be positive when rate limiting is on"))
	}

	return errors.Join(errs...)
}

func validPort(p int) bool { return p > 0 && p < 65536 }

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var envMappings = map[string]string{
	"app_env":             "app_env",
	"log_level":           "log_level",
	"log_format":          "log_format",
	"http_port":           "http_port",
	"grpc_port":           "grpc_port",
	"store_driver":        "store.driver",
	"seed_data":           "store.seed",
	"postgres_host":       "postgres.host",
	"postgres_port":       "postgres.port",
	"postgres_user":       "postgres.user",
	"postgres_password":   "postgres.password",
	"postgres_db":         "postgres.db",
	"postgres_sslmode":    "postgres.sslmode",
	"postgres_max_conns":  "postgres.max_open_conns",
	"nats_url":            "nats.url",
	"nats_subject_prefix": "nats.subject_prefix",
	"cors_origins":        "http.cors_origins",
	"rate_limit_requests": "http.rate_limit_requests",
	"rate_limit_window":   "http.rate_limit_window",
	"shutdown_timeout":    "http.shutdown_timeout",
	"checkout_workers":    "checkout.max_concurrent",
}

// envTransform maps known variables to config paths. Anything else is
// dropped.
func envTransform(key string) string {
	return envMappings[strings.ToLower(key)]
}

// splitList turns a comma separated value from the environment into a
// slice. Values from YAML are already slices.
func splitList(k *koanf.Koanf, path string) error {
	raw, ok := k.Get(path).(string)
	if !ok {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if err := k.Set(path, out); err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}
