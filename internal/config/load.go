package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "CATALOG"

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("version", "dev")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_header_timeout", 5*time.Second)
	v.SetDefault("http.idle_timeout", 2*time.Minute)
	v.SetDefault("http.shutdown_timeout", 15*time.Second)
	v.SetDefault("http.cors_origins", []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	})

	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.dsn", "file:catalog.db?_foreign_keys=on")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("db.slow_threshold", time.Second)

	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.ttl", 30*time.Second)
	v.SetDefault("cache.prefix", "catalog")

	v.SetDefault("events.brokers", []string{})
	v.SetDefault("events.topic", "catalog.visits")

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.endpoint", "")
	v.SetDefault("otel.insecure", false)
	v.SetDefault("otel.sample_ratio", 0.1)
	v.SetDefault("otel.service_name", "catalog-backend")

	v.SetDefault("collection.default_page_size", 20)
	v.SetDefault("collection.max_page_size", 200)
}

// Load reads configuration from defaults, an optional YAML file and
// CATALOG_* environment variables, in increasing precedence.
// An empty path searches ./catalog.yaml and ./config/catalog.yaml; a missing
// file there is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if p := strings.TrimSpace(path); p != "" {
		v.SetConfigFile(p)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", p, err)
		}
	} else {
		v.SetConfigName("catalog")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	normalize(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalize(cfg *Config) {
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	cfg.DB.Driver = strings.ToLower(strings.TrimSpace(cfg.DB.Driver))
	if cfg.DB.Driver == "postgresql" || cfg.DB.Driver == "pg" {
		cfg.DB.Driver = DriverPostgres
	}
	cfg.Cache.RedisAddr = strings.TrimSpace(cfg.Cache.RedisAddr)
	brokers := cfg.Events.Brokers[:0]
	for _, b := range cfg.Events.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	cfg.Events.Brokers = brokers
}
