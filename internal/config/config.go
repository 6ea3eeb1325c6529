package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type HTTPConfig struct {
	Addr              string        `mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins       []string      `mapstructure:"cors_origins"`
}

type DBConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`
}

type CacheConfig struct {
	// RedisAddr enables the collection cache when set.
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
	Prefix    string        `mapstructure:"prefix"`
}

type EventsConfig struct {
	// Brokers enables the change-event publisher when non-empty.
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type OTelConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
	ServiceName string  `mapstructure:"service_name"`
}

type CollectionConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size"`
	MaxPageSize     int `mapstructure:"max_page_size"`
}

type Config struct {
	Env        string           `mapstructure:"env"`
	Version    string           `mapstructure:"version"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	DB         DBConfig         `mapstructure:"db"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Events     EventsConfig     `mapstructure:"events"`
	OTel       OTelConfig       `mapstructure:"otel"`
	Collection CollectionConfig `mapstructure:"collection"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	ErrAddrEmpty       = errors.New("http.addr must not be empty")
	ErrDriverUnknown   = errors.New("unknown db driver")
	ErrDSNEmpty        = errors.New("db.dsn must not be empty")
	ErrPageSizeInvalid = errors.New("collection page sizes must be positive and default <= max")
	ErrTopicEmpty      = errors.New("events.topic must be set when brokers are configured")
	ErrSampleRatio     = errors.New("otel.sample_ratio must be within [0,1]")
)

func (c *Config) Validate() error {
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return ErrAddrEmpty
	}
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrDriverUnknown, c.DB.Driver)
	}
	if strings.TrimSpace(c.DB.DSN) == "" {
		return ErrDSNEmpty
	}
	if c.Collection.DefaultPageSize <= 0 || c.Collection.MaxPageSize <= 0 ||
		c.Collection.DefaultPageSize > c.Collection.MaxPageSize {
		return ErrPageSizeInvalid
	}
	if len(c.Events.Brokers) > 0 && strings.TrimSpace(c.Events.Topic) == "" {
		return ErrTopicEmpty
	}
	if c.OTel.SampleRatio < 0 || c.OTel.SampleRatio > 1 {
		return ErrSampleRatio
	}
	return nil
}

// IsProduction reports whether Env selects production logging and gin release mode.
func (c *Config) IsProduction() bool {
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "prod", "production":
		return true
	default:
		return false
	}
}
